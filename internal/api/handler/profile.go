package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Prateekiiitg56/SmartScribe/internal/api/apierr"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/middleware"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/request"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/response"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/auth"
)

// ProfileHandler handles the profile endpoints
type ProfileHandler struct {
	authService *auth.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(authService *auth.Service) *ProfileHandler {
	return &ProfileHandler{
		authService: authService,
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())
	user, err := h.authService.CurrentUser(r.Context(), sess)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// Update handles PATCH /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	patch := model.UserPatch{
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Email:     req.Email,
	}
	if patch.IsEmpty() {
		apierr.WriteError(w, apierr.NewInvalidRequestError("no fields to update"))
		return
	}

	sess := middleware.MustGetSession(r.Context())
	user, err := h.authService.UpdateProfile(r.Context(), sess, patch)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
