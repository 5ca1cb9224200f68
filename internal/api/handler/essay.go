package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Prateekiiitg56/SmartScribe/internal/api/apierr"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/middleware"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/request"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/response"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/essay"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/session"
)

// EssayHandler handles essay submission, history, and dashboard endpoints
type EssayHandler struct {
	essayService *essay.Service
	sessions     *session.Manager
}

// NewEssayHandler creates a new essay handler
func NewEssayHandler(essayService *essay.Service, sessions *session.Manager) *EssayHandler {
	return &EssayHandler{
		essayService: essayService,
		sessions:     sessions,
	}
}

// userID reads the acting user id under the manager's lock
func (h *EssayHandler) userID(r *http.Request) model.UserID {
	sess := middleware.MustGetSession(r.Context())
	return h.sessions.Snapshot(sess).UserID
}

// Submit handles POST /api/v1/essays
func (h *EssayHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitEssayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.essayService.Submit(r.Context(), h.userID(r), req.Title, req.Content)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.EssayFromModel(result))
}

// List handles GET /api/v1/essays
func (h *EssayHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	essays, err := h.essayService.History(r.Context(), h.userID(r), limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EssayListFromModels(essays))
}

// Get handles GET /api/v1/essays/{id}
func (h *EssayHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid essay id"))
		return
	}

	result, err := h.essayService.Get(r.Context(), h.userID(r), model.EssayID(id))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EssayFromModel(result))
}

// Dashboard handles GET /api/v1/dashboard
func (h *EssayHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.essayService.Dashboard(r.Context(), h.userID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DashboardFromModel(dash))
}
