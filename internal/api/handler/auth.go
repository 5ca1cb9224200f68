// Package handler implements the API endpoint handlers
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Prateekiiitg56/SmartScribe/internal/api/apierr"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/middleware"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/request"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/response"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/auth"
)

// AuthHandler handles registration, login, and session endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	sess := middleware.MustGetSession(r.Context())
	view, err := h.authService.Register(r.Context(), sess,
		req.FullName, req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	setSessionCookie(w, view.Token)
	response.JSON(w, http.StatusCreated, response.SessionFromView(view))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	sess := middleware.MustGetSession(r.Context())
	view, err := h.authService.Login(r.Context(), sess, req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	setSessionCookie(w, view.Token)
	response.JSON(w, http.StatusOK, response.SessionFromView(view))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())
	h.authService.Logout(sess)

	clearSessionCookie(w)
	response.JSON(w, http.StatusOK, response.SessionFromView(h.authService.View(sess)))
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())
	response.JSON(w, http.StatusOK, response.SessionFromView(h.authService.View(sess)))
}

// ChangePassword handles PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	sess := middleware.MustGetSession(r.Context())
	err := h.authService.ChangePassword(r.Context(), sess,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
