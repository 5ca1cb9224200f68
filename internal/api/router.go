// Package api assembles the HTTP surface: router, server, and middleware
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Prateekiiitg56/SmartScribe/internal/api/handler"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/middleware"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/auth"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/essay"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	EssayService *essay.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessions := cfg.AuthService.Sessions()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.AuthService)
	essayHandler := handler.NewEssayHandler(cfg.EssayService, sessions)

	// Create middleware
	sessionMiddleware := middleware.WithSession(sessions)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(sessionMiddleware)

	// Auth routes reachable anonymously
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", authHandler.Session).Methods(http.MethodGet)

	// Password changes require a logged-in session
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(middleware.RequireAuth(sessions, model.LocationProfile))
	authProtected.HandleFunc("/password", authHandler.ChangePassword).Methods(http.MethodPut)

	// Profile routes (all require auth)
	profile := api.PathPrefix("/profile").Subrouter()
	profile.Use(middleware.RequireAuth(sessions, model.LocationProfile))
	profile.HandleFunc("", profileHandler.Get).Methods(http.MethodGet)
	profile.HandleFunc("", profileHandler.Update).Methods(http.MethodPatch)

	// Essay routes (all require auth)
	essays := api.PathPrefix("/essays").Subrouter()
	essays.Use(middleware.RequireAuth(sessions, model.LocationEvaluate))
	essays.HandleFunc("", essayHandler.Submit).Methods(http.MethodPost)
	essays.HandleFunc("", essayHandler.List).Methods(http.MethodGet)
	essays.HandleFunc("/{id:[0-9]+}", essayHandler.Get).Methods(http.MethodGet)

	dashboard := api.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(middleware.RequireAuth(sessions, model.LocationDashboard))
	dashboard.HandleFunc("", essayHandler.Dashboard).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
