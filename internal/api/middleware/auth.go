// Package middleware provides HTTP middleware for the API: session
// resolution, auth guarding, request logging, and panic recovery.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Prateekiiitg56/SmartScribe/internal/api/apierr"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession resolves the request's session token into a session object
// and attaches it to the context. A missing or expired token yields a
// fresh anonymous session, so every handler downstream always has one.
// Anonymous handles live for the request only; the manager registers a
// token no earlier than login.
func WithSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions.Init(extractToken(r))
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards a protected location. Anonymous sessions are bounced
// to the login location; the response carries it in a header, the API form
// of a redirect to the sign-in page.
func RequireAuth(sessions *session.Manager, target model.Location) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if effective := sessions.Guard(sess, target); effective != target {
				w.Header().Set("X-Login-Location", "/"+string(effective))
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// MustGetSession returns the session from the context or panics
func MustGetSession(ctx context.Context) *session.Session {
	sess := GetSession(ctx)
	if sess == nil {
		panic("no session in context - session middleware not applied?")
	}
	return sess
}
