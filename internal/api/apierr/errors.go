// Package apierr maps service errors onto HTTP error responses
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeEssayNotFound      = "ESSAY_NOT_FOUND"
	CodeEmptyEssay         = "EMPTY_ESSAY"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, verr.Reason, verr.Field}}
	}

	switch {
	// Lookup-miss and verify-failure deliberately share one message
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, model.ErrDuplicateUsername):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already taken"}}
	case errors.Is(err, model.ErrDuplicateEmail):
		return &httpError{http.StatusConflict, APIError{Code: CodeEmailExists, Message: "Email already registered"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeUserNotFound, Message: "User not found"}}
	case errors.Is(err, model.ErrEssayNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeEssayNotFound, Message: "Essay not found"}}
	case errors.Is(err, model.ErrEmptyEssay):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeEmptyEssay, Message: "Essay content is required"}}
	case errors.Is(err, model.ErrCorruptCredential):
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
