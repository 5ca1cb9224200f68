package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already registered")

	// Auth errors. Login failures collapse into one value on purpose:
	// a lookup miss and a password mismatch must be indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCorruptCredential  = errors.New("stored credential is corrupt")
	ErrInvalidSession     = errors.New("invalid or expired session")

	// Essay errors
	ErrEssayNotFound = errors.New("essay not found")
	ErrEmptyEssay    = errors.New("essay content is empty")
)

// ValidationError reports a malformed input field. It is recoverable and
// causes no state change.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
