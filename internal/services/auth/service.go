// Package auth orchestrates registration, login, and credential changes,
// composing the validator, credential store, password hasher, and session
// manager into atomic user-facing operations.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/clock"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/password"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/session"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/validate"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage"
)

// SessionView is what the presentation layer reads about a session
type SessionView struct {
	Authenticated bool
	Token         string
	UserID        model.UserID
	Username      string
	FullName      string
}

// Service handles the authentication flows
type Service struct {
	storage  storage.Storage
	hasher   password.Hasher
	sessions *session.Manager
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new auth Service
func New(store storage.Storage, hasher password.Hasher, sessions *session.Manager, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		hasher:   hasher,
		sessions: sessions,
		clock:    clk,
		logger:   logger,
	}
}

// Sessions exposes the session manager for routing guards
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// View builds the SessionView for a session
func (s *Service) View(sess *session.Session) SessionView {
	snap := s.sessions.Snapshot(sess)
	return SessionView{
		Authenticated: snap.Authenticated,
		Token:         snap.Token,
		UserID:        snap.UserID,
		Username:      snap.Username,
		FullName:      snap.FullName,
	}
}

// Register creates an account and authenticates the session. The flow is
// all-or-nothing: validation and availability checks run before the hash
// and insert, and any failure leaves no record and no session change.
func (s *Service) Register(ctx context.Context, sess *session.Session, fullName, username, email, pass, confirm string) (SessionView, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	// Cheap, local checks first; no I/O
	if !validate.Username(username) {
		return SessionView{}, model.NewValidationError("username", "must be 3-20 characters: letters, digits, or underscores")
	}
	if !validate.Email(email) {
		return SessionView{}, model.NewValidationError("email", "must be a valid email address")
	}
	if !validate.Password(pass) {
		return SessionView{}, model.NewValidationError("password", "must be at least 6 characters")
	}
	if !validate.Match(pass, confirm) {
		return SessionView{}, model.NewValidationError("confirm_password", "passwords do not match")
	}

	// Availability checks. The store re-checks atomically on insert; these
	// exist to fail early and cheaply.
	if err := s.checkAvailable(ctx, username, email); err != nil {
		return SessionView{}, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return SessionView{}, err
	}

	now := s.clock.Now()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.storage.CreateUser(ctx, user); err != nil {
		return SessionView{}, err
	}

	s.sessions.Login(sess, user)
	s.logger.Info("user registered",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", user.Username),
	)
	return s.View(sess), nil
}

func (s *Service) checkAvailable(ctx context.Context, username, email string) error {
	_, err := s.storage.GetUserByUsername(ctx, username)
	if err == nil {
		return model.ErrDuplicateUsername
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	_, err = s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}
	return nil
}

// Login authenticates a session from a username and password. A lookup
// miss and a password mismatch return the same ErrInvalidCredentials so
// callers cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, sess *session.Session, username, pass string) (SessionView, error) {
	user, err := s.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return SessionView{}, model.ErrInvalidCredentials
		}
		return SessionView{}, err
	}

	ok, err := s.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		// Corrupt stored token: a server fault, never a login
		s.logger.Error("stored credential unusable",
			slog.Int64("user_id", int64(user.ID)),
			slog.String("error", err.Error()),
		)
		return SessionView{}, err
	}
	if !ok {
		return SessionView{}, model.ErrInvalidCredentials
	}

	s.sessions.Login(sess, user)
	s.logger.Info("user logged in", slog.Int64("user_id", int64(user.ID)))
	return s.View(sess), nil
}

// Logout unconditionally transitions the session to the anonymous state
func (s *Service) Logout(sess *session.Session) {
	s.sessions.Logout(sess)
}

// ChangePassword replaces the acting user's password. The current password
// must verify and the new one must meet policy; on any failure the stored
// hash and the session are untouched.
func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, current, newPass, confirm string) error {
	user, err := s.currentUser(ctx, sess)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewValidationError("current_password", "current password is incorrect")
	}
	if !validate.Password(newPass) {
		return model.NewValidationError("new_password", "must be at least 6 characters")
	}
	if !validate.Match(newPass, confirm) {
		return model.NewValidationError("confirm_password", "passwords do not match")
	}

	hash, err := s.hasher.Hash(newPass)
	if err != nil {
		return err
	}

	if err := s.storage.UpdateUser(ctx, user.ID, model.UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}

	s.logger.Info("password changed", slog.Int64("user_id", int64(user.ID)))
	return nil
}

// UpdateProfile applies the mutable profile fields for the acting user and
// refreshes the session's cached display fields
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, patch model.UserPatch) (*model.User, error) {
	if patch.PasswordHash != nil {
		return nil, model.NewValidationError("password", "use the password change flow")
	}
	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		if !validate.Email(trimmed) {
			return nil, model.NewValidationError("email", "must be a valid email address")
		}
		patch.Email = &trimmed
	}

	user, err := s.currentUser(ctx, sess)
	if err != nil {
		return nil, err
	}

	if err := s.storage.UpdateUser(ctx, user.ID, patch); err != nil {
		return nil, err
	}

	updated, err := s.storage.GetUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.sessions.RefreshDisplay(sess, updated)
	return updated, nil
}

// CurrentUser loads the acting user's record
func (s *Service) CurrentUser(ctx context.Context, sess *session.Session) (*model.User, error) {
	return s.currentUser(ctx, sess)
}

// currentUser resolves the session to its user record. A session pointing
// at a user id the store no longer has is an internal consistency fault:
// the session is forcibly logged out.
func (s *Service) currentUser(ctx context.Context, sess *session.Session) (*model.User, error) {
	snap := s.sessions.Snapshot(sess)
	if !snap.Authenticated {
		return nil, model.ErrInvalidSession
	}

	user, err := s.storage.GetUser(ctx, snap.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Warn("session referenced missing user, forcing logout",
				slog.Int64("user_id", int64(snap.UserID)),
			)
			s.sessions.Logout(sess)
		}
		return nil, err
	}
	return user, nil
}
