// Package session tracks per-visitor authentication state. Each connecting
// client holds an explicit Session handle; nothing here relies on ambient
// globals, and sessions are never shared across clients.
package session

import (
	"sync"
	"time"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/clock"
	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/random"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

// Session is the ephemeral per-visitor authentication context. UserID is a
// non-owning reference into the credential store, present iff Authenticated.
//
// Fields are mutated by the Manager under its lock. Code that may run
// concurrently with Login/Logout on the same token must read through
// Manager.Snapshot rather than the fields directly.
type Session struct {
	Token         string
	Authenticated bool
	UserID        model.UserID

	// Display fields cached from the user record for cheap reads
	Username string
	FullName string

	CurrentLocation model.Location
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// Config holds configuration for the session manager
type Config struct {
	Duration time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Duration: 24 * time.Hour,
	}
}

const (
	tokenLength   = 32
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Manager owns the session registry. Only authenticated sessions live in
// the registry: anonymous handles are created per request and never
// stored, so unauthenticated traffic cannot grow the map.
type Manager struct {
	clock  clock.Clock
	random random.Random

	mu       sync.RWMutex
	sessions map[string]*Session

	duration time.Duration
}

// New creates a new session Manager
func New(clk clock.Clock, rnd random.Random, cfg Config) *Manager {
	if cfg.Duration == 0 {
		cfg.Duration = DefaultConfig().Duration
	}
	return &Manager{
		clock:    clk,
		random:   rnd,
		sessions: make(map[string]*Session),
		duration: cfg.Duration,
	}
}

// Begin creates a fresh unauthenticated session. The handle is not
// registered; Login registers it once the visitor authenticates.
func (m *Manager) Begin() *Session {
	now := m.clock.Now()
	return &Session{
		Token:           "sess_" + m.random.String(tokenLength, tokenAlphabet),
		CurrentLocation: model.LocationHome,
		CreatedAt:       now,
		ExpiresAt:       now.Add(m.duration),
	}
}

// Init returns the live session for token, or a fresh unauthenticated one
// if the token is unknown or expired. Re-initializing a live session never
// resets it, so a reload mid-use does not log a user out.
func (m *Manager) Init(token string) *Session {
	if sess, err := m.Lookup(token); err == nil {
		return sess
	}
	return m.Begin()
}

// Lookup returns the session for a token, or ErrInvalidSession
func (m *Manager) Lookup(token string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, model.ErrInvalidSession
	}

	if m.clock.Now().After(sess.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, model.ErrInvalidSession
	}

	return sess, nil
}

// IsLoggedIn reports whether the session is authenticated
func (m *Manager) IsLoggedIn(sess *Session) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sess.Authenticated
}

// Snapshot returns a copy of the session taken under the manager's lock,
// safe to read while other requests on the same token log in or out.
func (m *Manager) Snapshot(sess *Session) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *sess
}

// Login transitions the session to the authenticated state for user,
// registers its token, and moves it to the post-login location
func (m *Manager) Login(sess *Session, user *model.User) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	sess.Authenticated = true
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.FullName = user.FullName
	sess.CurrentLocation = model.LocationHome
	sess.ExpiresAt = now.Add(m.duration)
	m.sessions[sess.Token] = sess
}

// Logout resets the session to the anonymous state and drops its token
// from the registry, so the old token stops resolving
func (m *Manager) Logout(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess.Authenticated = false
	sess.UserID = 0
	sess.Username = ""
	sess.FullName = ""
	sess.CurrentLocation = model.LocationHome
	delete(m.sessions, sess.Token)
}

// RefreshDisplay re-caches the display fields after a profile update
func (m *Manager) RefreshDisplay(sess *Session, user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess.Authenticated && sess.UserID == user.ID {
		sess.Username = user.Username
		sess.FullName = user.FullName
	}
}

// Guard resolves navigation to target: unauthenticated sessions asking for
// a protected location are sent to the login location instead. The
// effective location becomes the session's current location, so the check
// lives here once rather than at every call site.
func (m *Manager) Guard(sess *Session, target model.Location) model.Location {
	m.mu.Lock()
	defer m.mu.Unlock()

	effective := target
	if target.RequiresAuth() && !sess.Authenticated {
		effective = model.LocationLogin
	}
	sess.CurrentLocation = effective
	return effective
}

// End removes a session from the registry entirely
func (m *Manager) End(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// CleanExpired removes expired sessions. The server runs this on a timer
// to reap authenticated sessions whose tokens were never presented again.
func (m *Manager) CleanExpired() {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}

// Count reports the number of registered sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
