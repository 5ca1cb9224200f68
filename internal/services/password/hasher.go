package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

// Hasher produces and verifies salted one-way password hashes
type Hasher interface {
	// Hash returns an opaque token for the plaintext. The salt is embedded
	// in the token, so two calls with the same plaintext yield different
	// tokens that both verify.
	Hash(plaintext string) (string, error)

	// Verify reports whether token was produced from plaintext. A mismatch
	// is (false, nil); an unparseable stored token is ErrCorruptCredential.
	Verify(plaintext, token string) (bool, error)
}

// BcryptHasher implements Hasher using bcrypt
type BcryptHasher struct {
	cost int
}

// Ensure BcryptHasher implements Hasher
var _ Hasher = (*BcryptHasher)(nil)

// New creates a BcryptHasher at the default cost
func New() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewWithCost creates a BcryptHasher at a specific cost.
// Tests use bcrypt.MinCost to keep suites fast.
func NewWithCost(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash produces a bcrypt token for the plaintext
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks the plaintext against a stored token
func (h *BcryptHasher) Verify(plaintext, token string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(token), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Anything else means the stored token itself is unusable; that
		// must surface as a server fault, never as a silent mismatch.
		return false, fmt.Errorf("%w: %v", model.ErrCorruptCredential, err)
	}
}
