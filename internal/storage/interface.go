package storage

import (
	"context"

	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

// Storage defines the interface for data persistence.
//
// The store is the single source of truth for identity: it owns all User
// records and is the final authority on username/email uniqueness. Lookups
// signal absence with model.ErrUserNotFound / model.ErrEssayNotFound.
type Storage interface {
	// User operations.
	// CreateUser assigns the ID and enforces username and email uniqueness
	// atomically with the insert, so two racing registrations for the same
	// username produce exactly one model.ErrDuplicateUsername.
	CreateUser(ctx context.Context, user *model.User) (model.UserID, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateUser applies the allow-listed mutable fields and refreshes
	// UpdatedAt. An empty patch is a no-op, not an error.
	UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) error

	// DeleteUser removes the user and cascades to their essays
	DeleteUser(ctx context.Context, id model.UserID) error

	// Essay operations
	SaveEssay(ctx context.Context, essay *model.Essay) (model.EssayID, error)
	GetEssay(ctx context.Context, id model.EssayID) (*model.Essay, error)
	ListEssays(ctx context.Context, userID model.UserID, limit int) ([]*model.Essay, error)
	CountEssays(ctx context.Context, userID model.UserID) (int, error)

	// AverageScores returns per-user score averages; a user with no essays
	// gets a zero summary
	AverageScores(ctx context.Context, userID model.UserID) (*model.ScoreSummary, error)
}
