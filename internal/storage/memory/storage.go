package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/clock"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// A single mutex serializes conflicting writes, so the uniqueness
// invariants hold under concurrent registrations.
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	emailIndex    map[string]model.UserID
	nextUserID    model.UserID

	essays       map[model.EssayID]*model.Essay
	essaysByUser map[model.UserID][]model.EssayID
	nextEssayID  model.EssayID
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:         clk,
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		emailIndex:    make(map[string]model.UserID),
		essays:        make(map[model.EssayID]*model.Essay),
		essaysByUser:  make(map[model.UserID][]model.EssayID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernameIndex[user.Username]; exists {
		return 0, model.ErrDuplicateUsername
	}
	if _, exists := s.emailIndex[user.Email]; exists {
		return 0, model.ErrDuplicateEmail
	}

	s.nextUserID++
	stored := *user
	stored.ID = s.nextUserID

	s.users[stored.ID] = &stored
	s.usernameIndex[stored.Username] = stored.ID
	s.emailIndex[stored.Email] = stored.ID

	user.ID = stored.ID
	return stored.ID, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *Storage) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	if patch.IsEmpty() {
		return nil
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, exists := s.emailIndex[*patch.Email]; exists {
			return model.ErrDuplicateEmail
		}
		delete(s.emailIndex, user.Email)
		s.emailIndex[*patch.Email] = id
	}

	patch.Apply(user)
	user.UpdatedAt = s.clock.Now()
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}

	delete(s.usernameIndex, user.Username)
	delete(s.emailIndex, user.Email)
	delete(s.users, id)

	// Cascade to the user's essays
	for _, essayID := range s.essaysByUser[id] {
		delete(s.essays, essayID)
	}
	delete(s.essaysByUser, id)
	return nil
}

// Essay operations

func (s *Storage) SaveEssay(ctx context.Context, essay *model.Essay) (model.EssayID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[essay.UserID]; !ok {
		return 0, model.ErrUserNotFound
	}

	s.nextEssayID++
	stored := *essay
	stored.ID = s.nextEssayID

	s.essays[stored.ID] = &stored
	s.essaysByUser[stored.UserID] = append(s.essaysByUser[stored.UserID], stored.ID)

	essay.ID = stored.ID
	return stored.ID, nil
}

func (s *Storage) GetEssay(ctx context.Context, id model.EssayID) (*model.Essay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	essay, ok := s.essays[id]
	if !ok {
		return nil, model.ErrEssayNotFound
	}
	copied := *essay
	return &copied, nil
}

func (s *Storage) ListEssays(ctx context.Context, userID model.UserID, limit int) ([]*model.Essay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.essaysByUser[userID]
	essays := make([]*model.Essay, 0, len(ids))
	for _, id := range ids {
		copied := *s.essays[id]
		essays = append(essays, &copied)
	}

	// Newest first, falling back to insertion order for equal timestamps
	sort.SliceStable(essays, func(i, j int) bool {
		if essays[i].SubmittedAt.Equal(essays[j].SubmittedAt) {
			return essays[i].ID > essays[j].ID
		}
		return essays[i].SubmittedAt.After(essays[j].SubmittedAt)
	})

	if limit > 0 && len(essays) > limit {
		essays = essays[:limit]
	}
	return essays, nil
}

func (s *Storage) CountEssays(ctx context.Context, userID model.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.essaysByUser[userID]), nil
}

func (s *Storage) AverageScores(ctx context.Context, userID model.UserID) (*model.ScoreSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.essaysByUser[userID]
	if len(ids) == 0 {
		return &model.ScoreSummary{}, nil
	}

	var summary model.ScoreSummary
	for _, id := range ids {
		essay := s.essays[id]
		summary.AvgGrammar += essay.GrammarScore
		summary.AvgCoherence += essay.CoherenceScore
		summary.AvgArgument += essay.ArgumentScore
		summary.AvgOverall += essay.OverallScore
	}

	n := float64(len(ids))
	summary.AvgGrammar /= n
	summary.AvgCoherence /= n
	summary.AvgArgument /= n
	summary.AvgOverall /= n
	return &summary, nil
}
