// Package essay manages essay submission, history, and dashboard summaries
package essay

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/clock"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/scoring"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage"
)

// DefaultRecentLimit bounds the dashboard's recent-essays list
const DefaultRecentLimit = 5

// Dashboard aggregates a user's writing activity
type Dashboard struct {
	EssayCount int
	Averages   model.ScoreSummary
	Recent     []*model.Essay
}

// Service handles essay submission and retrieval
type Service struct {
	storage storage.Storage
	scorer  *scoring.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new essay Service
func New(store storage.Storage, scorer *scoring.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		scorer:  scorer,
		clock:   clk,
		logger:  logger,
	}
}

// Submit evaluates and stores an essay for the given user. A blank title
// falls back to the default; blank content is rejected.
func (s *Service) Submit(ctx context.Context, userID model.UserID, title, content string) (*model.Essay, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, model.ErrEmptyEssay
	}
	if title == "" {
		title = model.DefaultEssayTitle
	}

	essay := &model.Essay{
		UserID:      userID,
		Title:       title,
		Content:     content,
		SubmittedAt: s.clock.Now(),
	}
	s.scorer.Evaluate(content).Apply(essay)

	id, err := s.storage.SaveEssay(ctx, essay)
	if err != nil {
		return nil, err
	}
	essay.ID = id

	s.logger.Info("essay submitted",
		slog.Int64("user_id", int64(userID)),
		slog.Int64("essay_id", int64(id)),
		slog.Float64("overall_score", essay.OverallScore),
	)
	return essay, nil
}

// Get fetches a single essay, restricted to its owner
func (s *Service) Get(ctx context.Context, userID model.UserID, id model.EssayID) (*model.Essay, error) {
	essay, err := s.storage.GetEssay(ctx, id)
	if err != nil {
		return nil, err
	}
	if essay.UserID != userID {
		// Do not reveal that the essay exists
		return nil, model.ErrEssayNotFound
	}
	return essay, nil
}

// History lists a user's essays, newest first. limit <= 0 means all.
func (s *Service) History(ctx context.Context, userID model.UserID, limit int) ([]*model.Essay, error) {
	return s.storage.ListEssays(ctx, userID, limit)
}

// Dashboard builds the per-user activity summary
func (s *Service) Dashboard(ctx context.Context, userID model.UserID) (*Dashboard, error) {
	count, err := s.storage.CountEssays(ctx, userID)
	if err != nil {
		return nil, err
	}

	averages, err := s.storage.AverageScores(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.storage.ListEssays(ctx, userID, DefaultRecentLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		EssayCount: count,
		Averages:   *averages,
		Recent:     recent,
	}, nil
}
