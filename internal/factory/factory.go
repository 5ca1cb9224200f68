// Package factory wires the application's dependencies together
package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/clock"
	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/random"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/auth"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/essay"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/password"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/scoring"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/session"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage/memory"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage/postgres"
	redisstorage "github.com/Prateekiiitg56/SmartScribe/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Hasher         password.Hasher
	Sessions       *session.Manager
	ScoringService *scoring.Service
	AuthService    *auth.Service
	EssayService   *essay.Service
}

// Config holds configuration for the application factory
type Config struct {
	// SessionConfig holds session settings (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis", or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is the Postgres connection string (required if StorageType is "postgres")
	PostgresDSN string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, clk)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		pgStore, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis', or 'postgres'")
	}

	// Use default session config if not provided
	sessionCfg := cfg.SessionConfig
	if sessionCfg.Duration == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	hasher := password.New()
	sessions := session.New(clk, rnd, sessionCfg)
	scoringService := scoring.New(rnd)
	authService := auth.New(store, hasher, sessions, clk, logger)
	essayService := essay.New(store, scoringService, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Hasher:         hasher,
		Sessions:       sessions,
		ScoringService: scoringService,
		AuthService:    authService,
		EssayService:   essayService,
	}
}
