package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/mocks"
	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/random"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/auth"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/essay"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/password"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/scoring"
	"github.com/Prateekiiitg56/SmartScribe/internal/services/session"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage/memory"
	"github.com/Prateekiiitg56/SmartScribe/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and a fast hash cost
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.New(mockClock)
	logger := testutil.NopLogger()

	hasher := password.NewWithCost(bcrypt.MinCost)
	// Session tokens must be unique across logins, so the manager gets
	// real randomness; scoring keeps the mock for deterministic draws
	sessions := session.New(mockClock, random.New(), session.DefaultConfig())
	scoringService := scoring.New(mockRandom)
	authService := auth.New(store, hasher, sessions, mockClock, logger)
	essayService := essay.New(store, scoringService, mockClock, logger)

	app := &App{
		Storage:        store,
		Clock:          mockClock,
		Random:         mockRandom,
		Hasher:         hasher,
		Sessions:       sessions,
		ScoringService: scoringService,
		AuthService:    authService,
		EssayService:   essayService,
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
