package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/mocks"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
)

type StorageSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = New(s.clock)
	s.ctx = context.Background()
}

func (s *StorageSuite) newUser(username, email string) *model.User {
	now := s.clock.Now()
	return &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		FullName:     "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// User tests

func (s *StorageSuite) TestCreateAndGetUser() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)
	s.Equal(model.UserID(1), id)

	user, err := s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("ada", user.Username)
	s.Equal("ada@example.com", user.Email)
	s.Empty(user.Bio)
	s.Empty(user.AvatarURL)
}

func (s *StorageSuite) TestCreateUserAssignsSequentialIDs() {
	first, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)
	second, err := s.storage.CreateUser(s.ctx, s.newUser("bob", "bob@example.com"))
	s.Require().NoError(err)
	s.NotEqual(first, second)
}

func (s *StorageSuite) TestCreateUserDuplicateUsername() {
	_, err := s.storage.CreateUser(s.ctx, s.newUser("bob", "bob@example.com"))
	s.Require().NoError(err)

	_, err = s.storage.CreateUser(s.ctx, s.newUser("bob", "other@example.com"))
	s.ErrorIs(err, model.ErrDuplicateUsername)

	// Store still contains exactly one bob record
	user, err := s.storage.GetUserByUsername(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal("bob@example.com", user.Email)
}

func (s *StorageSuite) TestCreateUserDuplicateEmail() {
	_, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	_, err = s.storage.CreateUser(s.ctx, s.newUser("ada2", "ada@example.com"))
	s.ErrorIs(err, model.ErrDuplicateEmail)
}

func (s *StorageSuite) TestConcurrentRegistrationsSameUsername() {
	const attempts = 16

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.storage.CreateUser(s.ctx, s.newUser("racer", "racer@example.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			duplicates++
		}
	}
	s.Equal(1, successes)
	s.Equal(attempts-1, duplicates)
}

func (s *StorageSuite) TestGetUserByUsernameAndEmail() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	byName, err := s.storage.GetUserByUsername(s.ctx, "ada")
	s.Require().NoError(err)
	s.Equal(id, byName.ID)

	byEmail, err := s.storage.GetUserByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(id, byEmail.ID)
}

func (s *StorageSuite) TestGetMissingUser() {
	_, err := s.storage.GetUser(s.ctx, 42)
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestUpdateUserMutableFields() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)

	name := "Ada Lovelace"
	bio := "First programmer"
	err = s.storage.UpdateUser(s.ctx, id, model.UserPatch{FullName: &name, Bio: &bio})
	s.Require().NoError(err)

	user, err := s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", user.FullName)
	s.Equal("First programmer", user.Bio)
	s.Equal(s.clock.Now(), user.UpdatedAt)
	s.True(user.CreatedAt.Before(user.UpdatedAt))
}

func (s *StorageSuite) TestUpdateUserEmptyPatchIsNoop() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	before, err := s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	s.Require().NoError(s.storage.UpdateUser(s.ctx, id, model.UserPatch{}))

	after, err := s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(before.UpdatedAt, after.UpdatedAt)
}

func (s *StorageSuite) TestUpdateUserMissing() {
	name := "Nobody"
	err := s.storage.UpdateUser(s.ctx, 42, model.UserPatch{FullName: &name})
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestUpdateUserEmailConflict() {
	_, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)
	id, err := s.storage.CreateUser(s.ctx, s.newUser("bob", "bob@example.com"))
	s.Require().NoError(err)

	taken := "ada@example.com"
	err = s.storage.UpdateUser(s.ctx, id, model.UserPatch{Email: &taken})
	s.ErrorIs(err, model.ErrDuplicateEmail)
}

func (s *StorageSuite) TestUpdateUserEmailMovesIndex() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	newEmail := "lovelace@example.com"
	s.Require().NoError(s.storage.UpdateUser(s.ctx, id, model.UserPatch{Email: &newEmail}))

	_, err = s.storage.GetUserByEmail(s.ctx, "ada@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)

	user, err := s.storage.GetUserByEmail(s.ctx, newEmail)
	s.Require().NoError(err)
	s.Equal(id, user.ID)

	// Old address is free for someone else now
	_, err = s.storage.CreateUser(s.ctx, s.newUser("grace", "ada@example.com"))
	s.NoError(err)
}

func (s *StorageSuite) TestDeleteUserCascadesEssays() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	essayID, err := s.storage.SaveEssay(s.ctx, &model.Essay{
		UserID:      id,
		Title:       "On Engines",
		Content:     "Analytical engines can compute.",
		SubmittedAt: s.clock.Now(),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.storage.DeleteUser(s.ctx, id))

	_, err = s.storage.GetUser(s.ctx, id)
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetEssay(s.ctx, essayID)
	s.ErrorIs(err, model.ErrEssayNotFound)

	// Username and email are reusable after deletion
	_, err = s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.NoError(err)
}

// Essay tests

func (s *StorageSuite) TestSaveEssayRequiresUser() {
	_, err := s.storage.SaveEssay(s.ctx, &model.Essay{UserID: 42, Content: "orphan"})
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestListEssaysNewestFirst() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	for i, title := range []string{"first", "second", "third"} {
		_, err := s.storage.SaveEssay(s.ctx, &model.Essay{
			UserID:      id,
			Title:       title,
			Content:     "content",
			SubmittedAt: s.clock.Now().Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
	}

	essays, err := s.storage.ListEssays(s.ctx, id, 2)
	s.Require().NoError(err)
	s.Require().Len(essays, 2)
	s.Equal("third", essays[0].Title)
	s.Equal("second", essays[1].Title)
}

func (s *StorageSuite) TestCountAndAverageScores() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	scores := []struct{ grammar, coherence, argument, overall float64 }{
		{8, 6, 7, 7},
		{6, 8, 9, 8},
	}
	for _, sc := range scores {
		_, err := s.storage.SaveEssay(s.ctx, &model.Essay{
			UserID:         id,
			Content:        "content",
			GrammarScore:   sc.grammar,
			CoherenceScore: sc.coherence,
			ArgumentScore:  sc.argument,
			OverallScore:   sc.overall,
			SubmittedAt:    s.clock.Now(),
		})
		s.Require().NoError(err)
	}

	count, err := s.storage.CountEssays(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(2, count)

	summary, err := s.storage.AverageScores(s.ctx, id)
	s.Require().NoError(err)
	s.InDelta(7.0, summary.AvgGrammar, 0.001)
	s.InDelta(7.0, summary.AvgCoherence, 0.001)
	s.InDelta(8.0, summary.AvgArgument, 0.001)
	s.InDelta(7.5, summary.AvgOverall, 0.001)
}

func (s *StorageSuite) TestAverageScoresNoEssays() {
	id, err := s.storage.CreateUser(s.ctx, s.newUser("ada", "ada@example.com"))
	s.Require().NoError(err)

	summary, err := s.storage.AverageScores(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(&model.ScoreSummary{}, summary)
}
