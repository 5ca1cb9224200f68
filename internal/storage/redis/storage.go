package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Prateekiiitg56/SmartScribe/internal/dependencies/clock"
	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage"
)

// maxTxRetries bounds optimistic-lock retries on contended user updates
const maxTxRetries = 5

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	clock  clock.Clock
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config, clk clock.Clock) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, clock: clk, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Storage {
	return &Storage{client: client, clock: clk, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	id64, err := s.client.Incr(ctx, userSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	id := model.UserID(id64)

	// SETNX reserves the indexes: the first racing registration wins the
	// key, every other one sees the reservation and fails typed.
	ok, err := s.client.SetNX(ctx, usernameIndexKey(user.Username), id64, 0).Result()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, model.ErrDuplicateUsername
	}

	ok, err = s.client.SetNX(ctx, emailIndexKey(user.Email), id64, 0).Result()
	if err == nil && !ok {
		err = model.ErrDuplicateEmail
	}
	if err != nil {
		_ = s.client.Del(ctx, usernameIndexKey(user.Username)).Err()
		return 0, err
	}

	stored := *user
	stored.ID = id
	data, err := json.Marshal(&stored)
	if err == nil {
		err = s.client.Set(ctx, userKey(id), data, 0).Err()
	}
	if err != nil {
		_ = s.client.Del(ctx, usernameIndexKey(user.Username), emailIndexKey(user.Email)).Err()
		return 0, err
	}

	user.ID = id
	return id, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.getUserByKey(ctx, userKey(id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUserByIndex(ctx, usernameIndexKey(username))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUserByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) getUserByIndex(ctx context.Context, indexKey string) (*model.User, error) {
	id, err := s.client.Get(ctx, indexKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.getUserByKey(ctx, userKey(model.UserID(id)))
}

func (s *Storage) getUserByKey(ctx context.Context, key string) (*model.User, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, userKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrUserNotFound
			}
			return err
		}
		if patch.IsEmpty() {
			return nil
		}

		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}

		oldEmail := user.Email
		emailChanged := patch.Email != nil && *patch.Email != oldEmail
		if emailChanged {
			ok, err := tx.SetNX(ctx, emailIndexKey(*patch.Email), int64(id), 0).Result()
			if err != nil {
				return err
			}
			if !ok {
				return model.ErrDuplicateEmail
			}
		}

		patch.Apply(&user)
		user.UpdatedAt = s.clock.Now()

		updated, err := json.Marshal(&user)
		if err == nil {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if emailChanged {
					pipe.Del(ctx, emailIndexKey(oldEmail))
				}
				pipe.Set(ctx, userKey(id), updated, 0)
				return nil
			})
		}
		if err != nil && emailChanged {
			// Release the reservation so a retry or other writer can claim it
			_ = s.client.Del(ctx, emailIndexKey(*patch.Email)).Err()
		}
		return err
	}

	// Optimistic locking: WATCH the user key so a profile update racing a
	// password change for the same user serializes instead of clobbering
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = s.client.Watch(ctx, txf, userKey(id))
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	essayIDs, err := s.client.LRange(ctx, essaysForUserKey(id), 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, raw := range essayIDs {
		if essayID, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			pipe.Del(ctx, essayKey(model.EssayID(essayID)))
		}
	}
	pipe.Del(ctx, essaysForUserKey(id))
	pipe.Del(ctx, usernameIndexKey(user.Username))
	pipe.Del(ctx, emailIndexKey(user.Email))
	pipe.Del(ctx, userKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Essay operations

func (s *Storage) SaveEssay(ctx context.Context, essay *model.Essay) (model.EssayID, error) {
	exists, err := s.client.Exists(ctx, userKey(essay.UserID)).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, model.ErrUserNotFound
	}

	id64, err := s.client.Incr(ctx, essaySeqKey()).Result()
	if err != nil {
		return 0, err
	}
	id := model.EssayID(id64)

	stored := *essay
	stored.ID = id
	data, err := json.Marshal(&stored)
	if err != nil {
		return 0, err
	}

	// LPUSH keeps the per-user index newest first
	pipe := s.client.Pipeline()
	pipe.Set(ctx, essayKey(id), data, 0)
	pipe.LPush(ctx, essaysForUserKey(essay.UserID), id64)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	essay.ID = id
	return id, nil
}

func (s *Storage) GetEssay(ctx context.Context, id model.EssayID) (*model.Essay, error) {
	data, err := s.client.Get(ctx, essayKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEssayNotFound
		}
		return nil, err
	}

	var essay model.Essay
	if err := json.Unmarshal(data, &essay); err != nil {
		return nil, err
	}
	return &essay, nil
}

func (s *Storage) ListEssays(ctx context.Context, userID model.UserID, limit int) ([]*model.Essay, error) {
	end := int64(-1)
	if limit > 0 {
		end = int64(limit) - 1
	}

	ids, err := s.client.LRange(ctx, essaysForUserKey(userID), 0, end).Result()
	if err != nil {
		return nil, err
	}

	essays := make([]*model.Essay, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		essay, err := s.GetEssay(ctx, model.EssayID(id))
		if err != nil {
			if errors.Is(err, model.ErrEssayNotFound) {
				continue
			}
			return nil, err
		}
		essays = append(essays, essay)
	}
	return essays, nil
}

func (s *Storage) CountEssays(ctx context.Context, userID model.UserID) (int, error) {
	n, err := s.client.LLen(ctx, essaysForUserKey(userID)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Storage) AverageScores(ctx context.Context, userID model.UserID) (*model.ScoreSummary, error) {
	essays, err := s.ListEssays(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	if len(essays) == 0 {
		return &model.ScoreSummary{}, nil
	}

	var summary model.ScoreSummary
	for _, essay := range essays {
		summary.AvgGrammar += essay.GrammarScore
		summary.AvgCoherence += essay.CoherenceScore
		summary.AvgArgument += essay.ArgumentScore
		summary.AvgOverall += essay.OverallScore
	}

	n := float64(len(essays))
	summary.AvgGrammar /= n
	summary.AvgCoherence /= n
	summary.AvgArgument /= n
	summary.AvgOverall /= n
	return &summary, nil
}
