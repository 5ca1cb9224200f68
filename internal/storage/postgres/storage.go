// Package postgres implements the storage interface on PostgreSQL.
// Uniqueness lives in the schema: racing registrations are serialized by
// the unique indexes, and violations surface as the typed duplicate errors.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Prateekiiitg56/SmartScribe/internal/model"
	"github.com/Prateekiiitg56/SmartScribe/internal/storage"
)

// DB is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db DB
}

// New connects a pool and verifies the connection
func New(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Storage{db: pool}, nil
}

// NewWithDB creates a Storage with an existing pool (for testing)
func NewWithDB(db DB) *Storage {
	return &Storage{db: db}
}

// Close closes the connection pool
func (s *Storage) Close() {
	s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// EnsureSchema creates the tables if they don't exist yet
func (s *Storage) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id          BIGSERIAL PRIMARY KEY,
			username    TEXT        NOT NULL,
			email       TEXT        NOT NULL,
			password    TEXT        NOT NULL,
			full_name   TEXT        NOT NULL DEFAULT '',
			bio         TEXT        NOT NULL DEFAULT '',
			avatar_url  TEXT        NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT users_username_key UNIQUE (username),
			CONSTRAINT users_email_key    UNIQUE (email)
		);

		CREATE TABLE IF NOT EXISTS essays (
			id              BIGSERIAL PRIMARY KEY,
			user_id         BIGINT           NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title           TEXT             NOT NULL DEFAULT 'Untitled Essay',
			content         TEXT             NOT NULL,
			grammar_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
			coherence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			argument_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
			overall_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
			feedback        TEXT             NOT NULL DEFAULT '',
			submitted_at    TIMESTAMPTZ      NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS essays_user_id_idx ON essays (user_id, submitted_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// translateError maps driver errors onto the model's typed errors
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "email") {
				return model.ErrDuplicateEmail
			}
			return model.ErrDuplicateUsername
		case pgerrcode.ForeignKeyViolation:
			return model.ErrUserNotFound
		}
	}
	return err
}

// User operations

const userColumns = `id, username, email, password, full_name, bio, avatar_url, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, full_name, bio, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Bio,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}

	user.ID = model.UserID(id)
	return user.ID, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
	return scanUser(row)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Bio,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password", *patch.PasswordHash)
	}

	if len(sets) == 0 {
		// No-op patch, but a missing user is still an error
		var exists bool
		err := s.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, int64(id)).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrUserNotFound
		}
		return nil
	}

	args = append(args, int64(id))
	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = now() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	// Essays go with the user via ON DELETE CASCADE
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Essay operations

const essayColumns = `id, user_id, title, content, grammar_score, coherence_score, argument_score, overall_score, feedback, submitted_at`

func (s *Storage) SaveEssay(ctx context.Context, essay *model.Essay) (model.EssayID, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO essays (user_id, title, content, grammar_score, coherence_score, argument_score, overall_score, feedback, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		int64(essay.UserID),
		essay.Title,
		essay.Content,
		essay.GrammarScore,
		essay.CoherenceScore,
		essay.ArgumentScore,
		essay.OverallScore,
		essay.Feedback,
		essay.SubmittedAt,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}

	essay.ID = model.EssayID(id)
	return essay.ID, nil
}

func (s *Storage) GetEssay(ctx context.Context, id model.EssayID) (*model.Essay, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+essayColumns+` FROM essays WHERE id = $1`, int64(id))

	var essay model.Essay
	err := row.Scan(
		&essay.ID,
		&essay.UserID,
		&essay.Title,
		&essay.Content,
		&essay.GrammarScore,
		&essay.CoherenceScore,
		&essay.ArgumentScore,
		&essay.OverallScore,
		&essay.Feedback,
		&essay.SubmittedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrEssayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &essay, nil
}

func (s *Storage) ListEssays(ctx context.Context, userID model.UserID, limit int) ([]*model.Essay, error) {
	query := `SELECT ` + essayColumns + ` FROM essays WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC`
	args := []any{int64(userID)}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var essays []*model.Essay
	for rows.Next() {
		var essay model.Essay
		if err := rows.Scan(
			&essay.ID,
			&essay.UserID,
			&essay.Title,
			&essay.Content,
			&essay.GrammarScore,
			&essay.CoherenceScore,
			&essay.ArgumentScore,
			&essay.OverallScore,
			&essay.Feedback,
			&essay.SubmittedAt,
		); err != nil {
			return nil, err
		}
		essays = append(essays, &essay)
	}
	return essays, rows.Err()
}

func (s *Storage) CountEssays(ctx context.Context, userID model.UserID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM essays WHERE user_id = $1`, int64(userID)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Storage) AverageScores(ctx context.Context, userID model.UserID) (*model.ScoreSummary, error) {
	var summary model.ScoreSummary
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(grammar_score), 0),
		       COALESCE(AVG(coherence_score), 0),
		       COALESCE(AVG(argument_score), 0),
		       COALESCE(AVG(overall_score), 0)
		FROM essays WHERE user_id = $1
	`, int64(userID)).Scan(
		&summary.AvgGrammar,
		&summary.AvgCoherence,
		&summary.AvgArgument,
		&summary.AvgOverall,
	)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
