package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for session persistence.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	SetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed session repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new session. The ID is generated if empty. Session IDs
// double as bearer credentials once a token is attached, so they are full
// UUIDs rather than shortened ones.
func (r *SQLiteRepository) Create(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	s.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		s.ID, s.Token, now, s.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	return nil
}

// Get retrieves a session by its ID.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	var createdAt, expiresAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, created_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Token, &createdAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	s.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt) //nolint:errcheck // format is controlled

	return &s, nil
}

// SetToken attaches an auth token to a session and moves its idle
// deadline, marking the session authenticated.
func (r *SQLiteRepository) SetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET token = ?, expires_at = ? WHERE id = ?",
		token, expiresAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("setting session token: %w", err)
	}
	return nil
}

// Touch pushes a session's idle deadline forward.
func (r *SQLiteRepository) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET expires_at = ? WHERE id = ?",
		expiresAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose idle deadline has passed.
// Returns the number of deleted rows.
func (r *SQLiteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}

	count, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	return count, nil
}
