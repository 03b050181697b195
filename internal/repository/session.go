package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
)

// SessionRepository stores issued bearer tokens in api_tokens.
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session row.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO api_tokens (user_id, token_id, type, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, session.UserID, session.TokenID, session.Type, session.ExpiresAt.UTC(), now)
	if err != nil {
		return fmt.Errorf("insert api token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	session.ID = id
	session.CreatedAt = now
	return nil
}

// Find returns the session for tokenID or ErrSessionNotFound.
func (r *SessionRepository) Find(ctx context.Context, tokenID string) (*model.Session, error) {
	query := `SELECT id, user_id, token_id, type, expires_at, created_at FROM api_tokens WHERE token_id = ?`

	s := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, tokenID).Scan(
		&s.ID, &s.UserID, &s.TokenID, &s.Type, &s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find api token: %w", err)
	}
	return s, nil
}

// Delete revokes a session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, tokenID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE token_id = ?`, tokenID); err != nil {
		return fmt.Errorf("delete api token: %w", err)
	}
	return nil
}
