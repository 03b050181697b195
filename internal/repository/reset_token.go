package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
)

// ResetTokenRepository handles password reset token persistence operations.
type ResetTokenRepository struct {
	db DBTX
}

// NewResetTokenRepository creates a new ResetTokenRepository.
func NewResetTokenRepository(db DBTX) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create inserts a token. CreatedAt is taken from the struct when set.
func (r *ResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	query := `INSERT INTO password_reset_tokens (user_id, token, created_at) VALUES (?, ?, ?)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query, token.UserID, token.Token, token.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	token.ID = id
	return nil
}

// Find returns the token row or ErrResetTokenNotFound.
func (r *ResetTokenRepository) Find(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	query := `SELECT id, user_id, token, created_at FROM password_reset_tokens WHERE token = ?`

	t := &model.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	return t, nil
}

// Consume deletes token. Only the caller whose DELETE removed the row succeeds.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	return requireRow(result, ErrResetTokenNotFound)
}
