package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
)

const userColumns = `id, username, email, password, avatar, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID and timestamps on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password, avatar, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, nullString(user.Avatar), now, now,
	)
	if err != nil {
		return userConflict(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// Update writes the mutable profile fields of user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET email = ?, password = ?, avatar = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, nullString(user.Avatar), now, user.ID,
	)
	if err != nil {
		return userConflict(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	var avatar sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &avatar, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Avatar = avatar.String
	return user, nil
}

func userConflict(err error) error {
	key, dup := duplicateKey(err)
	if !dup {
		return err
	}
	if strings.Contains(key, "username") {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
