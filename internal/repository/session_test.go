package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/roleplay/roleplay-go/internal/model"
)

func TestSessionCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepository(db)
	expires := time.Now().Add(time.Hour)

	mock.ExpectExec(`INSERT INTO api_tokens`).
		WithArgs(int64(1), "jti-1", "bearer", expires.UTC(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(4, 1))

	s := &model.Session{UserID: 1, TokenID: "jti-1", Type: "bearer", ExpiresAt: expires}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if s.ID != 4 {
		t.Errorf("Create() ID = %d, want 4", s.ID)
	}
}

func TestSessionFindNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM api_tokens WHERE token_id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_id", "type", "expires_at", "created_at"}))

	if _, err := repo.Find(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Find() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionDeleteMissingIsNotAnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec(`DELETE FROM api_tokens WHERE token_id = \?`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "gone"); err != nil {
		t.Errorf("Delete() unexpected error: %v", err)
	}
}
