package memory

import (
	"context"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

type sessionStore struct{ s *Store }

func (r sessionStore) Create(_ context.Context, session *model.Session) error {
	return r.s.do(func(t *tables) error {
		session.ID = t.nextID("api_tokens")
		session.CreatedAt = time.Now().UTC()
		t.sessions[session.TokenID] = *session
		return nil
	})
}

func (r sessionStore) Find(_ context.Context, tokenID string) (*model.Session, error) {
	var found *model.Session
	err := r.s.do(func(t *tables) error {
		session, ok := t.sessions[tokenID]
		if !ok {
			return repository.ErrSessionNotFound
		}
		found = &session
		return nil
	})
	return found, err
}

func (r sessionStore) Delete(_ context.Context, tokenID string) error {
	return r.s.do(func(t *tables) error {
		delete(t.sessions, tokenID)
		return nil
	})
}

type resetTokenStore struct{ s *Store }

func (r resetTokenStore) Create(_ context.Context, token *model.PasswordResetToken) error {
	return r.s.do(func(t *tables) error {
		if token.CreatedAt.IsZero() {
			token.CreatedAt = time.Now().UTC()
		}
		token.ID = t.nextID("password_reset_tokens")
		t.resetTokens[token.Token] = *token
		return nil
	})
}

func (r resetTokenStore) Find(_ context.Context, token string) (*model.PasswordResetToken, error) {
	var found *model.PasswordResetToken
	err := r.s.do(func(t *tables) error {
		stored, ok := t.resetTokens[token]
		if !ok {
			return repository.ErrResetTokenNotFound
		}
		found = &stored
		return nil
	})
	return found, err
}

func (r resetTokenStore) Consume(_ context.Context, token string) error {
	return r.s.do(func(t *tables) error {
		if _, ok := t.resetTokens[token]; !ok {
			return repository.ErrResetTokenNotFound
		}
		delete(t.resetTokens, token)
		return nil
	})
}
