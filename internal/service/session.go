package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/roleplay/roleplay-go/internal/crypto"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

const tokenType = "bearer"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID  int64
	TokenID string
}

// SessionService handles login, logout and bearer token authentication.
type SessionService struct {
	store  repository.Store
	hasher PasswordHasher
	signer *crypto.Signer
}

// NewSessionService creates a new SessionService.
func NewSessionService(store repository.Store, hasher PasswordHasher, signer *crypto.Signer) *SessionService {
	return &SessionService{store: store, hasher: hasher, signer: signer}
}

// Login authenticates a user and opens a session.
func (s *SessionService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	tokenID := uuid.NewString()
	token, expiresAt, err := s.signer.Issue(user.ID, tokenID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	session := &model.Session{
		UserID:    user.ID,
		TokenID:   tokenID,
		Type:      tokenType,
		ExpiresAt: expiresAt,
	}
	if err := s.store.Sessions().Create(ctx, session); err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		User: user.ToResponse(),
		Token: model.TokenResponse{
			Type:      tokenType,
			Token:     token,
			ExpiresAt: expiresAt,
		},
	}, nil
}

// Logout revokes the session.
func (s *SessionService) Logout(ctx context.Context, tokenID string) error {
	return s.store.Sessions().Delete(ctx, tokenID)
}

// Authenticate validates a raw bearer token and checks its session is still open.
func (s *SessionService) Authenticate(ctx context.Context, raw string) (Identity, error) {
	claims, err := s.signer.Parse(raw)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}

	session, err := s.store.Sessions().Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, err
	}
	if session.UserID != claims.UserID {
		return Identity{}, ErrUnauthorized
	}

	return Identity{UserID: session.UserID, TokenID: session.TokenID}, nil
}
