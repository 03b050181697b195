package service

import (
	"context"
	"errors"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
	"github.com/roleplay/roleplay-go/internal/validation"
)

// PasswordHasher hashes and verifies passwords. *crypto.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// UserService handles registration and profile updates.
type UserService struct {
	store  repository.Store
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, req model.CreateUserRequest) (model.UserResponse, error) {
	if err := validation.Struct(req); err != nil {
		return model.UserResponse{}, err
	}

	users := s.store.Users()
	if err := ensureAbsent(users.GetByUsername(ctx, req.Username)); err != nil {
		if errors.Is(err, errExists) {
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, err
	}
	if err := ensureAbsent(users.GetByEmail(ctx, req.Email)); err != nil {
		if errors.Is(err, errExists) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Avatar:       req.Avatar,
	}
	if err := users.Create(ctx, user); err != nil {
		return model.UserResponse{}, mapUserConflict(err)
	}

	return user.ToResponse(), nil
}

// Update changes email, avatar and password of the acting user's own account.
func (s *UserService) Update(ctx context.Context, actingUserID, id int64, req model.UpdateUserRequest) (model.UserResponse, error) {
	if err := validation.Struct(req); err != nil {
		return model.UserResponse{}, err
	}

	users := s.store.Users()
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	if user.ID != actingUserID {
		return model.UserResponse{}, ErrNotAccountOwner
	}

	if req.Email != user.Email {
		if err := ensureAbsent(users.GetByEmail(ctx, req.Email)); err != nil {
			if errors.Is(err, errExists) {
				return model.UserResponse{}, ErrEmailTaken
			}
			return model.UserResponse{}, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user.Email = req.Email
	user.Avatar = req.Avatar
	user.PasswordHash = hash
	if err := users.Update(ctx, user); err != nil {
		return model.UserResponse{}, mapUserConflict(err)
	}

	return user.ToResponse(), nil
}

var errExists = errors.New("exists")

// ensureAbsent turns a lookup result into nil when nothing was found.
func ensureAbsent(_ *model.User, err error) error {
	switch {
	case err == nil:
		return errExists
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func mapUserConflict(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	default:
		return err
	}
}
