package memory

import (
	"context"
	"strings"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

type userStore struct{ s *Store }

func (r userStore) Create(_ context.Context, user *model.User) error {
	return r.s.do(func(t *tables) error {
		if err := t.checkUserUnique(user, 0); err != nil {
			return err
		}
		now := time.Now().UTC()
		user.ID = t.nextID("users")
		user.CreatedAt = now
		user.UpdatedAt = now
		t.users[user.ID] = *user
		return nil
	})
}

func (r userStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r userStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r userStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r userStore) Update(_ context.Context, user *model.User) error {
	return r.s.do(func(t *tables) error {
		stored, ok := t.users[user.ID]
		if !ok {
			return repository.ErrUserNotFound
		}
		if err := t.checkUserUnique(user, user.ID); err != nil {
			return err
		}
		stored.Email = user.Email
		stored.PasswordHash = user.PasswordHash
		stored.Avatar = user.Avatar
		stored.UpdatedAt = time.Now().UTC()
		t.users[user.ID] = stored
		user.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

func (r userStore) find(match func(model.User) bool) (*model.User, error) {
	var found *model.User
	err := r.s.do(func(t *tables) error {
		for _, u := range t.users {
			if match(u) {
				found = &u
				return nil
			}
		}
		return repository.ErrUserNotFound
	})
	return found, err
}

// checkUserUnique mirrors the unique keys on users.username and users.email,
// which compare case-insensitively under the table collation.
func (t *tables) checkUserUnique(user *model.User, self int64) error {
	if self == 0 {
		for _, u := range t.users {
			if strings.EqualFold(u.Username, user.Username) {
				return repository.ErrDuplicateUsername
			}
		}
	}
	for id, u := range t.users {
		if id != self && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	return nil
}
