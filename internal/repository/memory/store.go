// Package memory is a process-local Store used for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

type tables struct {
	users       map[int64]model.User
	groups      map[int64]model.Group
	members     map[int64][]int64
	requests    map[int64]model.GroupRequest
	sessions    map[string]model.Session
	resetTokens map[string]model.PasswordResetToken
	lastID      map[string]int64
}

func newTables() *tables {
	return &tables{
		users:       map[int64]model.User{},
		groups:      map[int64]model.Group{},
		members:     map[int64][]int64{},
		requests:    map[int64]model.GroupRequest{},
		sessions:    map[string]model.Session{},
		resetTokens: map[string]model.PasswordResetToken{},
		lastID:      map[string]int64{},
	}
}

// nextID hands out per-table auto-increment ids starting at 1.
func (t *tables) nextID(table string) int64 {
	t.lastID[table]++
	return t.lastID[table]
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.lastID {
		c.lastID[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.groups {
		c.groups[k] = v
	}
	for k, v := range t.members {
		c.members[k] = append([]int64(nil), v...)
	}
	for k, v := range t.requests {
		c.requests[k] = v
	}
	for k, v := range t.sessions {
		c.sessions[k] = v
	}
	for k, v := range t.resetTokens {
		c.resetTokens[k] = v
	}
	return c
}

// Store is an in-memory repository.Store. All access is serialized by one mutex.
type Store struct {
	mu     *sync.Mutex
	data   *tables
	locked bool
}

var _ repository.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: newTables()}
}

func (s *Store) Users() repository.UserStore                 { return userStore{s} }
func (s *Store) Groups() repository.GroupStore               { return groupStore{s} }
func (s *Store) GroupRequests() repository.GroupRequestStore { return groupRequestStore{s} }
func (s *Store) Sessions() repository.SessionStore           { return sessionStore{s} }
func (s *Store) ResetTokens() repository.ResetTokenStore     { return resetTokenStore{s} }

// WithinTx runs fn against a copy of the data and publishes the copy only if
// fn succeeds. Other callers block until the transaction ends.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.locked {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := &Store{mu: s.mu, data: s.data.clone(), locked: true}
	if err := fn(work); err != nil {
		return err
	}
	*s.data = *work.data
	return nil
}

// do runs fn with the data locked, unless the caller already holds the lock.
func (s *Store) do(fn func(t *tables) error) error {
	if !s.locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}
