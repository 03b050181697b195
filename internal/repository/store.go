package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roleplay/roleplay-go/internal/model"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store vends repositories bound to one connection or transaction.
type Store interface {
	Users() UserStore
	Groups() GroupStore
	GroupRequests() GroupRequestStore
	Sessions() SessionStore
	ResetTokens() ResetTokenStore

	// WithinTx runs fn against a transactional Store. fn's writes are
	// committed only if it returns nil. Nested calls reuse the outer transaction.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	Create(ctx context.Context, group *model.Group) error
	// GetByID returns the group with Players loaded.
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id int64) error
	// AddPlayer is idempotent: adding an existing member is a no-op.
	AddPlayer(ctx context.Context, groupID, userID int64) error
	RemovePlayer(ctx context.Context, groupID, userID int64) error
	// List returns one page of groups matching filter and the total match count.
	List(ctx context.Context, filter model.GroupFilter) ([]model.Group, int, error)
}

// GroupRequestStore persists join requests.
type GroupRequestStore interface {
	Create(ctx context.Context, req *model.GroupRequest) error
	// Get returns the request only if it belongs to groupID.
	Get(ctx context.Context, groupID, id int64) (*model.GroupRequest, error)
	FindByUserAndGroup(ctx context.Context, userID, groupID int64) (*model.GroupRequest, error)
	ListByGroupAndMaster(ctx context.Context, groupID, masterID int64) ([]model.GroupRequestDetail, error)
	UpdateStatus(ctx context.Context, id int64, status model.GroupRequestStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteByUserAndGroup(ctx context.Context, userID, groupID int64) error
}

// SessionStore persists issued bearer tokens.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	Find(ctx context.Context, tokenID string) (*model.Session, error)
	Delete(ctx context.Context, tokenID string) error
}

// ResetTokenStore persists password reset tokens.
type ResetTokenStore interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	Find(ctx context.Context, token string) (*model.PasswordResetToken, error)
	// Consume deletes token and fails with ErrResetTokenNotFound unless
	// exactly this call removed it.
	Consume(ctx context.Context, token string) error
}

// SQLStore is the MySQL-backed Store.
type SQLStore struct {
	db *sql.DB
	q  DBTX
}

// NewSQLStore creates a Store over db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

func (s *SQLStore) Users() UserStore                 { return NewUserRepository(s.q) }
func (s *SQLStore) Groups() GroupStore               { return NewGroupRepository(s.q) }
func (s *SQLStore) GroupRequests() GroupRequestStore { return NewGroupRequestRepository(s.q) }
func (s *SQLStore) Sessions() SessionStore           { return NewSessionRepository(s.q) }
func (s *SQLStore) ResetTokens() ResetTokenStore     { return NewResetTokenRepository(s.q) }

// WithinTx starts a transaction, runs fn and commits or rolls back.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&SQLStore{db: s.db, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
