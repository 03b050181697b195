package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
)

const groupRequestColumns = `id, user_id, group_id, status, created_at, updated_at`

// GroupRequestRepository handles join request persistence operations.
type GroupRequestRepository struct {
	db DBTX
}

// NewGroupRequestRepository creates a new GroupRequestRepository.
func NewGroupRequestRepository(db DBTX) *GroupRequestRepository {
	return &GroupRequestRepository{db: db}
}

// Create inserts a request. The (user_id, group_id) unique key turns a
// concurrent duplicate into ErrDuplicateRequest.
func (r *GroupRequestRepository) Create(ctx context.Context, req *model.GroupRequest) error {
	query := `INSERT INTO group_requests (user_id, group_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, req.UserID, req.GroupID, req.Status, now, now)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateRequest
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	req.ID = id
	req.CreatedAt = now
	req.UpdatedAt = now
	return nil
}

// Get retrieves a request scoped to its group.
func (r *GroupRequestRepository) Get(ctx context.Context, groupID, id int64) (*model.GroupRequest, error) {
	query := `SELECT ` + groupRequestColumns + ` FROM group_requests WHERE id = ? AND group_id = ?`
	return r.getOne(ctx, query, id, groupID)
}

// FindByUserAndGroup retrieves the request a user made for a group, in any state.
func (r *GroupRequestRepository) FindByUserAndGroup(ctx context.Context, userID, groupID int64) (*model.GroupRequest, error) {
	query := `SELECT ` + groupRequestColumns + ` FROM group_requests WHERE user_id = ? AND group_id = ?`
	return r.getOne(ctx, query, userID, groupID)
}

// ListByGroupAndMaster returns the requests of groupID when its master is
// masterID, joined with the group and requester.
func (r *GroupRequestRepository) ListByGroupAndMaster(ctx context.Context, groupID, masterID int64) ([]model.GroupRequestDetail, error) {
	query := "SELECT gr.id, gr.user_id, gr.group_id, gr.status, gr.created_at, gr.updated_at, g.name, g.master, u.username" +
		" FROM group_requests gr" +
		" JOIN `groups` g ON g.id = gr.group_id" +
		" JOIN users u ON u.id = gr.user_id" +
		" WHERE gr.group_id = ? AND g.master = ?" +
		" ORDER BY gr.id ASC"

	rows, err := r.db.QueryContext(ctx, query, groupID, masterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []model.GroupRequestDetail{}
	for rows.Next() {
		var d model.GroupRequestDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.GroupID, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.GroupName, &d.GroupMaster, &d.Username,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

// UpdateStatus moves a request to status.
func (r *GroupRequestRepository) UpdateStatus(ctx context.Context, id int64, status model.GroupRequestStatus) error {
	query := `UPDATE group_requests SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrGroupRequestNotFound)
}

// Delete removes a request permanently.
func (r *GroupRequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrGroupRequestNotFound)
}

// DeleteByUserAndGroup removes whatever request userID holds for groupID, if any.
func (r *GroupRequestRepository) DeleteByUserAndGroup(ctx context.Context, userID, groupID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM group_requests WHERE user_id = ? AND group_id = ?`, userID, groupID)
	return err
}

func (r *GroupRequestRepository) getOne(ctx context.Context, query string, args ...any) (*model.GroupRequest, error) {
	req := &model.GroupRequest{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&req.ID, &req.UserID, &req.GroupID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// requireRow maps a zero-row write to notFound.
func requireRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
