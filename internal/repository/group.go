package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
)

const groupColumns = `g.id, g.name, g.description, g.schedule, g.location, g.chronic, g.master, g.created_at, g.updated_at`

// GroupRepository handles group and membership persistence operations.
type GroupRepository struct {
	db DBTX
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a group row. Membership is written separately with AddPlayer.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	// groups is a reserved word in MySQL 8; every query quotes it.
	query := "INSERT INTO `groups` (name, description, schedule, location, chronic, master, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		group.Name, group.Description, group.Schedule, group.Location, group.Chronic, group.Master, now, now,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	group.ID = id
	group.CreatedAt = now
	group.UpdatedAt = now
	return nil
}

// GetByID retrieves a group and its players.
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	query := "SELECT " + groupColumns + " FROM `groups` g WHERE g.id = ?"

	group := &model.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID, &group.Name, &group.Description, &group.Schedule, &group.Location,
		&group.Chronic, &group.Master, &group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	groups := []model.Group{*group}
	if err := r.loadPlayers(ctx, groups); err != nil {
		return nil, err
	}
	return &groups[0], nil
}

// Update writes the descriptive fields of group.
func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	query := "UPDATE `groups` SET name = ?, description = ?, schedule = ?, location = ?, chronic = ?, updated_at = ? WHERE id = ?"

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		group.Name, group.Description, group.Schedule, group.Location, group.Chronic, now, group.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	group.UpdatedAt = now
	return nil
}

// Delete removes a group. Memberships and requests go with it via ON DELETE CASCADE.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM `groups` WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// AddPlayer inserts a membership row, ignoring an existing one.
func (r *GroupRepository) AddPlayer(ctx context.Context, groupID, userID int64) error {
	query := `INSERT IGNORE INTO groups_users (group_id, user_id, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, groupID, userID, time.Now().UTC())
	return err
}

// RemovePlayer deletes a membership row.
func (r *GroupRepository) RemovePlayer(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM groups_users WHERE group_id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, groupID, userID)
	return err
}

// List returns one page of groups matching filter, ordered by id, and the total match count.
func (r *GroupRepository) List(ctx context.Context, filter model.GroupFilter) ([]model.Group, int, error) {
	where, args := groupFilterClause(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM `groups` g" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Group{}, 0, nil
	}

	query := "SELECT " + groupColumns + " FROM `groups` g" + where + " ORDER BY g.id ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.PerPage, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	groups := []model.Group{}
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.Schedule, &g.Location,
			&g.Chronic, &g.Master, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadPlayers(ctx, groups); err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

func groupFilterClause(filter model.GroupFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Text != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Text)) + "%"
		conds = append(conds, "(LOWER(g.name) LIKE ? OR LOWER(g.description) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filter.User != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM groups_users gu WHERE gu.group_id = g.id AND gu.user_id = ?)")
		args = append(args, *filter.User)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// loadPlayers fills Players for each group with one query.
func (r *GroupRepository) loadPlayers(ctx context.Context, groups []model.Group) error {
	if len(groups) == 0 {
		return nil
	}

	index := make(map[int64]int, len(groups))
	args := make([]any, len(groups))
	for i := range groups {
		groups[i].Players = []int64{}
		index[groups[i].ID] = i
		args[i] = groups[i].ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(groups)), ", ")
	query := fmt.Sprintf(`SELECT group_id, user_id FROM groups_users WHERE group_id IN (%s) ORDER BY created_at ASC, user_id ASC`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, userID int64
		if err := rows.Scan(&groupID, &userID); err != nil {
			return err
		}
		if i, ok := index[groupID]; ok {
			groups[i].Players = append(groups[i].Players, userID)
		}
	}
	return rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
