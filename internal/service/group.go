package service

import (
	"context"
	"errors"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
	"github.com/roleplay/roleplay-go/internal/validation"
)

// MaxPageSize caps perPage on group listings.
const MaxPageSize = 100

// GroupService handles group business logic.
type GroupService struct {
	store           repository.Store
	defaultPageSize int
}

// NewGroupService creates a new GroupService. pageSize is used when a
// listing does not ask for one.
func NewGroupService(store repository.Store, pageSize int) *GroupService {
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = 20
	}
	return &GroupService{store: store, defaultPageSize: pageSize}
}

// Create stores a group owned by the acting user, who becomes its first player.
func (s *GroupService) Create(ctx context.Context, actingUserID int64, req model.CreateGroupRequest) (model.GroupResponse, error) {
	if err := validation.Struct(req); err != nil {
		return model.GroupResponse{}, err
	}

	group := &model.Group{
		Name:        req.Name,
		Description: req.Description,
		Schedule:    req.Schedule,
		Location:    req.Location,
		Chronic:     req.Chronic,
		Master:      actingUserID,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Groups().Create(ctx, group); err != nil {
			return err
		}
		return tx.Groups().AddPlayer(ctx, group.ID, actingUserID)
	})
	if err != nil {
		return model.GroupResponse{}, err
	}

	group.Players = []int64{actingUserID}
	return group.ToResponse(), nil
}

// Update applies the fields present in req. Only the master may update.
func (s *GroupService) Update(ctx context.Context, actingUserID, id int64, req model.UpdateGroupRequest) (model.GroupResponse, error) {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return model.GroupResponse{}, err
	}
	if group.Master != actingUserID {
		return model.GroupResponse{}, ErrNotMasterUpdate
	}

	if err := validation.Struct(req); err != nil {
		return model.GroupResponse{}, err
	}

	setIfPresent(&group.Name, req.Name)
	setIfPresent(&group.Description, req.Description)
	setIfPresent(&group.Schedule, req.Schedule)
	setIfPresent(&group.Location, req.Location)
	setIfPresent(&group.Chronic, req.Chronic)

	if err := s.store.Groups().Update(ctx, group); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return model.GroupResponse{}, ErrGroupNotFound
		}
		return model.GroupResponse{}, err
	}

	return group.ToResponse(), nil
}

// Delete removes a group with its memberships and requests. Only the master may delete.
func (s *GroupService) Delete(ctx context.Context, actingUserID, id int64) error {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return err
	}
	if group.Master != actingUserID {
		return ErrNotMasterDelete
	}

	if err := s.store.Groups().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}

// RemovePlayer drops userID from the group and forgets their join request,
// so they may ask to join again.
func (s *GroupService) RemovePlayer(ctx context.Context, actingUserID, groupID, userID int64) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.Master != actingUserID {
		return ErrNotMasterPlayers
	}
	if userID == group.Master {
		return ErrMasterNotRemovable
	}

	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Groups().RemovePlayer(ctx, groupID, userID); err != nil {
			return err
		}
		return tx.GroupRequests().DeleteByUserAndGroup(ctx, userID, groupID)
	})
}

// List returns one page of groups matching filter.
func (s *GroupService) List(ctx context.Context, filter model.GroupFilter) (model.GroupPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = s.defaultPageSize
	}
	if filter.PerPage > MaxPageSize {
		filter.PerPage = MaxPageSize
	}

	groups, total, err := s.store.Groups().List(ctx, filter)
	if err != nil {
		return model.GroupPage{}, err
	}

	data := make([]model.GroupResponse, 0, len(groups))
	for i := range groups {
		data = append(data, groups[i].ToResponse())
	}

	return model.GroupPage{
		Meta: model.NewPageMeta(total, filter.Page, filter.PerPage),
		Data: data,
	}, nil
}

func (s *GroupService) getGroup(ctx context.Context, id int64) (*model.Group, error) {
	group, err := s.store.Groups().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
