package service

import (
	"context"
	"errors"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

// GroupRequestService drives join requests: PENDING, then ACCEPTED or deleted.
type GroupRequestService struct {
	store repository.Store
}

// NewGroupRequestService creates a new GroupRequestService.
func NewGroupRequestService(store repository.Store) *GroupRequestService {
	return &GroupRequestService{store: store}
}

// Create files a pending request from the acting user to join groupID.
func (s *GroupRequestService) Create(ctx context.Context, actingUserID, groupID int64) (model.GroupRequestResponse, error) {
	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return model.GroupRequestResponse{}, ErrGroupNotFound
		}
		return model.GroupRequestResponse{}, err
	}

	_, err = s.store.GroupRequests().FindByUserAndGroup(ctx, actingUserID, groupID)
	switch {
	case err == nil:
		return model.GroupRequestResponse{}, ErrRequestExists
	case !errors.Is(err, repository.ErrGroupRequestNotFound):
		return model.GroupRequestResponse{}, err
	}

	if group.HasPlayer(actingUserID) {
		return model.GroupRequestResponse{}, ErrAlreadyPlayer
	}

	req := &model.GroupRequest{
		UserID:  actingUserID,
		GroupID: groupID,
		Status:  model.GroupRequestPending,
	}
	if err := s.store.GroupRequests().Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			return model.GroupRequestResponse{}, ErrRequestExists
		}
		return model.GroupRequestResponse{}, err
	}

	return req.ToResponse(), nil
}

// List returns the requests of groupID if masterID is its master, otherwise none.
func (s *GroupRequestService) List(ctx context.Context, groupID, masterID int64) ([]model.GroupRequestResponse, error) {
	details, err := s.store.GroupRequests().ListByGroupAndMaster(ctx, groupID, masterID)
	if err != nil {
		return nil, err
	}

	out := make([]model.GroupRequestResponse, 0, len(details))
	for i := range details {
		out = append(out, details[i].ToResponse())
	}
	return out, nil
}

// Accept marks the request ACCEPTED and adds its user to the group.
// Accepting twice leaves a single membership.
func (s *GroupRequestService) Accept(ctx context.Context, actingUserID, groupID, requestID int64) (model.GroupRequestResponse, error) {
	var accepted *model.GroupRequest
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		req, err := s.authorize(ctx, tx, actingUserID, groupID, requestID)
		if err != nil {
			return err
		}

		if err := tx.GroupRequests().UpdateStatus(ctx, req.ID, model.GroupRequestAccepted); err != nil {
			return mapRequestNotFound(err)
		}
		if err := tx.Groups().AddPlayer(ctx, groupID, req.UserID); err != nil {
			return err
		}

		accepted, err = tx.GroupRequests().Get(ctx, groupID, req.ID)
		return mapRequestNotFound(err)
	})
	if err != nil {
		return model.GroupRequestResponse{}, err
	}
	return accepted.ToResponse(), nil
}

// Reject deletes the request.
func (s *GroupRequestService) Reject(ctx context.Context, actingUserID, groupID, requestID int64) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		req, err := s.authorize(ctx, tx, actingUserID, groupID, requestID)
		if err != nil {
			return err
		}
		return mapRequestNotFound(tx.GroupRequests().Delete(ctx, req.ID))
	})
}

// authorize loads the group and its request and checks the actor is the master.
func (s *GroupRequestService) authorize(ctx context.Context, tx repository.Store, actingUserID, groupID, requestID int64) (*model.GroupRequest, error) {
	group, err := tx.Groups().GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	req, err := tx.GroupRequests().Get(ctx, groupID, requestID)
	if err != nil {
		return nil, mapRequestNotFound(err)
	}

	if group.Master != actingUserID {
		return nil, ErrNotMasterRequest
	}
	return req, nil
}

func mapRequestNotFound(err error) error {
	if errors.Is(err, repository.ErrGroupRequestNotFound) {
		return ErrRequestNotFound
	}
	return err
}
