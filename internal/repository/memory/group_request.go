package memory

import (
	"context"
	"sort"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

type groupRequestStore struct{ s *Store }

func (r groupRequestStore) Create(_ context.Context, req *model.GroupRequest) error {
	return r.s.do(func(t *tables) error {
		for _, existing := range t.requests {
			if existing.UserID == req.UserID && existing.GroupID == req.GroupID {
				return repository.ErrDuplicateRequest
			}
		}
		now := time.Now().UTC()
		req.ID = t.nextID("group_requests")
		req.CreatedAt = now
		req.UpdatedAt = now
		t.requests[req.ID] = *req
		return nil
	})
}

func (r groupRequestStore) Get(_ context.Context, groupID, id int64) (*model.GroupRequest, error) {
	return r.find(func(req model.GroupRequest) bool { return req.ID == id && req.GroupID == groupID })
}

func (r groupRequestStore) FindByUserAndGroup(_ context.Context, userID, groupID int64) (*model.GroupRequest, error) {
	return r.find(func(req model.GroupRequest) bool { return req.UserID == userID && req.GroupID == groupID })
}

func (r groupRequestStore) ListByGroupAndMaster(_ context.Context, groupID, masterID int64) ([]model.GroupRequestDetail, error) {
	details := []model.GroupRequestDetail{}
	err := r.s.do(func(t *tables) error {
		g, ok := t.groups[groupID]
		if !ok || g.Master != masterID {
			return nil
		}
		for _, req := range t.requests {
			if req.GroupID != groupID {
				continue
			}
			details = append(details, model.GroupRequestDetail{
				GroupRequest: req,
				GroupName:    g.Name,
				GroupMaster:  g.Master,
				Username:     t.users[req.UserID].Username,
			})
		}
		sort.Slice(details, func(i, j int) bool { return details[i].ID < details[j].ID })
		return nil
	})
	return details, err
}

func (r groupRequestStore) UpdateStatus(_ context.Context, id int64, status model.GroupRequestStatus) error {
	return r.s.do(func(t *tables) error {
		req, ok := t.requests[id]
		if !ok {
			return repository.ErrGroupRequestNotFound
		}
		req.Status = status
		req.UpdatedAt = time.Now().UTC()
		t.requests[id] = req
		return nil
	})
}

func (r groupRequestStore) Delete(_ context.Context, id int64) error {
	return r.s.do(func(t *tables) error {
		if _, ok := t.requests[id]; !ok {
			return repository.ErrGroupRequestNotFound
		}
		delete(t.requests, id)
		return nil
	})
}

func (r groupRequestStore) DeleteByUserAndGroup(_ context.Context, userID, groupID int64) error {
	return r.s.do(func(t *tables) error {
		for id, req := range t.requests {
			if req.UserID == userID && req.GroupID == groupID {
				delete(t.requests, id)
			}
		}
		return nil
	})
}

func (r groupRequestStore) find(match func(model.GroupRequest) bool) (*model.GroupRequest, error) {
	var found *model.GroupRequest
	err := r.s.do(func(t *tables) error {
		for _, req := range t.requests {
			if match(req) {
				found = &req
				return nil
			}
		}
		return repository.ErrGroupRequestNotFound
	})
	return found, err
}
