package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository"
)

type groupStore struct{ s *Store }

func (r groupStore) Create(_ context.Context, group *model.Group) error {
	return r.s.do(func(t *tables) error {
		now := time.Now().UTC()
		group.ID = t.nextID("groups")
		group.CreatedAt = now
		group.UpdatedAt = now
		stored := *group
		stored.Players = nil
		t.groups[group.ID] = stored
		return nil
	})
}

func (r groupStore) GetByID(_ context.Context, id int64) (*model.Group, error) {
	var found *model.Group
	err := r.s.do(func(t *tables) error {
		g, ok := t.groups[id]
		if !ok {
			return repository.ErrGroupNotFound
		}
		g = t.withPlayers(g)
		found = &g
		return nil
	})
	return found, err
}

func (r groupStore) Update(_ context.Context, group *model.Group) error {
	return r.s.do(func(t *tables) error {
		stored, ok := t.groups[group.ID]
		if !ok {
			return repository.ErrGroupNotFound
		}
		stored.Name = group.Name
		stored.Description = group.Description
		stored.Schedule = group.Schedule
		stored.Location = group.Location
		stored.Chronic = group.Chronic
		stored.UpdatedAt = time.Now().UTC()
		t.groups[group.ID] = stored
		group.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

// Delete removes the group with its memberships and requests.
func (r groupStore) Delete(_ context.Context, id int64) error {
	return r.s.do(func(t *tables) error {
		if _, ok := t.groups[id]; !ok {
			return repository.ErrGroupNotFound
		}
		delete(t.groups, id)
		delete(t.members, id)
		for reqID, req := range t.requests {
			if req.GroupID == id {
				delete(t.requests, reqID)
			}
		}
		return nil
	})
}

func (r groupStore) AddPlayer(_ context.Context, groupID, userID int64) error {
	return r.s.do(func(t *tables) error {
		if _, ok := t.groups[groupID]; !ok {
			return repository.ErrGroupNotFound
		}
		for _, id := range t.members[groupID] {
			if id == userID {
				return nil
			}
		}
		t.members[groupID] = append(t.members[groupID], userID)
		return nil
	})
}

func (r groupStore) RemovePlayer(_ context.Context, groupID, userID int64) error {
	return r.s.do(func(t *tables) error {
		players := t.members[groupID]
		for i, id := range players {
			if id == userID {
				t.members[groupID] = append(players[:i:i], players[i+1:]...)
				break
			}
		}
		return nil
	})
}

func (r groupStore) List(_ context.Context, filter model.GroupFilter) ([]model.Group, int, error) {
	groups := []model.Group{}
	var total int
	err := r.s.do(func(t *tables) error {
		ids := make([]int64, 0, len(t.groups))
		for id := range t.groups {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		text := strings.ToLower(filter.Text)
		var matched []model.Group
		for _, id := range ids {
			g := t.withPlayers(t.groups[id])
			if text != "" &&
				!strings.Contains(strings.ToLower(g.Name), text) &&
				!strings.Contains(strings.ToLower(g.Description), text) {
				continue
			}
			if filter.User != nil && !g.HasPlayer(*filter.User) {
				continue
			}
			matched = append(matched, g)
		}

		total = len(matched)
		start := min(filter.Offset(), total)
		end := total
		if filter.PerPage > 0 {
			end = min(start+filter.PerPage, total)
		}
		groups = append(groups, matched[start:end]...)
		return nil
	})
	return groups, total, err
}

func (t *tables) withPlayers(g model.Group) model.Group {
	g.Players = append([]int64{}, t.members[g.ID]...)
	return g
}
