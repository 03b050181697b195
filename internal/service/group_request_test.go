package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/roleplay/roleplay-go/internal/model"
)

func TestGroupRequestLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.register(t, "bob")
	a := env.register(t, "alice")
	g := env.createGroup(t, b.ID, "G")

	req, err := env.requests.Create(ctx, a.ID, g.ID)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if req.Status != model.GroupRequestPending || req.UserID != a.ID || req.GroupID != g.ID {
		t.Errorf("unexpected request: %+v", req)
	}

	list, err := env.requests.List(ctx, g.ID, b.ID)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].User == nil || list[0].User.Username != "alice" || list[0].Group.Name != "G" {
		t.Errorf("unexpected list: %+v", list)
	}

	if list, _ := env.requests.List(ctx, g.ID, a.ID); len(list) != 0 {
		t.Errorf("non master listed %d requests", len(list))
	}

	accepted, err := env.requests.Accept(ctx, b.ID, g.ID, req.ID)
	if err != nil {
		t.Fatalf("Accept() error: %v", err)
	}
	if accepted.Status != model.GroupRequestAccepted {
		t.Errorf("Status = %s, want ACCEPTED", accepted.Status)
	}

	if _, err := env.requests.Accept(ctx, b.ID, g.ID, req.ID); err != nil {
		t.Fatalf("second Accept() error: %v", err)
	}
	stored, _ := env.store.Groups().GetByID(ctx, g.ID)
	if !reflect.DeepEqual(stored.Players, []int64{b.ID, a.ID}) {
		t.Errorf("Players = %v, want [%d %d]", stored.Players, b.ID, a.ID)
	}

	if _, err := env.requests.Create(ctx, a.ID, g.ID); !errors.Is(err, ErrRequestExists) {
		t.Errorf("second request: error = %v, want ErrRequestExists", err)
	}
}

func TestCreateGroupRequest_Errors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.register(t, "bob")
	g := env.createGroup(t, b.ID, "G")

	if _, err := env.requests.Create(ctx, b.ID, 999); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("missing group: error = %v, want ErrGroupNotFound", err)
	}
	if _, err := env.requests.Create(ctx, b.ID, g.ID); !errors.Is(err, ErrAlreadyPlayer) {
		t.Errorf("master requesting: error = %v, want ErrAlreadyPlayer", err)
	}
}

func TestAcceptReject_Authorization(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	b := env.register(t, "bob")
	a := env.register(t, "alice")
	g := env.createGroup(t, b.ID, "G")
	other := env.createGroup(t, b.ID, "Other")

	req, err := env.requests.Create(ctx, a.ID, g.ID)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	tests := []struct {
		name    string
		actor   int64
		groupID int64
		reqID   int64
		wantErr error
	}{
		{name: "missing group", actor: b.ID, groupID: 999, reqID: req.ID, wantErr: ErrGroupNotFound},
		{name: "missing request", actor: b.ID, groupID: g.ID, reqID: 999, wantErr: ErrRequestNotFound},
		{name: "request of another group", actor: b.ID, groupID: other.ID, reqID: req.ID, wantErr: ErrRequestNotFound},
		{name: "non master", actor: a.ID, groupID: g.ID, reqID: req.ID, wantErr: ErrNotMasterRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.requests.Accept(ctx, tt.actor, tt.groupID, tt.reqID); !errors.Is(err, tt.wantErr) {
				t.Errorf("Accept() error = %v, want %v", err, tt.wantErr)
			}
			if err := env.requests.Reject(ctx, tt.actor, tt.groupID, tt.reqID); !errors.Is(err, tt.wantErr) {
				t.Errorf("Reject() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := env.requests.Reject(ctx, b.ID, g.ID, req.ID); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if err := env.requests.Reject(ctx, b.ID, g.ID, req.ID); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("second Reject() error = %v, want ErrRequestNotFound", err)
	}
	stored, _ := env.store.Groups().GetByID(ctx, g.ID)
	if stored.HasPlayer(a.ID) {
		t.Error("rejected user became a player")
	}
}
