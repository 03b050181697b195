package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/roleplay/roleplay-go/internal/crypto"
	"github.com/roleplay/roleplay-go/internal/mail"
	"github.com/roleplay/roleplay-go/internal/model"
	"github.com/roleplay/roleplay-go/internal/repository/memory"
	"github.com/roleplay/roleplay-go/internal/validation"
)

var testHasher = crypto.NewHasher(crypto.HashParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
})

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testEnv struct {
	store    *memory.Store
	users    *UserService
	groups   *GroupService
	requests *GroupRequestService
	password *PasswordService
	sessions *SessionService
	mailer   *recordingMailer
}

func newTestEnv() *testEnv {
	store := memory.New()
	mailer := &recordingMailer{}
	return &testEnv{
		store:    store,
		users:    NewUserService(store, testHasher),
		groups:   NewGroupService(store, 20),
		requests: NewGroupRequestService(store),
		password: NewPasswordService(store, testHasher, mailer, "no-reply@roleplay.com", 2*time.Hour),
		sessions: NewSessionService(store, testHasher, crypto.NewSigner("test-secret", time.Hour)),
		mailer:   mailer,
	}
}

func (e *testEnv) register(t *testing.T, username string) model.UserResponse {
	t.Helper()
	u, err := e.users.Register(context.Background(), model.CreateUserRequest{
		Username: username,
		Email:    username + "@x.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Register(%s) error: %v", username, err)
	}
	return u
}

func (e *testEnv) createGroup(t *testing.T, master int64, name string) model.GroupResponse {
	t.Helper()
	g, err := e.groups.Create(context.Background(), master, model.CreateGroupRequest{
		Name:        name,
		Description: name + " description",
		Schedule:    "Monday 20h",
		Location:    "online",
		Chronic:     "weekly",
	})
	if err != nil {
		t.Fatalf("Create(%s) error: %v", name, err)
	}
	return g
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	for _, f := range verr.Fields {
		if f.Field == field {
			return
		}
	}
	t.Errorf("expected validation error on %q, got %+v", field, verr.Fields)
}
