package auth_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/pkg/password"
	"github.com/cybertodo/backend/repository"
	"github.com/cybertodo/backend/usecase/auth"
	"github.com/cybertodo/backend/usecase/todo"
)

type fakeUserRepo struct {
	byID       map[string]domain.User
	byUsername map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[string]domain.User),
		byUsername: make(map[string]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, taken := r.byUsername[user.Username]; taken {
		return domain.ErrDuplicateUser
	}
	user.CreatedAt = time.Now()
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(context.Background(), id)
}

type fakeSessionRepo struct {
	sessions map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func newTestUseCase(t *testing.T) (*auth.UseCase, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	uc := auth.New(users, sessions, password.NewHasher(), auth.NewTokenManager("test-secret"), time.Hour, nil)
	return uc, users, sessions
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		pass     string
	}{
		{"short username", "ab", "a@example.com", "secret1"},
		{"bad email", "alice", "not-an-email", "secret1"},
		{"short password", "alice", "a@example.com", "12345"},
		{"oversized password", "alice", "a@example.com", string(make([]byte, 73))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.username, tt.email, tt.pass)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Errorf("Register = %v, want INVALID domain error", err)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	uc, users, _ := newTestUseCase(t)
	ctx := context.Background()

	first, err := uc.Register(ctx, "alice", "alice@example.com", "original-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := uc.Register(ctx, "alice", "other@example.com", "hijacked-pass"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("duplicate Register = %v, want ErrDuplicateUser", err)
	}

	// The stored digest must be the original one.
	stored, err := users.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.PasswordHash != first.PasswordHash {
		t.Error("duplicate registration replaced the stored password digest")
	}
	if !password.NewHasher().Verify(stored.PasswordHash, "original-pass") {
		t.Error("stored digest no longer matches the original password")
	}
}

// Unknown usernames and wrong passwords fail identically so login
// cannot be used to enumerate accounts.
func TestLoginFailuresAreGeneric(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	if _, err := uc.Register(ctx, "alice", "alice@example.com", "correct-pass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPass := uc.Login(ctx, "alice", "wrong-pass")
	_, _, noUser := uc.Login(ctx, "nobody", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user = %v, want ErrInvalidCredentials", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPass, noUser)
	}
}

func TestLoginResolveLogout(t *testing.T) {
	uc, _, sessions := newTestUseCase(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, "alice", "alice@example.com", "correct-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := uc.Login(ctx, "alice", "correct-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("login returned user %q, want %q", user.ID, registered.ID)
	}
	if token == "" {
		t.Fatal("login returned empty token")
	}

	session, err := uc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if session.UserID != registered.ID {
		t.Errorf("session user = %q, want %q", session.UserID, registered.ID)
	}

	if err := uc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := uc.Resolve(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Resolve after logout = %v, want ErrUnauthorized", err)
	}

	// Logout with a revoked or garbage token is a no-op.
	if err := uc.Logout(ctx, token); err != nil {
		t.Errorf("repeated Logout = %v, want nil", err)
	}
	if err := uc.Logout(ctx, "garbage"); err != nil {
		t.Errorf("Logout with garbage token = %v, want nil", err)
	}
	if len(sessions.sessions) != 0 {
		t.Errorf("%d sessions left after logout, want 0", len(sessions.sessions))
	}
}

func TestResolveExpiredSession(t *testing.T) {
	uc, _, sessions := newTestUseCase(t)
	ctx := context.Background()

	// Expired record with a still-valid signature: only the stored
	// session decides liveness.
	mgr := auth.NewTokenManager("test-secret")
	expired := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := sessions.Save(ctx, expired); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stale := &domain.Session{ID: expired.ID, UserID: expired.UserID, ExpiresAt: time.Now().Add(time.Hour)}
	token, err := mgr.Issue(stale)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := uc.Resolve(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Resolve expired session = %v, want ErrUnauthorized", err)
	}
	if _, ok := sessions.sessions[expired.ID]; ok {
		t.Error("expired session not purged on resolve")
	}
}

// fakeTodoRepo backs the end-to-end scenario below.
type fakeTodoRepo struct {
	todos map[string]domain.Todo
	seq   int
}

func (r *fakeTodoRepo) stamp() time.Time {
	r.seq++
	return time.Date(2077, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Millisecond)
}

func (r *fakeTodoRepo) GetByID(_ context.Context, id string) (*domain.Todo, error) {
	item, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	return &item, nil
}

func (r *fakeTodoRepo) List(_ context.Context, filter repository.TodoFilter) ([]domain.Todo, error) {
	var out []domain.Todo
	for _, item := range r.todos {
		if item.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && item.Priority != filter.Priority {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTodoRepo) Create(_ context.Context, item *domain.Todo) (*domain.Todo, error) {
	item.ID = uuid.NewString()
	now := r.stamp()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.todos[item.ID] = *item
	return item, nil
}

func (r *fakeTodoRepo) Update(_ context.Context, item *domain.Todo) error {
	if _, ok := r.todos[item.ID]; !ok {
		return domain.ErrTodoNotFound
	}
	item.UpdatedAt = r.stamp()
	r.todos[item.ID] = *item
	return nil
}

func (r *fakeTodoRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.todos[id]; !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *fakeTodoRepo) Stats(_ context.Context, userID string) (*repository.StatsRow, error) {
	row := repository.StatsRow{OpenByPriority: map[domain.Priority]int{}}
	for _, item := range r.todos {
		if item.UserID != userID {
			continue
		}
		row.Total++
		if item.IsCompleted() {
			row.Completed++
		} else {
			row.OpenByPriority[item.Priority]++
		}
	}
	return &row, nil
}

// Full account lifecycle: register, log in, work a todo to completion,
// read the aggregate back.
func TestAccountLifecycle(t *testing.T) {
	authUC, _, _ := newTestUseCase(t)
	todoUC := todo.New(&fakeTodoRepo{todos: make(map[string]domain.Todo)}, nil)
	ctx := context.Background()

	if _, err := authUC.Register(ctx, "admin", "admin@cybertodo.local", "admin123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, token, err := authUC.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	session, err := authUC.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	created, err := todoUC.Create(ctx, session.UserID, todo.CreateInput{
		Title:    "Patrol sector 7",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := todoUC.Toggle(ctx, session.UserID, created.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if toggled.Status != domain.StatusCompleted {
		t.Errorf("status after toggle = %q, want completed", toggled.Status)
	}

	stats, err := todoUC.Stats(ctx, session.UserID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 1 || stats.Pending != 0 || stats.Completed != 1 || stats.CompletionRate != 100 {
		t.Errorf("stats = %+v, want total 1, pending 0, completed 1, rate 100", stats)
	}
}
