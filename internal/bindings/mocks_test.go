package bindings

import (
	"context"
	"sync"
	"testing"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/query"
	"github.com/AyloRyd/taskhub/internal/session"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string]string)}
}

func (m *memStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStorage) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type mockAuthAPI struct {
	RegisterFunc       func(ctx context.Context, req api.RegisterRequest) error
	LoginFunc          func(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, req api.ResetPasswordRequest) error
	CurrentFunc        func(ctx context.Context) (*api.CurrentUserResponse, error)
	DeleteFunc         func(ctx context.Context) error
	LogoutFunc         func(ctx context.Context) error
	OAuth2URLFunc      func(ctx context.Context) (string, error)
}

func (m *mockAuthAPI) Register(ctx context.Context, req api.RegisterRequest) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil
}

func (m *mockAuthAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &api.LoginResponse{}, nil
}

func (m *mockAuthAPI) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *mockAuthAPI) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, req)
	}
	return nil
}

func (m *mockAuthAPI) Current(ctx context.Context) (*api.CurrentUserResponse, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return &api.CurrentUserResponse{}, nil
}

func (m *mockAuthAPI) Delete(ctx context.Context) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx)
	}
	return nil
}

func (m *mockAuthAPI) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *mockAuthAPI) OAuth2URL(ctx context.Context) (string, error) {
	if m.OAuth2URLFunc != nil {
		return m.OAuth2URLFunc(ctx)
	}
	return "", nil
}

type mockTaskAPI struct {
	CreateFunc        func(ctx context.Context, req api.CreateTaskRequest) (*models.Task, error)
	MyTasksFunc       func(ctx context.Context) ([]models.Task, error)
	UserTasksFunc     func(ctx context.Context, pid string) ([]models.Task, error)
	FullFunc          func(ctx context.Context, id int64) (*models.TaskDetail, error)
	UpdateFunc        func(ctx context.Context, req api.UpdateTaskRequest) (*models.Task, error)
	RemoveFunc        func(ctx context.Context, id int64) error
	SearchFunc        func(ctx context.Context, query string) ([]models.Task, error)
	AddAttachmentFunc func(ctx context.Context, req api.AddAttachmentRequest) (*models.Attachment, error)
}

func (m *mockTaskAPI) Create(ctx context.Context, req api.CreateTaskRequest) (*models.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Task{ID: 1, Name: req.Name, Visibility: req.Visibility}, nil
}

func (m *mockTaskAPI) MyTasks(ctx context.Context) ([]models.Task, error) {
	if m.MyTasksFunc != nil {
		return m.MyTasksFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskAPI) UserTasks(ctx context.Context, pid string) ([]models.Task, error) {
	if m.UserTasksFunc != nil {
		return m.UserTasksFunc(ctx, pid)
	}
	return nil, nil
}

func (m *mockTaskAPI) Full(ctx context.Context, id int64) (*models.TaskDetail, error) {
	if m.FullFunc != nil {
		return m.FullFunc(ctx, id)
	}
	return &models.TaskDetail{ID: id}, nil
}

func (m *mockTaskAPI) Update(ctx context.Context, req api.UpdateTaskRequest) (*models.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, req)
	}
	return &models.Task{ID: req.ID, Name: req.Name, Visibility: req.Visibility}, nil
}

func (m *mockTaskAPI) Remove(ctx context.Context, id int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *mockTaskAPI) Search(ctx context.Context, query string) ([]models.Task, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockTaskAPI) AddAttachment(ctx context.Context, req api.AddAttachmentRequest) (*models.Attachment, error) {
	if m.AddAttachmentFunc != nil {
		return m.AddAttachmentFunc(ctx, req)
	}
	return &models.Attachment{Type: req.Type, Data: req.Data, TaskID: req.TaskID}, nil
}

func newSession(t interface{ Fatalf(string, ...any) }) *session.Store {
	s, err := session.Load(newMemStorage())
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	return s
}

func newCache() *query.Cache {
	return query.NewCache(0)
}

// seed stores value under key as if a query had just loaded it
func seed(t *testing.T, cache *query.Cache, key query.Key, value any) {
	t.Helper()
	if _, err := query.Fetch(context.Background(), cache, key, func(context.Context) (any, error) {
		return value, nil
	}); err != nil {
		t.Fatalf("Failed to seed %v: %v", key, err)
	}
}

// refetches reports whether reading key now would call the loader. It leaves
// a fresh entry behind, so check each key once.
func refetches(cache *query.Cache, key query.Key) bool {
	called := false
	_, _ = query.Fetch(context.Background(), cache, key, func(context.Context) (any, error) {
		called = true
		return nil, nil
	})
	return called
}
