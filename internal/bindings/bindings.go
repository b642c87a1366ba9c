// Package bindings issues resource-client calls and reacts to their outcome.
//
// It is the only place that mutates the session or invalidates cached
// queries in response to network results. The response interceptor handles
// the one exception: a rejected session is torn down regardless of caller.
package bindings

import (
	"context"
	"errors"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/query"
)

// ErrSignedOut is returned by session-only queries when the local session is
// already signed out; no request is made.
var ErrSignedOut = errors.New("not signed in")

// Query keys
var (
	CurrentUserKey = query.Key{"currentUser"}
	MyTasksKey     = query.Key{"myTasks"}
	UserTasksKey   = query.Key{"userTasks"}
	TaskFullKey    = query.Key{"taskFull"}
)

// UserTasksKeyFor is the key for a user's task list
func UserTasksKeyFor(pid string) query.Key {
	return query.Key{"userTasks", pid}
}

// TaskFullKeyFor is the key for one task detail
func TaskFullKeyFor(id int64) query.Key {
	return query.Key{"taskFull", id}
}

// AuthAPI is the auth resource client
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) error
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error
	Current(ctx context.Context) (*api.CurrentUserResponse, error)
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
	OAuth2URL(ctx context.Context) (string, error)
}

// TaskAPI is the task resource client
type TaskAPI interface {
	Create(ctx context.Context, req api.CreateTaskRequest) (*models.Task, error)
	MyTasks(ctx context.Context) ([]models.Task, error)
	UserTasks(ctx context.Context, pid string) ([]models.Task, error)
	Full(ctx context.Context, id int64) (*models.TaskDetail, error)
	Update(ctx context.Context, req api.UpdateTaskRequest) (*models.Task, error)
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]models.Task, error)
	AddAttachment(ctx context.Context, req api.AddAttachmentRequest) (*models.Attachment, error)
}

// Session is the part of the session store the bindings mutate
type Session interface {
	IsAuthenticated() bool
	User() *models.Profile
	SetAuthenticated(value bool) error
	SetUser(user *models.Profile) error
	Logout() error
}
