package bindings

import (
	"context"
	"strings"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/query"
)

// Tasks binds the task resource client to the query cache
type Tasks struct {
	api   TaskAPI
	cache *query.Cache
}

// NewTasks creates the task bindings
func NewTasks(taskAPI TaskAPI, cache *query.Cache) *Tasks {
	return &Tasks{api: taskAPI, cache: cache}
}

// MyTasks returns the signed-in user's tasks, cached under MyTasksKey
func (t *Tasks) MyTasks(ctx context.Context) ([]models.Task, error) {
	return query.Fetch(ctx, t.cache, MyTasksKey, t.api.MyTasks)
}

// UserTasks returns another user's visible tasks
func (t *Tasks) UserTasks(ctx context.Context, pid string) ([]models.Task, error) {
	return query.Fetch(ctx, t.cache, UserTasksKeyFor(pid), func(ctx context.Context) ([]models.Task, error) {
		return t.api.UserTasks(ctx, pid)
	})
}

// TaskFull returns a task with owner and attachments. id 0 disables the query.
func (t *Tasks) TaskFull(ctx context.Context, id int64) (*models.TaskDetail, error) {
	if id == 0 {
		return nil, nil
	}
	return query.Fetch(ctx, t.cache, TaskFullKeyFor(id), func(ctx context.Context) (*models.TaskDetail, error) {
		return t.api.Full(ctx, id)
	})
}

// Refresh marks every task list and detail stale so the next read goes to
// the API
func (t *Tasks) Refresh() {
	t.cache.Invalidate(MyTasksKey)
	t.cache.Invalidate(UserTasksKey)
	t.cache.Invalidate(TaskFullKey)
}

// Create creates a task and invalidates the user's task list
func (t *Tasks) Create(ctx context.Context, req api.CreateTaskRequest) (*models.Task, error) {
	task, err := t.api.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	t.cache.Invalidate(MyTasksKey)
	return task, nil
}

// Update changes a task and invalidates both the list and its detail
func (t *Tasks) Update(ctx context.Context, req api.UpdateTaskRequest) (*models.Task, error) {
	task, err := t.api.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	t.cache.Invalidate(MyTasksKey)
	t.cache.Invalidate(TaskFullKeyFor(req.ID))
	return task, nil
}

// Remove deletes a task, invalidates the list and drops its detail
func (t *Tasks) Remove(ctx context.Context, id int64) error {
	if err := t.api.Remove(ctx, id); err != nil {
		return err
	}
	t.cache.Invalidate(MyTasksKey)
	t.cache.Remove(TaskFullKeyFor(id))
	return nil
}

// Search looks tasks up by name. A blank query makes no request; anything
// else is sent as typed.
func (t *Tasks) Search(ctx context.Context, q string) ([]models.Task, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	return t.api.Search(ctx, q)
}

// AddAttachment attaches data to a task and invalidates that task's detail
func (t *Tasks) AddAttachment(ctx context.Context, req api.AddAttachmentRequest) (*models.Attachment, error) {
	att, err := t.api.AddAttachment(ctx, req)
	if err != nil {
		return nil, err
	}
	t.cache.Invalidate(TaskFullKeyFor(req.TaskID))
	return att, nil
}

// FilterByVisibility keeps tasks with the given visibility. An empty
// visibility keeps everything.
func FilterByVisibility(tasks []models.Task, v models.Visibility) []models.Task {
	if v == "" {
		return tasks
	}
	var out []models.Task
	for _, task := range tasks {
		if task.Visibility == v {
			out = append(out, task)
		}
	}
	return out
}
