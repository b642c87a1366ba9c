package bindings

import (
	"context"
	"testing"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
)

func TestCreateRefetchesMyTasks(t *testing.T) {
	t.Parallel()

	var stored []models.Task
	listCalls := 0
	taskAPI := &mockTaskAPI{
		MyTasksFunc: func(ctx context.Context) ([]models.Task, error) {
			listCalls++
			return append([]models.Task(nil), stored...), nil
		},
		CreateFunc: func(ctx context.Context, req api.CreateTaskRequest) (*models.Task, error) {
			task := models.Task{ID: int64(len(stored) + 1), Name: req.Name, Visibility: req.Visibility}
			stored = append(stored, task)
			return &task, nil
		},
	}
	tasks := NewTasks(taskAPI, newCache())
	ctx := context.Background()

	before, err := tasks.MyTasks(ctx)
	if err != nil || len(before) != 0 {
		t.Fatalf("Unexpected initial list %v, %v", before, err)
	}
	if _, err := tasks.Create(ctx, api.CreateTaskRequest{Name: "Write docs", Visibility: models.VisibilityPrivate}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	after, err := tasks.MyTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0].Name != "Write docs" {
		t.Errorf("Expected the new task after refetch, got %v", after)
	}
	if listCalls != 2 {
		t.Errorf("Expected 2 list loads, got %d", listCalls)
	}
}

func TestCreateFailureKeepsCache(t *testing.T) {
	t.Parallel()

	cache := newCache()
	seed(t, cache, MyTasksKey, []models.Task{{ID: 1}})
	taskAPI := &mockTaskAPI{
		CreateFunc: func(ctx context.Context, req api.CreateTaskRequest) (*models.Task, error) {
			return nil, &api.Error{Kind: api.KindValidation, Status: 422}
		},
	}
	tasks := NewTasks(taskAPI, cache)

	if _, err := tasks.Create(context.Background(), api.CreateTaskRequest{Name: "x"}); err == nil {
		t.Fatal("Expected an error")
	}
	if refetches(cache, MyTasksKey) {
		t.Error("A failed mutation must not invalidate")
	}
}

func TestUpdateInvalidatesListAndDetail(t *testing.T) {
	t.Parallel()

	cache := newCache()
	seed(t, cache, MyTasksKey, []models.Task{{ID: 7}})
	seed(t, cache, TaskFullKeyFor(7), &models.TaskDetail{ID: 7})
	seed(t, cache, TaskFullKeyFor(8), &models.TaskDetail{ID: 8})
	tasks := NewTasks(&mockTaskAPI{}, cache)

	if _, err := tasks.Update(context.Background(), api.UpdateTaskRequest{ID: 7, Name: "n", Visibility: models.VisibilityPublic}); err != nil {
		t.Fatal(err)
	}
	if !refetches(cache, MyTasksKey) || !refetches(cache, TaskFullKeyFor(7)) {
		t.Error("Expected list and detail to be stale")
	}
	if refetches(cache, TaskFullKeyFor(8)) {
		t.Error("Unrelated detail must stay fresh")
	}
}

func TestRemoveDropsDetail(t *testing.T) {
	t.Parallel()

	cache := newCache()
	seed(t, cache, MyTasksKey, []models.Task{{ID: 7}})
	seed(t, cache, TaskFullKeyFor(7), &models.TaskDetail{ID: 7})
	tasks := NewTasks(&mockTaskAPI{}, cache)

	if err := tasks.Remove(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	if !refetches(cache, MyTasksKey) {
		t.Error("Expected the list to be stale")
	}
	if !refetches(cache, TaskFullKeyFor(7)) {
		t.Error("Expected the detail to be removed")
	}
}

func TestEmptySearchMakesNoRequest(t *testing.T) {
	t.Parallel()

	called := false
	var sent string
	taskAPI := &mockTaskAPI{
		SearchFunc: func(ctx context.Context, q string) ([]models.Task, error) {
			called = true
			sent = q
			return []models.Task{{ID: 1}}, nil
		},
	}
	tasks := NewTasks(taskAPI, newCache())

	for _, q := range []string{"", "   "} {
		got, err := tasks.Search(context.Background(), q)
		if err != nil || got != nil {
			t.Errorf("Search(%q) = %v, %v", q, got, err)
		}
	}
	if called {
		t.Error("Empty queries must not reach the API")
	}

	got, err := tasks.Search(context.Background(), " docs ")
	if err != nil || len(got) != 1 || !called {
		t.Errorf("Expected a real search, got %v, %v", got, err)
	}
	if sent != " docs " {
		t.Errorf("Expected the query to be sent unchanged, got %q", sent)
	}
}

func TestAttachmentRefetchesTaskFull(t *testing.T) {
	t.Parallel()

	var attachments []models.Attachment
	fullCalls := 0
	taskAPI := &mockTaskAPI{
		FullFunc: func(ctx context.Context, id int64) (*models.TaskDetail, error) {
			fullCalls++
			return &models.TaskDetail{ID: id, Attachments: append([]models.Attachment(nil), attachments...)}, nil
		},
		AddAttachmentFunc: func(ctx context.Context, req api.AddAttachmentRequest) (*models.Attachment, error) {
			att := models.Attachment{Type: req.Type, Data: req.Data, TaskID: req.TaskID}
			attachments = append(attachments, att)
			return &att, nil
		},
	}
	tasks := NewTasks(taskAPI, newCache())
	ctx := context.Background()

	if _, err := tasks.TaskFull(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.AddAttachment(ctx, api.AddAttachmentRequest{TaskID: 3, Type: models.AttachmentURL, Data: "https://example.com"}); err != nil {
		t.Fatal(err)
	}

	detail, err := tasks.TaskFull(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Attachments) != 1 {
		t.Errorf("Expected the new attachment, got %v", detail.Attachments)
	}
	if fullCalls != 2 {
		t.Errorf("Expected 2 detail loads, got %d", fullCalls)
	}
}

func TestTaskFullZeroIDDisabled(t *testing.T) {
	t.Parallel()

	called := false
	tasks := NewTasks(&mockTaskAPI{
		FullFunc: func(ctx context.Context, id int64) (*models.TaskDetail, error) {
			called = true
			return nil, nil
		},
	}, newCache())

	detail, err := tasks.TaskFull(context.Background(), 0)
	if err != nil || detail != nil || called {
		t.Errorf("Expected a disabled query, got %v, %v, called=%v", detail, err, called)
	}
}

func TestUserTasksCachedPerUser(t *testing.T) {
	t.Parallel()

	seen := map[string]int{}
	tasks := NewTasks(&mockTaskAPI{
		UserTasksFunc: func(ctx context.Context, pid string) ([]models.Task, error) {
			seen[pid]++
			return []models.Task{{ID: 1, Name: pid}}, nil
		},
	}, newCache())
	ctx := context.Background()

	for _, pid := range []string{"a", "b", "a"} {
		got, err := tasks.UserTasks(ctx, pid)
		if err != nil || got[0].Name != pid {
			t.Fatalf("UserTasks(%q) = %v, %v", pid, got, err)
		}
	}
	if seen["a"] != 1 || seen["b"] != 1 {
		t.Errorf("Expected one load per user, got %v", seen)
	}
}

func TestFilterByVisibility(t *testing.T) {
	t.Parallel()

	all := []models.Task{
		{ID: 1, Visibility: models.VisibilityPrivate},
		{ID: 2, Visibility: models.VisibilityPublic},
		{ID: 3, Visibility: models.VisibilityPublic},
	}
	if got := FilterByVisibility(all, ""); len(got) != 3 {
		t.Errorf("Empty filter should keep all, got %d", len(got))
	}
	if got := FilterByVisibility(all, models.VisibilityPublic); len(got) != 2 {
		t.Errorf("Expected 2 public tasks, got %d", len(got))
	}
	if got := FilterByVisibility(all, models.VisibilityPaid); len(got) != 0 {
		t.Errorf("Expected no paid tasks, got %d", len(got))
	}
}

func TestRefreshReloadsListsAndDetails(t *testing.T) {
	t.Parallel()

	var listCalls, userCalls, fullCalls int
	tasks := NewTasks(&mockTaskAPI{
		MyTasksFunc: func(ctx context.Context) ([]models.Task, error) {
			listCalls++
			return nil, nil
		},
		UserTasksFunc: func(ctx context.Context, pid string) ([]models.Task, error) {
			userCalls++
			return nil, nil
		},
		FullFunc: func(ctx context.Context, id int64) (*models.TaskDetail, error) {
			fullCalls++
			return &models.TaskDetail{ID: id}, nil
		},
	}, newCache())
	ctx := context.Background()

	read := func() {
		t.Helper()
		if _, err := tasks.MyTasks(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := tasks.UserTasks(ctx, "u1"); err != nil {
			t.Fatal(err)
		}
		if _, err := tasks.TaskFull(ctx, 5); err != nil {
			t.Fatal(err)
		}
	}

	read()
	read()
	if listCalls != 1 || userCalls != 1 || fullCalls != 1 {
		t.Fatalf("Expected cached reads before refresh, got %d/%d/%d", listCalls, userCalls, fullCalls)
	}

	tasks.Refresh()
	read()
	if listCalls != 2 || userCalls != 2 || fullCalls != 2 {
		t.Errorf("Expected one reload of each query after refresh, got %d/%d/%d", listCalls, userCalls, fullCalls)
	}
}
