package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

// --- Fake remote store ---

type fakeStore struct {
	tasks  map[string]models.Task
	nextID int
}

func newFakeStore(tasks ...models.Task) *fakeStore {
	f := &fakeStore{tasks: make(map[string]models.Task)}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeStore) FetchAllTasks(ctx context.Context) ([]models.Task, error) {
	out := make([]models.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) InsertTask(ctx context.Context, draft models.Task) (*models.Task, error) {
	f.nextID++
	created := draft
	created.ID = fmt.Sprintf("task-%d", f.nextID)
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	f.tasks[created.ID] = created
	return &created, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	if _, ok := f.tasks[id]; !ok {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeStore) ListWorkspaceMembers(ctx context.Context) ([]models.Profile, error) {
	return []models.Profile{
		{ID: "viewer-1", Email: "me@example.com"},
		{ID: "partner-1", Email: "partner@example.com"},
	}, nil
}

// --- Test helpers ---

func sampleTask(id string, mut ...func(*models.Task)) models.Task {
	t := models.Task{
		ID:       id,
		Title:    "task " + id,
		Priority: models.PriorityMedium,
		Status:   models.StatusOpen,
	}
	for _, m := range mut {
		m(&t)
	}
	return t
}

func newTestServer(t *testing.T, tasks ...models.Task) *Server {
	t.Helper()
	store := newFakeStore(tasks...)
	viewer := models.Profile{ID: "viewer-1", Email: "me@example.com"}
	coord := core.NewCoordinator(store, nil, core.NewTaskCache(), nil, nil, viewer)
	if err := coord.Start(context.Background()); err != nil {
		t.Fatalf("starting coordinator: %v", err)
	}
	t.Cleanup(coord.Stop)
	return NewServer(coord, "test")
}

// callTool connects an in-memory client to the server and calls one tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func structured[T any](t *testing.T, result *gomcp.CallToolResult) T {
	t.Helper()
	var out T
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshalling structured content: %v", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshalling structured content: %v", err)
	}
	return out
}

// --- Tests ---

func TestListTasks(t *testing.T) {
	srv := newTestServer(t,
		sampleTask("a"),
		sampleTask("b", func(x *models.Task) { x.Status = models.StatusDone }),
		sampleTask("c", func(x *models.Task) { x.IsArchived = true }),
	)

	result := callTool(t, srv, "list_tasks", map[string]any{"tab": "open"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", result.Content)
	}

	out := structured[listTasksOutput](t, result)
	if out.Count != 1 {
		t.Fatalf("expected 1 open task, got %d", out.Count)
	}
	if out.Tasks[0].ID != "a" {
		t.Errorf("expected task a, got %s", out.Tasks[0].ID)
	}
}

func TestListTasks_InvalidTab(t *testing.T) {
	srv := newTestServer(t, sampleTask("a"))

	result := callTool(t, srv, "list_tasks", map[string]any{"tab": "someday"})
	if !result.IsError {
		t.Fatal("expected error result for invalid tab")
	}
}

func TestCreateTask(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "create_task", map[string]any{"title": "plan the weekend"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", result.Content)
	}

	out := structured[createTaskOutput](t, result)
	if out.Task.ID == "" {
		t.Fatal("expected a server-assigned ID")
	}
	if out.Task.Title != "plan the weekend" {
		t.Errorf("expected requested title, got %q", out.Task.Title)
	}
	if out.Task.Priority != string(models.PriorityMedium) || out.Task.Status != string(models.StatusOpen) {
		t.Errorf("unexpected defaults: %+v", out.Task)
	}
}

func TestCreateTask_DefaultTitle(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "create_task", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", result.Content)
	}

	out := structured[createTaskOutput](t, result)
	if out.Task.Title != "New task" {
		t.Errorf("expected placeholder title, got %q", out.Task.Title)
	}
}

func TestToggleDone(t *testing.T) {
	srv := newTestServer(t, sampleTask("a"))

	result := callTool(t, srv, "toggle_done", map[string]any{"task_id": "a"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", result.Content)
	}

	out := structured[toggleDoneOutput](t, result)
	if out.Message != "task a is now done" {
		t.Errorf("unexpected message: %q", out.Message)
	}
}

func TestToggleDone_UnknownTask(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "toggle_done", map[string]any{"task_id": "missing"})
	if !result.IsError {
		t.Fatal("expected error result for unknown task")
	}
}

func TestGetBoard(t *testing.T) {
	srv := newTestServer(t,
		sampleTask("urgent", func(x *models.Task) { x.DueDate = "2020-01-01" }),
		sampleTask("open"),
		sampleTask("done", func(x *models.Task) { x.Status = models.StatusDone }),
	)

	result := callTool(t, srv, "get_board", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", result.Content)
	}

	out := structured[getBoardOutput](t, result)
	if len(out.Urgent) != 1 || out.Urgent[0].ID != "urgent" {
		t.Errorf("unexpected urgent column: %+v", out.Urgent)
	}
	if len(out.Open) != 1 || out.Open[0].ID != "open" {
		t.Errorf("unexpected open column: %+v", out.Open)
	}
	if len(out.Done) != 1 || out.Done[0].ID != "done" {
		t.Errorf("unexpected done column: %+v", out.Done)
	}
}
