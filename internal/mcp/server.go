// Package mcp exposes the shared task list as MCP tools, so an AI coding
// assistant can read and update the couple's board alongside its user.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

// Server wraps the mutation coordinator and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	coord  *core.Coordinator
}

// NewServer creates an MCP server for the given coordinator.
func NewServer(coord *core.Coordinator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{coord: coord}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "pairtask", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listTasksInput struct {
	Tab string `json:"tab,omitempty" jsonschema:"tab to filter by (open, due_today, assigned_both, assigned_me, assigned_partner, overdue, all, done, archived). Defaults to open."`
}

type taskOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Memo     string `json:"memo,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Priority string `json:"priority"`
	Assignee string `json:"assignee,omitempty"`
	Status   string `json:"status"`
	Archived bool   `json:"archived,omitempty"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Title string `json:"title,omitempty" jsonschema:"title for the new task (1-100 characters). Defaults to a placeholder."`
}

type createTaskOutput struct {
	Task taskOutput `json:"task"`
}

type toggleDoneInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type toggleDoneOutput struct {
	Message string `json:"message"`
}

type getBoardInput struct {
	Tab string `json:"tab,omitempty" jsonschema:"tab whose filtered set is partitioned into columns. Defaults to all."`
}

type getBoardOutput struct {
	Urgent []taskOutput `json:"urgent"`
	Open   []taskOutput `json:"open"`
	Done   []taskOutput `json:"done"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List shared tasks for a tab, sorted by due date, priority, and recency.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new shared task with default priority and open status.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_done",
		Description: "Flip a task between open and done.",
	}, s.handleToggleDone)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_board",
		Description: "Partition a tab's tasks into urgent, open, and done board columns.",
	}, s.handleGetBoard)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	tab, err := resolveTab(input.Tab, models.TabOpen)
	if err != nil {
		return errorResult(err.Error()), listTasksOutput{}, nil
	}

	visible := core.VisibleTasks(s.coord.Cache().Snapshot(), tab, s.coord.Viewer().ID, s.coord.PartnerID(), core.Today())
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(visible)),
		Count: len(visible),
	}
	for i, t := range visible {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleCreateTask(ctx context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, createTaskOutput, error) {
	created, err := s.coord.CreateTask(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), createTaskOutput{}, nil
	}

	if input.Title != "" {
		title := input.Title
		if err := s.coord.Patch(ctx, created.ID, models.TaskPatch{Title: &title}); err != nil {
			return errorResult(fmt.Sprintf("setting title: %s", err)), createTaskOutput{}, nil
		}
		if t, ok := s.coord.Cache().Get(created.ID); ok {
			created = &t
		}
	}

	return nil, createTaskOutput{Task: taskToOutput(*created)}, nil
}

func (s *Server) handleToggleDone(ctx context.Context, _ *gomcp.CallToolRequest, input toggleDoneInput) (*gomcp.CallToolResult, toggleDoneOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), toggleDoneOutput{}, nil
	}
	if err := s.coord.ToggleDone(ctx, input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("toggling task %s: %s", input.TaskID, err)), toggleDoneOutput{}, nil
	}

	t, _ := s.coord.Cache().Get(input.TaskID)
	return nil, toggleDoneOutput{
		Message: fmt.Sprintf("task %s is now %s", input.TaskID, t.Status),
	}, nil
}

func (s *Server) handleGetBoard(_ context.Context, _ *gomcp.CallToolRequest, input getBoardInput) (*gomcp.CallToolResult, getBoardOutput, error) {
	tab, err := resolveTab(input.Tab, models.TabAll)
	if err != nil {
		return errorResult(err.Error()), getBoardOutput{}, nil
	}

	today := core.Today()
	visible := core.VisibleTasks(s.coord.Cache().Snapshot(), tab, s.coord.Viewer().ID, s.coord.PartnerID(), today)
	board := core.Categorize(visible, today)

	out := getBoardOutput{
		Urgent: tasksToOutput(board.Urgent),
		Open:   tasksToOutput(board.Open),
		Done:   tasksToOutput(board.Done),
	}
	return nil, out, nil
}

// --- Helpers ---

func resolveTab(raw string, fallback models.Tab) (models.Tab, error) {
	if raw == "" {
		return fallback, nil
	}
	tab := models.Tab(raw)
	if !models.ValidTab(tab) {
		return "", fmt.Errorf("invalid tab %q", raw)
	}
	return tab, nil
}

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:       t.ID,
		Title:    t.Title,
		Memo:     t.Memo,
		DueDate:  t.DueDate,
		Priority: string(t.Priority),
		Assignee: t.Assignee,
		Status:   string(t.Status),
		Archived: t.IsArchived,
	}
}

func tasksToOutput(tasks []models.Task) []taskOutput {
	out := make([]taskOutput, len(tasks))
	for i, t := range tasks {
		out[i] = taskToOutput(t)
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
