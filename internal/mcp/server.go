// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the dayplan task list as tools for AI assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Server wraps a TaskListController and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	controller  core.TaskListController
	metricsCalc observability.MetricsCalculator
}

// NewServer creates an MCP server over controller. metricsCalc may be nil if
// the event log is disabled.
func NewServer(controller core.TaskListController, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		controller:  controller,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "dayplan", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run serves MCP over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type todoOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type listTodosInput struct {
	Filter  string `json:"filter,omitempty" jsonschema:"which todos to show: All, Complete or Incomplete. Defaults to the current filter."`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"reload the list from the remote collection first"`
}

type listTodosOutput struct {
	Filter string       `json:"filter"`
	Todos  []todoOutput `json:"todos"`
	Count  int          `json:"count"`
}

type addTodoInput struct {
	Title string `json:"title" jsonschema:"the text of the new todo"`
}

type updateTodoInput struct {
	ID        string `json:"id" jsonschema:"the id of the todo to update"`
	Title     string `json:"title" jsonschema:"the new text of the todo"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"the new completion status. Omit to keep the current status."`
}

type idInput struct {
	ID string `json:"id" jsonschema:"the id of the todo"`
}

type emptyInput struct{}

type messageOutput struct {
	Message string      `json:"message"`
	Todo    *todoOutput `json:"todo,omitempty"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	Loads          int            `json:"loads"`
	TodosCreated   int            `json:"todos_created"`
	TodosUpdated   int            `json:"todos_updated"`
	TodosCompleted int            `json:"todos_completed"`
	TodosReopened  int            `json:"todos_reopened"`
	TodosRemoved   int            `json:"todos_removed"`
	Clears         int            `json:"clears"`
	Failures       map[string]int `json:"failures"`
	Sessions       int            `json:"sessions"`
	EventCount     int            `json:"event_count"`
	OldestEvent    string         `json:"oldest_event,omitempty"`
	NewestEvent    string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_todos",
		Description: "List todos, optionally filtered by completion (All, Complete, Incomplete). Order is the order of the remote list with new todos first.",
	}, s.handleListTodos)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_todo",
		Description: "Create a new incomplete todo. Blank titles are ignored.",
	}, s.handleAddTodo)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_todo",
		Description: "Replace the title (and optionally the completion status) of a todo.",
	}, s.handleUpdateTodo)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_todo",
		Description: "Flip the completion status of a todo.",
	}, s.handleToggleTodo)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "remove_todo",
		Description: "Delete a todo from the remote collection and the local list.",
	}, s.handleRemoveTodo)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "clear_todos",
		Description: "Clear the local list without touching the remote collection. list_todos with refresh reloads it.",
	}, s.handleClearTodos)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get todo activity metrics from the event log: loads, creates, updates, toggles, removals, clears and failures.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleListTodos(ctx context.Context, _ *gomcp.CallToolRequest, input listTodosInput) (*gomcp.CallToolResult, listTodosOutput, error) {
	if input.Refresh {
		if err := s.controller.Initialize(ctx); err != nil {
			return errorResult(fmt.Sprintf("refreshing todos: %s", err)), emptyListOutput(), nil
		}
	}

	mode := s.controller.Filter()
	if input.Filter != "" {
		parsed, err := models.ParseFilterMode(input.Filter)
		if err != nil {
			return errorResult(err.Error()), emptyListOutput(), nil
		}
		mode = parsed
	}

	tasks := core.FilterTasks(s.controller.Tasks(), mode)
	out := listTodosOutput{
		Filter: string(mode),
		Todos:  make([]todoOutput, len(tasks)),
		Count:  len(tasks),
	}
	for i, t := range tasks {
		out.Todos[i] = todoToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleAddTodo(ctx context.Context, _ *gomcp.CallToolRequest, input addTodoInput) (*gomcp.CallToolResult, messageOutput, error) {
	if core.IsBlank(input.Title) {
		return nil, messageOutput{Message: "blank title ignored"}, nil
	}
	created, err := s.controller.AddTask(ctx, input.Title)
	if err != nil {
		return errorResult(fmt.Sprintf("adding todo: %s", err)), messageOutput{}, nil
	}

	t := todoToOutput(created)
	return nil, messageOutput{Message: models.MsgTaskAdded, Todo: &t}, nil
}

func (s *Server) handleUpdateTodo(ctx context.Context, _ *gomcp.CallToolRequest, input updateTodoInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.ID == "" {
		return errorResult("id is required"), messageOutput{}, nil
	}
	if core.IsBlank(input.Title) {
		return nil, messageOutput{Message: "blank title ignored"}, nil
	}

	id := models.TaskID(input.ID)
	err := s.controller.UpdateTask(ctx, id, models.TaskUpdate{Text: input.Title, IsComplete: input.Completed})
	if err != nil {
		return errorResult(describe("updating", id, err)), messageOutput{}, nil
	}
	return nil, s.messageFor(models.MsgTaskUpdated, id), nil
}

func (s *Server) handleToggleTodo(ctx context.Context, _ *gomcp.CallToolRequest, input idInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.ID == "" {
		return errorResult("id is required"), messageOutput{}, nil
	}

	id := models.TaskID(input.ID)
	if err := s.controller.ToggleComplete(ctx, id); err != nil {
		return errorResult(describe("toggling", id, err)), messageOutput{}, nil
	}
	return nil, s.messageFor(fmt.Sprintf("todo %s toggled", id), id), nil
}

func (s *Server) handleRemoveTodo(ctx context.Context, _ *gomcp.CallToolRequest, input idInput) (*gomcp.CallToolResult, messageOutput, error) {
	if input.ID == "" {
		return errorResult("id is required"), messageOutput{}, nil
	}

	id := models.TaskID(input.ID)
	if err := s.controller.RemoveTask(ctx, id); err != nil {
		return errorResult(describe("removing", id, err)), messageOutput{}, nil
	}
	return nil, messageOutput{Message: models.MsgTaskRemoved}, nil
}

func (s *Server) handleClearTodos(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, messageOutput, error) {
	s.controller.ClearAll()
	return nil, messageOutput{Message: models.MsgAllCleared}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	sinceTime, err := observability.ParseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	m, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		Loads:          m.Loads,
		TodosCreated:   m.TodosCreated,
		TodosUpdated:   m.TodosUpdated,
		TodosCompleted: m.TodosCompleted,
		TodosReopened:  m.TodosReopened,
		TodosRemoved:   m.TodosRemoved,
		Clears:         m.Clears,
		Failures:       m.Failures,
		Sessions:       m.Sessions,
		EventCount:     m.EventCount,
	}
	if m.OldestEvent != nil {
		out.OldestEvent = m.OldestEvent.Format(time.RFC3339)
	}
	if m.NewestEvent != nil {
		out.NewestEvent = m.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

// --- Helpers ---

func (s *Server) messageFor(msg string, id models.TaskID) messageOutput {
	out := messageOutput{Message: msg}
	for _, t := range s.controller.Tasks() {
		if t.ID == id {
			o := todoToOutput(t)
			out.Todo = &o
			break
		}
	}
	return out
}

func describe(verb string, id models.TaskID, err error) string {
	if errors.Is(err, core.ErrTaskNotFound) {
		return fmt.Sprintf("todo %s not found", id)
	}
	return fmt.Sprintf("%s todo %s: %s", verb, id, err)
}

func todoToOutput(t models.Task) todoOutput {
	return todoOutput{
		ID:        t.ID.String(),
		Title:     t.Title,
		Completed: t.Completed,
	}
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{Failures: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func emptyListOutput() listTodosOutput {
	return listTodosOutput{Todos: []todoOutput{}}
}
