package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// ErrTaskNotFound is returned when an operation names an id that is not in
// the local task list.
var ErrTaskNotFound = errors.New("task not found")

// TaskStore is the remote todo collection. Defining it here keeps core
// independent of the integration package.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	ReplaceTask(ctx context.Context, id models.TaskID, task models.Task) error
	DeleteTask(ctx context.Context, id models.TaskID) error
}

// Notifier shows short non-blocking notifications to the user.
type Notifier interface {
	Notify(n models.Notification)
}

// Alerter shows a blocking alert. It is used only when the initial load fails.
type Alerter interface {
	Alert(message string)
}

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// ViewState is a consistent snapshot of the controller for rendering.
type ViewState struct {
	Tasks   []models.Task
	Visible []models.Task
	Filter  models.FilterMode
	Loading bool
	Edit    *models.EditTarget
}

// TaskListController owns the session's task list and mediates every
// mutation between the user interface and the remote collection. Local state
// changes only after the remote call for it has succeeded; ClearAll is the
// one operation that never touches the remote side.
type TaskListController interface {
	Initialize(ctx context.Context) error
	AddTask(ctx context.Context, text string) (models.Task, error)
	UpdateTask(ctx context.Context, id models.TaskID, update models.TaskUpdate) error
	ToggleComplete(ctx context.Context, id models.TaskID) error
	RemoveTask(ctx context.Context, id models.TaskID) error
	ClearAll()

	SetFilter(mode models.FilterMode)
	Filter() models.FilterMode
	CurrentView() []models.Task

	EnterEdit(id models.TaskID) error
	SubmitEdit(ctx context.Context, text string) error
	CancelEdit()
	EditTarget() *models.EditTarget

	Tasks() []models.Task
	Loading() bool
	Snapshot() ViewState
}

// ControllerOptions holds the optional collaborators of a TaskListController.
// Nil collaborators are replaced with no-op implementations.
type ControllerOptions struct {
	Notifier Notifier
	Alerter  Alerter
	Events   EventLogger
	Logger   *log.Logger
	Filter   models.FilterMode
}

type taskListController struct {
	store    TaskStore
	notifier Notifier
	alerter  Alerter
	events   EventLogger
	logger   *log.Logger

	mu      sync.Mutex
	tasks   []models.Task
	filter  models.FilterMode
	loading bool
	edit    *models.EditTarget
}

// NewTaskListController creates a controller over the given remote store.
func NewTaskListController(store TaskStore, opts ControllerOptions) TaskListController {
	c := &taskListController{
		store:    store,
		notifier: opts.Notifier,
		alerter:  opts.Alerter,
		events:   opts.Events,
		logger:   opts.Logger,
		tasks:    []models.Task{},
		filter:   opts.Filter,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.alerter == nil {
		c.alerter = nopAlerter{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.filter == "" {
		c.filter = models.FilterAll
	}
	return c
}

// Initialize replaces the local list with the remote collection. On failure
// the user is alerted and the local list is left as it was. Loading is
// cleared either way.
func (c *taskListController) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	tasks, err := c.store.ListTasks(ctx)

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.tasks = append([]models.Task{}, tasks...)
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("loading todos", "err", err)
		c.logEvent("todos.load_failed", map[string]any{"error": err.Error()})
		c.alerter.Alert("An error occurred: " + err.Error())
		return fmt.Errorf("loading todos: %w", err)
	}

	c.logEvent("todos.loaded", map[string]any{"count": len(tasks)})
	return nil
}

// AddTask creates a task remotely, prepends the record the remote side
// returned and hands it back. Blank text is ignored and yields a zero Task.
func (c *taskListController) AddTask(ctx context.Context, text string) (models.Task, error) {
	if IsBlank(text) {
		return models.Task{}, nil
	}

	created, err := c.store.CreateTask(ctx, models.Task{Title: text, Completed: false})
	if err == nil && created.ID == "" {
		err = errors.New("remote returned a task without an id")
	}
	if err != nil {
		c.logger.Error("adding todo", "title", text, "err", err)
		c.logEvent("todo.create_failed", map[string]any{"title": text, "error": err.Error()})
		return models.Task{}, fmt.Errorf("adding todo: %w", err)
	}

	c.mu.Lock()
	c.tasks = append([]models.Task{created}, c.tasks...)
	c.mu.Unlock()

	c.logEvent("todo.created", map[string]any{"id": created.ID.String(), "title": created.Title})
	c.notifier.Notify(models.Notification{Severity: models.SeveritySuccess, Message: models.MsgTaskAdded})
	return created, nil
}

// UpdateTask replaces the title and completion flag of a task. A nil
// IsComplete keeps the task's current completion. Blank text is ignored.
func (c *taskListController) UpdateTask(ctx context.Context, id models.TaskID, update models.TaskUpdate) error {
	if IsBlank(update.Text) {
		return nil
	}

	c.mu.Lock()
	current, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("updating unknown todo", "id", id)
		return fmt.Errorf("updating todo %s: %w", id, ErrTaskNotFound)
	}

	completed := current.Completed
	if update.IsComplete != nil {
		completed = *update.IsComplete
	}
	body := models.Task{Title: update.Text, Completed: completed}

	if err := c.store.ReplaceTask(ctx, id, body); err != nil {
		c.logger.Error("updating todo", "id", id, "err", err)
		c.logEvent("todo.update_failed", map[string]any{"id": id.String(), "error": err.Error()})
		return fmt.Errorf("updating todo %s: %w", id, err)
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Title = body.Title
			c.tasks[i].Completed = body.Completed
		}
	}
	if c.edit != nil && c.edit.ID == id {
		c.edit = nil
	}
	c.mu.Unlock()

	c.logEvent("todo.updated", map[string]any{"id": id.String(), "title": body.Title, "completed": body.Completed})
	c.notifier.Notify(models.Notification{Severity: models.SeverityInfo, Message: models.MsgTaskUpdated})
	return nil
}

// ToggleComplete flips the completion flag of a task, sending the full
// record to the remote side. No notification is shown.
func (c *taskListController) ToggleComplete(ctx context.Context, id models.TaskID) error {
	c.mu.Lock()
	current, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("toggling unknown todo", "id", id)
		return fmt.Errorf("toggling todo %s: %w", id, ErrTaskNotFound)
	}

	updated := current
	updated.Completed = !current.Completed

	if err := c.store.ReplaceTask(ctx, id, updated); err != nil {
		c.logger.Error("toggling todo", "id", id, "err", err)
		c.logEvent("todo.toggle_failed", map[string]any{"id": id.String(), "error": err.Error()})
		return fmt.Errorf("toggling todo %s: %w", id, err)
	}

	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Completed = updated.Completed
		}
	}
	c.mu.Unlock()

	c.logEvent("todo.toggled", map[string]any{"id": id.String(), "completed": updated.Completed})
	return nil
}

// RemoveTask deletes a task remotely and then drops it from the local list.
// The confirmation is shown on the error channel.
func (c *taskListController) RemoveTask(ctx context.Context, id models.TaskID) error {
	c.mu.Lock()
	_, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("removing unknown todo", "id", id)
		return fmt.Errorf("removing todo %s: %w", id, ErrTaskNotFound)
	}

	if err := c.store.DeleteTask(ctx, id); err != nil {
		c.logger.Error("removing todo", "id", id, "err", err)
		c.logEvent("todo.remove_failed", map[string]any{"id": id.String(), "error": err.Error()})
		return fmt.Errorf("removing todo %s: %w", id, err)
	}

	c.mu.Lock()
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	if c.edit != nil && c.edit.ID == id {
		c.edit = nil
	}
	c.mu.Unlock()

	c.logEvent("todo.removed", map[string]any{"id": id.String()})
	c.notifier.Notify(models.Notification{Severity: models.SeverityError, Message: models.MsgTaskRemoved})
	return nil
}

// ClearAll empties the local list without contacting the remote side. The
// next Initialize repopulates it.
func (c *taskListController) ClearAll() {
	c.mu.Lock()
	n := len(c.tasks)
	c.tasks = []models.Task{}
	c.mu.Unlock()

	c.logEvent("todos.cleared", map[string]any{"count": n})
	c.notifier.Notify(models.Notification{Severity: models.SeverityWarning, Message: models.MsgAllCleared})
}

func (c *taskListController) SetFilter(mode models.FilterMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = mode
}

func (c *taskListController) Filter() models.FilterMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// CurrentView returns the tasks visible under the current filter.
func (c *taskListController) CurrentView() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterTasks(c.tasks, c.filter)
}

// EnterEdit makes id the edit target, discarding any previous target.
func (c *taskListController) EnterEdit(id models.TaskID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.find(id)
	if !ok {
		return fmt.Errorf("editing todo %s: %w", id, ErrTaskNotFound)
	}
	c.edit = &models.EditTarget{ID: t.ID, CurrentText: t.Title}
	return nil
}

// SubmitEdit sends text as the new title of the edit target, carrying the
// task's current completion forward. Edit mode is left whatever the outcome.
func (c *taskListController) SubmitEdit(ctx context.Context, text string) error {
	c.mu.Lock()
	target := c.edit
	c.edit = nil
	var completed *bool
	if target != nil {
		if t, ok := c.find(target.ID); ok {
			v := t.Completed
			completed = &v
		}
	}
	c.mu.Unlock()

	if target == nil {
		return nil
	}
	return c.UpdateTask(ctx, target.ID, models.TaskUpdate{Text: text, IsComplete: completed})
}

func (c *taskListController) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = nil
}

func (c *taskListController) EditTarget() *models.EditTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return nil
	}
	e := *c.edit
	return &e
}

func (c *taskListController) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task{}, c.tasks...)
}

func (c *taskListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *taskListController) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := ViewState{
		Tasks:   append([]models.Task{}, c.tasks...),
		Visible: FilterTasks(c.tasks, c.filter),
		Filter:  c.filter,
		Loading: c.loading,
	}
	if c.edit != nil {
		e := *c.edit
		s.Edit = &e
	}
	return s
}

// find must be called with mu held.
func (c *taskListController) find(id models.TaskID) (models.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (c *taskListController) logEvent(eventType string, data map[string]any) {
	if c.events == nil {
		return
	}
	if err := c.events.LogEvent(eventType, data); err != nil {
		c.logger.Debug("writing event", "type", eventType, "err", err)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(models.Notification) {}

type nopAlerter struct{}

func (nopAlerter) Alert(string) {}
