package core

import (
	"context"
	"strconv"
	"sync"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// fakeStore is an in-memory TaskStore with call counting and error injection.
type fakeStore struct {
	mu     sync.Mutex
	remote []models.Task
	nextID int

	ListErr    error
	CreateErr  error
	ReplaceErr error
	DeleteErr  error

	listCalls    int
	createCalls  int
	replaceCalls int
	deleteCalls  int
	replaced     []models.Task
}

func newFakeStore(tasks ...models.Task) *fakeStore {
	return &fakeStore{remote: append([]models.Task{}, tasks...), nextID: 201}
}

func (f *fakeStore) ListTasks(_ context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Task{}, f.remote...), nil
}

func (f *fakeStore) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.CreateErr != nil {
		return models.Task{}, f.CreateErr
	}
	task.ID = models.TaskID(strconv.Itoa(f.nextID))
	f.nextID++
	return task, nil
}

func (f *fakeStore) ReplaceTask(_ context.Context, id models.TaskID, task models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	f.replaced = append(f.replaced, task)
	return f.ReplaceErr
}

func (f *fakeStore) DeleteTask(_ context.Context, _ models.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.DeleteErr
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + f.createCalls + f.replaceCalls + f.deleteCalls
}

type recordingNotifier struct {
	notes []models.Notification
}

func (r *recordingNotifier) Notify(n models.Notification) {
	r.notes = append(r.notes, n)
}

type recordingAlerter struct {
	messages []string
}

func (r *recordingAlerter) Alert(message string) {
	r.messages = append(r.messages, message)
}

type recordingEvents struct {
	types []string
}

func (r *recordingEvents) LogEvent(eventType string, _ map[string]any) error {
	r.types = append(r.types, eventType)
	return nil
}

// sampleTasks returns the two-task list used by the filter scenario.
func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1", UserID: 1, Title: "A", Completed: false},
		{ID: "2", UserID: 1, Title: "B", Completed: true},
	}
}

// newLoadedController builds a controller already initialized from store.
func newLoadedController(store *fakeStore, opts ControllerOptions) TaskListController {
	c := NewTaskListController(store, opts)
	if err := c.Initialize(context.Background()); err != nil {
		panic(err)
	}
	return c
}
