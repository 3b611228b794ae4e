package core

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

var errNetwork = errors.New("connection refused")

// --- Initialize ---

func TestInitialize_LoadsRemoteListInOrder(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	events := &recordingEvents{}
	c := NewTaskListController(store, ControllerOptions{Events: events})

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Tasks(); !reflect.DeepEqual(got, sampleTasks()) {
		t.Errorf("Tasks() = %+v, want %+v", got, sampleTasks())
	}
	if c.Loading() {
		t.Error("expected loading = false after successful load")
	}
	if len(events.types) != 1 || events.types[0] != "todos.loaded" {
		t.Errorf("events = %v, want [todos.loaded]", events.types)
	}
}

func TestInitialize_FailureAlertsAndClearsLoading(t *testing.T) {
	store := newFakeStore()
	store.ListErr = errNetwork
	alerter := &recordingAlerter{}
	c := NewTaskListController(store, ControllerOptions{Alerter: alerter})

	err := c.Initialize(context.Background())
	if !errors.Is(err, errNetwork) {
		t.Fatalf("expected wrapped network error, got %v", err)
	}
	if c.Loading() {
		t.Error("expected loading = false after failed load")
	}
	if len(c.Tasks()) != 0 {
		t.Errorf("expected no tasks, got %d", len(c.Tasks()))
	}
	if len(alerter.messages) != 1 || alerter.messages[0] != "An error occurred: connection refused" {
		t.Errorf("alerts = %q", alerter.messages)
	}
}

func TestInitialize_FailureKeepsExistingTasks(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	store.ListErr = errNetwork
	_ = c.Initialize(context.Background())

	if got := c.Tasks(); !reflect.DeepEqual(got, sampleTasks()) {
		t.Errorf("tasks changed on failed reload: %+v", got)
	}
}

// --- AddTask ---

func TestAddTask_PrependsRemoteRecord(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})

	created, err := c.AddTask(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "201" || created.Title != "Buy milk" {
		t.Errorf("returned task = %+v, want the remote record", created)
	}

	tasks := c.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	first := tasks[0]
	if first.ID != "201" || first.Title != "Buy milk" || first.Completed {
		t.Errorf("tasks[0] = %+v, want {ID:201 Title:Buy milk Completed:false}", first)
	}
	if !reflect.DeepEqual(tasks[1:], sampleTasks()) {
		t.Errorf("existing tasks reordered: %+v", tasks[1:])
	}
	want := []models.Notification{{Severity: models.SeveritySuccess, Message: "Todo added successfully"}}
	if !reflect.DeepEqual(notifier.notes, want) {
		t.Errorf("notifications = %+v, want %+v", notifier.notes, want)
	}
}

func TestAddTask_BlankIsSilentNoOp(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n", "   \r  "} {
		store := newFakeStore(sampleTasks()...)
		notifier := &recordingNotifier{}
		events := &recordingEvents{}
		c := newLoadedController(store, ControllerOptions{Notifier: notifier, Events: events})
		before := store.calls()

		if _, err := c.AddTask(context.Background(), text); err != nil {
			t.Errorf("AddTask(%q) error = %v, want nil", text, err)
		}
		if store.calls() != before {
			t.Errorf("AddTask(%q) made a network call", text)
		}
		if len(notifier.notes) != 0 {
			t.Errorf("AddTask(%q) notified: %+v", text, notifier.notes)
		}
		if len(events.types) != 1 {
			t.Errorf("AddTask(%q) logged events: %v", text, events.types)
		}
	}
}

func TestAddTask_FailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	store.CreateErr = errNetwork
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})

	if _, err := c.AddTask(context.Background(), "Buy milk"); !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if got := c.Tasks(); !reflect.DeepEqual(got, sampleTasks()) {
		t.Errorf("tasks changed after failed create: %+v", got)
	}
	if len(notifier.notes) != 0 {
		t.Errorf("expected no notification, got %+v", notifier.notes)
	}
}

// --- UpdateTask ---

func TestUpdateTask_MergesTitleAndCompletion(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})
	done := true

	if err := c.UpdateTask(context.Background(), "1", models.TaskUpdate{Text: "A2", IsComplete: &done}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := c.Tasks()[0]
	want := models.Task{ID: "1", UserID: 1, Title: "A2", Completed: true}
	if got != want {
		t.Errorf("tasks[0] = %+v, want %+v", got, want)
	}
	sent := store.replaced[0]
	if sent.ID != "" || sent.Title != "A2" || !sent.Completed {
		t.Errorf("sent body = %+v, want {Title:A2 Completed:true}", sent)
	}
	if len(notifier.notes) != 1 || notifier.notes[0].Severity != models.SeverityInfo {
		t.Errorf("notifications = %+v, want one info", notifier.notes)
	}
}

func TestUpdateTask_NilCompletionKeepsCurrentValue(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	if err := c.UpdateTask(context.Background(), "2", models.TaskUpdate{Text: "B2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.replaced[0].Completed {
		t.Error("expected completed=true to be carried forward to the remote body")
	}
	if got := c.Tasks()[1]; !got.Completed || got.Title != "B2" {
		t.Errorf("tasks[1] = %+v", got)
	}
}

func TestUpdateTask_BlankIsSilentNoOp(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})
	before := store.calls()

	if err := c.UpdateTask(context.Background(), "1", models.TaskUpdate{Text: "   "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls() != before {
		t.Error("blank update made a network call")
	}
	if !reflect.DeepEqual(c.Tasks(), sampleTasks()) {
		t.Error("blank update changed tasks")
	}
}

func TestUpdateTask_FailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	store.ReplaceErr = errNetwork
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})

	if err := c.UpdateTask(context.Background(), "1", models.TaskUpdate{Text: "A2"}); !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !reflect.DeepEqual(c.Tasks(), sampleTasks()) {
		t.Error("failed update changed tasks")
	}
	if len(notifier.notes) != 0 {
		t.Errorf("expected no notification, got %+v", notifier.notes)
	}
}

func TestUpdateTask_UnknownID(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})
	before := store.calls()

	err := c.UpdateTask(context.Background(), "99", models.TaskUpdate{Text: "X"})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if store.calls() != before {
		t.Error("unknown id update made a network call")
	}
}

// --- ToggleComplete ---

func TestToggleComplete_TwiceRestoresState(t *testing.T) {
	store := newFakeStore(models.Task{ID: "5", UserID: 1, Title: "five", Completed: false})
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})
	initial := c.Tasks()

	if err := c.ToggleComplete(context.Background(), "5"); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !c.Tasks()[0].Completed {
		t.Error("expected completed = true after first toggle")
	}
	if err := c.ToggleComplete(context.Background(), "5"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if !reflect.DeepEqual(c.Tasks(), initial) {
		t.Errorf("tasks after two toggles = %+v, want %+v", c.Tasks(), initial)
	}
	if store.replaceCalls != 2 {
		t.Errorf("replace calls = %d, want 2", store.replaceCalls)
	}
	if len(notifier.notes) != 0 {
		t.Errorf("toggle should not notify, got %+v", notifier.notes)
	}
}

func TestToggleComplete_SendsFullRecord(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	if err := c.ToggleComplete(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.Task{ID: "1", UserID: 1, Title: "A", Completed: true}
	if store.replaced[0] != want {
		t.Errorf("sent = %+v, want %+v", store.replaced[0], want)
	}
}

func TestToggleComplete_UnknownIDIsNoOp(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})
	before := store.calls()

	if err := c.ToggleComplete(context.Background(), "42"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if store.calls() != before {
		t.Error("unknown id toggle made a network call")
	}
}

func TestToggleComplete_FailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	store.ReplaceErr = errNetwork
	c := newLoadedController(store, ControllerOptions{})

	if err := c.ToggleComplete(context.Background(), "1"); !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !reflect.DeepEqual(c.Tasks(), sampleTasks()) {
		t.Error("failed toggle changed tasks")
	}
}

// --- RemoveTask ---

func TestRemoveTask_RemovesOnlyMatchingID(t *testing.T) {
	store := newFakeStore(
		models.Task{ID: "1", Title: "same"},
		models.Task{ID: "2", Title: "same"},
		models.Task{ID: "3", Title: "other"},
	)
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})

	if err := c.RemoveTask(context.Background(), "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.Task{{ID: "1", Title: "same"}, {ID: "3", Title: "other"}}
	if got := c.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tasks() = %+v, want %+v", got, want)
	}
	wantNote := models.Notification{Severity: models.SeverityError, Message: "Todo removed successfully"}
	if len(notifier.notes) != 1 || notifier.notes[0] != wantNote {
		t.Errorf("notifications = %+v, want [%+v]", notifier.notes, wantNote)
	}
}

func TestRemoveTask_FailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	store.DeleteErr = errNetwork
	c := newLoadedController(store, ControllerOptions{})

	if err := c.RemoveTask(context.Background(), "1"); !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !reflect.DeepEqual(c.Tasks(), sampleTasks()) {
		t.Error("failed delete changed tasks")
	}
}

// --- ClearAll ---

func TestClearAll_IsLocalOnly(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	notifier := &recordingNotifier{}
	c := newLoadedController(store, ControllerOptions{Notifier: notifier})

	store.CreateErr, store.ReplaceErr, store.DeleteErr = errNetwork, errNetwork, errNetwork
	before := store.calls()

	c.ClearAll()

	if len(c.Tasks()) != 0 {
		t.Errorf("expected empty list, got %d tasks", len(c.Tasks()))
	}
	if store.calls() != before {
		t.Error("ClearAll made a network call")
	}
	if len(notifier.notes) != 1 || notifier.notes[0].Severity != models.SeverityWarning || notifier.notes[0].Message != "All todos cleared" {
		t.Errorf("notifications = %+v", notifier.notes)
	}

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if !reflect.DeepEqual(c.Tasks(), sampleTasks()) {
		t.Errorf("reinitialize did not repopulate: %+v", c.Tasks())
	}
}

// --- Filtering ---

func TestCurrentView_CompleteScenario(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	c.SetFilter(models.FilterComplete)
	view := c.CurrentView()
	if len(view) != 1 || view[0].ID != "2" {
		t.Errorf("CurrentView() = %+v, want only id 2", view)
	}

	c.SetFilter(models.FilterIncomplete)
	view = c.CurrentView()
	if len(view) != 1 || view[0].ID != "1" {
		t.Errorf("CurrentView() = %+v, want only id 1", view)
	}

	c.SetFilter(models.FilterAll)
	if !reflect.DeepEqual(c.CurrentView(), sampleTasks()) {
		t.Errorf("CurrentView() under All = %+v", c.CurrentView())
	}
}

func TestNewTaskListController_InitialFilter(t *testing.T) {
	c := NewTaskListController(newFakeStore(), ControllerOptions{Filter: models.FilterIncomplete})
	if c.Filter() != models.FilterIncomplete {
		t.Errorf("Filter() = %q, want Incomplete", c.Filter())
	}
	c = NewTaskListController(newFakeStore(), ControllerOptions{})
	if c.Filter() != models.FilterAll {
		t.Errorf("Filter() = %q, want All", c.Filter())
	}
}

// --- Edit state ---

func TestEditFlow_SubmitUpdatesAndExitsEdit(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	if err := c.EnterEdit("2"); err != nil {
		t.Fatalf("EnterEdit: %v", err)
	}
	target := c.EditTarget()
	if target == nil || target.ID != "2" || target.CurrentText != "B" {
		t.Fatalf("EditTarget() = %+v", target)
	}

	if err := c.SubmitEdit(context.Background(), "B edited"); err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}
	if c.EditTarget() != nil {
		t.Error("expected edit mode to be left after submit")
	}
	got := c.Tasks()[1]
	if got.Title != "B edited" || !got.Completed {
		t.Errorf("tasks[1] = %+v, want title updated and completion kept", got)
	}
	if !store.replaced[0].Completed {
		t.Error("submit should carry completed=true to the remote side")
	}
}

func TestEditFlow_SubmitExitsEditOnFailureAndBlank(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	_ = c.EnterEdit("1")
	if err := c.SubmitEdit(context.Background(), "  "); err != nil {
		t.Fatalf("blank submit error = %v", err)
	}
	if c.EditTarget() != nil {
		t.Error("blank submit should leave edit mode")
	}

	store.ReplaceErr = errNetwork
	_ = c.EnterEdit("1")
	if err := c.SubmitEdit(context.Background(), "A2"); !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if c.EditTarget() != nil {
		t.Error("failed submit should leave edit mode")
	}
	if c.Tasks()[0].Title != "A" {
		t.Error("failed submit changed the title")
	}
}

func TestEditFlow_EnterReplacesPreviousTarget(t *testing.T) {
	c := newLoadedController(newFakeStore(sampleTasks()...), ControllerOptions{})

	_ = c.EnterEdit("1")
	_ = c.EnterEdit("2")
	if target := c.EditTarget(); target == nil || target.ID != "2" {
		t.Errorf("EditTarget() = %+v, want id 2", target)
	}

	c.CancelEdit()
	if c.EditTarget() != nil {
		t.Error("CancelEdit should clear the target")
	}
}

func TestEditFlow_UnknownIDAndNoTarget(t *testing.T) {
	store := newFakeStore(sampleTasks()...)
	c := newLoadedController(store, ControllerOptions{})

	if err := c.EnterEdit("77"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	before := store.calls()
	if err := c.SubmitEdit(context.Background(), "text"); err != nil {
		t.Errorf("submit with no target error = %v", err)
	}
	if store.calls() != before {
		t.Error("submit with no target made a network call")
	}
}

func TestSnapshot_IsConsistentCopy(t *testing.T) {
	c := newLoadedController(newFakeStore(sampleTasks()...), ControllerOptions{})
	c.SetFilter(models.FilterComplete)
	_ = c.EnterEdit("1")

	s := c.Snapshot()
	if len(s.Tasks) != 2 || len(s.Visible) != 1 || s.Filter != models.FilterComplete || s.Edit == nil {
		t.Fatalf("Snapshot() = %+v", s)
	}
	s.Tasks[0].Title = "mutated"
	if c.Tasks()[0].Title != "A" {
		t.Error("snapshot shares backing array with controller state")
	}
}
