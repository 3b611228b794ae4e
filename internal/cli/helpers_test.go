package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/valter-silva-au/dayplan/internal/integration"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// todoServer is an in-memory REST todo collection.
type todoServer struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int
	fail   map[string]int // method -> status to return
	calls  []string
}

func newTodoServer(t *testing.T, tasks ...models.Task) (*todoServer, *httptest.Server) {
	t.Helper()
	ts := &todoServer{tasks: append([]models.Task{}, tasks...), nextID: 201, fail: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(ts.handle))
	t.Cleanup(srv.Close)
	return ts, srv
}

func (s *todoServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)

	if status, ok := s.fail[r.Method]; ok {
		w.WriteHeader(status)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/todos"), "/")
	switch {
	case r.Method == http.MethodGet && id == "":
		_ = json.NewEncoder(w).Encode(s.tasks)
	case r.Method == http.MethodPost && id == "":
		var body models.Task
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.ID = models.TaskID(strconv.Itoa(s.nextID))
		s.nextID++
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodPut && id != "":
		var body models.Task
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodDelete && id != "":
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *todoServer) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.calls...)
}

func sampleTodos() []models.Task {
	return []models.Task{
		{ID: "1", UserID: 1, Title: "delectus aut autem", Completed: false},
		{ID: "2", UserID: 1, Title: "quis ut nam facilis", Completed: true},
		{ID: "3", UserID: 1, Title: "fugiat veniam minus", Completed: false},
	}
}

// useTodoServer points the package-level Store at a fake collection and
// restores the previous services when the test ends.
func useTodoServer(t *testing.T, tasks ...models.Task) *todoServer {
	t.Helper()
	ts, srv := newTodoServer(t, tasks...)

	client, err := integration.NewTodoAPIClient(integration.TodoAPIConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	origStore, origConfig, origEvents, origNotifier := Store, Config, Events, Notifier
	t.Cleanup(func() {
		Store, Config, Events, Notifier = origStore, origConfig, origEvents, origNotifier
	})
	Store = client
	Config = nil
	Events = nil
	Notifier = nil
	return ts
}
