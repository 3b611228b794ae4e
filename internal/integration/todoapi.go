// Package integration provides adapters to systems outside the process: the
// remote todo collection served over REST.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// TodosPath is the collection path under the base URL.
const TodosPath = "/todos"

// APIError reports a non-2xx response from the remote collection.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// TodoAPIConfig configures a TodoAPIClient.
type TodoAPIConfig struct {
	BaseURL string
	// Timeout bounds each call. Zero leaves calls bounded only by the caller's context.
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// TodoAPIClient talks to a generic REST todo collection:
// GET/POST {base}/todos and PUT/DELETE {base}/todos/{id}.
type TodoAPIClient struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	client    *http.Client
}

// NewTodoAPIClient creates a client for the collection at cfg.BaseURL.
func NewTodoAPIClient(cfg TodoAPIConfig) (*TodoAPIClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "dayplan"
	}

	return &TodoAPIClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		userAgent: ua,
		client:    httpClient,
	}, nil
}

// ListTasks fetches the whole collection in the order the server returns it.
func (c *TodoAPIClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// createBody is the payload for a new task; the server assigns the id.
type createBody struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// CreateTask posts a new task and returns the record the server created.
func (c *TodoAPIClient) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var created models.Task
	body := createBody{Title: task.Title, Completed: task.Completed}
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), body, &created); err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// ReplaceTask puts task as the full record for id. The response body is
// discarded.
func (c *TodoAPIClient) ReplaceTask(ctx context.Context, id models.TaskID, task models.Task) error {
	return c.do(ctx, http.MethodPut, c.itemURL(id), task, nil)
}

// DeleteTask deletes the record for id.
func (c *TodoAPIClient) DeleteTask(ctx context.Context, id models.TaskID) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *TodoAPIClient) collectionURL() string {
	return c.baseURL + TodosPath
}

func (c *TodoAPIClient) itemURL(id models.TaskID) string {
	return c.baseURL + TodosPath + "/" + url.PathEscape(id.String())
}

// do performs one request. in is JSON-encoded when non-nil; out receives the
// decoded response body when non-nil. Any non-2xx status is an *APIError.
func (c *TodoAPIClient) do(ctx context.Context, method, target string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling %s body: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{Method: method, URL: target, StatusCode: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, target, err)
	}
	return nil
}
