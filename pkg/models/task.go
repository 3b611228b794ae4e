package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TaskID is the opaque identifier the remote collection assigns to a task.
// Remote services commonly use integer ids; an id in canonical base-10 form
// is written back to the wire as a number, anything else (including "007" or
// "+5") as a string.
type TaskID string

// number reports the integer value of id when id is its canonical decimal
// spelling.
func (id TaskID) number() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

// MarshalJSON encodes numeric ids as JSON numbers.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if _, ok := id.number(); ok {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// MarshalYAML mirrors MarshalJSON so both output formats agree.
func (id TaskID) MarshalYAML() (any, error) {
	if n, ok := id.number(); ok {
		return n, nil
	}
	return string(id), nil
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding task id: %w", err)
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// String returns the id as text.
func (id TaskID) String() string {
	return string(id)
}

// Task is a single item of the remote todo collection.
type Task struct {
	ID        TaskID `json:"id,omitempty" yaml:"id"`
	UserID    int    `json:"userId,omitempty" yaml:"user_id,omitempty"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TaskUpdate carries the fields submitted by an edit. IsComplete is nil when
// the caller did not supply a completion flag.
type TaskUpdate struct {
	Text       string
	IsComplete *bool
}

// FilterMode selects which tasks the list view shows. It is view state only
// and never leaves the process.
type FilterMode string

const (
	FilterAll        FilterMode = "All"
	FilterComplete   FilterMode = "Complete"
	FilterIncomplete FilterMode = "Incomplete"
)

// FilterModes lists the modes in selector order.
var FilterModes = []FilterMode{FilterAll, FilterComplete, FilterIncomplete}

// ParseFilterMode resolves a filter name case-insensitively.
func ParseFilterMode(s string) (FilterMode, error) {
	for _, m := range FilterModes {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q: must be one of All, Complete, Incomplete", s)
}

// Next returns the mode after m in selector order, wrapping around.
func (m FilterMode) Next() FilterMode {
	for i, mode := range FilterModes {
		if mode == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

// EditTarget identifies the task currently being edited inline.
type EditTarget struct {
	ID          TaskID
	CurrentText string
}
