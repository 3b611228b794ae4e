package observability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metrics summarises todo activity recorded in the event log.
type Metrics struct {
	Loads          int            `json:"loads" yaml:"loads"`
	TodosCreated   int            `json:"todos_created" yaml:"todos_created"`
	TodosUpdated   int            `json:"todos_updated" yaml:"todos_updated"`
	TodosCompleted int            `json:"todos_completed" yaml:"todos_completed"`
	TodosReopened  int            `json:"todos_reopened" yaml:"todos_reopened"`
	TodosRemoved   int            `json:"todos_removed" yaml:"todos_removed"`
	Clears         int            `json:"clears" yaml:"clears"`
	Failures       map[string]int `json:"failures" yaml:"failures"`
	Sessions       int            `json:"sessions" yaml:"sessions"`
	EventCount     int            `json:"event_count" yaml:"event_count"`
	OldestEvent    *time.Time     `json:"oldest_event,omitempty" yaml:"oldest_event,omitempty"`
	NewestEvent    *time.Time     `json:"newest_event,omitempty" yaml:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates all events at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{Failures: make(map[string]int)}
	m.EventCount = len(events)
	sessions := make(map[string]bool)

	for i, event := range events {
		t := event.Time
		if i == 0 {
			m.OldestEvent = &t
		}
		m.NewestEvent = &t

		if event.Session != "" {
			sessions[event.Session] = true
		}

		switch event.Type {
		case "todos.loaded":
			m.Loads++
		case "todo.created":
			m.TodosCreated++
		case "todo.updated":
			m.TodosUpdated++
		case "todo.toggled":
			if completed, ok := event.Data["completed"].(bool); ok && completed {
				m.TodosCompleted++
			} else {
				m.TodosReopened++
			}
		case "todo.removed":
			m.TodosRemoved++
		case "todos.cleared":
			m.Clears++
		default:
			if op, ok := strings.CutSuffix(event.Type, "_failed"); ok {
				m.Failures[op]++
			}
		}
	}
	m.Sessions = len(sessions)

	return m, nil
}

// ParseSince parses a window like "7d", "30d" or "24h" into the time that
// far in the past.
func ParseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num <= 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must be positive", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
