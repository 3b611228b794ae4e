package core

import (
	"strings"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// FilterTasks returns the tasks visible under mode, preserving their order.
// FilterAll returns a copy of tasks.
func FilterTasks(tasks []models.Task, mode models.FilterMode) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case models.FilterComplete:
			if !t.Completed {
				continue
			}
		case models.FilterIncomplete:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// IsBlank reports whether text is empty or whitespace only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
