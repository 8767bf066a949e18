// Package progress derives a task's completion percentage and status from its subtasks.
package progress

import (
	"math"

	"github.com/sandeepkv93/taskflow/internal/model"
)

// FromSubtasks returns round(100*completed/total), or 0 for an empty list.
func FromSubtasks(subtasks []model.Subtask) int {
	total := len(subtasks)
	if total == 0 {
		return 0
	}
	done := 0
	for _, s := range subtasks {
		if s.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// Clamp bounds a directly-set progress value to [0,100].
func Clamp(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Derive recomputes Progress from subtasks and sets Completed = Progress == 100.
// Tasks without subtasks are returned unchanged.
func Derive(t model.Task) model.Task {
	if !t.HasSubtasks() {
		return t
	}
	t.Progress = FromSubtasks(t.Subtasks)
	t.Completed = t.Progress == 100
	return t
}
