// Package scheduler builds daily plans. Fallback is the fixed-slot heuristic used
// whenever the AI planner cannot produce a usable schedule.
package scheduler

import (
	"fmt"
	"sort"

	"github.com/sandeepkv93/taskflow/internal/model"
)

// MaxDayHours caps the total duration of any accepted schedule.
const MaxDayHours = 8.0

var (
	fallbackSlots     = []string{"9:00 AM", "11:00 AM", "1:00 PM", "2:30 PM", "4:00 PM", "4:45 PM"}
	fallbackDurations = []float64{2, 1.5, 1, 1.5, 1, 0.75}
)

// Fallback assigns the first len(slots) tasks, in input order, to the fixed slot
// table. It does not sort.
func Fallback(tasks []model.Task) []model.ScheduleItem {
	n := len(tasks)
	if n > len(fallbackSlots) {
		n = len(fallbackSlots)
	}
	out := make([]model.ScheduleItem, 0, n)
	for i := 0; i < n; i++ {
		t := tasks[i]
		out = append(out, model.ScheduleItem{
			Task:      t.Title,
			StartTime: fallbackSlots[i],
			Duration:  fallbackDurations[i],
			Priority:  t.Priority,
			Reasoning: fmt.Sprintf("Scheduled based on %s priority and task order", t.Priority),
			Source:    model.ScheduleSourceFallback,
		})
	}
	return out
}

// SortByPriority returns the incomplete tasks ordered high, medium, low. Ties
// keep their input order.
func SortByPriority(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// TotalHours sums item durations.
func TotalHours(items []model.ScheduleItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Duration
	}
	return total
}
