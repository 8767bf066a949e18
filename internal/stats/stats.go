// Package stats derives the achievement counters that can be computed from task
// history. Focus time is not derivable and is left to the focus timer.
package stats

import (
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
)

const dayLayout = "2006-01-02"

// Derive computes absolute counter values for the achievement engine. Day
// boundaries follow now's location; due dates are calendar dates.
func Derive(tasks []model.Task, prior model.UserStats, now time.Time) model.StatsDelta {
	today := now.Format(dayLayout)
	total, completedToday := 0, 0
	completionDays := make(map[string]bool)

	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		total++
		if t.CompletedAt == nil {
			continue
		}
		day := t.CompletedAt.In(now.Location()).Format(dayLayout)
		completionDays[day] = true
		if day == today {
			completedToday++
		}
	}

	perfect := PerfectDays(tasks, now)
	if prior.PerfectDays > perfect {
		perfect = prior.PerfectDays
	}

	return model.StatsDelta{
		TotalTasksCompleted: model.Int(total),
		TasksCompletedToday: model.Int(completedToday),
		CurrentStreak:       model.Int(Streak(completionDays, now)),
		PerfectDays:         model.Int(perfect),
	}
}

// Streak counts consecutive days with at least one completion, ending today, or
// yesterday when nothing has been completed yet today.
func Streak(days map[string]bool, now time.Time) int {
	cursor := now
	if !days[cursor.Format(dayLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for days[cursor.Format(dayLayout)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// PerfectDays counts calendar days up to today on which at least one task was
// due and every task due that day is complete.
func PerfectDays(tasks []model.Task, now time.Time) int {
	today := now.Format(dayLayout)
	type dueDay struct{ due, done int }
	days := make(map[string]*dueDay)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := t.DueDate.Format(dayLayout)
		if key > today {
			continue
		}
		d := days[key]
		if d == nil {
			d = &dueDay{}
			days[key] = d
		}
		d.due++
		if t.Completed {
			d.done++
		}
	}
	count := 0
	for _, d := range days {
		if d.due > 0 && d.done == d.due {
			count++
		}
	}
	return count
}
