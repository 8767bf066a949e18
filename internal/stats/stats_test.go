package stats

import (
	"testing"
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
)

var now = time.Date(2026, 2, 9, 15, 0, 0, 0, time.UTC)

func completedOn(id string, at time.Time) model.Task {
	return model.Task{ID: id, Completed: true, CompletedAt: &at, Progress: 100}
}

func dueOn(id string, day time.Time, done bool) model.Task {
	d := model.DateOnly(day)
	t := model.Task{ID: id, DueDate: &d, Completed: done}
	if done {
		at := day
		t.CompletedAt = &at
	}
	return t
}

func TestDeriveCountsCompletions(t *testing.T) {
	tasks := []model.Task{
		completedOn("a", now.Add(-2*time.Hour)),
		completedOn("b", now.Add(-26*time.Hour)),
		{ID: "c"},
		{ID: "legacy", Completed: true},
	}
	delta := Derive(tasks, model.UserStats{}, now)

	if *delta.TotalTasksCompleted != 3 {
		t.Fatalf("expected 3 completed, got %d", *delta.TotalTasksCompleted)
	}
	if *delta.TasksCompletedToday != 1 {
		t.Fatalf("expected 1 completed today, got %d", *delta.TasksCompletedToday)
	}
	if delta.TotalFocusTime != nil {
		t.Fatal("focus time must not be derived")
	}
}

func TestStreak(t *testing.T) {
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	tests := []struct {
		name  string
		tasks []model.Task
		want  int
	}{
		{name: "empty", want: 0},
		{name: "today only", tasks: []model.Task{completedOn("a", day(0))}, want: 1},
		{
			name:  "three consecutive ending today",
			tasks: []model.Task{completedOn("a", day(0)), completedOn("b", day(-1)), completedOn("c", day(-2))},
			want:  3,
		},
		{
			name:  "ending yesterday still counts",
			tasks: []model.Task{completedOn("a", day(-1)), completedOn("b", day(-2))},
			want:  2,
		},
		{
			name:  "gap breaks streak",
			tasks: []model.Task{completedOn("a", day(0)), completedOn("b", day(-2)), completedOn("c", day(-3))},
			want:  1,
		},
		{
			name:  "two days ago only",
			tasks: []model.Task{completedOn("a", day(-2))},
			want:  0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			delta := Derive(tc.tasks, model.UserStats{}, now)
			if got := *delta.CurrentStreak; got != tc.want {
				t.Fatalf("expected streak %d, got %d", tc.want, got)
			}
		})
	}
}

func TestPerfectDays(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	tasks := []model.Task{
		dueOn("a", now, true),
		dueOn("b", now, true),
		dueOn("c", yesterday, true),
		dueOn("d", yesterday, false),
		dueOn("e", tomorrow, true),
	}
	if got := PerfectDays(tasks, now); got != 1 {
		t.Fatalf("expected 1 perfect day, got %d", got)
	}

	delta := Derive(tasks, model.UserStats{PerfectDays: 4}, now)
	if *delta.PerfectDays != 4 {
		t.Fatalf("expected prior perfect days kept, got %d", *delta.PerfectDays)
	}
}
