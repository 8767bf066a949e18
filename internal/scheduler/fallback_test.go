package scheduler

import (
	"fmt"
	"testing"

	"github.com/sandeepkv93/taskflow/internal/model"
)

func makeTasks(priorities ...model.Priority) []model.Task {
	out := make([]model.Task, 0, len(priorities))
	for i, p := range priorities {
		out = append(out, model.Task{ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("Task number %d", i), Priority: p, Category: "work"})
	}
	return out
}

func TestFallbackEightTasks(t *testing.T) {
	tasks := makeTasks(
		model.PriorityLow, model.PriorityHigh, model.PriorityMedium, model.PriorityLow,
		model.PriorityHigh, model.PriorityMedium, model.PriorityLow, model.PriorityHigh,
	)
	items := Fallback(tasks)
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}
	if total := TotalHours(items); total != 7.75 {
		t.Fatalf("expected 7.75 hours, got %v", total)
	}
	for i, it := range items {
		if it.Task != tasks[i].Title {
			t.Fatalf("item %d: expected input order, got %q", i, it.Task)
		}
		if it.Source != model.ScheduleSourceFallback {
			t.Fatalf("item %d: unexpected source %q", i, it.Source)
		}
	}
	if items[0].StartTime != "9:00 AM" || items[5].StartTime != "4:45 PM" || items[5].Duration != 0.75 {
		t.Fatalf("unexpected slot table: %+v", items)
	}
	if items[1].Reasoning != "Scheduled based on high priority and task order" {
		t.Fatalf("unexpected reasoning %q", items[1].Reasoning)
	}
}

func TestFallbackFewerTasksThanSlots(t *testing.T) {
	items := Fallback(makeTasks(model.PriorityMedium, model.PriorityLow))
	if len(items) != 2 || items[1].StartTime != "11:00 AM" || items[1].Duration != 1.5 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if got := Fallback(nil); len(got) != 0 {
		t.Fatalf("expected empty schedule, got %d", len(got))
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	tasks := makeTasks(model.PriorityHigh, model.PriorityLow, model.PriorityMedium)
	a, b := Fallback(tasks), Fallback(tasks)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("item %d differs between runs", i)
		}
	}
}

func TestSortByPriorityIsStableAndSkipsCompleted(t *testing.T) {
	tasks := makeTasks(model.PriorityLow, model.PriorityHigh, model.PriorityMedium, model.PriorityHigh)
	tasks[3].Completed = true
	tasks = append(tasks, model.Task{ID: "t4", Title: "Task number 4", Priority: model.PriorityHigh})

	got := SortByPriority(tasks)
	want := []string{"t1", "t4", "t2", "t0"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: want %s got %s", i, id, got[i].ID)
		}
	}
}
