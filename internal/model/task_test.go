package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validTask() Task {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	return Task{
		ID:        "task-1",
		Title:     "Implement model validation",
		Priority:  PriorityHigh,
		Category:  "work",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskValidateSuccess(t *testing.T) {
	task := validTask()
	task.Subtasks = []Subtask{{ID: "s1", Text: "Write tests", Completed: true}}
	task.Completed = true
	task.Progress = 100
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidPriority(t *testing.T) {
	task := validTask()
	task.Priority = Priority("urgent")
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestTaskValidateRanges(t *testing.T) {
	task := validTask()
	task.Progress = 101
	if err := task.Validate(); !errors.Is(err, ErrInvalidProgress) {
		t.Fatalf("expected ErrInvalidProgress, got: %v", err)
	}

	task = validTask()
	task.Description = strings.Repeat("x", MaxDescriptionLength+1)
	if err := task.Validate(); err == nil {
		t.Fatal("expected description length error")
	}

	task = validTask()
	task.Title = "x"
	if err := task.Validate(); err == nil {
		t.Fatal("expected title length error")
	}
}

func TestTaskValidateCompletedWithSubtasksNeedsFullProgress(t *testing.T) {
	task := validTask()
	task.Subtasks = []Subtask{{ID: "s1", Text: "a"}, {ID: "s2", Text: "b", Completed: true}}
	task.Completed = true
	task.Progress = 50
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: completed task with subtasks must have progress 100" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateDuplicateSubtask(t *testing.T) {
	task := validTask()
	task.Subtasks = []Subtask{{ID: "s1", Text: "a"}, {ID: "s1", Text: "b"}}
	if err := task.Validate(); !errors.Is(err, ErrInvalidSubtask) {
		t.Fatalf("expected ErrInvalidSubtask, got: %v", err)
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := validTask()
	task.DueDate = &due
	task.Subtasks = []Subtask{{ID: "s1", Text: "a"}}
	task.Extensions.TimeBlock = &TimeBlock{Start: "09:00", End: "10:00"}

	clone := task.Clone()
	clone.Subtasks[0].Completed = true
	*clone.DueDate = due.AddDate(0, 0, 1)
	clone.Extensions.TimeBlock.End = "11:00"

	if task.Subtasks[0].Completed || !task.DueDate.Equal(due) || task.Extensions.TimeBlock.End != "10:00" {
		t.Fatalf("clone aliased original: %+v", task)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" High ")
	if err != nil || p != PriorityHigh {
		t.Fatalf("expected high, got %q err=%v", p, err)
	}
	if _, err := ParsePriority("critical"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if PriorityHigh.Rank() >= PriorityMedium.Rank() || PriorityMedium.Rank() >= PriorityLow.Rank() {
		t.Fatal("expected high < medium < low rank order")
	}
}

func TestStatsApplyOverwritesOnlySetFields(t *testing.T) {
	base := UserStats{TotalTasksCompleted: 4, CurrentStreak: 2, TotalFocusTime: 90}
	got := base.Apply(StatsDelta{TotalTasksCompleted: Int(10), TotalFocusTime: Int(30)})
	if got.TotalTasksCompleted != 10 || got.TotalFocusTime != 30 || got.CurrentStreak != 2 {
		t.Fatalf("unexpected merge result: %+v", got)
	}
	if got := base.Apply(StatsDelta{}); got != base {
		t.Fatalf("empty delta changed stats: %+v", got)
	}
}

func TestTaskIsDueOn(t *testing.T) {
	due := DateOnly(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC))
	task := Task{DueDate: &due}
	if !task.IsDueOn(DateOnly(time.Date(2026, 2, 9, 23, 30, 0, 0, time.UTC))) {
		t.Fatal("expected due on the same calendar day")
	}
	if task.IsDueOn(DateOnly(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))) {
		t.Fatal("expected not due on the next day")
	}
	if (Task{}).IsDueOn(due) {
		t.Fatal("task without due date is never due")
	}
}

func TestTimeBlockValidate(t *testing.T) {
	if err := (TimeBlock{Start: "09:00", End: "10:30"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := (TimeBlock{Start: "09:00", End: "10:30"}).Minutes(); got != 90 {
		t.Fatalf("expected 90 minutes, got %d", got)
	}
	if err := (TimeBlock{Start: "10:00", End: "09:00"}).Validate(); !errors.Is(err, ErrInvalidTimeBlock) {
		t.Fatalf("expected ErrInvalidTimeBlock, got %v", err)
	}
}
