package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/quality"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(WithClock(clock.Now), WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}))
	return s, clock
}

func mustAdd(t *testing.T, s *Store, in TaskInput) model.Task {
	t.Helper()
	res := s.Add(in)
	if !res.OK() {
		t.Fatalf("add %q: %v", in.Title, res.Err)
	}
	return res.Task
}

func TestAddAssignsIdentityAndTimestamps(t *testing.T) {
	s, clock := newTestStore(t)
	due := time.Date(2026, 2, 12, 17, 30, 0, 0, time.UTC)
	task := mustAdd(t, s, TaskInput{Title: "  Write project report ", Category: "work", DueDate: &due, Progress: 140})

	if task.ID == "" || task.Title != "Write project report" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Priority != model.PriorityMedium {
		t.Fatalf("expected default medium priority, got %q", task.Priority)
	}
	if task.Progress != 100 {
		t.Fatalf("expected clamped progress 100, got %d", task.Progress)
	}
	if !task.CreatedAt.Equal(clock.now) || !task.UpdatedAt.Equal(clock.now) {
		t.Fatalf("unexpected timestamps: %+v", task)
	}
	if task.DueDate == nil || task.DueDate.Hour() != 0 || task.DueDate.Day() != 12 {
		t.Fatalf("expected date-only due date, got %v", task.DueDate)
	}
}

func TestAddRejectsLowQualityTitleWithoutWriting(t *testing.T) {
	s, _ := newTestStore(t)
	res := s.Add(TaskInput{Title: "asdf", Category: "work"})
	if res.OK() {
		t.Fatal("expected rejection")
	}
	if res.Err.Code != CodeValidationRejected || res.Err.Rule != quality.RuleKeyboardMash || res.Err.Reason == "" {
		t.Fatalf("unexpected error: %+v", res.Err)
	}
	if n := len(s.List()); n != 0 {
		t.Fatalf("expected no tasks after rejection, got %d", n)
	}
}

func TestAddValidatesSubtasksAndCategory(t *testing.T) {
	s, _ := newTestStore(t)
	res := s.Add(TaskInput{Title: "Plan the trip", Category: "personal", Subtasks: []string{"Book flights", "zzzz"}})
	if res.OK() || res.Err.Code != CodeValidationRejected {
		t.Fatalf("expected subtask rejection, got %+v", res)
	}
	res = s.Add(TaskInput{Title: "Plan the trip", Category: " "})
	if res.OK() || res.Err.Code != CodeInvalidInput {
		t.Fatalf("expected category rejection, got %+v", res)
	}
	res = s.Add(TaskInput{Title: "Plan the trip", Category: "personal", Priority: "urgent"})
	if res.OK() || res.Err.Code != CodeInvalidInput {
		t.Fatalf("expected priority rejection, got %+v", res)
	}
	if n := len(s.List()); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestUpdateRejectsTitleAtomically(t *testing.T) {
	s, clock := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Review pull request", Category: "work"})
	clock.Advance(time.Minute)

	bad := "xqz"
	desc := "should not land"
	res := s.Update(task.ID, TaskPatch{Title: &bad, Description: &desc})
	if res.OK() || res.Err.Code != CodeValidationRejected {
		t.Fatalf("expected rejection, got %+v", res)
	}
	got, _ := s.Get(task.ID)
	if got.Title != "Review pull request" || got.Description != "" || !got.UpdatedAt.Equal(task.UpdatedAt) {
		t.Fatalf("partial write after rejection: %+v", got)
	}

	good := "Review both pull requests"
	res = s.Update(task.ID, TaskPatch{Title: &good})
	if !res.OK() || res.Task.Title != good {
		t.Fatalf("expected update, got %+v", res)
	}
	if !res.Task.UpdatedAt.Equal(clock.now) || !res.Task.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("unexpected timestamps after update: %+v", res.Task)
	}
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	title := "Clean the kitchen"
	res := s.Update("missing", TaskPatch{Title: &title})
	if res.OK() || res.Err.Code != CodeNotFound {
		t.Fatalf("expected not found, got %+v", res)
	}
	if res := s.Toggle("missing"); res.Err == nil || res.Err.Code != CodeNotFound {
		t.Fatalf("expected toggle not found, got %+v", res)
	}
	if res := s.ToggleSubtask("missing", "s"); res.Err == nil || res.Err.Code != CodeNotFound {
		t.Fatalf("expected toggle subtask not found, got %+v", res)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Email the landlord", Category: "personal"})
	if !s.Delete(task.ID) {
		t.Fatal("expected first delete to remove task")
	}
	if s.Delete(task.ID) {
		t.Fatal("expected second delete to be a no-op")
	}
	if n := len(s.List()); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
}

func TestAddNumbersTaskBeforeSubtasks(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Study for exam", Category: "learning", Subtasks: []string{"Read chapter one", "Review lecture notes"}})
	if task.ID != "id-1" || task.Subtasks[0].ID != "id-2" || task.Subtasks[1].ID != "id-3" {
		t.Fatalf("unexpected ids: task=%s subtasks=%+v", task.ID, task.Subtasks)
	}

	if res := s.Add(TaskInput{Title: "Plan the week", Category: "work", Subtasks: []string{"asdf"}}); res.OK() {
		t.Fatal("expected rejected subtask")
	}
	next := mustAdd(t, s, TaskInput{Title: "Plan the week", Category: "work"})
	if next.ID != "id-4" {
		t.Fatalf("rejected add should not consume ids, got %s", next.ID)
	}
}

func TestTogglePlainTaskLeavesProgress(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Pay the rent", Category: "home", Progress: 40})

	res := s.Toggle(task.ID)
	if !res.OK() || !res.Task.Completed || res.Task.Progress != 40 || res.Task.CompletedAt == nil {
		t.Fatalf("expected completed task keeping progress 40, got %+v", res.Task)
	}
	res = s.Toggle(task.ID)
	if res.Task.Completed || res.Task.Progress != 40 || res.Task.CompletedAt != nil {
		t.Fatalf("expected reopened task keeping progress 40, got %+v", res.Task)
	}
}

func TestToggleIsDirectOverride(t *testing.T) {
	s, clock := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Study for exam", Category: "learning", Subtasks: []string{"Read chapter one", "Review lecture notes"}})
	clock.Advance(time.Hour)

	res := s.Toggle(task.ID)
	if !res.OK() || !res.Task.Completed || res.Task.Progress != 100 {
		t.Fatalf("expected completed with progress 100, got %+v", res.Task)
	}
	if res.Task.CompletedAt == nil || !res.Task.CompletedAt.Equal(clock.now) {
		t.Fatalf("expected completed_at stamped, got %v", res.Task.CompletedAt)
	}
	if res.Task.CompletedSubtasks() != 0 {
		t.Fatal("toggle must not touch subtasks")
	}

	res = s.Toggle(task.ID)
	if res.Task.Completed || res.Task.Progress != 0 || res.Task.CompletedAt != nil {
		t.Fatalf("expected reopened task with derived progress, got %+v", res.Task)
	}
}

func TestToggleSubtaskDerivesProgressAndCompletion(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Prepare slides", Category: "work", Subtasks: []string{"Outline the talk", "Draft the slides", "Rehearse once"}})

	res := s.ToggleSubtask(task.ID, task.Subtasks[0].ID)
	if res.Task.Progress != 33 || res.Task.Completed {
		t.Fatalf("expected 33%% incomplete, got %+v", res.Task)
	}
	s.ToggleSubtask(task.ID, task.Subtasks[1].ID)
	res = s.ToggleSubtask(task.ID, task.Subtasks[2].ID)
	if res.Task.Progress != 100 || !res.Task.Completed || res.Task.CompletedAt == nil {
		t.Fatalf("expected completed task, got %+v", res.Task)
	}
	if err := res.Task.Validate(); err != nil {
		t.Fatalf("derived task invalid: %v", err)
	}
}

func TestToggleSubtaskTwiceRestoresState(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Organize the garage", Category: "personal", Subtasks: []string{"Sort the boxes", "Sweep the floor"}})
	s.ToggleSubtask(task.ID, task.Subtasks[0].ID)
	before, _ := s.Get(task.ID)

	for _, sub := range before.Subtasks {
		s.ToggleSubtask(task.ID, sub.ID)
		after := s.ToggleSubtask(task.ID, sub.ID).Task
		if after.Progress != before.Progress || after.Completed != before.Completed {
			t.Fatalf("double toggle of %s changed state: before=%d/%v after=%d/%v",
				sub.ID, before.Progress, before.Completed, after.Progress, after.Completed)
		}
	}
}

func TestSetProgressOnlyWithoutSubtasks(t *testing.T) {
	s, _ := newTestStore(t)
	plain := mustAdd(t, s, TaskInput{Title: "Practice piano", Category: "personal"})
	if res := s.SetProgress(plain.ID, -10); !res.OK() || res.Task.Progress != 0 {
		t.Fatalf("expected clamped 0, got %+v", res)
	}
	if res := s.SetProgress(plain.ID, 60); res.Task.Progress != 60 || res.Task.Completed {
		t.Fatalf("expected 60 and still open, got %+v", res.Task)
	}

	withSubs := mustAdd(t, s, TaskInput{Title: "Build the shed", Category: "personal", Subtasks: []string{"Pour the base"}})
	res := s.SetProgress(withSubs.ID, 50)
	if res.OK() || res.Err.Code != CodeInvalidInput {
		t.Fatalf("expected refusal for subtask-derived progress, got %+v", res)
	}
}

func TestAddAndRemoveSubtaskRederive(t *testing.T) {
	s, _ := newTestStore(t)
	task := mustAdd(t, s, TaskInput{Title: "Launch website", Category: "work", Subtasks: []string{"Deploy the build"}})
	task = s.ToggleSubtask(task.ID, task.Subtasks[0].ID).Task
	if !task.Completed {
		t.Fatal("expected completed after only subtask done")
	}

	res := s.AddSubtask(task.ID, "Announce the launch")
	if !res.OK() || res.Task.Completed || res.Task.Progress != 50 {
		t.Fatalf("expected reopened at 50%%, got %+v", res)
	}
	if res := s.AddSubtask(task.ID, "qqqq"); res.OK() {
		t.Fatal("expected low-quality subtask rejection")
	}

	res = s.RemoveSubtask(task.ID, res.Task.Subtasks[1].ID)
	if !res.OK() || !res.Task.Completed || res.Task.Progress != 100 {
		t.Fatalf("expected completed again after removal, got %+v", res)
	}
}

func TestListReturnsCopiesInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustAdd(t, s, TaskInput{Title: "Write the agenda", Category: "work"})
	b := mustAdd(t, s, TaskInput{Title: "Call the plumber", Category: "personal", Subtasks: []string{"Find the number"}})

	list := s.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", list)
	}
	list[1].Subtasks[0].Completed = true
	got, _ := s.Get(b.ID)
	if got.Subtasks[0].Completed {
		t.Fatal("List leaked internal state")
	}
}

func TestReplaceValidatesSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	good := model.Task{ID: "t1", Title: "Read a book", Priority: model.PriorityLow, Category: "personal", CreatedAt: now, UpdatedAt: now}
	if err := s.Replace([]model.Task{good}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.Replace([]model.Task{good, good}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	bad := good
	bad.ID = "t2"
	bad.Priority = "urgent"
	if err := s.Replace([]model.Task{bad}); err == nil {
		t.Fatal("expected validation error")
	}
	if n := len(s.List()); n != 1 {
		t.Fatalf("failed replace must keep previous snapshot, got %d tasks", n)
	}
}
