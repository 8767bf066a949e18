// Package store is the single-writer owner of task records. Every mutation goes
// through the title quality gate and re-derives progress where subtasks exist.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/progress"
	"github.com/sandeepkv93/taskflow/internal/quality"
)

type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Category    string
	DueDate     *time.Time
	Progress    int
	Subtasks    []string
	Extensions  model.Extensions
}

// TaskPatch lists the fields to change; nil pointers are left alone.
type TaskPatch struct {
	Title        *string
	Description  *string
	Priority     *model.Priority
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
	Progress     *int
	Extensions   *model.Extensions
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

type Store struct {
	mu    sync.Mutex
	tasks []model.Task
	now   func() time.Time
	newID func() string
}

func New(opts ...Option) *Store {
	s := &Store{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Add(in TaskInput) Result {
	if v := quality.ValidateTitle(in.Title); !v.Valid {
		return rejected(v)
	}
	if v := quality.ValidateDescription(in.Description); !v.Valid {
		return rejected(v)
	}
	if v := quality.ValidateCategory(in.Category); !v.Valid {
		return invalid("%s", v.Reason)
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return invalid("unknown priority %q", in.Priority)
	}
	if err := in.Extensions.Validate(); err != nil {
		return invalid("%v", err)
	}

	texts := make([]string, 0, len(in.Subtasks))
	for _, text := range in.Subtasks {
		text = strings.TrimSpace(text)
		if v := quality.ValidateTitle(text); !v.Valid {
			return rejected(quality.Result{Rule: v.Rule, Reason: fmt.Sprintf("subtask %q: %s", text, v.Reason)})
		}
		texts = append(texts, text)
	}

	// the task takes its id before its subtasks so ids follow creation order
	id := s.newID()
	subtasks := make([]model.Subtask, 0, len(texts))
	for _, text := range texts {
		subtasks = append(subtasks, model.Subtask{ID: s.newID(), Text: text})
	}

	now := s.now()
	task := model.Task{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Category:    strings.TrimSpace(in.Category),
		Progress:    progress.Clamp(in.Progress),
		Subtasks:    subtasks,
		CreatedAt:   now,
		UpdatedAt:   now,
		Extensions:  in.Extensions.Clone(),
	}
	if in.DueDate != nil {
		d := model.DateOnly(*in.DueDate)
		task.DueDate = &d
	}
	if len(subtasks) == 0 {
		task.Subtasks = nil
	}
	task = progress.Derive(task)
	stampCompletion(&task, false, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return Result{Task: task.Clone()}
}

func (s *Store) Update(id string, p TaskPatch) Result {
	if p.Title != nil {
		if v := quality.ValidateTitle(*p.Title); !v.Valid {
			return rejected(v)
		}
	}
	if p.Description != nil {
		if v := quality.ValidateDescription(*p.Description); !v.Valid {
			return rejected(v)
		}
	}
	if p.Category != nil {
		if v := quality.ValidateCategory(*p.Category); !v.Valid {
			return invalid("%s", v.Reason)
		}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return invalid("unknown priority %q", *p.Priority)
	}
	if p.Extensions != nil {
		if err := p.Extensions.Validate(); err != nil {
			return invalid("%v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return notFound("task", id)
	}
	task := s.tasks[idx].Clone()
	if p.Progress != nil && task.HasSubtasks() {
		return invalid("progress is derived from subtasks for task %q", id)
	}

	if p.Title != nil {
		task.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		task.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		task.Category = strings.TrimSpace(*p.Category)
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		task.DueDate = nil
	case p.DueDate != nil:
		d := model.DateOnly(*p.DueDate)
		task.DueDate = &d
	}
	if p.Progress != nil {
		task.Progress = progress.Clamp(*p.Progress)
	}
	if p.Extensions != nil {
		task.Extensions = p.Extensions.Clone()
	}
	return s.commit(idx, task)
}

// Delete removes the task. Unknown ids are a no-op; the return reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true
}

// Toggle flips Completed directly, whatever the subtasks say. For tasks with
// subtasks, Progress follows so completion still implies 100.
func (s *Store) Toggle(id string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return notFound("task", id)
	}
	task := s.tasks[idx].Clone()
	task.Completed = !task.Completed
	if task.HasSubtasks() {
		if task.Completed {
			task.Progress = 100
		} else {
			task.Progress = progress.FromSubtasks(task.Subtasks)
		}
	}
	return s.commit(idx, task)
}

// ToggleSubtask flips one subtask, then derives Progress and Completed from the list.
func (s *Store) ToggleSubtask(taskID, subtaskID string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(taskID)
	if idx < 0 {
		return notFound("task", taskID)
	}
	task := s.tasks[idx].Clone()
	si := task.SubtaskIndex(subtaskID)
	if si < 0 {
		return notFound("subtask", subtaskID)
	}
	task.Subtasks[si].Completed = !task.Subtasks[si].Completed
	return s.commit(idx, progress.Derive(task))
}

// SetProgress sets progress on a task without subtasks, clamped to [0,100].
func (s *Store) SetProgress(id string, value int) Result {
	return s.Update(id, TaskPatch{Progress: &value})
}

func (s *Store) AddSubtask(taskID, text string) Result {
	text = strings.TrimSpace(text)
	if v := quality.ValidateTitle(text); !v.Valid {
		return rejected(v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(taskID)
	if idx < 0 {
		return notFound("task", taskID)
	}
	task := s.tasks[idx].Clone()
	task.Subtasks = append(task.Subtasks, model.Subtask{ID: s.newID(), Text: text})
	return s.commit(idx, progress.Derive(task))
}

func (s *Store) RemoveSubtask(taskID, subtaskID string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(taskID)
	if idx < 0 {
		return notFound("task", taskID)
	}
	task := s.tasks[idx].Clone()
	si := task.SubtaskIndex(subtaskID)
	if si < 0 {
		return notFound("subtask", subtaskID)
	}
	task.Subtasks = append(task.Subtasks[:si], task.Subtasks[si+1:]...)
	if len(task.Subtasks) == 0 {
		task.Subtasks = nil
	}
	return s.commit(idx, progress.Derive(task))
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx].Clone(), true
}

// List returns copies in insertion order.
func (s *Store) List() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Replace swaps in a persisted snapshot after checking every record.
func (s *Store) Replace(tasks []model.Task) error {
	next := make([]model.Task, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("store: task %d: %w", i, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("store: duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
		next[i] = t.Clone()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = next
	return nil
}

// commit must be called with s.mu held.
func (s *Store) commit(idx int, task model.Task) Result {
	now := s.now()
	if now.Before(task.CreatedAt) {
		now = task.CreatedAt
	}
	stampCompletion(&task, s.tasks[idx].Completed, now)
	task.UpdatedAt = now
	s.tasks[idx] = task
	return Result{Task: task.Clone()}
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func stampCompletion(task *model.Task, wasCompleted bool, now time.Time) {
	switch {
	case task.Completed && !wasCompleted:
		task.CompletedAt = &now
	case !task.Completed:
		task.CompletedAt = nil
	}
}
