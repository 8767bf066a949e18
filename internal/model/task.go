package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinTitleLength       = 2
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidProgress = errors.New("model: invalid task progress")
	ErrInvalidSubtask  = errors.New("model: invalid subtask")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting; lower ranks come first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

var PresetCategories = []string{
	"work",
	"personal",
	"health",
	"learning",
	"finance",
	"shopping",
	"academic",
	"other",
}

type Subtask struct {
	ID        string
	Text      string
	Completed bool
}

type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Category    string
	DueDate     *time.Time
	Completed   bool
	CompletedAt *time.Time
	Progress    int
	Subtasks    []Subtask
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Extensions  Extensions
}

func (t Task) HasSubtasks() bool {
	return len(t.Subtasks) > 0
}

func (t Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

func (t Task) SubtaskIndex(id string) int {
	for i, s := range t.Subtasks {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// IsDueOn reports whether the due date falls on the same calendar day as day.
func (t Task) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Clone returns a deep copy so callers never alias store-owned slices or pointers.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		out.CompletedAt = &c
	}
	if t.Subtasks != nil {
		out.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	out.Extensions = t.Extensions.Clone()
	return out
}

// Validate checks structural invariants. Title quality is enforced by the quality gate.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	title := strings.TrimSpace(t.Title)
	if n := utf8.RuneCountInString(title); n < MinTitleLength || n > MaxTitleLength {
		return fmt.Errorf("model: task title must be %d-%d characters", MinTitleLength, MaxTitleLength)
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("model: task description exceeds %d characters", MaxDescriptionLength)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if strings.TrimSpace(t.Category) == "" {
		return errors.New("model: task category is required")
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidProgress, t.Progress)
	}
	seen := make(map[string]bool, len(t.Subtasks))
	for _, s := range t.Subtasks {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: id and text are required", ErrInvalidSubtask)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidSubtask, s.ID)
		}
		seen[s.ID] = true
	}
	if t.HasSubtasks() && t.Completed && t.Progress != 100 {
		return errors.New("model: completed task with subtasks must have progress 100")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return errors.New("model: task updated_at precedes created_at")
	}
	return t.Extensions.Validate()
}

// DateOnly truncates a time to midnight UTC of its calendar day.
func DateOnly(v time.Time) time.Time {
	y, m, d := v.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
