package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
)

const (
	timeLayout = time.RFC3339Nano
	dateLayout = "2006-01-02"
)

// TaskRecord is the wire form of a task. Timestamps are ISO-8601 strings and
// due dates are plain YYYY-MM-DD.
type TaskRecord struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Priority    string            `json:"priority"`
	Category    string            `json:"category"`
	DueDate     string            `json:"dueDate,omitempty"`
	Completed   bool              `json:"completed"`
	CompletedAt string            `json:"completedAt,omitempty"`
	Progress    int               `json:"progress"`
	Subtasks    []SubtaskRecord   `json:"subtasks,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
	Recurring   *RecurrenceRecord `json:"recurring,omitempty"`
	TimeBlock   *TimeBlockRecord  `json:"timeBlock,omitempty"`
	Grade       *GradeRecord      `json:"grade,omitempty"`
	Academic    bool              `json:"academic,omitempty"`
}

type SubtaskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type RecurrenceRecord struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval"`
	Until     string `json:"until,omitempty"`
}

type TimeBlockRecord struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GradeRecord struct {
	Letter string  `json:"letter,omitempty"`
	Score  float64 `json:"score,omitempty"`
	Max    float64 `json:"max,omitempty"`
}

type StatsRecord struct {
	TotalTasksCompleted int `json:"totalTasksCompleted"`
	TasksCompletedToday int `json:"tasksCompletedToday"`
	CurrentStreak       int `json:"currentStreak"`
	TotalFocusTime      int `json:"totalFocusTime"`
	PerfectDays         int `json:"perfectDays"`
}

type AchievementRecord struct {
	ID         string `json:"id"`
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlockedAt,omitempty"`
}

// AchievementState is everything the achievement engine needs to resume.
type AchievementState struct {
	Stats    model.UserStats
	Unlocked map[string]time.Time
}

type achievementPayload struct {
	Stats        StatsRecord         `json:"stats"`
	Achievements []AchievementRecord `json:"achievements"`
}

func FromTask(t model.Task) TaskRecord {
	rec := TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Completed:   t.Completed,
		Progress:    t.Progress,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
		Academic:    t.Extensions.Academic,
	}
	if t.DueDate != nil {
		rec.DueDate = t.DueDate.Format(dateLayout)
	}
	if t.CompletedAt != nil {
		rec.CompletedAt = formatTime(*t.CompletedAt)
	}
	for _, s := range t.Subtasks {
		rec.Subtasks = append(rec.Subtasks, SubtaskRecord{ID: s.ID, Text: s.Text, Completed: s.Completed})
	}
	if r := t.Extensions.Recurring; r != nil {
		rr := &RecurrenceRecord{Frequency: string(r.Frequency), Interval: r.Interval}
		if r.Until != nil {
			rr.Until = r.Until.Format(dateLayout)
		}
		rec.Recurring = rr
	}
	if b := t.Extensions.TimeBlock; b != nil {
		rec.TimeBlock = &TimeBlockRecord{Start: b.Start, End: b.End}
	}
	if g := t.Extensions.Grade; g != nil {
		rec.Grade = &GradeRecord{Letter: g.Letter, Score: g.Score, Max: g.Max}
	}
	return rec
}

// ToTask parses a wire record back into a validated task.
func (r TaskRecord) ToTask() (model.Task, error) {
	t := model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    model.Priority(r.Priority),
		Category:    r.Category,
		Completed:   r.Completed,
		Progress:    r.Progress,
	}
	var err error
	if t.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s createdAt: %w", r.ID, err)
	}
	if t.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s updatedAt: %w", r.ID, err)
	}
	if t.DueDate, err = parseOptionalDate(r.DueDate); err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s dueDate: %w", r.ID, err)
	}
	if r.CompletedAt != "" {
		at, err := parseTime(r.CompletedAt)
		if err != nil {
			return model.Task{}, fmt.Errorf("storage: task %s completedAt: %w", r.ID, err)
		}
		t.CompletedAt = &at
	}
	for _, s := range r.Subtasks {
		t.Subtasks = append(t.Subtasks, model.Subtask{ID: s.ID, Text: s.Text, Completed: s.Completed})
	}
	if rr := r.Recurring; rr != nil {
		until, err := parseOptionalDate(rr.Until)
		if err != nil {
			return model.Task{}, fmt.Errorf("storage: task %s recurrence: %w", r.ID, err)
		}
		t.Extensions.Recurring = &model.Recurrence{Frequency: model.Frequency(rr.Frequency), Interval: rr.Interval, Until: until}
	}
	if b := r.TimeBlock; b != nil {
		t.Extensions.TimeBlock = &model.TimeBlock{Start: b.Start, End: b.End}
	}
	if g := r.Grade; g != nil {
		t.Extensions.Grade = &model.Grade{Letter: g.Letter, Score: g.Score, Max: g.Max}
	}
	t.Extensions.Academic = r.Academic
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// EncodeTasks serializes tasks, in order, into a tasks envelope.
func EncodeTasks(tasks []model.Task, savedAt time.Time) (Envelope, error) {
	records := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, FromTask(t))
	}
	return newEnvelope(KeyTasks, savedAt, records)
}

func DecodeTasks(env Envelope) ([]model.Task, error) {
	if err := checkEnvelope(env, KeyTasks); err != nil {
		return nil, err
	}
	var records []TaskRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("storage: decode tasks: %w", err)
	}
	out := make([]model.Task, 0, len(records))
	for _, rec := range records {
		t, err := rec.ToTask()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func EncodeAchievements(state AchievementState, savedAt time.Time) (Envelope, error) {
	payload := achievementPayload{
		Stats: StatsRecord{
			TotalTasksCompleted: state.Stats.TotalTasksCompleted,
			TasksCompletedToday: state.Stats.TasksCompletedToday,
			CurrentStreak:       state.Stats.CurrentStreak,
			TotalFocusTime:      state.Stats.TotalFocusTime,
			PerfectDays:         state.Stats.PerfectDays,
		},
		Achievements: make([]AchievementRecord, 0, len(state.Unlocked)),
	}
	for id, at := range state.Unlocked {
		payload.Achievements = append(payload.Achievements, AchievementRecord{ID: id, Unlocked: true, UnlockedAt: formatTime(at)})
	}
	sort.Slice(payload.Achievements, func(i, j int) bool {
		return payload.Achievements[i].ID < payload.Achievements[j].ID
	})
	return newEnvelope(KeyAchievements, savedAt, payload)
}

func DecodeAchievements(env Envelope) (AchievementState, error) {
	if err := checkEnvelope(env, KeyAchievements); err != nil {
		return AchievementState{}, err
	}
	var payload achievementPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return AchievementState{}, fmt.Errorf("storage: decode achievements: %w", err)
	}
	state := AchievementState{
		Stats: model.UserStats{
			TotalTasksCompleted: payload.Stats.TotalTasksCompleted,
			TasksCompletedToday: payload.Stats.TasksCompletedToday,
			CurrentStreak:       payload.Stats.CurrentStreak,
			TotalFocusTime:      payload.Stats.TotalFocusTime,
			PerfectDays:         payload.Stats.PerfectDays,
		},
		Unlocked: make(map[string]time.Time, len(payload.Achievements)),
	}
	for _, rec := range payload.Achievements {
		if !rec.Unlocked {
			continue
		}
		at, err := parseTime(rec.UnlockedAt)
		if err != nil {
			return AchievementState{}, fmt.Errorf("storage: achievement %s unlockedAt: %w", rec.ID, err)
		}
		state.Unlocked[rec.ID] = at
	}
	return state, nil
}

func formatTime(v time.Time) string {
	return v.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeLayout, v)
}

func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

