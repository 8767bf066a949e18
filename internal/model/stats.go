package model

import "time"

// UserStats are the aggregate counters achievement rules read.
type UserStats struct {
	TotalTasksCompleted int
	TasksCompletedToday int
	CurrentStreak       int
	TotalFocusTime      int // minutes
	PerfectDays         int
}

// StatsDelta is a partial UserStats. Nil fields are left untouched on merge.
type StatsDelta struct {
	TotalTasksCompleted *int
	TasksCompletedToday *int
	CurrentStreak       *int
	TotalFocusTime      *int
	PerfectDays         *int
}

// Apply overwrites the fields set in d. Values are absolute, not increments.
func (s UserStats) Apply(d StatsDelta) UserStats {
	if d.TotalTasksCompleted != nil {
		s.TotalTasksCompleted = *d.TotalTasksCompleted
	}
	if d.TasksCompletedToday != nil {
		s.TasksCompletedToday = *d.TasksCompletedToday
	}
	if d.CurrentStreak != nil {
		s.CurrentStreak = *d.CurrentStreak
	}
	if d.TotalFocusTime != nil {
		s.TotalFocusTime = *d.TotalFocusTime
	}
	if d.PerfectDays != nil {
		s.PerfectDays = *d.PerfectDays
	}
	return s
}

// Int is a helper for building deltas inline.
func Int(v int) *int {
	return &v
}

type AchievementCategory string

const (
	CategoryProductivity AchievementCategory = "productivity"
	CategoryStreak       AchievementCategory = "streak"
	CategoryMilestone    AchievementCategory = "milestone"
	CategorySpecial      AchievementCategory = "special"
)

type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Category    AchievementCategory
	Unlocked    bool
	UnlockedAt  *time.Time
}

type ScheduleSource string

const (
	ScheduleSourceAI       ScheduleSource = "ai"
	ScheduleSourceFallback ScheduleSource = "fallback"
)

// ScheduleItem is one slot of a daily plan. Duration is in hours.
type ScheduleItem struct {
	Task      string
	StartTime string
	Duration  float64
	Priority  Priority
	Reasoning string
	Source    ScheduleSource
}
