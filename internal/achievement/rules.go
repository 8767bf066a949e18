package achievement

import "github.com/sandeepkv93/taskflow/internal/model"

// Rule is one row of the achievement table. Met receives the merged stats and
// the current local hour.
type Rule struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Category    model.AchievementCategory
	Met         func(s model.UserStats, hour int) bool
}

// Rules is evaluated and emitted in this order.
var Rules = []Rule{
	{
		ID: "first-task", Title: "Getting Started", Description: "Complete your first task",
		Icon: "🎯", Category: model.CategoryMilestone,
		Met: func(s model.UserStats, _ int) bool { return s.TotalTasksCompleted >= 1 },
	},
	{
		ID: "five-tasks", Title: "Productive Day", Description: "Complete 5 tasks in one day",
		Icon: "⚡", Category: model.CategoryProductivity,
		Met: func(s model.UserStats, _ int) bool { return s.TasksCompletedToday >= 5 },
	},
	{
		ID: "ten-tasks", Title: "Task Master", Description: "Complete 10 tasks",
		Icon: "🏆", Category: model.CategoryMilestone,
		Met: func(s model.UserStats, _ int) bool { return s.TotalTasksCompleted >= 10 },
	},
	{
		ID: "three-day-streak", Title: "On a Roll", Description: "Complete tasks 3 days in a row",
		Icon: "🔥", Category: model.CategoryStreak,
		Met: func(s model.UserStats, _ int) bool { return s.CurrentStreak >= 3 },
	},
	{
		ID: "week-streak", Title: "Week Warrior", Description: "Complete tasks 7 days in a row",
		Icon: "📅", Category: model.CategoryStreak,
		Met: func(s model.UserStats, _ int) bool { return s.CurrentStreak >= 7 },
	},
	{
		ID: "fifty-tasks", Title: "Half Century", Description: "Complete 50 tasks",
		Icon: "🥈", Category: model.CategoryMilestone,
		Met: func(s model.UserStats, _ int) bool { return s.TotalTasksCompleted >= 50 },
	},
	{
		ID: "hundred-tasks", Title: "Centurion", Description: "Complete 100 tasks",
		Icon: "🥇", Category: model.CategoryMilestone,
		Met: func(s model.UserStats, _ int) bool { return s.TotalTasksCompleted >= 100 },
	},
	{
		ID: "perfect-day", Title: "Perfect Day", Description: "Finish every task due today",
		Icon: "✨", Category: model.CategorySpecial,
		Met: func(s model.UserStats, _ int) bool { return s.PerfectDays >= 1 },
	},
	{
		ID: "focus-master", Title: "Focus Master", Description: "Log 10 hours of focus time",
		Icon: "🧘", Category: model.CategoryProductivity,
		Met: func(s model.UserStats, _ int) bool { return s.TotalFocusTime >= 600 },
	},
	{
		ID: "early-bird", Title: "Early Bird", Description: "Complete a task before 8 AM",
		Icon: "🌅", Category: model.CategorySpecial,
		Met: func(s model.UserStats, hour int) bool { return hour < 8 && s.TasksCompletedToday > 0 },
	},
}

func (r Rule) achievement() model.Achievement {
	return model.Achievement{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Icon:        r.Icon,
		Category:    r.Category,
	}
}
