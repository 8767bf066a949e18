package views

import (
	"fmt"
	"strings"
)

type SubtaskRowData struct {
	Text      string
	Completed bool
	Selected  bool
}

type TaskRowData struct {
	ID        string
	Title     string
	Priority  string
	Category  string
	DueDate   string
	Overdue   bool
	DueToday  bool
	Progress  int
	Completed bool
	Selected  bool
	Expanded  bool
	Subtasks  []SubtaskRowData
}

type TaskPanelData struct {
	Rows      []TaskRowData
	Completed int
	Total     int
}

type TaskDetailData struct {
	ID           string
	Title        string
	Priority     string
	Category     string
	DueDate      string
	CompletedAt  string
	Progress     int
	ProgressView string
	Subtasks     string
	Description  string
	Recurrence   string
	Upcoming     []string
	TimeBlocks   []string
	Grade        string
}

type FocusPanelData struct {
	TaskTitle          string
	Phase              string
	Timer              string
	ProgressView       string
	ProgressPct        int
	CompletedPomodoros int
	TotalFocusMinutes  int
	ShowEndPrompt      bool
}

type PlanItemData struct {
	Task      string
	StartTime string
	Duration  float64
	Priority  string
	Reasoning string
}

type PlanPanelData struct {
	Items       []PlanItemData
	Source      string
	TotalHours  float64
	Loading     bool
	SpinnerView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type AchievementData struct {
	Icon        string
	Title       string
	Description string
	Category    string
	Unlocked    bool
	UnlockedAt  string
}

type AchievementsPanelData struct {
	Unlocked          int
	Total             int
	TotalCompleted    int
	CompletedToday    int
	CurrentStreak     int
	TotalFocusMinutes int
	PerfectDays       int
	Items             []AchievementData
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks: %d/%d done\n", data.Completed, data.Total))
	b.WriteString("actions: [j/k]move [x]toggle [enter]subtasks [b]breakdown [d]delete [f]focus\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n(no tasks yet, try /add Write report !high #work)")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %2d %s %s %s #%s", cursor, i+1, check, priorityBadge(row.Priority), row.Title, row.Category))
		if row.DueDate != "" {
			b.WriteString(" due:" + row.DueDate)
			switch {
			case row.Completed:
			case row.Overdue:
				b.WriteString(" (overdue)")
			case row.DueToday:
				b.WriteString(" (today)")
			}
		}
		b.WriteString(fmt.Sprintf(" %d%%\n", row.Progress))
		if !row.Expanded {
			continue
		}
		if len(row.Subtasks) == 0 {
			b.WriteString("      (no subtasks)\n")
			continue
		}
		for _, sub := range row.Subtasks {
			marker := " "
			if sub.Selected {
				marker = "*"
			}
			box := "[ ]"
			if sub.Completed {
				box = "[x]"
			}
			b.WriteString(fmt.Sprintf("    %s %s %s\n", marker, box, sub.Text))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("priority: %s | category: %s\n", data.Priority, data.Category))
	if data.DueDate != "" {
		b.WriteString(fmt.Sprintf("due: %s\n", data.DueDate))
	}
	if data.CompletedAt != "" {
		b.WriteString(fmt.Sprintf("completed: %s\n", data.CompletedAt))
	}
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.Progress))
	if data.Subtasks != "" {
		b.WriteString(fmt.Sprintf("subtasks: %s\n", data.Subtasks))
	}
	if data.Recurrence != "" {
		b.WriteString(fmt.Sprintf("repeats: %s\n", data.Recurrence))
		for _, next := range data.Upcoming {
			b.WriteString("- " + next + "\n")
		}
	}
	if len(data.TimeBlocks) > 0 {
		b.WriteString("time blocks:\n")
		for _, block := range data.TimeBlocks {
			b.WriteString("- " + block + "\n")
		}
	}
	if data.Grade != "" {
		b.WriteString(fmt.Sprintf("grade: %s\n", data.Grade))
	}
	if data.Description != "" {
		b.WriteString("\n" + data.Description)
	}
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	b.WriteString(fmt.Sprintf("phase: %s\n", strings.ToUpper(data.Phase)))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("pomodoros completed: %d\n", data.CompletedPomodoros))
	b.WriteString(fmt.Sprintf("focus time: %dm total\n", data.TotalFocusMinutes))
	b.WriteString("actions: [space]start/pause [r]reset [n]next-phase\n")
	if data.ShowEndPrompt {
		b.WriteString("prompt: session ended, press [n] to continue")
	}
	return strings.TrimSpace(b.String())
}

func RenderPlanPanel(data PlanPanelData) string {
	var b strings.Builder
	b.WriteString("plan:\n")
	b.WriteString("actions: [p]build plan\n")
	if data.Loading {
		b.WriteString(data.SpinnerView + " planning...")
		return b.String()
	}
	if len(data.Items) == 0 {
		b.WriteString("(no plan yet)")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("source: %s | %gh of %dh\n\n", data.Source, data.TotalHours, 8))
	for _, item := range data.Items {
		b.WriteString(fmt.Sprintf("%-8s %s %s (%gh)\n", item.StartTime, priorityBadge(item.Priority), item.Task, item.Duration))
		if item.Reasoning != "" {
			b.WriteString("         " + item.Reasoning + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// AchievementsMarkdown builds the markdown document shown on the achievements
// screen. Callers pass it through RenderMarkdown.
func AchievementsMarkdown(data AchievementsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Achievements %d/%d\n\n", data.Unlocked, data.Total))
	b.WriteString("| stat | value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| completed | %d |\n", data.TotalCompleted))
	b.WriteString(fmt.Sprintf("| today | %d |\n", data.CompletedToday))
	b.WriteString(fmt.Sprintf("| streak | %d days |\n", data.CurrentStreak))
	b.WriteString(fmt.Sprintf("| focus | %d min |\n", data.TotalFocusMinutes))
	b.WriteString(fmt.Sprintf("| perfect days | %d |\n\n", data.PerfectDays))
	for _, a := range data.Items {
		if a.Unlocked {
			b.WriteString(fmt.Sprintf("- %s **%s** _%s_ (%s)\n", a.Icon, a.Title, a.Description, a.UnlockedAt))
			continue
		}
		b.WriteString(fmt.Sprintf("- 🔒 %s _%s_\n", a.Title, a.Description))
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func priorityBadge(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return "[RED]"
	case "medium":
		return "[YELLOW]"
	default:
		return "[GREEN]"
	}
}
