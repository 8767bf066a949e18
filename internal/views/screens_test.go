package views

import (
	"strings"
	"testing"
)

func TestRenderTaskPanelEmpty(t *testing.T) {
	out := RenderTaskPanel(TaskPanelData{})
	if !strings.Contains(out, "tasks: 0/0 done") || !strings.Contains(out, "no tasks yet") {
		t.Fatalf("unexpected empty panel:\n%s", out)
	}
}

func TestRenderTaskPanelRows(t *testing.T) {
	out := RenderTaskPanel(TaskPanelData{
		Completed: 1,
		Total:     2,
		Rows: []TaskRowData{
			{Title: "Write project report", Priority: "high", Category: "work", DueDate: "2026-02-01", Overdue: true, Progress: 50, Selected: true, Expanded: true,
				Subtasks: []SubtaskRowData{{Text: "Outline sections", Completed: true, Selected: true}, {Text: "Review draft"}}},
			{Title: "Book dentist appointment", Priority: "low", Category: "health", Completed: true, Progress: 100},
			{Title: "Pay the rent", Priority: "medium", Category: "home", DueDate: "2026-02-09", DueToday: true},
			{Title: "Renew passport", Priority: "medium", Category: "home", DueDate: "2026-01-30", Overdue: true, Completed: true},
		},
	})
	for _, want := range []string{
		">  1 [ ] [RED] Write project report #work due:2026-02-01 (overdue) 50%",
		"* [x] Outline sections",
		"  [ ] Review draft",
		"   2 [x] [GREEN] Book dentist appointment #health 100%",
		"   3 [ ] [YELLOW] Pay the rent #home due:2026-02-09 (today) 0%",
		"   4 [x] [YELLOW] Renew passport #home due:2026-01-30 0%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderPlanPanel(t *testing.T) {
	loading := RenderPlanPanel(PlanPanelData{Loading: true, SpinnerView: "."})
	if !strings.Contains(loading, "planning...") {
		t.Fatalf("unexpected loading view: %s", loading)
	}
	out := RenderPlanPanel(PlanPanelData{
		Source:     "fallback",
		TotalHours: 3.5,
		Items: []PlanItemData{
			{Task: "Write project report", StartTime: "9:00 AM", Duration: 2, Priority: "high", Reasoning: "Scheduled based on high priority and task order"},
			{Task: "Book dentist appointment", StartTime: "11:00 AM", Duration: 1.5, Priority: "low"},
		},
	})
	for _, want := range []string{"source: fallback | 3.5h of 8h", "9:00 AM  [RED] Write project report (2h)", "11:00 AM [GREEN] Book dentist appointment (1.5h)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestAchievementsMarkdown(t *testing.T) {
	md := AchievementsMarkdown(AchievementsPanelData{
		Unlocked:       1,
		Total:          2,
		TotalCompleted: 1,
		Items: []AchievementData{
			{Icon: "🎯", Title: "Getting Started", Description: "Complete your first task", Unlocked: true, UnlockedAt: "2026-02-09"},
			{Title: "Task Master", Description: "Complete 10 tasks"},
		},
	})
	for _, want := range []string{"# Achievements 1/2", "| completed | 1 |", "**Getting Started**", "🔒 Task Master"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("   "); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
