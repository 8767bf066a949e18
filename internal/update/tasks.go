package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/session"
	"github.com/sandeepkv93/taskflow/internal/views"
)

const progressStep = 10

func (m Model) handleTaskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	tasks := m.tasks()
	rows := m.rows(tasks)
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(rows)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "enter":
		ref, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		id := tasks[ref.Task].ID
		m.Expanded[id] = !m.Expanded[id]
		if !m.Expanded[id] {
			m.Cursor = m.rowIndex(m.rows(tasks), ref.Task)
		}
	case "x", " ":
		ref, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		task := tasks[ref.Task]
		if ref.Sub >= 0 {
			sub := task.Subtasks[ref.Sub]
			out, err := m.Session.ToggleSubtask(m.ctx, task.ID, sub.ID)
			if m.applyOutcome("toggle subtask", out, err) {
				m.Status = StatusBar{Text: fmt.Sprintf("%s: %d%%", out.Task.Title, out.Task.Progress), IsError: false}
			}
			return m, nil
		}
		out, err := m.Session.Toggle(m.ctx, task.ID)
		if m.applyOutcome("toggle", out, err) {
			state := "reopened"
			if out.Task.Completed {
				state = "completed"
			}
			m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, out.Task.Title), IsError: false}
		}
	case "+", "-":
		ref, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		task := tasks[ref.Task]
		value := task.Progress + progressStep
		if msg.String() == "-" {
			value = task.Progress - progressStep
		}
		out, err := m.Session.SetProgress(m.ctx, task.ID, value)
		if m.applyOutcome("progress", out, err) {
			m.Status = StatusBar{Text: fmt.Sprintf("progress %d%%: %s", out.Task.Progress, out.Task.Title), IsError: false}
		}
	case "d":
		ref, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		task := tasks[ref.Task]
		if ref.Sub >= 0 {
			out, err := m.Session.RemoveSubtask(m.ctx, task.ID, task.Subtasks[ref.Sub].ID)
			if m.applyOutcome("remove subtask", out, err) {
				m.Status = StatusBar{Text: "subtask removed", IsError: false}
			}
		} else {
			removed, err := m.Session.Delete(m.ctx, task.ID)
			if err != nil {
				m.LastError = err
				m.Status = StatusBar{Text: fmt.Sprintf("delete failed: %v", err), IsError: true}
				return m, nil
			}
			if removed {
				delete(m.Expanded, task.ID)
				m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title), IsError: false}
			}
		}
		m.clampCursor()
	case "b":
		ref, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		task := tasks[ref.Task]
		m.Status = StatusBar{Text: fmt.Sprintf("breaking down: %s", task.Title), IsError: false}
		return m, breakdownCmd(m.ctx, m.Session, task.ID)
	case "f":
		ref, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		m.Focus.TaskID = tasks[ref.Task].ID
		m.Focus.TaskTitle = tasks[ref.Task].Title
		m.CurrentView = ViewFocus
		m.Status = StatusBar{Text: fmt.Sprintf("focus task: %s", m.Focus.TaskTitle), IsError: false}
	}
	return m, nil
}

func breakdownCmd(ctx context.Context, sess *session.Session, taskID string) tea.Cmd {
	return func() tea.Msg {
		out, added, err := sess.Breakdown(ctx, taskID)
		return BreakdownDoneMsg{TaskID: taskID, Outcome: out, Added: added, Err: err}
	}
}

func (m Model) onBreakdownDone(msg BreakdownDoneMsg) Model {
	if !m.applyOutcome("breakdown", msg.Outcome, msg.Err) {
		return m
	}
	if len(msg.Added) == 0 {
		m.Status = StatusBar{Text: "breakdown unavailable, no subtasks added", IsError: false}
		return m
	}
	m.Expanded[msg.TaskID] = true
	m.Status = StatusBar{Text: fmt.Sprintf("added %d subtask(s) to %s", len(msg.Added), msg.Outcome.Task.Title), IsError: false}
	return m
}

// applyOutcome reports failures on the status bar and announces any unlocked
// achievements. It returns true when the mutation was applied.
func (m *Model) applyOutcome(action string, out session.Outcome, err error) bool {
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", action, err), IsError: true}
		m.notify("Error", err.Error(), "error")
		return false
	}
	if !out.OK() {
		m.Status = StatusBar{Text: out.Err.Reason, IsError: true}
		return false
	}
	m.announceUnlocks(out.Unlocked)
	return true
}

func (m Model) tasks() []model.Task {
	if m.Session == nil {
		return nil
	}
	return m.Session.Tasks()
}

func (m Model) rows(tasks []model.Task) []rowRef {
	out := make([]rowRef, 0, len(tasks))
	for i, task := range tasks {
		out = append(out, rowRef{Task: i, Sub: -1})
		if !m.Expanded[task.ID] {
			continue
		}
		for j := range task.Subtasks {
			out = append(out, rowRef{Task: i, Sub: j})
		}
	}
	return out
}

func (m Model) rowIndex(rows []rowRef, taskIdx int) int {
	for i, r := range rows {
		if r.Task == taskIdx && r.Sub < 0 {
			return i
		}
	}
	return 0
}

func (m Model) currentRow(rows []rowRef) (rowRef, bool) {
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return rowRef{}, false
	}
	return rows[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows(m.tasks()))
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// selectedTask returns the task under the cursor, including when a subtask row
// is highlighted.
func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.tasks()
	ref, ok := m.currentRow(m.rows(tasks))
	if !ok {
		return model.Task{}, false
	}
	return tasks[ref.Task], true
}

func (m Model) renderTaskView() string {
	tasks := m.tasks()
	cur, hasCur := m.currentRow(m.rows(tasks))
	data := views.TaskPanelData{Total: len(tasks)}
	today := model.DateOnly(time.Now())
	for i, task := range tasks {
		if task.Completed {
			data.Completed++
		}
		row := views.TaskRowData{
			ID:        task.ID,
			Title:     task.Title,
			Priority:  string(task.Priority),
			Category:  task.Category,
			Progress:  task.Progress,
			Completed: task.Completed,
			Selected:  hasCur && cur.Task == i && cur.Sub < 0,
			Expanded:  m.Expanded[task.ID],
		}
		if task.DueDate != nil {
			row.DueDate = task.DueDate.Format("2006-01-02")
			row.Overdue = task.DueDate.Before(today)
			row.DueToday = task.IsDueOn(today)
		}
		if row.Expanded {
			for j, sub := range task.Subtasks {
				row.Subtasks = append(row.Subtasks, views.SubtaskRowData{
					Text:      sub.Text,
					Completed: sub.Completed,
					Selected:  hasCur && cur.Task == i && cur.Sub == j,
				})
			}
		}
		data.Rows = append(data.Rows, row)
	}
	return views.RenderTaskPanel(data)
}

func (m Model) renderTaskDetail() string {
	task, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	data := views.TaskDetailData{
		ID:           task.ID,
		Title:        task.Title,
		Priority:     string(task.Priority),
		Category:     task.Category,
		Progress:     task.Progress,
		ProgressView: m.taskProgress.ViewAs(float64(task.Progress) / 100),
		Description:  views.RenderMarkdown(task.Description),
	}
	if task.DueDate != nil {
		data.DueDate = task.DueDate.Format("2006-01-02")
	}
	if task.CompletedAt != nil {
		data.CompletedAt = task.CompletedAt.Local().Format("2006-01-02 15:04")
	}
	if task.HasSubtasks() {
		data.Subtasks = fmt.Sprintf("%d/%d done", task.CompletedSubtasks(), len(task.Subtasks))
	}
	ext := task.Extensions
	if r := ext.Recurring; r != nil {
		data.Recurrence = fmt.Sprintf("every %d %s", r.Interval, recurrenceUnit(r.Frequency))
		anchor := task.CreatedAt
		if task.DueDate != nil {
			anchor = *task.DueDate
		}
		if next, err := r.Preview(anchor, time.Now(), 3); err == nil {
			for _, at := range next {
				data.Upcoming = append(data.Upcoming, at.Format("Mon 2006-01-02"))
			}
		}
	}
	if tb := ext.TimeBlock; tb != nil {
		data.TimeBlocks = append(data.TimeBlocks, fmt.Sprintf("%s-%s (%dm)", tb.Start, tb.End, tb.Minutes()))
	}
	if g := ext.Grade; g != nil {
		parts := []string{}
		if g.Letter != "" {
			parts = append(parts, g.Letter)
		}
		if g.Max > 0 {
			parts = append(parts, fmt.Sprintf("%.1f/%.1f", g.Score, g.Max))
		}
		data.Grade = strings.Join(parts, " ")
	}
	return views.RenderTaskDetail(data)
}

func recurrenceUnit(f model.Frequency) string {
	switch f {
	case model.FrequencyDaily:
		return "day(s)"
	case model.FrequencyWeekly:
		return "week(s)"
	default:
		return "month(s)"
	}
}
