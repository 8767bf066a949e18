package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskflow/internal/commands"
	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/store"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	parsed, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if m.Session == nil {
		m.Status = StatusBar{Text: "no session attached", IsError: true}
		return m, nil
	}

	var pending tea.Cmd
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			out, err := m.Session.Add(m.ctx, store.TaskInput{
				Title:    a.Title,
				Priority: a.Priority,
				Category: a.Category,
				DueDate:  a.DueDate,
			})
			if err := outcomeError(out.Err, err); err != nil {
				return commands.Result{}, err
			}
			m.announceUnlocks(out.Unlocked)
			m.CurrentView = ViewTasks
			m.Cursor = m.rowIndex(m.rows(m.tasks()), len(m.tasks())-1)
			return commands.Result{Message: fmt.Sprintf("added: %s", out.Task.Title)}, nil
		},
		Done: func(t commands.Target) (commands.Result, error) {
			task, err := m.resolveTarget(t)
			if err != nil {
				return commands.Result{}, err
			}
			if task.Completed {
				return commands.Result{Message: fmt.Sprintf("already done: %s", task.Title)}, nil
			}
			out, err := m.Session.Toggle(m.ctx, task.ID)
			if err := outcomeError(out.Err, err); err != nil {
				return commands.Result{}, err
			}
			m.announceUnlocks(out.Unlocked)
			return commands.Result{Message: fmt.Sprintf("completed: %s", out.Task.Title)}, nil
		},
		Sub: func(s commands.SubArgs) (commands.Result, error) {
			task, err := m.resolveTarget(s.Target)
			if err != nil {
				return commands.Result{}, err
			}
			out, err := m.Session.AddSubtask(m.ctx, task.ID, s.Text)
			if err := outcomeError(out.Err, err); err != nil {
				return commands.Result{}, err
			}
			m.Expanded[task.ID] = true
			return commands.Result{Message: fmt.Sprintf("subtask added to %s (%d%%)", out.Task.Title, out.Task.Progress)}, nil
		},
		Progress: func(p commands.ProgressArgs) (commands.Result, error) {
			task, err := m.resolveTarget(p.Target)
			if err != nil {
				return commands.Result{}, err
			}
			out, err := m.Session.SetProgress(m.ctx, task.ID, p.Value)
			if err := outcomeError(out.Err, err); err != nil {
				return commands.Result{}, err
			}
			m.announceUnlocks(out.Unlocked)
			return commands.Result{Message: fmt.Sprintf("progress %d%%: %s", out.Task.Progress, out.Task.Title)}, nil
		},
		Delete: func(t commands.Target) (commands.Result, error) {
			task, err := m.resolveTarget(t)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.Session.Delete(m.ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			delete(m.Expanded, task.ID)
			m.clampCursor()
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Title)}, nil
		},
		Breakdown: func(t commands.Target) (commands.Result, error) {
			task, err := m.resolveTarget(t)
			if err != nil {
				return commands.Result{}, err
			}
			pending = breakdownCmd(m.ctx, m.Session, task.ID)
			return commands.Result{Message: fmt.Sprintf("breaking down: %s", task.Title)}, nil
		},
		Plan: func() (commands.Result, error) {
			m.CurrentView = ViewPlan
			next, cmd := m.requestPlan()
			m = next
			pending = cmd
			return commands.Result{Message: "building plan"}, nil
		},
		Focus: func(a commands.FocusAction) (commands.Result, error) {
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
			switch a {
			case commands.FocusPause:
				m.Focus.Pause()
				return commands.Result{Message: "focus paused"}, nil
			case commands.FocusReset:
				m.Focus.Reset()
				return commands.Result{Message: "focus reset"}, nil
			case commands.FocusNext:
				m.completeFocusPhase()
				return commands.Result{Message: m.Status.Text}, nil
			default:
				next, cmd := m.startFocus()
				m = next
				pending = cmd
				return commands.Result{Message: "focus running"}, nil
			}
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, pending
}

// resolveTarget maps a 1-based list position, or the current selection, to a task.
func (m Model) resolveTarget(t commands.Target) (model.Task, error) {
	if t.Selected() {
		task, ok := m.selectedTask()
		if !ok {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
		}
		return task, nil
	}
	tasks := m.tasks()
	if t.Index < 1 || t.Index > len(tasks) {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at position %d", t.Index)}
	}
	return tasks[t.Index-1], nil
}

func outcomeError(serr *store.Error, err error) error {
	if err != nil {
		return err
	}
	if serr != nil {
		return serr
	}
	return nil
}
