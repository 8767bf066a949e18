package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskflow/internal/focus"
	"github.com/sandeepkv93/taskflow/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.Focus.Pause()
			m.Status = StatusBar{Text: "focus paused", IsError: false}
			return m, nil
		}
		return m.startFocus()
	case "r":
		m.Focus.Reset()
		m.Status = StatusBar{Text: "focus reset", IsError: false}
		return m, nil
	case "n":
		m.completeFocusPhase()
		return m, nil
	}
	return m, nil
}

func (m Model) startFocus() (Model, tea.Cmd) {
	if !m.Focus.Start() {
		return m, nil
	}
	m.focusGen++
	m.Status = StatusBar{Text: "focus running", IsError: false}
	return m, focusTickCmd(m.focusGen)
}

func (m Model) onFocusTick(msg FocusTickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.focusGen || !m.Focus.Running {
		return m, nil
	}
	if m.Focus.Tick() {
		if m.Focus.Phase == focus.PhaseWork {
			m.Status = StatusBar{Text: "work session complete; press n to start break", IsError: false}
			m.notify("Focus", "work session complete", "info")
		} else {
			m.Status = StatusBar{Text: "break complete; press n for next focus block", IsError: false}
		}
		return m, nil
	}
	return m, focusTickCmd(m.focusGen)
}

func (m *Model) bootstrapFocusTask() {
	if m.Focus.TaskID != "" {
		return
	}
	if task, ok := m.selectedTask(); ok {
		m.Focus.TaskID = task.ID
		m.Focus.TaskTitle = task.Title
	}
}

// completeFocusPhase advances the timer and credits elapsed work minutes to
// the focus total.
func (m *Model) completeFocusPhase() {
	wasWork := m.Focus.Phase == focus.PhaseWork
	credited := m.Focus.CompletePhase()
	m.focusGen++
	if credited > 0 && m.Session != nil {
		unlocked, err := m.Session.RecordFocus(m.ctx, credited)
		if err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: fmt.Sprintf("record focus failed: %v", err), IsError: true}
			return
		}
		m.announceUnlocks(unlocked)
	}
	switch {
	case wasWork && credited > 0:
		m.Status = StatusBar{Text: fmt.Sprintf("logged %dm of focus; break started", credited), IsError: false}
	case wasWork:
		m.Status = StatusBar{Text: "work phase skipped; break started", IsError: false}
	default:
		m.Status = StatusBar{Text: "focus phase started", IsError: false}
	}
}

func (m Model) renderFocusView() string {
	total := 0
	if m.Session != nil {
		total = m.Session.Stats().TotalFocusTime
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:          m.Focus.TaskTitle,
		Phase:              string(m.Focus.Phase),
		Timer:              m.Focus.Clock(),
		ProgressView:       m.focusProgress.ViewAs(m.Focus.Percent()),
		ProgressPct:        int(m.Focus.Percent() * 100),
		CompletedPomodoros: m.Focus.CompletedPomodoros,
		TotalFocusMinutes:  total,
		ShowEndPrompt:      m.Focus.RemainingSec == 0,
	})
}

func focusTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{Gen: gen} })
}
