package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskflow/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
			return m, nil
		case m.Keys.Plan:
			m.CurrentView = ViewPlan
			return m, nil
		case m.Keys.Achievements:
			m.CurrentView = ViewAchievements
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTaskKey(typed)
		case ViewFocus:
			return m.handleFocusKey(typed)
		case ViewPlan:
			return m.handlePlanKey(typed)
		}
	case spinner.TickMsg:
		if m.Plan.Loading {
			var cmd tea.Cmd
			m.planSpinner, cmd = m.planSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewFocus {
				m.bootstrapFocusTask()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick(typed)
	case BreakdownDoneMsg:
		return m.onBreakdownDone(typed), nil
	case PlanReadyMsg:
		return m.onPlanReady(typed), nil
	}

	return m, nil
}

func (m Model) View() string {
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTaskView()
		rightPane = m.renderTaskDetail()
	case ViewFocus:
		leftPane = m.renderFocusView()
	case ViewPlan:
		leftPane = m.renderPlanView()
	case ViewAchievements:
		leftPane = m.renderAchievementsView()
	}
	extras := strings.TrimSpace(strings.Join([]string{
		views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value()),
		m.renderHelpIfVisible(),
	}, "\n"))
	if extras != "" {
		rightPane = strings.TrimSpace(rightPane + "\n\n" + extras)
	}

	unlocked, total := m.achievementProgress()
	return views.RenderApp(views.AppData{
		View:          string(m.CurrentView),
		Unlocked:      unlocked,
		Achievements:  total,
		LeftPane:      leftPane,
		RightPane:     rightPane,
		Status:        m.Status.Text,
		StatusIsError: m.Status.IsError,
		Notification:  m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s tasks | %s focus | %s plan | %s achievements | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Focus, m.Keys.Plan, m.Keys.Achievements, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) achievementProgress() (int, int) {
	if m.Session == nil {
		return 0, 0
	}
	return m.Session.AchievementProgress()
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewFocus, ViewPlan, ViewAchievements:
		return true
	default:
		return false
	}
}
