package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskflow/internal/scheduler"
	"github.com/sandeepkv93/taskflow/internal/session"
	"github.com/sandeepkv93/taskflow/internal/views"
)

func (m Model) handlePlanKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "p", "enter":
		return m.requestPlan()
	}
	return m, nil
}

func (m Model) requestPlan() (Model, tea.Cmd) {
	if m.Session == nil || m.Plan.Loading {
		return m, nil
	}
	m.Plan.Loading = true
	m.Status = StatusBar{Text: "building plan", IsError: false}
	return m, tea.Batch(m.planSpinner.Tick, planCmd(m.ctx, m.Session))
}

func planCmd(ctx context.Context, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return PlanReadyMsg{Items: sess.Plan(ctx)}
	}
}

func (m Model) onPlanReady(msg PlanReadyMsg) Model {
	m.Plan.Loading = false
	m.Plan.Items = msg.Items
	m.Plan.BuiltAt = time.Now()
	if len(msg.Items) == 0 {
		m.Status = StatusBar{Text: "nothing to plan, all tasks done", IsError: false}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("plan ready: %d block(s) from %s", len(msg.Items), msg.Items[0].Source), IsError: false}
	return m
}

func (m Model) renderPlanView() string {
	data := views.PlanPanelData{
		Loading:     m.Plan.Loading,
		SpinnerView: m.planSpinner.View(),
		TotalHours:  scheduler.TotalHours(m.Plan.Items),
	}
	for _, item := range m.Plan.Items {
		data.Items = append(data.Items, views.PlanItemData{
			Task:      item.Task,
			StartTime: item.StartTime,
			Duration:  item.Duration,
			Priority:  string(item.Priority),
			Reasoning: item.Reasoning,
		})
	}
	if len(m.Plan.Items) > 0 {
		data.Source = string(m.Plan.Items[0].Source)
	}
	return views.RenderPlanPanel(data)
}
