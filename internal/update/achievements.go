package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/views"
)

func (m Model) achievementsData() views.AchievementsPanelData {
	if m.Session == nil {
		return views.AchievementsPanelData{}
	}
	stats := m.Session.Stats()
	unlocked, total := m.Session.AchievementProgress()
	data := views.AchievementsPanelData{
		Unlocked:          unlocked,
		Total:             total,
		TotalCompleted:    stats.TotalTasksCompleted,
		CompletedToday:    stats.TasksCompletedToday,
		CurrentStreak:     stats.CurrentStreak,
		TotalFocusMinutes: stats.TotalFocusTime,
		PerfectDays:       stats.PerfectDays,
	}
	for _, a := range m.Session.Achievements() {
		item := views.AchievementData{
			Icon:        a.Icon,
			Title:       a.Title,
			Description: a.Description,
			Category:    string(a.Category),
			Unlocked:    a.Unlocked,
		}
		if a.UnlockedAt != nil {
			item.UnlockedAt = a.UnlockedAt.Local().Format("2006-01-02")
		}
		data.Items = append(data.Items, item)
	}
	return data
}

func (m Model) renderAchievementsView() string {
	return views.RenderMarkdown(views.AchievementsMarkdown(m.achievementsData()))
}

func (m *Model) announceUnlocks(unlocked []model.Achievement) {
	if len(unlocked) == 0 {
		return
	}
	titles := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		titles = append(titles, fmt.Sprintf("%s %s", a.Icon, a.Title))
	}
	m.notify("Achievement unlocked", strings.Join(titles, ", "), "success")
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}
