package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultPaneWidth = 58

// AppData is one frame of the board. Status is rendered as an error when
// StatusIsError is set, whatever its text says.
type AppData struct {
	View          string
	Unlocked      int
	Achievements  int
	LeftPane      string
	RightPane     string
	Status        string
	StatusIsError bool
	Footer        string
	Notification  string
	PaneWidth     int
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	trophyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	completeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastStyle    = panelStyle.BorderForeground(lipgloss.Color("11"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	width := data.PaneWidth
	if width <= 0 {
		width = defaultPaneWidth
	}
	left := panelStyle.Width(width).Render(data.LeftPane)
	right := panelStyle.Width(width).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	lines := []string{renderHeader(data), row}
	if status := renderStatus(data); status != "" {
		lines = append(lines, status)
	}
	if data.Notification != "" {
		lines = append(lines, toastStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderHeader(data AppData) string {
	title := headerStyle.Render(fmt.Sprintf("taskflow | view: %s", data.View))
	if data.Achievements == 0 {
		return title
	}
	badge := trophyStyle
	if data.Unlocked == data.Achievements {
		badge = completeStyle
	}
	return title + headerStyle.Render(" | ") +
		badge.Render(fmt.Sprintf("achievements: %d/%d", data.Unlocked, data.Achievements))
}

func renderStatus(data AppData) string {
	if data.Status == "" {
		return ""
	}
	if data.StatusIsError {
		return errorStyle.Render("status: error: " + data.Status)
	}
	return statusStyle.Render("status: " + data.Status)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
