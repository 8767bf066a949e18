package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/taskflow/internal/config"
	"github.com/sandeepkv93/taskflow/internal/focus"
	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/session"
)

type View string

const (
	ViewTasks        View = "Tasks"
	ViewFocus        View = "Focus"
	ViewPlan         View = "Plan"
	ViewAchievements View = "Achievements"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks        string
	Focus        string
	Plan         string
	Achievements string
	Help         string
	Quit         string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type PlanState struct {
	Items   []model.ScheduleItem
	Loading bool
	BuiltAt time.Time
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	Session       *session.Session
	CurrentView   View
	Cursor        int
	Expanded      map[string]bool
	Focus         focus.Timer
	Plan          PlanState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	DesktopEnabled bool
	notifier       DesktopNotifier
	ctx            context.Context
	focusGen       int

	commandInput  textinput.Model
	focusProgress progress.Model
	taskProgress  progress.Model
	planSpinner   spinner.Model
	helpModel     help.Model
}

// rowRef points at a visible list row. Sub is -1 for the task row itself.
type rowRef struct {
	Task int
	Sub  int
}

func NewModel(ctx context.Context, sess *session.Session, cfg config.RuntimeConfig) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		Session:     sess,
		CurrentView: ViewTasks,
		Expanded:    make(map[string]bool),
		Focus:       focus.NewTimer(cfg.FocusWorkMinutes, cfg.FocusBreakMinutes),
		Keys: GlobalKeyMap{
			Tasks:        "1",
			Focus:        "2",
			Plan:         "3",
			Achievements: "4",
			Help:         "?",
			Quit:         "q",
		},
		DesktopEnabled: cfg.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		ctx:            ctx,
	}

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add Write report !high #work due:2026-01-31"
	m.commandInput.CharLimit = 200

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.taskProgress = progress.New(progress.WithSolidFill("10"), progress.WithWidth(20), progress.WithoutPercentage())
	m.planSpinner = spinner.New()
	m.planSpinner.Spinner = spinner.Dot
	m.helpModel = help.New()
	return m
}

func NewModelWithNotifier(ctx context.Context, sess *session.Session, cfg config.RuntimeConfig, notifier DesktopNotifier) Model {
	m := NewModel(ctx, sess, cfg)
	if notifier != nil {
		m.notifier = notifier
	}
	return m
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct {
	Gen int
}

type BreakdownDoneMsg struct {
	TaskID  string
	Outcome session.Outcome
	Added   []string
	Err     error
}

type PlanReadyMsg struct {
	Items []model.ScheduleItem
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
