package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/session"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print tasks, stats and achievements",
		RunE:  runStatus,
	}
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	app, err := OpenApp(cmd.Context(), configFromFlags(cmd), true)
	if err != nil {
		return err
	}
	defer app.Close()
	printStatus(cmd.OutOrStdout(), app.Session)
	return nil
}

func printStatus(out io.Writer, sess *session.Session) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	tasks := sess.Tasks()
	bold.Fprintf(out, "Tasks (%d)\n", len(tasks))
	fmt.Fprintln(out, strings.Repeat("-", 50))
	if len(tasks) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for i, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		fmt.Fprintf(out, "%2d %s ", i+1, check)
		priorityColor(t.Priority).Fprintf(out, "%-6s", t.Priority)
		fmt.Fprintf(out, " %s #%s %d%%\n", t.Title, t.Category, t.Progress)
	}

	stats := sess.Stats()
	fmt.Fprintln(out)
	cyan.Fprintln(out, "Stats:")
	fmt.Fprintf(out, "  completed: %d (today %d)\n", stats.TotalTasksCompleted, stats.TasksCompletedToday)
	fmt.Fprintf(out, "  streak:    %d day(s)\n", stats.CurrentStreak)
	fmt.Fprintf(out, "  focus:     %dm\n", stats.TotalFocusTime)
	fmt.Fprintf(out, "  perfect:   %d day(s)\n", stats.PerfectDays)

	unlocked, total := sess.AchievementProgress()
	fmt.Fprintln(out)
	cyan.Fprintf(out, "Achievements %d/%d:\n", unlocked, total)
	for _, a := range sess.Achievements() {
		if a.Unlocked {
			color.New(color.FgGreen).Fprintf(out, "  %s %s\n", a.Icon, a.Title)
			continue
		}
		fmt.Fprintf(out, "  🔒 %s: %s\n", a.Title, a.Description)
	}
}

func priorityColor(p model.Priority) *color.Color {
	switch p {
	case model.PriorityHigh:
		return color.New(color.FgRed)
	case model.PriorityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
