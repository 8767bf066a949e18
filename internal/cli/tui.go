package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskflow/internal/config"
	"github.com/sandeepkv93/taskflow/internal/update"
)

// NewTuiCmd creates the tui command
func NewTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task board",
		RunE:  runTui,
	}
	return cmd
}

func runTui(cmd *cobra.Command, _ []string) error {
	cfg := configFromFlags(cmd)
	app, err := OpenApp(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer app.Close()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModelWithNotifier(cmd.Context(), app.Session, cfg, notifier)
	program := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("taskflow tui failed: %w", err)
	}
	return nil
}

// configFromFlags resolves config from .env and the environment, then applies
// the persistent flags set on the root command.
func configFromFlags(cmd *cobra.Command) config.RuntimeConfig {
	var envFiles []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		envFiles = append(envFiles, f)
	}
	cfg := config.Load(envFiles...)
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
	if cmd.Flags().Changed("driver") {
		cfg.StorageDriver, _ = cmd.Flags().GetString("driver")
	}
	return cfg
}
