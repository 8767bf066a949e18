package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running it without a subcommand opens
// the TUI.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "taskflow",
		Short:   "Task tracker with a quality gate, focus timer and achievements",
		Version: version,
		RunE:    runTui,
	}
	root.PersistentFlags().String("env-file", "", "dotenv file to load (default .env)")
	root.PersistentFlags().String("db", "", "database path (overrides TASKFLOW_DB_PATH)")
	root.PersistentFlags().String("driver", "", "storage driver: sqlite or bolt")

	root.AddCommand(NewTuiCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewStatusCmd())
	return root
}
