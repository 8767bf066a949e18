package cli

import (
	"errors"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskflow/internal/quality"
)

var errRejected = errors.New("title rejected")

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <title...>",
		Short:         "Check a task title against the quality gate",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	res := quality.ValidateTitle(title)
	out := cmd.OutOrStdout()
	if res.Valid {
		color.New(color.FgGreen).Fprintf(out, "✓ valid: %q\n", title)
		return nil
	}
	color.New(color.FgRed, color.Bold).Fprintf(out, "✗ rejected: %q\n", title)
	color.New(color.FgYellow).Fprintf(out, "  rule:   %s\n", res.Rule)
	color.New(color.FgYellow).Fprintf(out, "  reason: %s\n", res.Reason)
	return errRejected
}
