package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/focus"
	"github.com/sandeepkv93/taskflow/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default from TASKFLOW_HTTP_ADDR or :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := configFromFlags(cmd)
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := OpenApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.New(app.Session, focus.NewAlarm(cfg.AlarmBuffer),
		server.WithLogger(app.Logger.Named("http")),
		server.WithDefaultFocusMinutes(cfg.FocusWorkMinutes),
	)
	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil && err != context.Canceled {
		app.Logger.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}
