// Package cli holds the cobra subcommands and the wiring they share.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/ai"
	"github.com/sandeepkv93/taskflow/internal/config"
	"github.com/sandeepkv93/taskflow/internal/logger"
	"github.com/sandeepkv93/taskflow/internal/session"
	"github.com/sandeepkv93/taskflow/internal/storage"
)

// App is an opened session plus the resources it owns.
type App struct {
	Config  config.RuntimeConfig
	Logger  *zap.Logger
	Session *session.Session

	snapshots storage.SnapshotStore
	closeLog  func() error
}

// OpenApp loads config-driven resources. When logToFile is set and no log
// file is configured, logs go next to the database so a TUI keeps the
// terminal clean.
func OpenApp(ctx context.Context, cfg config.RuntimeConfig, logToFile bool) (*App, error) {
	logPath := cfg.LogFile
	if logToFile && logPath == "" {
		logPath = filepath.Join(filepath.Dir(cfg.DBPath), "taskflow.log")
	}
	log, closeLog, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Path:     logPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	snaps, err := storage.Open(cfg.StorageDriver, cfg.DBPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	opts := []session.Option{session.WithLogger(log.Named("session"))}
	if cfg.AIEndpoint != "" {
		provider := ai.NewHTTPProvider(ai.HTTPConfig{
			Endpoint: cfg.AIEndpoint,
			APIKey:   cfg.AIAPIKey,
			Timeout:  cfg.AITimeout,
		})
		opts = append(opts, session.WithAI(ai.NewClient(provider, log.Named("ai"))))
		log.Info("ai collaborator configured", zap.String("provider", provider.Name()))
	}

	sess := session.New(snaps, opts...)
	if err := sess.Open(ctx); err != nil {
		_ = snaps.Close()
		_ = closeLog()
		return nil, err
	}
	log.Info("session opened",
		zap.String("driver", cfg.StorageDriver),
		zap.String("db_path", cfg.DBPath),
		zap.Int("tasks", len(sess.Tasks())),
	)

	return &App{
		Config:    cfg,
		Logger:    log,
		Session:   sess,
		snapshots: snaps,
		closeLog:  closeLog,
	}, nil
}

func (a *App) Close() error {
	err := a.snapshots.Close()
	if cerr := a.closeLog(); err == nil {
		err = cerr
	}
	return err
}
