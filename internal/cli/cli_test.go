package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/sandeepkv93/taskflow/internal/config"
	"github.com/sandeepkv93/taskflow/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func testConfig(t *testing.T) config.RuntimeConfig {
	t.Helper()
	cfg := config.DefaultRuntimeConfig()
	cfg.StorageDriver = "bolt"
	cfg.DBPath = filepath.Join(t.TempDir(), "data", "taskflow.bolt")
	cfg.LogLevel = "error"
	return cfg
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "Write", "project", "report")
	if err != nil {
		t.Fatalf("expected valid title, got %v", err)
	}
	if !strings.Contains(out, `valid: "Write project report"`) {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = execute(t, "validate", "asdf")
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if !strings.Contains(out, "rule:   keyboard_mash") {
		t.Fatalf("expected rule in output: %q", out)
	}
}

func TestValidateRequiresTitle(t *testing.T) {
	if _, err := execute(t, "validate"); err == nil {
		t.Fatalf("expected error without args")
	}
}

func TestStatusCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "status.bolt")
	out, err := execute(t, "status", "--driver", "bolt", "--db", dbPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Tasks (0)", "(none)", "Achievements 0/10", "🔒 Getting Started"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestOpenAppPersistsAcrossRuns(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	app, err := OpenApp(ctx, cfg, true)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	out, err := app.Session.Add(ctx, store.TaskInput{Title: "Write project report", Category: "work"})
	if err != nil || !out.OK() {
		t.Fatalf("add: %v %+v", err, out.Err)
	}
	if _, err := app.Session.Toggle(ctx, out.Task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenApp(ctx, cfg, true)
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer reopened.Close()

	var buf bytes.Buffer
	color.NoColor = true
	printStatus(&buf, reopened.Session)
	for _, want := range []string{"Tasks (1)", " 1 [x] medium", "Write project report #work 0%", "Getting Started"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in status:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), "🔒 Getting Started") {
		t.Fatalf("first-task should be unlocked after reopen:\n%s", buf.String())
	}
}

func TestOpenAppRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = "postgres"
	if _, err := OpenApp(context.Background(), cfg, true); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
