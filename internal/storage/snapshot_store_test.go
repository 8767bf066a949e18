package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openBackends(t *testing.T) map[string]SnapshotStore {
	t.Helper()
	dir := t.TempDir()
	out := make(map[string]SnapshotStore)
	for _, driver := range []string{DriverSQLite, DriverBolt} {
		store, err := Open(driver, filepath.Join(dir, driver, "taskflow.db"))
		if err != nil {
			t.Fatalf("open %s: %v", driver, err)
		}
		t.Cleanup(func() { _ = store.Close() })
		out[driver] = store
	}
	return out
}

func TestSnapshotStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	saved := time.Date(2026, 2, 9, 12, 30, 0, 123456789, time.UTC)

	for driver, store := range openBackends(t) {
		t.Run(driver, func(t *testing.T) {
			if _, err := store.Load(ctx, KeyTasks); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on empty store, got %v", err)
			}

			env, err := EncodeTasks(sampleTasks(), saved)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if err := store.Save(ctx, KeyTasks, env); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := store.Load(ctx, KeyTasks)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Version != CurrentVersion || got.Kind != KeyTasks || !got.SavedAt.Equal(saved) {
				t.Fatalf("unexpected envelope metadata: %+v", got)
			}
			tasks, err := DecodeTasks(got)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(tasks) != 2 || tasks[0].ID != "task-1" || tasks[1].ID != "task-2" {
				t.Fatalf("unexpected tasks: %+v", tasks)
			}

			next, _ := EncodeTasks(tasks[:1], saved.Add(time.Minute))
			if err := store.Save(ctx, KeyTasks, next); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _ = store.Load(ctx, KeyTasks)
			tasks, _ = DecodeTasks(got)
			if len(tasks) != 1 {
				t.Fatalf("expected overwrite to keep 1 task, got %d", len(tasks))
			}
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestBoltStoreHonoursCancelledContext(t *testing.T) {
	store, err := OpenBolt(filepath.Join(t.TempDir(), "ctx.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Save(ctx, KeyTasks, Envelope{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
