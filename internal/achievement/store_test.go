package achievement

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/storage"
)

func TestStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.OpenBolt(filepath.Join(t.TempDir(), "achievements.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer backend.Close()

	first := NewStore(NewEngine(WithClock(fixedClock(7))), backend, nil)
	if err := first.Load(ctx); err != nil {
		t.Fatalf("load empty: %v", err)
	}
	first.Engine().Check(model.StatsDelta{TotalTasksCompleted: model.Int(1), TasksCompletedToday: model.Int(1)})
	if err := first.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := NewStore(NewEngine(WithClock(fixedClock(12))), backend, nil)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats := second.Engine().Stats(); stats.TotalTasksCompleted != 1 || stats.TasksCompletedToday != 1 {
		t.Fatalf("unexpected restored stats: %+v", stats)
	}
	if unlocked, _ := second.Engine().Progress(); unlocked != 2 {
		t.Fatalf("expected first-task and early-bird restored, got %d", unlocked)
	}
	if got := second.Engine().Check(model.StatsDelta{TotalTasksCompleted: model.Int(1)}); len(got) != 0 {
		t.Fatalf("restored achievements re-emitted: %v", ids(got))
	}
}
