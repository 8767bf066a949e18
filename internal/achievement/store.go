package achievement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/storage"
)

// Store binds an Engine to a snapshot backend. Load and Save run only when the
// caller asks: at session start and at each mutation commit.
type Store struct {
	engine    *Engine
	snapshots storage.SnapshotStore
	now       func() time.Time
	logger    *zap.Logger
}

func NewStore(engine *Engine, snapshots storage.SnapshotStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{engine: engine, snapshots: snapshots, now: time.Now, logger: logger}
}

func (s *Store) Engine() *Engine {
	return s.engine
}

// Load restores the engine from the backend. A missing snapshot leaves a fresh engine.
func (s *Store) Load(ctx context.Context) error {
	env, err := s.snapshots.Load(ctx, storage.KeyAchievements)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no achievement snapshot, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("achievement: load: %w", err)
	}
	state, err := storage.DecodeAchievements(env)
	if err != nil {
		return fmt.Errorf("achievement: load: %w", err)
	}
	s.engine.Restore(state.Stats, state.Unlocked)
	s.logger.Debug("achievements loaded", zap.Int("unlocked", len(state.Unlocked)))
	return nil
}

func (s *Store) Save(ctx context.Context) error {
	stats, unlocked := s.engine.state()
	env, err := storage.EncodeAchievements(storage.AchievementState{Stats: stats, Unlocked: unlocked}, s.now())
	if err != nil {
		return fmt.Errorf("achievement: save: %w", err)
	}
	if err := s.snapshots.Save(ctx, storage.KeyAchievements, env); err != nil {
		return fmt.Errorf("achievement: save: %w", err)
	}
	return nil
}
