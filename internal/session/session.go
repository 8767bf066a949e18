// Package session runs the commit pipeline shared by the TUI and the HTTP API:
// quality gate and store mutation, then stats derivation, achievement check and
// persistence of both snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskflow/internal/achievement"
	"github.com/sandeepkv93/taskflow/internal/ai"
	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/scheduler"
	"github.com/sandeepkv93/taskflow/internal/stats"
	"github.com/sandeepkv93/taskflow/internal/storage"
	"github.com/sandeepkv93/taskflow/internal/store"
)

// Outcome is a mutation result plus whatever achievements it unlocked.
type Outcome struct {
	Task     model.Task
	Err      *store.Error
	Unlocked []model.Achievement
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAI enables breakdown and AI planning through client.
func WithAI(client *ai.Client) Option {
	return func(s *Session) {
		s.ai = client
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		s.newID = gen
	}
}

type Session struct {
	mu           sync.Mutex
	tasks        *store.Store
	engine       *achievement.Engine
	achievements *achievement.Store
	snapshots    storage.SnapshotStore
	planner      *scheduler.Planner
	ai           *ai.Client
	now          func() time.Time
	newID        func() string
	logger       *zap.Logger
}

func New(snapshots storage.SnapshotStore, opts ...Option) *Session {
	s := &Session{
		snapshots: snapshots,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	storeOpts := []store.Option{store.WithClock(func() time.Time { return s.now().UTC() })}
	if s.newID != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(s.newID))
	}
	s.tasks = store.New(storeOpts...)
	s.engine = achievement.NewEngine(achievement.WithClock(s.now))
	s.achievements = achievement.NewStore(s.engine, snapshots, s.logger.Named("achievement"))

	if s.ai != nil {
		s.planner = scheduler.NewPlanner(s.ai, s.logger.Named("planner"))
	} else {
		s.ai = ai.NewClient(nil, s.logger.Named("ai"))
		s.planner = scheduler.NewPlanner(nil, s.logger.Named("planner"))
	}
	return s
}

// Open loads both snapshots and refreshes the day-dependent counters.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.snapshots.Load(ctx, storage.KeyTasks)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("no task snapshot, starting empty")
	case err != nil:
		return fmt.Errorf("session: load tasks: %w", err)
	default:
		tasks, err := storage.DecodeTasks(env)
		if err != nil {
			return fmt.Errorf("session: load tasks: %w", err)
		}
		if err := s.tasks.Replace(tasks); err != nil {
			return fmt.Errorf("session: load tasks: %w", err)
		}
		s.logger.Info("tasks loaded", zap.Int("count", len(tasks)))
	}

	if err := s.achievements.Load(ctx); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if unlocked := s.engine.Check(s.derive()); len(unlocked) > 0 {
		return s.achievements.Save(ctx)
	}
	return nil
}

func (s *Session) Add(ctx context.Context, in store.TaskInput) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.Add(in) })
}

func (s *Session) Update(ctx context.Context, id string, p store.TaskPatch) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.Update(id, p) })
}

// Delete is a no-op for unknown ids; the bool reports whether a task was removed.
func (s *Session) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	_, err := s.commit(ctx, func() store.Result {
		removed = s.tasks.Delete(id)
		return store.Result{}
	})
	return removed, err
}

func (s *Session) Toggle(ctx context.Context, id string) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.Toggle(id) })
}

func (s *Session) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.ToggleSubtask(taskID, subtaskID) })
}

func (s *Session) SetProgress(ctx context.Context, id string, value int) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.SetProgress(id, value) })
}

func (s *Session) AddSubtask(ctx context.Context, taskID, text string) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.AddSubtask(taskID, text) })
}

func (s *Session) RemoveSubtask(ctx context.Context, taskID, subtaskID string) (Outcome, error) {
	return s.commit(ctx, func() store.Result { return s.tasks.RemoveSubtask(taskID, subtaskID) })
}

func (s *Session) Tasks() []model.Task {
	return s.tasks.List()
}

func (s *Session) Get(id string) (model.Task, bool) {
	return s.tasks.Get(id)
}

func (s *Session) Achievements() []model.Achievement {
	return s.engine.Snapshot()
}

func (s *Session) Stats() model.UserStats {
	return s.engine.Stats()
}

func (s *Session) AchievementProgress() (unlocked, total int) {
	return s.engine.Progress()
}

// RecordFocus adds completed focus minutes to the running total.
func (s *Session) RecordFocus(ctx context.Context, minutes int) ([]model.Achievement, error) {
	if minutes <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.engine.Stats().TotalFocusTime + minutes
	unlocked := s.engine.Check(model.StatsDelta{TotalFocusTime: model.Int(total)})
	s.logger.Debug("focus recorded", zap.Int("minutes", minutes), zap.Int("total", total))
	if err := s.achievements.Save(ctx); err != nil {
		return unlocked, fmt.Errorf("session: %w", err)
	}
	return unlocked, nil
}

// Breakdown asks the collaborator for subtasks and appends the accepted ones.
// When it is unavailable the task is returned unchanged with nothing added.
func (s *Session) Breakdown(ctx context.Context, id string) (Outcome, []string, error) {
	task, ok := s.tasks.Get(id)
	if !ok {
		return Outcome{Err: &store.Error{Code: store.CodeNotFound, Reason: fmt.Sprintf("task %q not found", id)}}, nil, nil
	}
	resp, err := s.ai.Breakdown(ctx, ai.BreakdownRequest{TaskTitle: task.Title, TaskDescription: task.Description})
	if err != nil || !resp.Success {
		s.logger.Warn("breakdown unavailable", zap.String("task_id", id), zap.Error(err))
		return Outcome{Task: task}, []string{}, nil
	}

	added := make([]string, 0, len(resp.Subtasks))
	out, cerr := s.commit(ctx, func() store.Result {
		res := store.Result{Task: task}
		for _, text := range resp.Subtasks {
			next := s.tasks.AddSubtask(id, text)
			if !next.OK() {
				if next.Err.Code == store.CodeNotFound {
					return next
				}
				continue
			}
			added = append(added, text)
			res = next
		}
		return res
	})
	return out, added, cerr
}

// Plan schedules the open tasks, falling back to the fixed slot table.
func (s *Session) Plan(ctx context.Context) []model.ScheduleItem {
	return s.planner.Plan(ctx, s.tasks.List())
}

func (s *Session) commit(ctx context.Context, mutate func() store.Result) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := mutate()
	if !res.OK() {
		s.logger.Debug("mutation rejected", zap.String("code", string(res.Err.Code)), zap.String("reason", res.Err.Reason))
		return Outcome{Err: res.Err}, nil
	}

	out := Outcome{Task: res.Task}
	out.Unlocked = s.engine.Check(s.derive())
	for _, a := range out.Unlocked {
		s.logger.Info("achievement unlocked", zap.String("id", a.ID))
	}
	if err := s.persist(ctx); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Session) derive() model.StatsDelta {
	return stats.Derive(s.tasks.List(), s.engine.Stats(), s.now())
}

func (s *Session) persist(ctx context.Context) error {
	env, err := storage.EncodeTasks(s.tasks.List(), s.now())
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.snapshots.Save(ctx, storage.KeyTasks, env); err != nil {
		return fmt.Errorf("session: save tasks: %w", err)
	}
	if err := s.achievements.Save(ctx); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
