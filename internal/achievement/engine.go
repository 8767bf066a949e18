// Package achievement evaluates the fixed achievement table against aggregate
// user stats. Unlocks are one-way.
package achievement

import (
	"sync"
	"time"

	"github.com/sandeepkv93/taskflow/internal/model"
)

type Option func(*Engine)

// WithClock sets the clock used for unlock stamps and the early-bird hour.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

type Engine struct {
	mu       sync.Mutex
	stats    model.UserStats
	unlocked map[string]time.Time
	now      func() time.Time
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		unlocked: make(map[string]time.Time),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check merges delta into the stored stats (overwrite, not add) and returns the
// achievements that became unlocked on this call, in table order.
func (e *Engine) Check(delta model.StatsDelta) []model.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats = e.stats.Apply(delta)
	now := e.now()
	hour := now.Hour()

	var out []model.Achievement
	for _, r := range Rules {
		if _, ok := e.unlocked[r.ID]; ok {
			continue
		}
		if !r.Met(e.stats, hour) {
			continue
		}
		e.unlocked[r.ID] = now
		a := r.achievement()
		a.Unlocked = true
		at := now
		a.UnlockedAt = &at
		out = append(out, a)
	}
	return out
}

// Snapshot returns every achievement in table order with its unlock state.
func (e *Engine) Snapshot() []model.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Achievement, 0, len(Rules))
	for _, r := range Rules {
		a := r.achievement()
		if at, ok := e.unlocked[r.ID]; ok {
			a.Unlocked = true
			a.UnlockedAt = &at
		}
		out = append(out, a)
	}
	return out
}

func (e *Engine) Stats() model.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Progress reports how many of the table's achievements are unlocked.
func (e *Engine) Progress() (unlocked, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.unlocked), len(Rules)
}

// Restore replaces the engine state with a persisted one. Unknown ids are dropped.
func (e *Engine) Restore(stats model.UserStats, unlocked map[string]time.Time) {
	known := make(map[string]bool, len(Rules))
	for _, r := range Rules {
		known[r.ID] = true
	}
	next := make(map[string]time.Time, len(unlocked))
	for id, at := range unlocked {
		if known[id] {
			next[id] = at
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = stats
	e.unlocked = next
}

func (e *Engine) state() (model.UserStats, map[string]time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	unlocked := make(map[string]time.Time, len(e.unlocked))
	for id, at := range e.unlocked {
		unlocked[id] = at
	}
	return e.stats, unlocked
}
