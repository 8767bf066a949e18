// Package storage persists versioned snapshots of task and achievement state.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	KeyTasks        = "tasks"
	KeyAchievements = "achievements"

	// CurrentVersion is stamped on every envelope written by this build.
	CurrentVersion = 1

	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

var (
	ErrNotFound           = errors.New("storage: not found")
	ErrUnsupportedVersion = errors.New("storage: unsupported snapshot version")
	ErrKindMismatch       = errors.New("storage: snapshot kind mismatch")
)

// Envelope wraps a serialized snapshot with the metadata needed to reject
// formats this build does not understand.
type Envelope struct {
	Version int             `json:"version"`
	Kind    string          `json:"kind"`
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// SnapshotStore is a key/envelope store. Load returns ErrNotFound for missing keys.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (Envelope, error)
	Save(ctx context.Context, key string, env Envelope) error
	Close() error
}

// Open selects a backend by driver name.
func Open(driver, path string) (SnapshotStore, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		return OpenSQLite(path)
	case DriverBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

func newEnvelope(kind string, savedAt time.Time, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("storage: encode %s: %w", kind, err)
	}
	return Envelope{Version: CurrentVersion, Kind: kind, SavedAt: savedAt.UTC(), Data: data}, nil
}

func checkEnvelope(env Envelope, kind string) error {
	if env.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if env.Kind != kind {
		return fmt.Errorf("%w: want %q, got %q", ErrKindMismatch, kind, env.Kind)
	}
	return nil
}
