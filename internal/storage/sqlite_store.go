package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps one row per snapshot key in the snapshots table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteStore{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (Envelope, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version, kind, saved_at, data
		FROM snapshots WHERE key = ?`, key)

	var (
		env     Envelope
		savedAt string
		data    string
	)
	if err := row.Scan(&env.Version, &env.Kind, &savedAt, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Envelope{}, ErrNotFound
		}
		return Envelope{}, err
	}
	at, err := parseTime(savedAt)
	if err != nil {
		return Envelope{}, fmt.Errorf("storage: snapshot %s saved_at: %w", key, err)
	}
	env.SavedAt = at
	env.Data = []byte(data)
	return env, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, env Envelope) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, version, kind, saved_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			kind = excluded.kind,
			saved_at = excluded.saved_at,
			data = excluded.data`,
		key, env.Version, env.Kind, formatTime(env.SavedAt), string(env.Data),
	)
	return err
}
