// Package runlog persists a history of mirror runs in SQLite.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Status values recorded per run.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Run is one recorded mirror run.
type Run struct {
	ID        int64
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Revision  string
	Modules   []string
	Files     int
	Bytes     int64
	TreeHash  string
	Status    string
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the run log database at dbPath, creating parent
// directories as needed. Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create run log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		revision TEXT,
		modules TEXT,
		files INTEGER NOT NULL,
		bytes INTEGER NOT NULL,
		tree_hash TEXT,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a completed run.
func (s *Store) Append(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, started_at, duration_ms, revision, modules, files, bytes, tree_hash, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.RunID,
		run.StartedAt.Unix(),
		run.Duration.Milliseconds(),
		run.Revision,
		strings.Join(run.Modules, ","),
		run.Files,
		run.Bytes,
		run.TreeHash,
		run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, started_at, duration_ms, revision, modules, files, bytes, tree_hash, status FROM runs ORDER BY id DESC LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  int64
			durationMS int64
			modules    string
		)
		if err := rows.Scan(&r.ID, &r.RunID, &startedAt, &durationMS, &r.Revision, &modules, &r.Files, &r.Bytes, &r.TreeHash, &r.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if modules != "" {
			r.Modules = strings.Split(modules, ",")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
