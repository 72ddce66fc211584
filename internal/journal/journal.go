// Package journal persists a history of terraform invocations in SQLite,
// for the history command and post-hoc drift auditing.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded invocation.
type Run struct {
	ID        string
	Command   string
	Args      string
	ExitCode  int
	Success   bool
	StartedAt time.Time
	Duration  time.Duration
}

// Journal is an append-only run log. Safe for concurrent use.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) a journal database. Use ":memory:" for an
// in-memory journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		args TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		success INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_command ON runs(command);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends a run. When r.ID is empty a fresh UUID is assigned; the
// assigned ID is returned.
func (j *Journal) Record(ctx context.Context, r Run) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	success := 0
	if r.Success {
		success = 1
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO runs (id, command, args, exit_code, success, started_at, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Command, r.Args, r.ExitCode, success, r.StartedAt.Unix(), r.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return r.ID, nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, command, args, exit_code, success, started_at, duration_ms FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ByCommand returns up to limit runs of one command, newest first.
func (j *Journal) ByCommand(ctx context.Context, command string, limit int) ([]Run, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, command, args, exit_code, success, started_at, duration_ms FROM runs WHERE command = ? ORDER BY started_at DESC, id LIMIT ?",
		command, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs by command: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var success int
		var startedUnix, durationMS int64
		if err := rows.Scan(&r.ID, &r.Command, &r.Args, &r.ExitCode, &success, &startedUnix, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Success = success == 1
		r.StartedAt = time.Unix(startedUnix, 0)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error { return j.db.Close() }

// FormatArgs joins an argument vector for storage.
func FormatArgs(tokens []string) string { return strings.Join(tokens, " ") }
