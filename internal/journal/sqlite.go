package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/paintmcp/paintd/config"
)

// SQLite is the default journal backend: a single-file database next
// to the config, no server required
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (creating if needed) the journal database
func NewSQLite(cfg config.SQLiteJournalConfig) (*SQLite, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join(".paintd", "journal.db")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLite{db: db, path: path}
	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return j, nil
}

func (j *SQLite) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_log (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		params TEXT,
		outcome TEXT NOT NULL,
		error_code INTEGER NOT NULL DEFAULT 0,
		message TEXT DEFAULT '',
		duration_ns INTEGER NOT NULL,
		started_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_command_log_started_at ON command_log(started_at DESC);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record implements Journal
func (j *SQLite) Record(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO command_log (id, command, params, outcome, error_code, message, duration_ns, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Command, string(e.Params), e.Outcome, e.ErrorCode, e.Message,
		e.Duration.Nanoseconds(), e.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}
	return nil
}

// List implements Journal
func (j *SQLite) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, command, params, outcome, error_code, message, duration_ns, started_at
		FROM command_log
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var params string
		var durationNs int64
		var startedAt string

		if err := rows.Scan(&e.ID, &e.Command, &params, &e.Outcome, &e.ErrorCode, &e.Message, &durationNs, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if params != "" {
			e.Params = []byte(params)
		}
		e.Duration = time.Duration(durationNs)
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune implements Journal
func (j *SQLite) Prune(ctx context.Context, keep int) error {
	_, err := j.db.ExecContext(ctx, `
		DELETE FROM command_log
		WHERE id NOT IN (SELECT id FROM command_log ORDER BY started_at DESC LIMIT ?)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	return nil
}

// Health implements Journal
func (j *SQLite) Health(ctx context.Context) error {
	if j.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := j.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	var result int
	if err := j.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}
	return nil
}

// Close implements Journal
func (j *SQLite) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
