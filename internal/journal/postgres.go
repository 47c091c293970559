package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/paintmcp/paintd/config"
)

// Postgres journals to a shared PostgreSQL database, for deployments
// where several automation hosts report to one place
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects and prepares the journal table
func NewPostgres(cfg config.PostgresJournalConfig) (*Postgres, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	j := &Postgres{db: db}
	if err := j.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return j, nil
}

func (j *Postgres) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_log (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		params JSONB,
		outcome TEXT NOT NULL,
		error_code INTEGER NOT NULL DEFAULT 0,
		message TEXT DEFAULT '',
		duration_ns BIGINT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_command_log_started_at ON command_log(started_at DESC);
	`
	_, err := j.db.ExecContext(ctx, schema)
	return err
}

// Record implements Journal
func (j *Postgres) Record(ctx context.Context, e Entry) error {
	params := sql.NullString{}
	if len(e.Params) > 0 {
		params = sql.NullString{String: string(e.Params), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO command_log (id, command, params, outcome, error_code, message, duration_ns, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Command, params, e.Outcome, e.ErrorCode, e.Message, e.Duration.Nanoseconds(), e.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}
	return nil
}

// List implements Journal
func (j *Postgres) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, command, COALESCE(params::text, ''), outcome, error_code, message, duration_ns, started_at
		FROM command_log
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
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

		if err := rows.Scan(&e.ID, &e.Command, &params, &e.Outcome, &e.ErrorCode, &e.Message, &durationNs, &e.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if params != "" {
			e.Params = []byte(params)
		}
		e.Duration = time.Duration(durationNs)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune implements Journal
func (j *Postgres) Prune(ctx context.Context, keep int) error {
	_, err := j.db.ExecContext(ctx, `
		DELETE FROM command_log
		WHERE id NOT IN (SELECT id FROM command_log ORDER BY started_at DESC LIMIT $1)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	return nil
}

// Health implements Journal
func (j *Postgres) Health(ctx context.Context) error {
	if j.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return j.db.PingContext(ctx)
}

// Close implements Journal
func (j *Postgres) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
