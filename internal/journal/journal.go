// Package journal persists a record of every executed command. The
// journal is observability, not a source of truth: writes are
// best-effort and the engine only logs journal failures.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paintmcp/paintd/config"
)

// Entry is one executed command record
type Entry struct {
	ID        string          `json:"id"`
	Command   string          `json:"command"`
	Params    json.RawMessage `json:"params,omitempty"`
	Outcome   string          `json:"outcome"`
	ErrorCode int             `json:"error_code,omitempty"`
	Message   string          `json:"message,omitempty"`
	Duration  time.Duration   `json:"duration_ns"`
	StartedAt time.Time       `json:"started_at"`
}

// Outcome values
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Journal stores command execution records
type Journal interface {
	// Record appends one entry
	Record(ctx context.Context, e Entry) error
	// List returns the newest entries first
	List(ctx context.Context, limit, offset int) ([]Entry, error)
	// Prune drops everything but the newest keep entries
	Prune(ctx context.Context, keep int) error
	// Health checks the backend is reachable
	Health(ctx context.Context) error
	Close() error
}

// New creates the journal selected by the configuration. A disabled
// journal is a no-op sink, never nil.
func New(cfg config.JournalConfig) (Journal, error) {
	if !cfg.Enabled {
		return NewNoop(), nil
	}

	switch cfg.Type {
	case "sqlite":
		return NewSQLite(cfg.SQLite)
	case "postgres":
		return NewPostgres(cfg.Postgres)
	case "redis":
		return NewRedis(cfg.Redis, cfg.MaxEntries)
	case "memory":
		return NewMemory(cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unsupported journal type: %s", cfg.Type)
	}
}
