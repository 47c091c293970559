package journal

import "context"

// Noop discards every record. Used when the journal is disabled.
type Noop struct{}

// NewNoop creates a discarding journal
func NewNoop() Noop { return Noop{} }

// Record implements Journal
func (Noop) Record(ctx context.Context, e Entry) error { return nil }

// List implements Journal
func (Noop) List(ctx context.Context, limit, offset int) ([]Entry, error) { return nil, nil }

// Prune implements Journal
func (Noop) Prune(ctx context.Context, keep int) error { return nil }

// Health implements Journal
func (Noop) Health(ctx context.Context) error { return nil }

// Close implements Journal
func (Noop) Close() error { return nil }
