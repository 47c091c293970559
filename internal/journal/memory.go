package journal

import (
	"context"
	"sync"
)

// Memory is an in-process journal, used in tests and as a fallback
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

// NewMemory creates a memory journal capped at max entries (0 means
// unbounded)
func NewMemory(max int) *Memory {
	return &Memory{max: max}
}

// Record implements Journal
func (m *Memory) Record(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return nil
}

// List implements Journal
func (m *Memory) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for i := len(m.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Prune implements Journal
func (m *Memory) Prune(ctx context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if keep >= 0 && len(m.entries) > keep {
		m.entries = m.entries[len(m.entries)-keep:]
	}
	return nil
}

// Health implements Journal
func (m *Memory) Health(ctx context.Context) error { return nil }

// Close implements Journal
func (m *Memory) Close() error { return nil }
