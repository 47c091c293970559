package journal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintmcp/paintd/config"
)

func testEntry(command string) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Command:   command,
		Params:    json.RawMessage(`{"x":1}`),
		Outcome:   OutcomeOK,
		Duration:  25 * time.Millisecond,
		StartedAt: time.Now().UTC(),
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	j := NewMemory(0)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, testEntry("connect")))
	require.NoError(t, j.Record(ctx, testEntry("draw_line")))
	require.NoError(t, j.Record(ctx, testEntry("save")))

	entries, err := j.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "save", entries[0].Command)
	assert.Equal(t, "connect", entries[2].Command)
}

func TestMemoryListPagination(t *testing.T) {
	j := NewMemory(0)
	ctx := context.Background()

	for _, cmd := range []string{"a", "b", "c", "d"} {
		require.NoError(t, j.Record(ctx, testEntry(cmd)))
	}

	entries, err := j.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Command)
	assert.Equal(t, "b", entries[1].Command)
}

func TestMemoryCapDropsOldest(t *testing.T) {
	j := NewMemory(2)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, testEntry("first")))
	require.NoError(t, j.Record(ctx, testEntry("second")))
	require.NoError(t, j.Record(ctx, testEntry("third")))

	entries, err := j.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Command)
	assert.Equal(t, "second", entries[1].Command)
}

func TestMemoryPrune(t *testing.T) {
	j := NewMemory(0)
	ctx := context.Background()

	for _, cmd := range []string{"a", "b", "c"} {
		require.NoError(t, j.Record(ctx, testEntry(cmd)))
	}
	require.NoError(t, j.Prune(ctx, 1))

	entries, err := j.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].Command)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(config.SQLiteJournalConfig{Path: path})
	require.NoError(t, err)
	defer func() { _ = j.Close() }()

	ctx := context.Background()
	e := testEntry("draw_shape")
	e.Outcome = OutcomeError
	e.ErrorCode = 1006
	e.Message = "invalid shape"

	require.NoError(t, j.Record(ctx, e))

	entries, err := j.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "draw_shape", got.Command)
	assert.Equal(t, OutcomeError, got.Outcome)
	assert.Equal(t, 1006, got.ErrorCode)
	assert.Equal(t, "invalid shape", got.Message)
	assert.Equal(t, e.Duration, got.Duration)
	assert.JSONEq(t, `{"x":1}`, string(got.Params))
}

func TestSQLitePruneKeepsNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(config.SQLiteJournalConfig{Path: path})
	require.NoError(t, err)
	defer func() { _ = j.Close() }()

	ctx := context.Background()
	base := time.Now().UTC()
	for i, cmd := range []string{"a", "b", "c", "d"} {
		e := testEntry(cmd)
		e.StartedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, j.Record(ctx, e))
	}

	require.NoError(t, j.Prune(ctx, 2))

	entries, err := j.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "d", entries[0].Command)
	assert.Equal(t, "c", entries[1].Command)
}

func TestSQLiteHealth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(config.SQLiteJournalConfig{Path: path})
	require.NoError(t, err)
	defer func() { _ = j.Close() }()

	assert.NoError(t, j.Health(context.Background()))
}

func TestFactoryDisabledReturnsNoop(t *testing.T) {
	j, err := New(config.JournalConfig{Enabled: false, Type: "sqlite"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, j)
}

func TestFactoryMemory(t *testing.T) {
	j, err := New(config.JournalConfig{Enabled: true, Type: "memory", MaxEntries: 10})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, j)
}

func TestFactoryUnsupportedType(t *testing.T) {
	_, err := New(config.JournalConfig{Enabled: true, Type: "dynamodb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported journal type")
}
