package input

import (
	"context"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	config "github.com/paintmcp/paintd/config"
	"github.com/paintmcp/paintd/internal/display/displaytest"
	domain "github.com/paintmcp/paintd/internal/domain"
)

// fastConfig disables every pause so tests run instantly
func fastConfig() config.InputConfig {
	return config.InputConfig{
		MinEventGapMs:   0,
		ClickHoldMs:     0,
		DragSteps:       10,
		DragStepPauseMs: 0,
		StrokeSettleMs:  0,
		TypeDelayMs:     0,
	}
}

func TestClickAtSequence(t *testing.T) {
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, fastConfig())

	require.NoError(t, sim.ClickAt(context.Background(), domain.Point{X: 40, Y: 60}))

	events := fake.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "move", events[0].Kind)
	assert.Equal(t, 40, events[0].X)
	assert.Equal(t, 60, events[0].Y)
	assert.Equal(t, "press", events[1].Kind)
	assert.Equal(t, "release", events[2].Kind)
	assert.Equal(t, 40, events[2].X)
	assert.Equal(t, 60, events[2].Y)
}

func TestDragDecomposition(t *testing.T) {
	fake := displaytest.NewFakeController()
	cfg := fastConfig()
	sim := NewSimulator(fake, cfg)

	start := domain.Point{X: 100, Y: 100}
	end := domain.Point{X: 300, Y: 100}
	require.NoError(t, sim.Drag(context.Background(), start, end))

	events := fake.Events()
	// initial move + press + DragSteps sweep moves + release
	require.Len(t, events, cfg.DragSteps+3)

	assert.Equal(t, "move", events[0].Kind)
	assert.Equal(t, start.X, events[0].X)
	assert.Equal(t, "press", events[1].Kind)

	for i := 2; i < len(events)-1; i++ {
		assert.Equal(t, "move", events[i].Kind, "event %d", i)
	}

	last := events[len(events)-1]
	assert.Equal(t, "release", last.Kind)
	assert.Equal(t, end.X, last.X)
	assert.Equal(t, end.Y, last.Y)

	// sweep ends exactly on the endpoint
	sweepLast := events[len(events)-2]
	assert.Equal(t, end.X, sweepLast.X)
	assert.Equal(t, end.Y, sweepLast.Y)
}

func TestDragSweepIsMonotonic(t *testing.T) {
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, fastConfig())

	require.NoError(t, sim.Drag(context.Background(), domain.Point{X: 0, Y: 0}, domain.Point{X: 200, Y: 0}))

	prev := -1
	for _, e := range fake.EventsOfKind("move") {
		assert.GreaterOrEqual(t, e.X, prev)
		prev = e.X
	}
}

func TestDragPathTooShort(t *testing.T) {
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, fastConfig())

	err := sim.DragPath(context.Background(), []domain.Point{{X: 1, Y: 1}})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidParameters, domain.CodeOf(err))
	assert.Empty(t, fake.Events())
}

func TestDragPathSinglePressAndRelease(t *testing.T) {
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, fastConfig())

	points := []domain.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 0}}
	require.NoError(t, sim.DragPath(context.Background(), points))

	assert.Len(t, fake.EventsOfKind("press"), 1)
	assert.Len(t, fake.EventsOfKind("release"), 1)

	moves := fake.EventsOfKind("move")
	last := moves[len(moves)-1]
	assert.Equal(t, 100, last.X)
	assert.Equal(t, 0, last.Y)
}

func TestKeysInOrder(t *testing.T) {
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, fastConfig())

	require.NoError(t, sim.Keys(context.Background(), "ctrl+a", "delete"))

	keys := fake.EventsOfKind("key")
	require.Len(t, keys, 2)
	assert.Equal(t, "ctrl+a", keys[0].Combo)
	assert.Equal(t, "delete", keys[1].Combo)
}

func TestTypeTextWrapsFailure(t *testing.T) {
	fake := displaytest.NewFakeController()
	fake.FailOn["type"] = assert.AnError
	sim := NewSimulator(fake, fastConfig())

	err := sim.TypeText(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, domain.CodeTextInputFailed, domain.CodeOf(err))
}

func TestRateLimitStopsInput(t *testing.T) {
	cfg := fastConfig()
	cfg.RateLimit = config.RateLimitConfig{
		Enabled:             true,
		MaxActionsPerWindow: 2,
		WindowSeconds:       60,
	}
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, cfg)

	ctx := context.Background()
	require.NoError(t, sim.MoveTo(ctx, domain.Point{X: 1, Y: 1}))
	require.NoError(t, sim.MoveTo(ctx, domain.Point{X: 2, Y: 2}))

	err := sim.MoveTo(ctx, domain.Point{X: 3, Y: 3})
	require.Error(t, err)
	assert.Len(t, fake.EventsOfKind("move"), 2)
}

func TestDragCancelledReleasesButton(t *testing.T) {
	cfg := fastConfig()
	cfg.DragStepPauseMs = 10
	fake := displaytest.NewFakeController()
	sim := NewSimulator(fake, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sim.Drag(ctx, domain.Point{X: 0, Y: 0}, domain.Point{X: 100, Y: 100})
	require.Error(t, err)

	presses := fake.EventsOfKind("press")
	releases := fake.EventsOfKind("release")
	assert.Equal(t, len(presses), len(releases), "held buttons must be released on cancellation")
}
