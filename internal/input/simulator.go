package input

import (
	"context"
	"fmt"
	"time"

	config "github.com/paintmcp/paintd/config"
	display "github.com/paintmcp/paintd/internal/display"
	domain "github.com/paintmcp/paintd/internal/domain"
	geometry "github.com/paintmcp/paintd/internal/geometry"
	logger "github.com/paintmcp/paintd/internal/logger"
	utils "github.com/paintmcp/paintd/internal/utils"
)

// Simulator issues paced synthetic input through a display controller.
// Success means the OS accepted the event; whether the target application
// honored it is decided elsewhere. All waits respect ctx cancellation.
//
// Points are absolute screen coordinates; canvas mapping happens before
// the simulator is invoked.
type Simulator struct {
	ctrl      display.Controller
	cfg       config.InputConfig
	limiter   *utils.SlidingWindowRateLimiter
	lastEvent time.Time
}

// NewSimulator creates a simulator over the given controller
func NewSimulator(ctrl display.Controller, cfg config.InputConfig) *Simulator {
	return &Simulator{
		ctrl:    ctrl,
		cfg:     cfg,
		limiter: utils.NewRateLimiter(cfg.RateLimit),
	}
}

// pace enforces the rate limit and the minimum inter-event gap
func (s *Simulator) pace(ctx context.Context, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.limiter.CheckAndRecord(action); err != nil {
		return domain.WrapError(domain.CodeGeneral, err, "input rate limit hit during %s", action)
	}

	gap := time.Duration(s.cfg.MinEventGapMs) * time.Millisecond
	if gap > 0 && !s.lastEvent.IsZero() {
		if wait := gap - time.Since(s.lastEvent); wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	s.lastEvent = time.Now()
	return nil
}

// MoveTo moves the pointer to p
func (s *Simulator) MoveTo(ctx context.Context, p domain.Point) error {
	if err := s.pace(ctx, "move"); err != nil {
		return err
	}
	if err := s.ctrl.MoveMouse(ctx, p.X, p.Y); err != nil {
		return fmt.Errorf("move to %s: %w", p, err)
	}
	return nil
}

// ClickAt moves the pointer to p and performs a single left click with
// the configured press-to-release hold
func (s *Simulator) ClickAt(ctx context.Context, p domain.Point) error {
	if err := s.MoveTo(ctx, p); err != nil {
		return err
	}
	if err := s.pace(ctx, "click"); err != nil {
		return err
	}

	if err := s.ctrl.PressMouse(ctx, display.MouseButtonLeft); err != nil {
		return fmt.Errorf("click at %s: %w", p, err)
	}
	if err := sleep(ctx, time.Duration(s.cfg.ClickHoldMs)*time.Millisecond); err != nil {
		// the button is down; releasing is more important than the ctx error
		_ = s.ctrl.ReleaseMouse(ctx, display.MouseButtonLeft)
		return err
	}
	if err := s.ctrl.ReleaseMouse(ctx, display.MouseButtonLeft); err != nil {
		return fmt.Errorf("click at %s: %w", p, err)
	}
	return nil
}

// DoubleClickAt moves the pointer to p and performs a double click
func (s *Simulator) DoubleClickAt(ctx context.Context, p domain.Point) error {
	if err := s.MoveTo(ctx, p); err != nil {
		return err
	}
	if err := s.pace(ctx, "double_click"); err != nil {
		return err
	}
	if err := s.ctrl.ClickMouse(ctx, display.MouseButtonLeft, 2); err != nil {
		return fmt.Errorf("double click at %s: %w", p, err)
	}
	return nil
}

// Drag presses at start, sweeps the pointer through interpolated steps,
// and releases at end. Steps move continuously so the target application
// registers a stroke instead of a teleport.
func (s *Simulator) Drag(ctx context.Context, start, end domain.Point) error {
	if err := s.MoveTo(ctx, start); err != nil {
		return err
	}
	if err := s.pace(ctx, "drag"); err != nil {
		return err
	}

	if err := s.ctrl.PressMouse(ctx, display.MouseButtonLeft); err != nil {
		return fmt.Errorf("drag from %s: %w", start, err)
	}

	if err := s.sweep(ctx, start, end); err != nil {
		_ = s.ctrl.ReleaseMouse(ctx, display.MouseButtonLeft)
		return err
	}

	if err := s.ctrl.ReleaseMouse(ctx, display.MouseButtonLeft); err != nil {
		return fmt.Errorf("drag to %s: %w", end, err)
	}

	return s.settle(ctx)
}

// DragPath presses at the first point, sweeps through every following
// point and releases at the last. Used for freehand polylines.
func (s *Simulator) DragPath(ctx context.Context, points []domain.Point) error {
	if len(points) < 2 {
		return domain.ErrInvalidParameters("a drag path needs at least 2 points, got %d", len(points))
	}

	if err := s.MoveTo(ctx, points[0]); err != nil {
		return err
	}
	if err := s.pace(ctx, "drag_path"); err != nil {
		return err
	}

	if err := s.ctrl.PressMouse(ctx, display.MouseButtonLeft); err != nil {
		return fmt.Errorf("drag path from %s: %w", points[0], err)
	}

	for i := 1; i < len(points); i++ {
		if err := s.sweep(ctx, points[i-1], points[i]); err != nil {
			_ = s.ctrl.ReleaseMouse(ctx, display.MouseButtonLeft)
			return err
		}
	}

	if err := s.ctrl.ReleaseMouse(ctx, display.MouseButtonLeft); err != nil {
		return fmt.Errorf("drag path to %s: %w", points[len(points)-1], err)
	}

	return s.settle(ctx)
}

// sweep moves the held pointer from a to b in interpolated steps
func (s *Simulator) sweep(ctx context.Context, a, b domain.Point) error {
	pause := time.Duration(s.cfg.DragStepPauseMs) * time.Millisecond

	for _, p := range geometry.Interpolate(a, b, s.cfg.DragSteps) {
		if err := sleep(ctx, pause); err != nil {
			return err
		}
		if err := s.ctrl.MoveMouse(ctx, p.X, p.Y); err != nil {
			return fmt.Errorf("sweep to %s: %w", p, err)
		}
	}
	return nil
}

// TypeText types literal text with the configured inter-key delay
func (s *Simulator) TypeText(ctx context.Context, text string) error {
	if err := s.pace(ctx, "type"); err != nil {
		return err
	}
	if err := s.ctrl.TypeText(ctx, text, s.cfg.TypeDelayMs); err != nil {
		return domain.WrapError(domain.CodeTextInputFailed, err, "failed to type text (%d chars)", len(text))
	}
	return nil
}

// Keys sends each key combination in order (e.g. "ctrl+a", "delete")
func (s *Simulator) Keys(ctx context.Context, combos ...string) error {
	for _, combo := range combos {
		if err := s.pace(ctx, "key"); err != nil {
			return err
		}
		if err := s.ctrl.SendKeyCombo(ctx, combo); err != nil {
			return fmt.Errorf("send %q: %w", combo, err)
		}
		logger.Debug("sent key combo", "combo", combo)
	}
	return nil
}

// Settle waits the configured stroke settle time
func (s *Simulator) settle(ctx context.Context) error {
	return sleep(ctx, time.Duration(s.cfg.StrokeSettleMs)*time.Millisecond)
}

// Pause waits for d, honoring ctx
func (s *Simulator) Pause(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

// sleep waits for d or until ctx is done, whichever comes first
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
