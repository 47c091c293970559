// Package dialog drives Paint's modal dialogs with synthetic keyboard
// input. Every dialog interaction walks the same stages: open it, wait
// for it to become visible, fill its fields, confirm, done. Any stage
// that stalls gets a best-effort Escape so the session stays usable.
package dialog

import (
	"context"
	"strconv"
	"time"

	"github.com/paintmcp/paintd/config"
	"github.com/paintmcp/paintd/internal/domain"
	"github.com/paintmcp/paintd/internal/input"
	"github.com/paintmcp/paintd/internal/logger"
)

// Kind identifies a dialog flow
type Kind string

const (
	KindResize    Kind = "resize"
	KindFont      Kind = "font"
	KindNewCanvas Kind = "new_canvas"
	KindSave      Kind = "save"

	// KindConfirm covers the small yes/no prompts that can interpose
	// themselves (unsaved changes, overwrite existing file)
	KindConfirm Kind = "confirm"
)

// Stage is a step in a dialog interaction
type Stage int

const (
	StageOpening Stage = iota
	StageWaitingVisible
	StageFilling
	StageConfirming
	StageClosed
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case StageOpening:
		return "opening"
	case StageWaitingVisible:
		return "waiting_visible"
	case StageFilling:
		return "filling"
	case StageConfirming:
		return "confirming"
	case StageClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Prober reports whether a dialog of the given kind is currently on
// screen. Implementations must be cheap; the controller polls them.
type Prober interface {
	DialogVisible(ctx context.Context, kind Kind) (bool, error)
}

// ResizeOptions parameterizes the Resize and Skew dialog. Both fields
// are always typed explicitly, so the caller resolves aspect-ratio
// math before opening the dialog.
type ResizeOptions struct {
	Horizontal int
	Vertical   int
	Percent    bool
}

// Controller walks modal dialogs through their stages
type Controller struct {
	sim   *input.Simulator
	probe Prober
	cfg   config.DialogsConfig

	// Paint's resize dialog remembers its aspect-ratio checkbox across
	// uses and only exposes a toggle, so we track what we believe it
	// holds. A freshly launched Paint starts checked.
	aspectChecked bool
}

// NewController creates a dialog controller on top of the input
// simulator
func NewController(sim *input.Simulator, probe Prober, cfg config.DialogsConfig) *Controller {
	return &Controller{
		sim:           sim,
		probe:         probe,
		cfg:           cfg,
		aspectChecked: true,
	}
}

// Resize drives the Resize and Skew dialog (Ctrl+W). Values are
// percentages when opts.Percent is set, pixels otherwise.
func (c *Controller) Resize(ctx context.Context, opts ResizeOptions) error {
	open := func(ctx context.Context) error {
		return c.sim.Keys(ctx, "ctrl+w")
	}
	fill := func(ctx context.Context) error {
		mode := "alt+x"
		if opts.Percent {
			mode = "alt+p"
		}
		if err := c.sim.Keys(ctx, mode); err != nil {
			return err
		}
		// Uncheck "Maintain aspect ratio" so the two typed values stick
		// independently.
		if c.aspectChecked {
			if err := c.sim.Keys(ctx, "alt+m"); err != nil {
				return err
			}
			c.aspectChecked = false
		}
		if err := c.sim.Keys(ctx, "alt+h"); err != nil {
			return err
		}
		if err := c.typeInto(ctx, strconv.Itoa(opts.Horizontal)); err != nil {
			return err
		}
		if err := c.sim.Keys(ctx, "tab"); err != nil {
			return err
		}
		return c.typeInto(ctx, strconv.Itoa(opts.Vertical))
	}
	return c.run(ctx, KindResize, open, fill, nil)
}

// SetFont drives the font dialog (Ctrl+F with the text tool active).
// Empty family or zero size leave that field untouched.
func (c *Controller) SetFont(ctx context.Context, family string, size int, style domain.FontStyle) error {
	open := func(ctx context.Context) error {
		return c.sim.Keys(ctx, "ctrl+f")
	}
	fill := func(ctx context.Context) error {
		if family != "" {
			if err := c.typeInto(ctx, family); err != nil {
				return err
			}
		}
		if size > 0 {
			if err := c.sim.Keys(ctx, "tab"); err != nil {
				return err
			}
			if err := c.typeInto(ctx, strconv.Itoa(size)); err != nil {
				return err
			}
		}
		if style.Bold() {
			if err := c.sim.Keys(ctx, "ctrl+b"); err != nil {
				return err
			}
		}
		if style.Italic() {
			if err := c.sim.Keys(ctx, "ctrl+i"); err != nil {
				return err
			}
		}
		return nil
	}
	return c.run(ctx, KindFont, open, fill, nil)
}

// NewCanvas replaces the current document (Ctrl+N, declining to save)
// and sets its dimensions through the properties dialog (Ctrl+E).
func (c *Controller) NewCanvas(ctx context.Context, width, height int) error {
	open := func(ctx context.Context) error {
		if err := c.sim.Keys(ctx, "ctrl+n"); err != nil {
			return err
		}
		if err := c.resolveConfirm(ctx, "n"); err != nil {
			return err
		}
		if err := c.sim.Pause(ctx, c.settleDelay()); err != nil {
			return err
		}
		return c.sim.Keys(ctx, "ctrl+e")
	}
	fill := func(ctx context.Context) error {
		if err := c.typeInto(ctx, strconv.Itoa(width)); err != nil {
			return err
		}
		if err := c.sim.Keys(ctx, "tab"); err != nil {
			return err
		}
		return c.typeInto(ctx, strconv.Itoa(height))
	}
	return c.run(ctx, KindNewCanvas, open, fill, nil)
}

// SaveAs drives the Save As dialog. F12 always opens it, even for a
// document that was saved before; the format follows the extension in
// path.
func (c *Controller) SaveAs(ctx context.Context, path string) error {
	open := func(ctx context.Context) error {
		return c.sim.Keys(ctx, "f12")
	}
	fill := func(ctx context.Context) error {
		return c.typeInto(ctx, path)
	}
	confirm := func(ctx context.Context) error {
		if err := c.sim.Keys(ctx, "enter"); err != nil {
			return err
		}
		// Overwriting an existing file raises one more prompt.
		return c.resolveConfirm(ctx, "y")
	}
	return c.run(ctx, KindSave, open, fill, confirm)
}

// run executes one dialog interaction. A dialog that never shows up is
// a 1002; anything else maps to the kind's failure code. Both paths
// send Escape so no half-open dialog blocks the next command.
func (c *Controller) run(ctx context.Context, kind Kind, open, fill, confirm func(context.Context) error) error {
	stage := StageOpening
	advance := func(next Stage) {
		logger.Debug("dialog stage", "kind", string(kind), "from", stage.String(), "to", next.String())
		stage = next
	}

	if err := open(ctx); err != nil {
		return domain.WrapError(failCode(kind), err, "failed to open %s dialog", kind)
	}

	advance(StageWaitingVisible)
	if err := c.awaitVisible(ctx, kind); err != nil {
		c.dismiss(ctx)
		return err
	}
	if err := c.sim.Pause(ctx, c.settleDelay()); err != nil {
		return err
	}

	advance(StageFilling)
	if fill != nil {
		if err := fill(ctx); err != nil {
			c.dismiss(ctx)
			return domain.WrapError(failCode(kind), err, "failed to fill %s dialog", kind)
		}
	}

	advance(StageConfirming)
	if confirm == nil {
		confirm = func(ctx context.Context) error {
			return c.sim.Keys(ctx, "enter")
		}
	}
	if err := confirm(ctx); err != nil {
		c.dismiss(ctx)
		return domain.WrapError(failCode(kind), err, "failed to confirm %s dialog", kind)
	}
	if err := c.sim.Pause(ctx, c.settleDelay()); err != nil {
		return err
	}

	advance(StageClosed)
	return nil
}

// awaitVisible polls the prober until the dialog shows or the bounded
// wait expires
func (c *Controller) awaitVisible(ctx context.Context, kind Kind) error {
	timeout := time.Duration(c.cfg.VisibilityTimeoutMs) * time.Millisecond
	deadline := time.Now().Add(timeout)

	for {
		visible, err := c.probe.DialogVisible(ctx, kind)
		if err != nil {
			logger.Debug("dialog probe failed", "kind", string(kind), "error", err)
		} else if visible {
			return nil
		}
		if !time.Now().Before(deadline) {
			return domain.ErrTimeout("%s dialog did not appear within %s", kind, timeout)
		}
		if err := c.sim.Pause(ctx, c.pollInterval()); err != nil {
			return err
		}
	}
}

// resolveConfirm waits briefly for an interposed confirmation prompt
// and answers it with key. Its absence is not an error.
func (c *Controller) resolveConfirm(ctx context.Context, key string) error {
	deadline := time.Now().Add(time.Duration(c.cfg.VisibilityTimeoutMs) * time.Millisecond / 2)

	for {
		visible, err := c.probe.DialogVisible(ctx, KindConfirm)
		if err == nil && visible {
			return c.sim.Keys(ctx, key)
		}
		if !time.Now().Before(deadline) {
			return nil
		}
		if err := c.sim.Pause(ctx, c.pollInterval()); err != nil {
			return err
		}
	}
}

// dismiss sends a best-effort Escape, even when ctx is already done
func (c *Controller) dismiss(ctx context.Context) {
	if err := c.sim.Keys(context.WithoutCancel(ctx), "esc"); err != nil {
		logger.Warn("failed to dismiss dialog", "error", err)
	}
}

// typeInto replaces the focused field's content
func (c *Controller) typeInto(ctx context.Context, text string) error {
	if err := c.sim.Keys(ctx, "ctrl+a"); err != nil {
		return err
	}
	return c.sim.TypeText(ctx, text)
}

func (c *Controller) settleDelay() time.Duration {
	return time.Duration(c.cfg.SettleMs) * time.Millisecond
}

func (c *Controller) pollInterval() time.Duration {
	return time.Duration(c.cfg.PollIntervalMs) * time.Millisecond
}

// failCode maps a dialog kind to the protocol error its failure
// surfaces as
func failCode(kind Kind) domain.ErrorCode {
	switch kind {
	case KindResize:
		return domain.CodeTransformationFailed
	case KindFont:
		return domain.CodeFontSelectionFailed
	case KindNewCanvas:
		return domain.CodeCanvasCreationFailed
	default:
		return domain.CodeGeneral
	}
}
