package native

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	robotgo "github.com/go-vgo/robotgo"

	display "github.com/paintmcp/paintd/internal/display"
	geometry "github.com/paintmcp/paintd/internal/geometry"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// Client drives the desktop through robotgo. It is the default backend
// on Windows, where Paint runs, and also works against X11 on Linux.
type Client struct {
	screenWidth  int
	screenHeight int
}

var _ display.Controller = (*Client)(nil)

// Modifier and key mapping tables
var (
	modifierMap = map[string]string{
		"ctrl":    "ctrl",
		"control": "ctrl",
		"alt":     "alt",
		"shift":   "shift",
		"super":   "cmd",
		"win":     "cmd",
		"cmd":     "cmd",
	}

	specialKeyMap = map[string]string{
		"enter":     "enter",
		"return":    "enter",
		"tab":       "tab",
		"space":     "space",
		"backspace": "backspace",
		"delete":    "delete",
		"del":       "delete",
		"esc":       "esc",
		"escape":    "esc",
		"up":        "up",
		"down":      "down",
		"left":      "left",
		"right":     "right",
		"home":      "home",
		"end":       "end",
		"pageup":    "pageup",
		"pagedown":  "pagedown",
		"f12":       "f12",
	}
)

// NewClient creates a robotgo-backed display client
func NewClient() (*Client, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("failed to determine screen size (got %dx%d)", w, h)
	}

	return &Client{screenWidth: w, screenHeight: h}, nil
}

// ScreenSize returns the full screen dimensions in pixels
func (c *Client) ScreenSize(ctx context.Context) (int, int, error) {
	return c.screenWidth, c.screenHeight, nil
}

// ScaleFactor returns the display scaling factor reported by the OS
func (c *Client) ScaleFactor(ctx context.Context) (float64, error) {
	f := robotgo.ScaleF()
	if f <= 0 {
		return 1.0, nil
	}
	return f, nil
}

// CaptureScreen captures the given region, or the entire screen when
// region is nil
func (c *Client) CaptureScreen(ctx context.Context, region *geometry.Rect) (image.Image, error) {
	x, y, width, height := 0, 0, c.screenWidth, c.screenHeight
	if region != nil {
		x, y, width, height = region.X, region.Y, region.Width, region.Height
	}

	if x < 0 || y < 0 || x+width > c.screenWidth || y+height > c.screenHeight {
		return nil, fmt.Errorf("invalid region: (%d,%d,%d,%d) exceeds screen bounds (%d,%d)",
			x, y, width, height, c.screenWidth, c.screenHeight)
	}

	bitmap := robotgo.CaptureScreen(x, y, width, height)
	if bitmap == nil {
		return nil, fmt.Errorf("failed to capture screen")
	}
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("failed to convert bitmap to image")
	}

	return img, nil
}

// CursorPosition returns the current pointer position
func (c *Client) CursorPosition(ctx context.Context) (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

// MoveMouse moves the pointer to absolute screen coordinates
func (c *Client) MoveMouse(ctx context.Context, x, y int) error {
	if x < 0 || y < 0 || x > c.screenWidth || y > c.screenHeight {
		return fmt.Errorf("invalid coordinates: (%d,%d) exceeds screen bounds (%d,%d)",
			x, y, c.screenWidth, c.screenHeight)
	}

	robotgo.Move(x, y)
	return nil
}

// PressMouse presses and holds the given button
func (c *Client) PressMouse(ctx context.Context, button display.MouseButton) error {
	if err := robotgo.Toggle(robotButton(button), "down"); err != nil {
		return fmt.Errorf("failed to press %s button: %w", button, err)
	}
	return nil
}

// ReleaseMouse releases a previously pressed button
func (c *Client) ReleaseMouse(ctx context.Context, button display.MouseButton) error {
	if err := robotgo.Toggle(robotButton(button), "up"); err != nil {
		return fmt.Errorf("failed to release %s button: %w", button, err)
	}
	return nil
}

// ClickMouse performs one or more full clicks at the current position
func (c *Client) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	if clicks < 1 || clicks > 3 {
		return fmt.Errorf("invalid click count: %d (must be 1-3)", clicks)
	}

	for i := range clicks {
		if i > 0 {
			time.Sleep(100 * time.Millisecond)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		robotgo.Click(robotButton(button), false)
	}

	return nil
}

// TypeText types literal text with the given inter-key delay
func (c *Client) TypeText(ctx context.Context, text string, delayMs int) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if delayMs <= 0 {
		robotgo.Type(text)
		return nil
	}

	for _, char := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		robotgo.Type(string(char))
		time.Sleep(time.Duration(delayMs) * time.Millisecond)
	}

	return nil
}

// SendKeyCombo sends a key combination (e.g., "ctrl+v", "escape")
func (c *Client) SendKeyCombo(ctx context.Context, combo string) error {
	if combo == "" {
		return fmt.Errorf("key combo cannot be empty")
	}

	parts := strings.Split(strings.ReplaceAll(combo, "-", "+"), "+")

	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	var modifiers []any

	for i := 0; i < len(parts)-1; i++ {
		mod := strings.ToLower(strings.TrimSpace(parts[i]))
		mappedMod, ok := modifierMap[mod]
		if !ok {
			return fmt.Errorf("unknown modifier: %s", mod)
		}
		modifiers = append(modifiers, mappedMod)
	}

	if mappedKey, ok := specialKeyMap[key]; ok {
		key = mappedKey
	}

	if err := robotgo.KeyTap(key, modifiers...); err != nil {
		return fmt.Errorf("failed to send key combo %q: %w", combo, err)
	}

	return nil
}

// FindWindows lists the top-level windows matching spec. The native
// backend enumerates by process name, so spec.ProcessNames must be set.
func (c *Client) FindWindows(ctx context.Context, spec display.WindowSpec) ([]display.WindowInfo, error) {
	if len(spec.ProcessNames) == 0 {
		return nil, fmt.Errorf("native backend requires at least one process name to enumerate windows")
	}

	var windows []display.WindowInfo
	for _, name := range spec.ProcessNames {
		pids, err := robotgo.FindIds(name)
		if err != nil {
			logger.Debug("process lookup failed", "process", name, "error", err)
			continue
		}

		for _, pid := range pids {
			title := robotgo.GetTitle(pid)
			if !titleMatches(title, spec) {
				continue
			}
			windows = append(windows, display.WindowInfo{
				ID:    uint64(pid),
				PID:   pid,
				Title: title,
			})
		}
	}

	return windows, nil
}

// ActivateWindow restores win if minimized and gives it input focus
func (c *Client) ActivateWindow(ctx context.Context, win display.WindowInfo) error {
	if err := robotgo.ActivePid(win.PID); err != nil {
		return fmt.Errorf("failed to activate window (pid %d): %w", win.PID, err)
	}
	return nil
}

// RaiseWindow brings win to the top of the stacking order. The native
// backend has no focus-less raise, so this is a second activation path.
func (c *Client) RaiseWindow(ctx context.Context, win display.WindowInfo) error {
	if err := robotgo.ActivePid(win.PID); err != nil {
		return fmt.Errorf("failed to raise window (pid %d): %w", win.PID, err)
	}
	return nil
}

// MaximizeWindow maximizes win
func (c *Client) MaximizeWindow(ctx context.Context, win display.WindowInfo) error {
	robotgo.MaxWindow(win.PID)
	return nil
}

// WindowBounds returns the outer geometry of win in screen pixels
func (c *Client) WindowBounds(ctx context.Context, win display.WindowInfo) (geometry.Rect, error) {
	x, y, w, h := robotgo.GetBounds(win.PID)
	if w <= 0 || h <= 0 {
		return geometry.Rect{}, fmt.Errorf("window (pid %d) reported empty bounds", win.PID)
	}
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// ForegroundWindow returns the window that currently has input focus
func (c *Client) ForegroundWindow(ctx context.Context) (display.WindowInfo, error) {
	pid := robotgo.GetPid()
	if pid <= 0 {
		return display.WindowInfo{}, fmt.Errorf("no foreground window")
	}

	return display.WindowInfo{
		ID:    uint64(pid),
		PID:   pid,
		Title: robotgo.GetTitle(pid),
	}, nil
}

// Close releases the underlying display connection
func (c *Client) Close() error {
	return nil
}

func robotButton(button display.MouseButton) string {
	if button == display.MouseButtonMiddle {
		return "center"
	}
	return button.String()
}

func titleMatches(title string, spec display.WindowSpec) bool {
	for _, exclude := range spec.TitleExcludes {
		if exclude != "" && strings.Contains(title, exclude) {
			return false
		}
	}

	if len(spec.TitleContains) == 0 {
		return true
	}
	for _, want := range spec.TitleContains {
		if want != "" && strings.Contains(title, want) {
			return true
		}
	}
	return false
}
