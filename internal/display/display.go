package display

import (
	"context"
	"fmt"
	"image"

	geometry "github.com/paintmcp/paintd/internal/geometry"
)

// MouseButton represents a mouse button for click operations
type MouseButton int

const (
	// MouseButtonLeft is the left mouse button
	MouseButtonLeft MouseButton = iota
	// MouseButtonMiddle is the middle mouse button
	MouseButtonMiddle
	// MouseButtonRight is the right mouse button
	MouseButtonRight
)

// String returns the string representation of the mouse button
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonMiddle:
		return "middle"
	case MouseButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseMouseButton converts a string to a MouseButton
func ParseMouseButton(s string) (MouseButton, error) {
	switch s {
	case "left":
		return MouseButtonLeft, nil
	case "middle":
		return MouseButtonMiddle, nil
	case "right":
		return MouseButtonRight, nil
	default:
		return MouseButtonLeft, fmt.Errorf("invalid mouse button: %s (must be 'left', 'middle', or 'right')", s)
	}
}

// WindowInfo identifies a top-level window on the current backend.
// ID is the native handle (X11 window id); PID is the owning process
// where the backend can resolve it, zero otherwise.
type WindowInfo struct {
	ID    uint64 `json:"id"`
	PID   int    `json:"pid"`
	Title string `json:"title"`
	Class string `json:"class"`
}

// WindowSpec describes the windows FindWindows should match. All
// populated fields must match; an empty spec matches every window.
type WindowSpec struct {
	// ProcessNames matches the executable name of the owning process
	ProcessNames []string
	// Classes matches the window class (WM_CLASS on X11)
	Classes []string
	// TitleContains matches windows whose title contains any entry
	TitleContains []string
	// TitleExcludes rejects windows whose title contains any entry
	TitleExcludes []string
}

// Controller provides low-level screen, input and window operations for
// a single display connection. Implementations are not required to be
// safe for concurrent use; callers serialize access.
type Controller interface {
	// ScreenSize returns the full screen dimensions in pixels
	ScreenSize(ctx context.Context) (width, height int, err error)

	// ScaleFactor returns the display scaling factor (1.0 = 96 DPI)
	ScaleFactor(ctx context.Context) (float64, error)

	// CaptureScreen captures the given region, or the entire screen
	// when region is nil
	CaptureScreen(ctx context.Context, region *geometry.Rect) (image.Image, error)

	// CursorPosition returns the current pointer position
	CursorPosition(ctx context.Context) (x, y int, err error)

	// MoveMouse moves the pointer to absolute screen coordinates
	MoveMouse(ctx context.Context, x, y int) error

	// PressMouse presses and holds the given button
	PressMouse(ctx context.Context, button MouseButton) error

	// ReleaseMouse releases a previously pressed button
	ReleaseMouse(ctx context.Context, button MouseButton) error

	// ClickMouse performs one or more full clicks at the current position
	ClickMouse(ctx context.Context, button MouseButton, clicks int) error

	// TypeText types literal text with the given inter-key delay
	TypeText(ctx context.Context, text string, delayMs int) error

	// SendKeyCombo sends a key combination such as "ctrl+v" or "escape"
	SendKeyCombo(ctx context.Context, combo string) error

	// FindWindows lists the top-level windows matching spec
	FindWindows(ctx context.Context, spec WindowSpec) ([]WindowInfo, error)

	// ActivateWindow restores win if minimized and gives it input focus
	ActivateWindow(ctx context.Context, win WindowInfo) error

	// RaiseWindow brings win to the top of the stacking order without
	// changing focus
	RaiseWindow(ctx context.Context, win WindowInfo) error

	// MaximizeWindow maximizes win
	MaximizeWindow(ctx context.Context, win WindowInfo) error

	// WindowBounds returns the outer geometry of win in screen pixels
	WindowBounds(ctx context.Context, win WindowInfo) (geometry.Rect, error)

	// ForegroundWindow returns the window that currently has input focus
	ForegroundWindow(ctx context.Context) (WindowInfo, error)

	// Close releases the underlying display connection
	Close() error
}

// Info describes the capabilities of a display backend
type Info struct {
	// Name is the backend identifier (e.g., "native", "x11")
	Name string
	// SupportsWindows indicates window enumeration and activation support
	SupportsWindows bool
	// SupportsMouse indicates mouse control support
	SupportsMouse bool
	// SupportsKeyboard indicates keyboard input support
	SupportsKeyboard bool
	// MaxTextLength is the maximum text length per TypeText call (0 = unlimited)
	MaxTextLength int
	// RequiresElevation indicates whether elevated permissions are needed
	RequiresElevation bool
}

// Provider creates display controllers for a specific backend
type Provider interface {
	// GetController creates a new Controller for the specified display
	// (e.g., ":0" for X11). An empty string selects the default display.
	GetController(display string) (Controller, error)

	// GetInfo returns information about the backend
	GetInfo() Info

	// IsAvailable returns true if the backend can run on this system
	IsAvailable() bool
}
