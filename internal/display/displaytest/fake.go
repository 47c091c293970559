// Package displaytest provides a recording fake display controller for
// tests across the input, session, dialog and engine packages.
package displaytest

import (
	"context"
	"fmt"
	"image"
	"sync"

	display "github.com/paintmcp/paintd/internal/display"
	geometry "github.com/paintmcp/paintd/internal/geometry"
)

// Event is one recorded controller interaction
type Event struct {
	Kind   string // move, press, release, click, type, key, activate, raise, maximize, capture
	X, Y   int
	Button display.MouseButton
	Clicks int
	Text   string
	Combo  string
	Window display.WindowInfo
}

// FakeController implements display.Controller and records every call.
// Windows, foreground state and injected failures are settable to steer
// session and dialog flows.
type FakeController struct {
	mu sync.Mutex

	ScreenW, ScreenH int
	Scale            float64

	events     []Event
	windows    []display.WindowInfo
	foreground display.WindowInfo
	bounds     map[uint64]geometry.Rect
	cursorX    int
	cursorY    int
	capture    image.Image

	// ActivateGrantsFocus makes ActivateWindow update the foreground
	// window, mimicking a cooperative window manager
	ActivateGrantsFocus bool

	// FailOn injects an error for the named call kind
	FailOn map[string]error

	closed bool
}

var _ display.Controller = (*FakeController)(nil)

// NewFakeController returns a fake with a 1920x1080 screen at scale 1.0
func NewFakeController() *FakeController {
	return &FakeController{
		ScreenW:             1920,
		ScreenH:             1080,
		Scale:               1.0,
		bounds:              map[uint64]geometry.Rect{},
		FailOn:              map[string]error{},
		ActivateGrantsFocus: true,
	}
}

func (f *FakeController) record(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *FakeController) failure(kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.FailOn[kind]
}

// Events returns a copy of all recorded events
func (f *FakeController) Events() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

// EventsOfKind returns recorded events of one kind, in order
func (f *FakeController) EventsOfKind(kind string) []Event {
	var out []Event
	for _, e := range f.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ResetEvents clears the recording without touching window state
func (f *FakeController) ResetEvents() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

// SetWindows replaces the window list FindWindows reports
func (f *FakeController) SetWindows(windows ...display.WindowInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append([]display.WindowInfo(nil), windows...)
}

// SetBounds sets the geometry WindowBounds reports for a window id
func (f *FakeController) SetBounds(id uint64, r geometry.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bounds[id] = r
}

// SetForeground sets the currently focused window
func (f *FakeController) SetForeground(win display.WindowInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foreground = win
}

// SetCapture sets the image CaptureScreen returns
func (f *FakeController) SetCapture(img image.Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capture = img
}

// Closed reports whether Close was called
func (f *FakeController) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FakeController) ScreenSize(ctx context.Context) (int, int, error) {
	if err := f.failure("screen_size"); err != nil {
		return 0, 0, err
	}
	return f.ScreenW, f.ScreenH, nil
}

func (f *FakeController) ScaleFactor(ctx context.Context) (float64, error) {
	if f.Scale == 0 {
		return 1.0, nil
	}
	return f.Scale, nil
}

func (f *FakeController) CaptureScreen(ctx context.Context, region *geometry.Rect) (image.Image, error) {
	if err := f.failure("capture"); err != nil {
		return nil, err
	}

	e := Event{Kind: "capture"}
	if region != nil {
		e.X, e.Y = region.X, region.Y
	}
	f.record(e)

	f.mu.Lock()
	img := f.capture
	f.mu.Unlock()
	if img != nil {
		return img, nil
	}

	w, h := f.ScreenW, f.ScreenH
	if region != nil && !region.Empty() {
		w, h = region.Width, region.Height
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (f *FakeController) CursorPosition(ctx context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursorX, f.cursorY, nil
}

func (f *FakeController) MoveMouse(ctx context.Context, x, y int) error {
	if err := f.failure("move"); err != nil {
		return err
	}
	f.mu.Lock()
	f.cursorX, f.cursorY = x, y
	f.mu.Unlock()
	f.record(Event{Kind: "move", X: x, Y: y})
	return nil
}

func (f *FakeController) PressMouse(ctx context.Context, button display.MouseButton) error {
	if err := f.failure("press"); err != nil {
		return err
	}
	f.mu.Lock()
	x, y := f.cursorX, f.cursorY
	f.mu.Unlock()
	f.record(Event{Kind: "press", Button: button, X: x, Y: y})
	return nil
}

func (f *FakeController) ReleaseMouse(ctx context.Context, button display.MouseButton) error {
	if err := f.failure("release"); err != nil {
		return err
	}
	f.mu.Lock()
	x, y := f.cursorX, f.cursorY
	f.mu.Unlock()
	f.record(Event{Kind: "release", Button: button, X: x, Y: y})
	return nil
}

func (f *FakeController) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	if err := f.failure("click"); err != nil {
		return err
	}
	f.mu.Lock()
	x, y := f.cursorX, f.cursorY
	f.mu.Unlock()
	f.record(Event{Kind: "click", Button: button, Clicks: clicks, X: x, Y: y})
	return nil
}

func (f *FakeController) TypeText(ctx context.Context, text string, delayMs int) error {
	if err := f.failure("type"); err != nil {
		return err
	}
	f.record(Event{Kind: "type", Text: text})
	return nil
}

func (f *FakeController) SendKeyCombo(ctx context.Context, combo string) error {
	if err := f.failure("key"); err != nil {
		return err
	}
	f.record(Event{Kind: "key", Combo: combo})
	return nil
}

func (f *FakeController) FindWindows(ctx context.Context, spec display.WindowSpec) ([]display.WindowInfo, error) {
	if err := f.failure("find"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]display.WindowInfo(nil), f.windows...), nil
}

func (f *FakeController) ActivateWindow(ctx context.Context, win display.WindowInfo) error {
	if err := f.failure("activate"); err != nil {
		return err
	}
	f.record(Event{Kind: "activate", Window: win})
	f.mu.Lock()
	if f.ActivateGrantsFocus {
		f.foreground = win
	}
	f.mu.Unlock()
	return nil
}

func (f *FakeController) RaiseWindow(ctx context.Context, win display.WindowInfo) error {
	if err := f.failure("raise"); err != nil {
		return err
	}
	f.record(Event{Kind: "raise", Window: win})
	f.mu.Lock()
	if f.ActivateGrantsFocus {
		f.foreground = win
	}
	f.mu.Unlock()
	return nil
}

func (f *FakeController) MaximizeWindow(ctx context.Context, win display.WindowInfo) error {
	if err := f.failure("maximize"); err != nil {
		return err
	}
	f.record(Event{Kind: "maximize", Window: win})
	return nil
}

func (f *FakeController) WindowBounds(ctx context.Context, win display.WindowInfo) (geometry.Rect, error) {
	if err := f.failure("bounds"); err != nil {
		return geometry.Rect{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.bounds[win.ID]
	if !ok {
		return geometry.Rect{}, fmt.Errorf("no bounds registered for window %d", win.ID)
	}
	return r, nil
}

func (f *FakeController) ForegroundWindow(ctx context.Context) (display.WindowInfo, error) {
	if err := f.failure("foreground"); err != nil {
		return display.WindowInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.foreground.ID == 0 {
		return display.WindowInfo{}, fmt.Errorf("no foreground window")
	}
	return f.foreground, nil
}

func (f *FakeController) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
