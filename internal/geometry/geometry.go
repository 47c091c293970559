// Package geometry holds the pure coordinate math: canvas-to-screen mapping
// under DPI scaling, absolute-space normalization for input injection, and the
// fixed chrome layout of the target window. Nothing here touches the OS.
package geometry

import (
	domain "github.com/paintmcp/paintd/internal/domain"
)

// Rect is a screen-space rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(p domain.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the rectangle's midpoint
func (r Rect) Center() domain.Point {
	return domain.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports a degenerate rectangle
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Fixed chrome of the target window, in unscaled pixels. The canvas is the
// client area minus these bands.
const (
	TitleBarHeight  = 32
	MenuBarHeight   = 30
	ToolbarHeight   = 80
	StatusBarHeight = 25
	LeftPanelWidth  = 0
	RightPanelWidth = 270

	// Offset of the drawing area's origin from the window origin.
	DrawingAreaOffsetX = 5
	DrawingAreaOffsetY = 120
)

// Fallback canvas size when the window geometry cannot be read.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// Smallest canvas the mapper will work against. Anything below this means
// the window is too small for chrome subtraction to be trustworthy.
const (
	MinCanvasWidth  = 100
	MinCanvasHeight = 100
)

// CanvasRectFromWindow derives the screen-space canvas rectangle from a window
// rectangle, subtracting the chrome bands and clamping to zero. dpiScale
// converts the unscaled chrome constants into physical pixels.
func CanvasRectFromWindow(win Rect, dpiScale float64) Rect {
	if dpiScale <= 0 {
		dpiScale = 1
	}
	scale := func(v int) int { return int(float64(v)*dpiScale + 0.5) }

	w := win.Width - scale(LeftPanelWidth) - scale(RightPanelWidth)
	h := win.Height - scale(TitleBarHeight) - scale(MenuBarHeight) - scale(ToolbarHeight) - scale(StatusBarHeight)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{
		X:      win.X + scale(DrawingAreaOffsetX),
		Y:      win.Y + scale(DrawingAreaOffsetY),
		Width:  w,
		Height: h,
	}
}

// Mapper converts canvas-relative points into screen points. Canvas is the
// screen-space rectangle of the drawing area; DPIScale maps logical canvas
// units onto physical pixels.
type Mapper struct {
	Canvas   Rect
	DPIScale float64
}

// NewMapper builds a mapper; a non-positive scale falls back to 1.0
func NewMapper(canvas Rect, dpiScale float64) Mapper {
	if dpiScale <= 0 {
		dpiScale = 1
	}
	return Mapper{Canvas: canvas, DPIScale: dpiScale}
}

// LogicalSize returns the canvas dimensions in logical (unscaled) units, the
// space command coordinates live in.
func (m Mapper) LogicalSize() (int, int) {
	w := int(float64(m.Canvas.Width)/m.scale() + 0.5)
	h := int(float64(m.Canvas.Height)/m.scale() + 0.5)
	return w, h
}

func (m Mapper) scale() float64 {
	if m.DPIScale <= 0 {
		return 1
	}
	return m.DPIScale
}

// ToScreen maps a canvas point to a screen point. Points outside the logical
// canvas bounds are rejected before any scaling; in-bounds results are clamped
// to the canvas rectangle so rounding never escapes it.
func (m Mapper) ToScreen(p domain.Point) (domain.Point, error) {
	w, h := m.LogicalSize()
	if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
		return domain.Point{}, domain.ErrInvalidParameters(
			"point %s outside canvas bounds %dx%d", p, w, h)
	}

	sp := domain.Point{
		X: m.Canvas.X + int(float64(p.X)*m.scale()+0.5),
		Y: m.Canvas.Y + int(float64(p.Y)*m.scale()+0.5),
	}
	return clampToRect(sp, m.Canvas), nil
}

func clampToRect(p domain.Point, r Rect) domain.Point {
	if p.X < r.X {
		p.X = r.X
	}
	if p.X > r.X+r.Width-1 {
		p.X = r.X + r.Width - 1
	}
	if p.Y < r.Y {
		p.Y = r.Y
	}
	if p.Y > r.Y+r.Height-1 {
		p.Y = r.Y + r.Height - 1
	}
	return p
}

// NormalizedMax is the top of the absolute coordinate space used by input
// injection facilities.
const NormalizedMax = 65535

// Normalize converts a screen point into the resolution-independent 0-65535
// absolute space. Raw pixel coordinates are unreliable across DPI settings;
// injection always goes through this space.
func Normalize(p domain.Point, screenW, screenH int) domain.Point {
	if screenW < 1 {
		screenW = 1
	}
	if screenH < 1 {
		screenH = 1
	}
	return domain.Point{
		X: p.X * NormalizedMax / screenW,
		Y: p.Y * NormalizedMax / screenH,
	}
}

// Interpolate returns steps points evenly spaced from start to end, end
// inclusive. Drag decomposition uses this so strokes move continuously
// instead of teleporting.
func Interpolate(start, end domain.Point, steps int) []domain.Point {
	if steps < 1 {
		steps = 1
	}
	points := make([]domain.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		points = append(points, domain.Point{
			X: start.X + int(float64(end.X-start.X)*t+0.5),
			Y: start.Y + int(float64(end.Y-start.Y)*t+0.5),
		})
	}
	points[len(points)-1] = end
	return points
}
