package geometry

import (
	"testing"

	domain "github.com/paintmcp/paintd/internal/domain"
)

func TestCanvasRectFromWindow(t *testing.T) {
	win := Rect{X: 100, Y: 50, Width: 1200, Height: 900}
	canvas := CanvasRectFromWindow(win, 1.0)

	if canvas.X != 105 || canvas.Y != 170 {
		t.Errorf("canvas origin = (%d,%d), want (105,170)", canvas.X, canvas.Y)
	}
	if canvas.Width != 1200-RightPanelWidth {
		t.Errorf("canvas width = %d, want %d", canvas.Width, 1200-RightPanelWidth)
	}
	wantH := 900 - TitleBarHeight - MenuBarHeight - ToolbarHeight - StatusBarHeight
	if canvas.Height != wantH {
		t.Errorf("canvas height = %d, want %d", canvas.Height, wantH)
	}
}

func TestCanvasRectFromWindow_TinyWindowClampsToZero(t *testing.T) {
	canvas := CanvasRectFromWindow(Rect{Width: 200, Height: 100}, 1.0)
	if canvas.Width < 0 || canvas.Height < 0 {
		t.Errorf("dimensions must clamp at zero, got %dx%d", canvas.Width, canvas.Height)
	}
	if !canvas.Empty() {
		t.Errorf("a window smaller than its chrome has an empty canvas, got %+v", canvas)
	}
}

func TestMapper_InBoundsStaysInsideCanvas(t *testing.T) {
	canvas := Rect{X: 105, Y: 170, Width: 800, Height: 600}
	m := NewMapper(canvas, 1.0)

	for _, p := range []domain.Point{
		{X: 0, Y: 0},
		{X: 799, Y: 599},
		{X: 400, Y: 300},
		{X: 1, Y: 598},
	} {
		sp, err := m.ToScreen(p)
		if err != nil {
			t.Fatalf("ToScreen(%s): %v", p, err)
		}
		if !canvas.Contains(sp) {
			t.Errorf("ToScreen(%s) = %s escapes canvas %+v", p, sp, canvas)
		}
	}
}

func TestMapper_OutOfBoundsRejected(t *testing.T) {
	m := NewMapper(Rect{X: 0, Y: 0, Width: 800, Height: 600}, 1.0)

	for _, p := range []domain.Point{
		{X: -1, Y: 0},
		{X: 0, Y: -1},
		{X: 800, Y: 0},
		{X: 0, Y: 600},
		{X: 5000, Y: 5000},
	} {
		_, err := m.ToScreen(p)
		if err == nil {
			t.Errorf("ToScreen(%s) expected rejection", p)
			continue
		}
		if domain.CodeOf(err) != domain.CodeInvalidParameters {
			t.Errorf("ToScreen(%s) code = %d, want %d", p, domain.CodeOf(err), domain.CodeInvalidParameters)
		}
	}
}

func TestMapper_DPIScaling(t *testing.T) {
	// A 1600x1200 physical canvas at 2x scale is 800x600 logical.
	canvas := Rect{X: 0, Y: 0, Width: 1600, Height: 1200}
	m := NewMapper(canvas, 2.0)

	w, h := m.LogicalSize()
	if w != 800 || h != 600 {
		t.Fatalf("logical size = %dx%d, want 800x600", w, h)
	}

	sp, err := m.ToScreen(domain.Point{X: 400, Y: 300})
	if err != nil {
		t.Fatalf("ToScreen: %v", err)
	}
	if sp.X != 800 || sp.Y != 600 {
		t.Errorf("scaled point = %s, want (800,600)", sp)
	}

	if _, err := m.ToScreen(domain.Point{X: 801, Y: 0}); err == nil {
		t.Error("logical bounds must apply before scaling")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		p            domain.Point
		screenW      int
		screenH      int
		wantX, wantY int
	}{
		{domain.Point{X: 0, Y: 0}, 1920, 1080, 0, 0},
		{domain.Point{X: 960, Y: 540}, 1920, 1080, 32767, 32767},
		{domain.Point{X: 1920, Y: 1080}, 1920, 1080, 65535, 65535},
	}

	for _, tt := range tests {
		got := Normalize(tt.p, tt.screenW, tt.screenH)
		if got.X != tt.wantX || got.Y != tt.wantY {
			t.Errorf("Normalize(%s, %dx%d) = %s, want (%d,%d)",
				tt.p, tt.screenW, tt.screenH, got, tt.wantX, tt.wantY)
		}
	}
}

func TestInterpolate(t *testing.T) {
	start := domain.Point{X: 0, Y: 0}
	end := domain.Point{X: 100, Y: 50}

	points := Interpolate(start, end, 10)
	if len(points) != 10 {
		t.Fatalf("got %d points, want 10", len(points))
	}
	if points[len(points)-1] != end {
		t.Errorf("last point = %s, want %s", points[len(points)-1], end)
	}

	// Monotonic progress toward the end point.
	prev := start
	for i, p := range points {
		if p.X < prev.X || p.Y < prev.Y {
			t.Errorf("point %d (%s) moved backwards from %s", i, p, prev)
		}
		prev = p
	}

	single := Interpolate(start, end, 1)
	if len(single) != 1 || single[0] != end {
		t.Errorf("single-step interpolation must be just the end point, got %v", single)
	}
}
