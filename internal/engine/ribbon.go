package engine

import (
	"context"
	"time"

	domain "github.com/paintmcp/paintd/internal/domain"
	geometry "github.com/paintmcp/paintd/internal/geometry"
	session "github.com/paintmcp/paintd/internal/session"
	toolstate "github.com/paintmcp/paintd/internal/toolstate"
)

// Ribbon and panel layout of the target application's UI. Vertical
// offsets are from the window top, horizontal ones from the left or
// right edge as named; tool buttons sit at window-width fractions.
const (
	toolRowOffsetY = 60

	// The color palette opens left of and below its toolbar button.
	colorButtonOffsetX = 300
	colorButtonOffsetY = 50
	colorPanelOffsetX  = -50
	colorPanelOffsetY  = 30
	colorPanelWidth    = 180
	colorPanelHeight   = 120
	colorPanelCols     = 4
	colorPanelRows     = 3

	// Stroke size lives in the properties panel on the right.
	sizeButtonOffsetRight = 150
	sizeButtonOffsetY     = 120
	sizeOptionBaseY       = 40
	sizeOptionStepY       = 30

	brushPanelOffsetRight = 100
	brushPanelOffsetY     = 150

	// Shape gallery appears below the toolbar once the shape tool is
	// active; the fill selector shares the right-hand panel.
	shapeGalleryOffsetY   = 100
	shapeGalleryBaseX     = 60
	shapeGalleryStepX     = 50
	fillToggleOffsetRight = 100
	fillToggleOffsetY     = 150
	fillOptionStepY       = 40

	panelOpenSettle = 200 * time.Millisecond
	pickSettle      = 100 * time.Millisecond
)

// toolFractions positions each tool button as a fraction of the window
// width on the toolbar row
var toolFractions = map[domain.Tool]float64{
	domain.ToolPencil: 1.0 / 20,
	domain.ToolBrush:  1.0 / 10,
	domain.ToolFill:   1.0 / 7,
	domain.ToolText:   1.0 / 5,
	domain.ToolEraser: 1.0 / 4,
	domain.ToolSelect: 1.0 / 3,
	domain.ToolShape:  1.0 / 2.5,
}

// shapeGalleryIndex orders the shape presets left to right in the
// gallery
var shapeGalleryIndex = map[domain.ShapeType]int{
	domain.ShapeLine:      0,
	domain.ShapeRectangle: 1,
	domain.ShapeEllipse:   2,
	domain.ShapeArrow:     3,
	domain.ShapeTriangle:  4,
	domain.ShapePentagon:  5,
	domain.ShapeHexagon:   6,
}

// fillOptionIndex orders the fill dropdown top to bottom
var fillOptionIndex = map[domain.FillType]int{
	domain.FillSolid:   0,
	domain.FillOutline: 1,
	domain.FillNone:    2,
}

// windowRect fetches the current window rectangle; panels track the
// window, so this is re-queried before every ribbon interaction
func (e *Engine) windowRect(ctx context.Context, s *session.Session) (geometry.Rect, error) {
	bounds, err := e.ctrl.WindowBounds(ctx, s.Window)
	if err != nil {
		return geometry.Rect{}, domain.WrapError(domain.CodeWindowNotFound, err, "failed to measure window")
	}
	return bounds, nil
}

// applyDelta executes the tracker's reconciliation plan for desired.
// Any action failing marks the believed state uncertain; full success
// commits it.
func (e *Engine) applyDelta(ctx context.Context, s *session.Session, desired toolstate.Delta) error {
	actions := e.tracker.Plan(desired)
	for _, a := range actions {
		var err error
		switch a.Kind {
		case toolstate.ActionSelectTool:
			err = e.clickTool(ctx, s, a.Tool, a.Shape)
		case toolstate.ActionSetColor:
			err = e.clickColor(ctx, s, a.Color)
		case toolstate.ActionSetThickness:
			err = e.clickThickness(ctx, s, a.Thickness)
		case toolstate.ActionSetBrushSize:
			err = e.clickBrushSize(ctx, s, a.BrushSize)
		case toolstate.ActionSetFill:
			err = e.clickFill(ctx, s, a.Fill)
		}
		if err != nil {
			e.tracker.MarkUncertain()
			return err
		}
	}
	e.tracker.Commit(actions)
	return nil
}

// clickTool clicks the toolbar button for tool; for the shape tool it
// also picks the preset from the gallery that opens underneath
func (e *Engine) clickTool(ctx context.Context, s *session.Session, tool domain.Tool, shape domain.ShapeType) error {
	rect, err := e.windowRect(ctx, s)
	if err != nil {
		return err
	}

	frac, ok := toolFractions[tool]
	if !ok {
		return domain.ErrInvalidTool(string(tool))
	}
	button := domain.Point{
		X: rect.X + int(float64(rect.Width)*frac),
		Y: rect.Y + toolRowOffsetY,
	}
	if err := e.sim.ClickAt(ctx, button); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, pickSettle); err != nil {
		return err
	}

	if tool == domain.ToolShape {
		return e.pickShape(ctx, rect, shape)
	}
	return nil
}

// pickShape clicks a preset in the shape gallery below the toolbar
func (e *Engine) pickShape(ctx context.Context, rect geometry.Rect, shape domain.ShapeType) error {
	idx, ok := shapeGalleryIndex[shape]
	if !ok {
		return domain.ErrInvalidShape(string(shape))
	}

	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}
	cell := domain.Point{
		X: rect.X + shapeGalleryBaseX + idx*shapeGalleryStepX,
		Y: rect.Y + shapeGalleryOffsetY,
	}
	if err := e.sim.ClickAt(ctx, cell); err != nil {
		return err
	}
	return e.sim.Pause(ctx, pickSettle)
}

// paletteIndex classifies a 24-bit color into the 8-cell basic
// palette. Black shares cell 0 with anything unclassifiable.
func paletteIndex(c domain.Color) int {
	hi := func(v uint8) bool { return v > 200 }
	lo := func(v uint8) bool { return v < 100 }

	switch {
	case hi(c.R) && lo(c.G) && lo(c.B):
		return 1 // red
	case lo(c.R) && hi(c.G) && lo(c.B):
		return 2 // green
	case lo(c.R) && lo(c.G) && hi(c.B):
		return 3 // blue
	case hi(c.R) && hi(c.G) && lo(c.B):
		return 4 // yellow
	case hi(c.R) && lo(c.G) && hi(c.B):
		return 5 // magenta
	case lo(c.R) && hi(c.G) && hi(c.B):
		return 6 // cyan
	case hi(c.R) && hi(c.G) && hi(c.B):
		return 7 // white
	default:
		return 0 // black
	}
}

// clickColor opens the color panel and clicks the cell nearest to c
func (e *Engine) clickColor(ctx context.Context, s *session.Session, c domain.Color) error {
	rect, err := e.windowRect(ctx, s)
	if err != nil {
		return err
	}

	button := domain.Point{
		X: rect.X + colorButtonOffsetX,
		Y: rect.Y + colorButtonOffsetY,
	}
	if err := e.sim.ClickAt(ctx, button); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}

	idx := paletteIndex(c)
	col := idx % colorPanelCols
	row := idx / colorPanelCols
	cellW := colorPanelWidth / colorPanelCols
	cellH := colorPanelHeight / colorPanelRows

	cell := domain.Point{
		X: button.X + colorPanelOffsetX + col*cellW + cellW/2,
		Y: button.Y + colorPanelOffsetY + row*cellH + cellH/2,
	}
	if err := e.sim.ClickAt(ctx, cell); err != nil {
		return err
	}
	return e.sim.Pause(ctx, pickSettle)
}

// clickThickness opens the size dropdown in the properties panel and
// picks one of the five stroke levels
func (e *Engine) clickThickness(ctx context.Context, s *session.Session, level int) error {
	rect, err := e.windowRect(ctx, s)
	if err != nil {
		return err
	}

	button := domain.Point{
		X: rect.X + rect.Width - sizeButtonOffsetRight,
		Y: rect.Y + sizeButtonOffsetY,
	}
	if err := e.sim.ClickAt(ctx, button); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}

	option := domain.Point{
		X: button.X,
		Y: button.Y + sizeOptionBaseY + (level-1)*sizeOptionStepY,
	}
	if err := e.sim.ClickAt(ctx, option); err != nil {
		return err
	}
	return e.sim.Pause(ctx, pickSettle)
}

// clickBrushSize opens the size panel and picks the preset bucket
// closest to the requested pixel size
func (e *Engine) clickBrushSize(ctx context.Context, s *session.Session, size int) error {
	rect, err := e.windowRect(ctx, s)
	if err != nil {
		return err
	}

	button := domain.Point{
		X: rect.X + rect.Width - brushPanelOffsetRight,
		Y: rect.Y + brushPanelOffsetY,
	}
	if err := e.sim.ClickAt(ctx, button); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}

	// The panel exposes presets, not a pixel field; bucket the request.
	var offsetY int
	switch {
	case size <= 4:
		offsetY = 40
	case size <= 12:
		offsetY = 80
	default:
		offsetY = 120
	}

	option := domain.Point{X: button.X, Y: button.Y + offsetY}
	if err := e.sim.ClickAt(ctx, option); err != nil {
		return err
	}
	return e.sim.Pause(ctx, pickSettle)
}

// clickFill opens the fill selector in the properties panel and picks
// the requested mode
func (e *Engine) clickFill(ctx context.Context, s *session.Session, fill domain.FillType) error {
	rect, err := e.windowRect(ctx, s)
	if err != nil {
		return err
	}

	toggle := domain.Point{
		X: rect.X + rect.Width - fillToggleOffsetRight,
		Y: rect.Y + fillToggleOffsetY,
	}
	if err := e.sim.ClickAt(ctx, toggle); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}

	idx := fillOptionIndex[fill]
	option := domain.Point{
		X: toggle.X,
		Y: toggle.Y + (idx+1)*fillOptionStepY,
	}
	if err := e.sim.ClickAt(ctx, option); err != nil {
		return err
	}
	return e.sim.Pause(ctx, pickSettle)
}

// Rotate dropdown item order under Home. 270 degrees one way is the
// 90-degree item the other way, so every request maps onto these.
const (
	rotateRight90  = 0
	rotateLeft90   = 1
	rotate180      = 2
	flipVertical   = 3
	flipHorizontal = 4
)

// rotateItem maps a rotation request onto a dropdown item
func rotateItem(degrees int, clockwise bool) int {
	switch degrees {
	case 180:
		return rotate180
	case 270:
		clockwise = !clockwise
	}
	if clockwise {
		return rotateRight90
	}
	return rotateLeft90
}

// transformImage selects the whole image and walks the Rotate dropdown
// to the given item via ribbon key tips. The trailing Escape drops the
// select-all so the next command starts clean.
func (e *Engine) transformImage(ctx context.Context, item int) error {
	if err := e.sim.Keys(ctx, "ctrl+a"); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, pickSettle); err != nil {
		return err
	}
	// Alt+H enters the Home ribbon key tips; "ro" opens Rotate.
	if err := e.sim.Keys(ctx, "alt+h"); err != nil {
		return err
	}
	if err := e.sim.TypeText(ctx, "ro"); err != nil {
		return err
	}
	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}

	combos := make([]string, 0, item+2)
	for i := 0; i <= item; i++ {
		combos = append(combos, "down")
	}
	combos = append(combos, "enter")
	if err := e.sim.Keys(ctx, combos...); err != nil {
		return err
	}

	if err := e.sim.Pause(ctx, panelOpenSettle); err != nil {
		return err
	}
	return e.sim.Keys(ctx, "esc")
}
