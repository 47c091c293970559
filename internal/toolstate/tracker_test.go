package toolstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintmcp/paintd/internal/domain"
)

func toolPtr(t domain.Tool) *domain.Tool            { return &t }
func shapePtr(s domain.ShapeType) *domain.ShapeType { return &s }
func colorPtr(c domain.Color) *domain.Color         { return &c }
func intPtr(n int) *int                             { return &n }
func fillPtr(f domain.FillType) *domain.FillType    { return &f }

func TestPlanEmitsEverythingWhenUncertain(t *testing.T) {
	tr := NewTracker()

	// Fresh tracker believes pencil/black but is uncertain, so even
	// the defaults must be asserted.
	actions := tr.Plan(Delta{
		Tool:  toolPtr(domain.ToolPencil),
		Color: colorPtr(domain.Black),
	})

	require.Len(t, actions, 2)
	assert.Equal(t, ActionSelectTool, actions[0].Kind)
	assert.Equal(t, domain.ToolPencil, actions[0].Tool)
	assert.Equal(t, ActionSetColor, actions[1].Kind)
	assert.Equal(t, domain.Black, actions[1].Color)
}

func TestPlanSkipsBelievedCurrentAfterCommit(t *testing.T) {
	tr := NewTracker()

	first := tr.Plan(Delta{Tool: toolPtr(domain.ToolBrush)})
	require.Len(t, first, 1)
	tr.Commit(first)

	second := tr.Plan(Delta{Tool: toolPtr(domain.ToolBrush)})
	assert.Empty(t, second, "re-selecting the current tool should be skipped")
}

func TestPlanAfterMarkUncertainReasserts(t *testing.T) {
	tr := NewTracker()

	first := tr.Plan(Delta{Tool: toolPtr(domain.ToolBrush)})
	tr.Commit(first)
	require.Empty(t, tr.Plan(Delta{Tool: toolPtr(domain.ToolBrush)}))

	tr.MarkUncertain()

	again := tr.Plan(Delta{Tool: toolPtr(domain.ToolBrush)})
	require.Len(t, again, 1)
	assert.Equal(t, ActionSelectTool, again[0].Kind)
}

func TestPlanEmitsOnlyChangedFields(t *testing.T) {
	tr := NewTracker()

	setup := tr.Plan(Delta{
		Tool:      toolPtr(domain.ToolBrush),
		Color:     colorPtr(domain.Color{R: 0xFF}),
		Thickness: intPtr(3),
	})
	require.Len(t, setup, 3)
	tr.Commit(setup)

	// Same tool and thickness, new color: only the color action remains.
	actions := tr.Plan(Delta{
		Tool:      toolPtr(domain.ToolBrush),
		Color:     colorPtr(domain.Color{B: 0xFF}),
		Thickness: intPtr(3),
	})
	require.Len(t, actions, 1)
	assert.Equal(t, ActionSetColor, actions[0].Kind)
	assert.Equal(t, domain.Color{B: 0xFF}, actions[0].Color)
}

func TestColorCacheUsesExactValue(t *testing.T) {
	tr := NewTracker()

	red := domain.Color{R: 0xFF}
	setup := tr.Plan(Delta{Color: colorPtr(red)})
	tr.Commit(setup)

	assert.Empty(t, tr.Plan(Delta{Color: colorPtr(red)}))

	nearRed := domain.Color{R: 0xFE}
	actions := tr.Plan(Delta{Color: colorPtr(nearRed)})
	require.Len(t, actions, 1, "a one-bit color change must not hit the cache")
}

func TestPlanShapeToolTracksShapeType(t *testing.T) {
	tr := NewTracker()

	rect := tr.Plan(Delta{Tool: toolPtr(domain.ToolShape), Shape: shapePtr(domain.ShapeRectangle)})
	require.Len(t, rect, 1)
	tr.Commit(rect)

	// Same tool, same shape: nothing to do.
	assert.Empty(t, tr.Plan(Delta{Tool: toolPtr(domain.ToolShape), Shape: shapePtr(domain.ShapeRectangle)}))

	// Same tool, different shape: the gallery must be reopened.
	ellipse := tr.Plan(Delta{Tool: toolPtr(domain.ToolShape), Shape: shapePtr(domain.ShapeEllipse)})
	require.Len(t, ellipse, 1)
	assert.Equal(t, domain.ShapeEllipse, ellipse[0].Shape)
}

func TestCommitAppliesAllActionKinds(t *testing.T) {
	tr := NewTracker()

	actions := tr.Plan(Delta{
		Tool:      toolPtr(domain.ToolShape),
		Shape:     shapePtr(domain.ShapeHexagon),
		Color:     colorPtr(domain.Color{G: 0x80}),
		Thickness: intPtr(5),
		BrushSize: intPtr(12),
		Fill:      fillPtr(domain.FillSolid),
	})
	require.Len(t, actions, 5)
	tr.Commit(actions)

	got := tr.Believed()
	assert.True(t, got.Certain)
	assert.Equal(t, domain.ToolShape, got.Tool)
	assert.Equal(t, domain.ShapeHexagon, got.Shape)
	assert.Equal(t, domain.Color{G: 0x80}, got.Color)
	assert.Equal(t, 5, got.Thickness)
	assert.Equal(t, 12, got.BrushSize)
	assert.Equal(t, domain.FillSolid, got.Fill)
}

func TestResetRestoresDefaultsUncertain(t *testing.T) {
	tr := NewTracker()
	tr.Commit(tr.Plan(Delta{Tool: toolPtr(domain.ToolFill), Color: colorPtr(domain.White)}))

	tr.Reset()

	got := tr.Believed()
	assert.False(t, got.Certain)
	assert.Equal(t, domain.ToolPencil, got.Tool)
	assert.Equal(t, domain.Black, got.Color)
}
