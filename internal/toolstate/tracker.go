package toolstate

import (
	"sync"

	"github.com/paintmcp/paintd/internal/domain"
)

// ToolState is the believed state of the target application's drawing
// controls. It is advisory: the UI is the source of truth and we only
// ever observe it indirectly.
type ToolState struct {
	Tool      domain.Tool      `json:"tool"`
	Shape     domain.ShapeType `json:"shape,omitempty"`
	Color     domain.Color     `json:"color"`
	Thickness int              `json:"thickness"`
	BrushSize int              `json:"brush_size"`
	Fill      domain.FillType  `json:"fill"`
	Certain   bool             `json:"certain"`
}

// defaultState mirrors a freshly opened Paint window
func defaultState() ToolState {
	return ToolState{
		Tool:      domain.ToolPencil,
		Color:     domain.Black,
		Thickness: 1,
		BrushSize: 8,
		Fill:      domain.FillNone,
		Certain:   false,
	}
}

// Delta describes the control state a command needs. Nil fields are
// "don't care".
type Delta struct {
	Tool      *domain.Tool
	Shape     *domain.ShapeType
	Color     *domain.Color
	Thickness *int
	BrushSize *int
	Fill      *domain.FillType
}

// ActionKind enumerates the UI assertions the tracker can request
type ActionKind int

const (
	ActionSelectTool ActionKind = iota
	ActionSetColor
	ActionSetThickness
	ActionSetBrushSize
	ActionSetFill
)

// String returns the action kind name
func (k ActionKind) String() string {
	switch k {
	case ActionSelectTool:
		return "select_tool"
	case ActionSetColor:
		return "set_color"
	case ActionSetThickness:
		return "set_thickness"
	case ActionSetBrushSize:
		return "set_brush_size"
	case ActionSetFill:
		return "set_fill"
	default:
		return "unknown"
	}
}

// Action is one UI assertion to perform
type Action struct {
	Kind      ActionKind
	Tool      domain.Tool
	Shape     domain.ShapeType
	Color     domain.Color
	Thickness int
	BrushSize int
	Fill      domain.FillType
}

// Tracker plans the minimal set of UI actions to reach a desired
// control state, and tracks what it believes the state to be.
type Tracker struct {
	mu       sync.RWMutex
	believed ToolState
}

// NewTracker starts with Paint's defaults, uncertain
func NewTracker() *Tracker {
	return &Tracker{believed: defaultState()}
}

// Believed returns a copy of the believed state
func (t *Tracker) Believed() ToolState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.believed
}

// Plan returns the actions needed to satisfy desired. While certain,
// actions matching the believed state are skipped; once uncertainty is
// flagged, every requested field is re-asserted.
func (t *Tracker) Plan(desired Delta) []Action {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var actions []Action
	certain := t.believed.Certain

	if desired.Tool != nil {
		shape := t.believed.Shape
		if desired.Shape != nil {
			shape = *desired.Shape
		}
		sameTool := t.believed.Tool == *desired.Tool
		sameShape := *desired.Tool != domain.ToolShape || t.believed.Shape == shape
		if !certain || !sameTool || !sameShape {
			actions = append(actions, Action{Kind: ActionSelectTool, Tool: *desired.Tool, Shape: shape})
		}
	}

	if desired.Color != nil {
		if !certain || t.believed.Color != *desired.Color {
			actions = append(actions, Action{Kind: ActionSetColor, Color: *desired.Color})
		}
	}

	if desired.Thickness != nil {
		if !certain || t.believed.Thickness != *desired.Thickness {
			actions = append(actions, Action{Kind: ActionSetThickness, Thickness: *desired.Thickness})
		}
	}

	if desired.BrushSize != nil {
		if !certain || t.believed.BrushSize != *desired.BrushSize {
			actions = append(actions, Action{Kind: ActionSetBrushSize, BrushSize: *desired.BrushSize})
		}
	}

	if desired.Fill != nil {
		if !certain || t.believed.Fill != *desired.Fill {
			actions = append(actions, Action{Kind: ActionSetFill, Fill: *desired.Fill})
		}
	}

	return actions
}

// Commit applies successfully executed actions to the believed state
// and restores certainty. Call only after every action succeeded.
func (t *Tracker) Commit(actions []Action) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, a := range actions {
		switch a.Kind {
		case ActionSelectTool:
			t.believed.Tool = a.Tool
			if a.Tool == domain.ToolShape {
				t.believed.Shape = a.Shape
			}
		case ActionSetColor:
			t.believed.Color = a.Color
		case ActionSetThickness:
			t.believed.Thickness = a.Thickness
		case ActionSetBrushSize:
			t.believed.BrushSize = a.BrushSize
		case ActionSetFill:
			t.believed.Fill = a.Fill
		}
	}
	t.believed.Certain = true
}

// MarkUncertain wipes certainty after a timeout, a cancelled dialog or
// any outcome where the UI state cannot be trusted
func (t *Tracker) MarkUncertain() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.believed.Certain = false
}

// Reset returns to Paint defaults (new window, new canvas)
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.believed = defaultState()
}
