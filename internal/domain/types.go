package domain

import "fmt"

// Tool identifies a drawing tool in the target application's ribbon.
type Tool string

const (
	ToolPencil Tool = "pencil"
	ToolBrush  Tool = "brush"
	ToolFill   Tool = "fill"
	ToolText   Tool = "text"
	ToolEraser Tool = "eraser"
	ToolSelect Tool = "select"
	ToolShape  Tool = "shape"
)

// ParseTool validates a wire-level tool name
func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case ToolPencil, ToolBrush, ToolFill, ToolText, ToolEraser, ToolSelect, ToolShape:
		return Tool(s), nil
	}
	return "", ErrInvalidTool(s)
}

// ShapeType identifies a preset shape for the shape tool.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeLine      ShapeType = "line"
	ShapeArrow     ShapeType = "arrow"
	ShapeTriangle  ShapeType = "triangle"
	ShapePentagon  ShapeType = "pentagon"
	ShapeHexagon   ShapeType = "hexagon"
)

// ParseShapeType validates a wire-level shape name
func ParseShapeType(s string) (ShapeType, error) {
	switch ShapeType(s) {
	case ShapeRectangle, ShapeEllipse, ShapeLine, ShapeArrow, ShapeTriangle, ShapePentagon, ShapeHexagon:
		return ShapeType(s), nil
	}
	return "", ErrInvalidShape(s)
}

// FillType controls shape filling.
type FillType string

const (
	FillNone    FillType = "none"
	FillSolid   FillType = "solid"
	FillOutline FillType = "outline"
)

// ParseFillType validates a wire-level fill type
func ParseFillType(s string) (FillType, error) {
	switch FillType(s) {
	case FillNone, FillSolid, FillOutline:
		return FillType(s), nil
	}
	return "", ErrInvalidParameters("invalid fill type: %q", s)
}

// FontStyle selects the text-tool font variant.
type FontStyle string

const (
	FontRegular    FontStyle = "regular"
	FontBold       FontStyle = "bold"
	FontItalic     FontStyle = "italic"
	FontBoldItalic FontStyle = "bold_italic"
)

// ParseFontStyle validates a wire-level font style
func ParseFontStyle(s string) (FontStyle, error) {
	switch FontStyle(s) {
	case FontRegular, FontBold, FontItalic, FontBoldItalic:
		return FontStyle(s), nil
	}
	return "", ErrInvalidParameters("invalid font style: %q", s)
}

// Bold reports whether the style includes bold weight
func (s FontStyle) Bold() bool {
	return s == FontBold || s == FontBoldItalic
}

// Italic reports whether the style includes italics
func (s FontStyle) Italic() bool {
	return s == FontItalic || s == FontBoldItalic
}

// ImageFormat is a supported on-disk bitmap format.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatBMP  ImageFormat = "bmp"
)

// ParseImageFormat validates a wire-level format name, accepting the common
// jpg alias.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch s {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", NewError(CodeInvalidImageFormat, "unsupported image format: %q", s)
}

// FlipDirection selects the image flip axis.
type FlipDirection string

const (
	FlipHorizontal FlipDirection = "horizontal"
	FlipVertical   FlipDirection = "vertical"
)

// ParseFlipDirection validates a wire-level flip direction
func ParseFlipDirection(s string) (FlipDirection, error) {
	switch FlipDirection(s) {
	case FlipHorizontal, FlipVertical:
		return FlipDirection(s), nil
	}
	return "", ErrInvalidParameters("invalid flip direction: %q", s)
}

// Point is a canvas-relative coordinate, origin top-left.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// PrimitiveKind tags a DrawingPrimitive variant.
type PrimitiveKind int

const (
	PrimitivePoint PrimitiveKind = iota
	PrimitiveSegment
	PrimitivePolyline
	PrimitiveRect
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitivePoint:
		return "point"
	case PrimitiveSegment:
		return "segment"
	case PrimitivePolyline:
		return "polyline"
	case PrimitiveRect:
		return "rect"
	default:
		return "unknown"
	}
}

// DrawingPrimitive is the unit the planner hands to the dispatcher. Each
// primitive carries its own color and size so color-grouped reordering never
// changes the rendered result.
type DrawingPrimitive struct {
	Kind   PrimitiveKind
	Points []Point
	Color  Color
	Size   int
}
