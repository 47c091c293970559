package domain

import "encoding/base64"

// Command parameter structs. Field tags carry both the wire name and the
// jsonschema metadata the MCP transport publishes to clients. Validate methods
// cover everything checkable without a live session; canvas-bounds checks
// happen in the engine where the geometry is known.
//
// Optional numeric fields use zero as "not provided" where zero is outside the
// valid range, and pointers where false/zero is a meaningful value.

// ConnectParams identifies the connecting client.
type ConnectParams struct {
	ClientID   string `json:"client_id,omitempty" jsonschema:"description=Caller-chosen client identifier"`
	ClientName string `json:"client_name,omitempty" jsonschema:"description=Human-readable client name"`
}

// Validate implements syntactic validation
func (p ConnectParams) Validate() error { return nil }

// EmptyParams is shared by commands that take no arguments.
type EmptyParams struct{}

// Validate implements syntactic validation
func (p EmptyParams) Validate() error { return nil }

// SelectToolParams selects the active drawing tool.
type SelectToolParams struct {
	Tool      string `json:"tool" jsonschema:"required,description=Tool name: pencil brush fill text eraser select or shape"`
	ShapeType string `json:"shape_type,omitempty" jsonschema:"description=Shape preset when tool is shape"`
}

// Validate implements syntactic validation
func (p SelectToolParams) Validate() error {
	tool, err := ParseTool(p.Tool)
	if err != nil {
		return err
	}
	if p.ShapeType != "" {
		if _, err := ParseShapeType(p.ShapeType); err != nil {
			return err
		}
	}
	if tool == ToolShape && p.ShapeType == "" {
		return ErrInvalidParameters("shape_type is required when tool is %q", ToolShape)
	}
	return nil
}

// SetColorParams sets the active drawing color.
type SetColorParams struct {
	Color string `json:"color" jsonschema:"required,description=Color in #RRGGBB format"`
}

// Validate implements syntactic validation
func (p SetColorParams) Validate() error {
	_, err := ParseColor(p.Color)
	return err
}

// SetThicknessParams sets the line thickness level.
type SetThicknessParams struct {
	Level int `json:"level" jsonschema:"required,description=Thickness level from 1 to 5"`
}

// Validate implements syntactic validation
func (p SetThicknessParams) Validate() error {
	if p.Level < 1 || p.Level > 5 {
		return ErrInvalidParameters("thickness level must be 1-5, got %d", p.Level)
	}
	return nil
}

// SetBrushSizeParams sets the brush stroke size in pixels.
type SetBrushSizeParams struct {
	Size int    `json:"size" jsonschema:"required,description=Brush size in pixels from 1 to 30"`
	Tool string `json:"tool,omitempty" jsonschema:"description=Tool the size applies to (defaults to the current tool)"`
}

// Validate implements syntactic validation
func (p SetBrushSizeParams) Validate() error {
	if p.Size < 1 || p.Size > 30 {
		return ErrInvalidParameters("brush size must be 1-30, got %d", p.Size)
	}
	if p.Tool != "" {
		if _, err := ParseTool(p.Tool); err != nil {
			return err
		}
	}
	return nil
}

// SetFillParams sets the shape fill mode.
type SetFillParams struct {
	FillType string `json:"fill_type" jsonschema:"required,description=Fill mode: none solid or outline"`
}

// Validate implements syntactic validation
func (p SetFillParams) Validate() error {
	_, err := ParseFillType(p.FillType)
	return err
}

// DrawPixelParams draws a single pixel.
type DrawPixelParams struct {
	X     int    `json:"x" jsonschema:"required,description=Canvas X coordinate"`
	Y     int    `json:"y" jsonschema:"required,description=Canvas Y coordinate"`
	Color string `json:"color,omitempty" jsonschema:"description=Optional #RRGGBB color applied before drawing"`
}

// Validate implements syntactic validation
func (p DrawPixelParams) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return ErrInvalidParameters("pixel coordinates must be non-negative, got (%d,%d)", p.X, p.Y)
	}
	return validateOptionalColor(p.Color)
}

// DrawLineParams draws a straight stroke between two canvas points.
type DrawLineParams struct {
	StartX    int    `json:"start_x" jsonschema:"required,description=Line start X"`
	StartY    int    `json:"start_y" jsonschema:"required,description=Line start Y"`
	EndX      int    `json:"end_x" jsonschema:"required,description=Line end X"`
	EndY      int    `json:"end_y" jsonschema:"required,description=Line end Y"`
	Color     string `json:"color,omitempty" jsonschema:"description=Optional #RRGGBB color"`
	Thickness int    `json:"thickness,omitempty" jsonschema:"description=Optional thickness level 1-5"`
}

// Validate implements syntactic validation
func (p DrawLineParams) Validate() error {
	if p.StartX < 0 || p.StartY < 0 || p.EndX < 0 || p.EndY < 0 {
		return ErrInvalidParameters("line coordinates must be non-negative")
	}
	if err := validateOptionalColor(p.Color); err != nil {
		return err
	}
	return validateOptionalThickness(p.Thickness)
}

// DrawShapeParams draws a preset shape across a bounding diagonal.
type DrawShapeParams struct {
	ShapeType string `json:"shape_type" jsonschema:"required,description=Shape: rectangle ellipse line arrow triangle pentagon or hexagon"`
	StartX    int    `json:"start_x" jsonschema:"required,description=Bounding box start X"`
	StartY    int    `json:"start_y" jsonschema:"required,description=Bounding box start Y"`
	EndX      int    `json:"end_x" jsonschema:"required,description=Bounding box end X"`
	EndY      int    `json:"end_y" jsonschema:"required,description=Bounding box end Y"`
	Color     string `json:"color,omitempty" jsonschema:"description=Optional #RRGGBB color"`
	Thickness int    `json:"thickness,omitempty" jsonschema:"description=Optional thickness level 1-5"`
	FillType  string `json:"fill_type,omitempty" jsonschema:"description=Optional fill mode: none solid or outline"`
}

// Validate implements syntactic validation
func (p DrawShapeParams) Validate() error {
	if _, err := ParseShapeType(p.ShapeType); err != nil {
		return err
	}
	if p.StartX < 0 || p.StartY < 0 || p.EndX < 0 || p.EndY < 0 {
		return ErrInvalidParameters("shape coordinates must be non-negative")
	}
	if err := validateOptionalColor(p.Color); err != nil {
		return err
	}
	if err := validateOptionalThickness(p.Thickness); err != nil {
		return err
	}
	if p.FillType != "" {
		if _, err := ParseFillType(p.FillType); err != nil {
			return err
		}
	}
	return nil
}

// DrawPolylineParams draws a continuous stroke through an ordered point list.
type DrawPolylineParams struct {
	Points    []Point `json:"points" jsonschema:"required,description=Ordered canvas points; at least two"`
	Color     string  `json:"color,omitempty" jsonschema:"description=Optional #RRGGBB color"`
	Thickness int     `json:"thickness,omitempty" jsonschema:"description=Optional thickness level 1-5"`
	Tool      string  `json:"tool,omitempty" jsonschema:"description=Optional tool override (pencil or brush)"`
}

// Validate implements syntactic validation
func (p DrawPolylineParams) Validate() error {
	if len(p.Points) < 2 {
		return ErrInvalidParameters("polyline requires at least 2 points, got %d", len(p.Points))
	}
	for _, pt := range p.Points {
		if pt.X < 0 || pt.Y < 0 {
			return ErrInvalidParameters("polyline point %s must be non-negative", pt)
		}
	}
	if err := validateOptionalColor(p.Color); err != nil {
		return err
	}
	if err := validateOptionalThickness(p.Thickness); err != nil {
		return err
	}
	if p.Tool != "" {
		if _, err := ParseTool(p.Tool); err != nil {
			return err
		}
	}
	return nil
}

// AddTextParams places text on the canvas at a point.
type AddTextParams struct {
	X         int     `json:"x" jsonschema:"required,description=Text anchor X"`
	Y         int     `json:"y" jsonschema:"required,description=Text anchor Y"`
	Text      string  `json:"text" jsonschema:"required,description=Text to type"`
	Color     string  `json:"color,omitempty" jsonschema:"description=Optional #RRGGBB color"`
	FontName  string  `json:"font_name,omitempty" jsonschema:"description=Optional font family name"`
	FontSize  float64 `json:"font_size,omitempty" jsonschema:"description=Optional font size in points"`
	FontStyle string  `json:"font_style,omitempty" jsonschema:"description=Optional style: regular bold italic or bold_italic"`
}

// Validate implements syntactic validation
func (p AddTextParams) Validate() error {
	if p.Text == "" {
		return ErrInvalidParameters("text must not be empty")
	}
	if p.X < 0 || p.Y < 0 {
		return ErrInvalidParameters("text coordinates must be non-negative, got (%d,%d)", p.X, p.Y)
	}
	if err := validateOptionalColor(p.Color); err != nil {
		return err
	}
	if p.FontSize < 0 {
		return ErrInvalidParameters("font size must be positive, got %g", p.FontSize)
	}
	if p.FontStyle != "" {
		if _, err := ParseFontStyle(p.FontStyle); err != nil {
			return err
		}
	}
	return nil
}

// SelectRegionParams drags a rectangular selection.
type SelectRegionParams struct {
	StartX int `json:"start_x" jsonschema:"required,description=Selection start X"`
	StartY int `json:"start_y" jsonschema:"required,description=Selection start Y"`
	EndX   int `json:"end_x" jsonschema:"required,description=Selection end X"`
	EndY   int `json:"end_y" jsonschema:"required,description=Selection end Y"`
}

// Validate implements syntactic validation
func (p SelectRegionParams) Validate() error {
	if p.StartX < 0 || p.StartY < 0 || p.EndX < 0 || p.EndY < 0 {
		return ErrInvalidParameters("selection coordinates must be non-negative")
	}
	return nil
}

// PasteParams pastes clipboard content at a canvas point. When image_base64 is
// provided the bytes are placed on the system clipboard first.
type PasteParams struct {
	X           int    `json:"x" jsonschema:"required,description=Paste anchor X"`
	Y           int    `json:"y" jsonschema:"required,description=Paste anchor Y"`
	ImageBase64 string `json:"image_base64,omitempty" jsonschema:"description=Optional PNG bytes (base64) to paste instead of the current clipboard"`
}

// Validate implements syntactic validation
func (p PasteParams) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return ErrInvalidParameters("paste coordinates must be non-negative, got (%d,%d)", p.X, p.Y)
	}
	if p.ImageBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(p.ImageBase64); err != nil {
			return ErrInvalidParameters("invalid base64 image data")
		}
	}
	return nil
}

// CreateCanvasParams resizes the canvas to new dimensions.
type CreateCanvasParams struct {
	Width           int    `json:"width" jsonschema:"required,description=New canvas width in pixels"`
	Height          int    `json:"height" jsonschema:"required,description=New canvas height in pixels"`
	BackgroundColor string `json:"background_color,omitempty" jsonschema:"description=Optional #RRGGBB background fill"`
}

// Validate implements syntactic validation
func (p CreateCanvasParams) Validate() error {
	if p.Width < 1 || p.Height < 1 {
		return ErrInvalidParameters("canvas dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	return validateOptionalColor(p.BackgroundColor)
}

// SaveParams saves the canvas to a file.
type SaveParams struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Absolute path to save to"`
	Format   string `json:"format,omitempty" jsonschema:"description=Optional format: png jpeg or bmp (defaults from the extension)"`
}

// Validate implements syntactic validation
func (p SaveParams) Validate() error {
	if p.FilePath == "" {
		return ErrInvalidParameters("file_path must not be empty")
	}
	if p.Format != "" {
		if _, err := ParseImageFormat(p.Format); err != nil {
			return err
		}
	}
	return nil
}

// FetchImageParams reads a saved image back with metadata.
type FetchImageParams struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Absolute path of the image to read"`
}

// Validate implements syntactic validation
func (p FetchImageParams) Validate() error {
	if p.FilePath == "" {
		return ErrInvalidParameters("file_path must not be empty")
	}
	return nil
}

// RotateImageParams rotates the whole canvas image.
type RotateImageParams struct {
	Degrees   int   `json:"degrees" jsonschema:"required,description=Rotation: 90 180 or 270"`
	Clockwise *bool `json:"clockwise,omitempty" jsonschema:"description=Rotation direction; defaults to clockwise"`
}

// Validate implements syntactic validation
func (p RotateImageParams) Validate() error {
	switch p.Degrees {
	case 90, 180, 270:
		return nil
	}
	return ErrInvalidParameters("only 90, 180, and 270 degree rotations are supported, got %d", p.Degrees)
}

// ClockwiseOrDefault resolves the optional direction flag
func (p RotateImageParams) ClockwiseOrDefault() bool {
	if p.Clockwise == nil {
		return true
	}
	return *p.Clockwise
}

// FlipImageParams mirrors the whole canvas image.
type FlipImageParams struct {
	Direction string `json:"direction" jsonschema:"required,description=Flip axis: horizontal or vertical"`
}

// Validate implements syntactic validation
func (p FlipImageParams) Validate() error {
	_, err := ParseFlipDirection(p.Direction)
	return err
}

// ScaleImageParams resizes the canvas image. Either explicit dimensions or a
// percentage must be given.
type ScaleImageParams struct {
	Width               int     `json:"width,omitempty" jsonschema:"description=Target width in pixels"`
	Height              int     `json:"height,omitempty" jsonschema:"description=Target height in pixels"`
	MaintainAspectRatio *bool   `json:"maintain_aspect_ratio,omitempty" jsonschema:"description=Keep aspect ratio; defaults to true"`
	Percentage          float64 `json:"percentage,omitempty" jsonschema:"description=Uniform scale percentage (e.g. 50 halves the image)"`
}

// Validate implements syntactic validation
func (p ScaleImageParams) Validate() error {
	if p.Width == 0 && p.Height == 0 && p.Percentage == 0 {
		return ErrInvalidParameters("scale requires width, height, or percentage")
	}
	if p.Width < 0 || p.Height < 0 {
		return ErrInvalidParameters("scale dimensions must be positive")
	}
	if p.Percentage < 0 {
		return ErrInvalidParameters("scale percentage must be positive, got %g", p.Percentage)
	}
	return nil
}

// KeepAspect resolves the optional aspect-ratio flag
func (p ScaleImageParams) KeepAspect() bool {
	if p.MaintainAspectRatio == nil {
		return true
	}
	return *p.MaintainAspectRatio
}

// CropImageParams crops the canvas to a rectangle.
type CropImageParams struct {
	StartX int `json:"start_x" jsonschema:"required,description=Crop origin X"`
	StartY int `json:"start_y" jsonschema:"required,description=Crop origin Y"`
	Width  int `json:"width" jsonschema:"required,description=Crop width in pixels"`
	Height int `json:"height" jsonschema:"required,description=Crop height in pixels"`
}

// Validate implements syntactic validation
func (p CropImageParams) Validate() error {
	if p.StartX < 0 || p.StartY < 0 {
		return ErrInvalidParameters("crop origin must be non-negative, got (%d,%d)", p.StartX, p.StartY)
	}
	if p.Width < 1 || p.Height < 1 {
		return ErrInvalidParameters("crop dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	return nil
}

// RecreateImageParams redraws a provided bitmap on the canvas as paced
// primitives.
type RecreateImageParams struct {
	ImageBase64    string `json:"image_base64" jsonschema:"required,description=Source image bytes (base64 PNG JPEG or BMP)"`
	OutputFilename string `json:"output_filename,omitempty" jsonschema:"description=Optional path to save the result to afterwards"`
	MaxDetailLevel int    `json:"max_detail_level,omitempty" jsonschema:"description=Detail level 1-200; higher is finer (default 100)"`
}

// Validate implements syntactic validation
func (p RecreateImageParams) Validate() error {
	if p.ImageBase64 == "" {
		return ErrInvalidParameters("image_base64 must not be empty")
	}
	if p.MaxDetailLevel != 0 && (p.MaxDetailLevel < 1 || p.MaxDetailLevel > 200) {
		return ErrInvalidParameters("max_detail_level must be 1-200, got %d", p.MaxDetailLevel)
	}
	return nil
}

// DetailOrDefault resolves the optional detail level
func (p RecreateImageParams) DetailOrDefault() int {
	if p.MaxDetailLevel == 0 {
		return 100
	}
	return p.MaxDetailLevel
}

func validateOptionalColor(s string) error {
	if s == "" {
		return nil
	}
	_, err := ParseColor(s)
	return err
}

func validateOptionalThickness(level int) error {
	if level == 0 {
		return nil
	}
	if level < 1 || level > 5 {
		return ErrInvalidParameters("thickness level must be 1-5, got %d", level)
	}
	return nil
}
