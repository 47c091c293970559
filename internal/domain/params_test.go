package domain

import "testing"

func TestSelectToolParams_Validate(t *testing.T) {
	tests := []struct {
		name     string
		params   SelectToolParams
		wantCode ErrorCode
	}{
		{"valid pencil", SelectToolParams{Tool: "pencil"}, 0},
		{"valid shape with type", SelectToolParams{Tool: "shape", ShapeType: "ellipse"}, 0},
		{"unknown tool", SelectToolParams{Tool: "airbrush"}, CodeInvalidTool},
		{"unknown shape", SelectToolParams{Tool: "shape", ShapeType: "blob"}, CodeInvalidShape},
		{"shape without type", SelectToolParams{Tool: "shape"}, CodeInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			checkCode(t, err, tt.wantCode)
		})
	}
}

func TestThicknessAndBrushSizeRanges(t *testing.T) {
	for level := -1; level <= 7; level++ {
		err := SetThicknessParams{Level: level}.Validate()
		valid := level >= 1 && level <= 5
		if valid && err != nil {
			t.Errorf("thickness %d: unexpected error: %v", level, err)
		}
		if !valid && CodeOf(err) != CodeInvalidParameters {
			t.Errorf("thickness %d: want code %d, got %v", level, CodeInvalidParameters, err)
		}
	}

	for _, size := range []int{0, 1, 15, 30, 31, -2} {
		err := SetBrushSizeParams{Size: size}.Validate()
		valid := size >= 1 && size <= 30
		if valid && err != nil {
			t.Errorf("brush size %d: unexpected error: %v", size, err)
		}
		if !valid && err == nil {
			t.Errorf("brush size %d: expected error", size)
		}
	}
}

func TestDrawParamsValidation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"line ok", DrawLineParams{StartX: 0, StartY: 0, EndX: 10, EndY: 10}.Validate(), 0},
		{"line negative", DrawLineParams{StartX: -1, EndX: 10}.Validate(), CodeInvalidParameters},
		{"line bad color", DrawLineParams{EndX: 1, Color: "red"}.Validate(), CodeInvalidColor},
		{"line bad thickness", DrawLineParams{EndX: 1, Thickness: 9}.Validate(), CodeInvalidParameters},
		{"shape ok", DrawShapeParams{ShapeType: "rectangle", EndX: 5, EndY: 5, FillType: "solid"}.Validate(), 0},
		{"shape bad type", DrawShapeParams{ShapeType: "star"}.Validate(), CodeInvalidShape},
		{"shape bad fill", DrawShapeParams{ShapeType: "rectangle", FillType: "hatch"}.Validate(), CodeInvalidParameters},
		{"polyline ok", DrawPolylineParams{Points: []Point{{0, 0}, {5, 5}}}.Validate(), 0},
		{"polyline one point", DrawPolylineParams{Points: []Point{{0, 0}}}.Validate(), CodeInvalidParameters},
		{"pixel ok", DrawPixelParams{X: 3, Y: 4}.Validate(), 0},
		{"pixel bad color", DrawPixelParams{Color: "#12345"}.Validate(), CodeInvalidColor},
		{"text ok", AddTextParams{X: 1, Y: 1, Text: "hi"}.Validate(), 0},
		{"text empty", AddTextParams{X: 1, Y: 1}.Validate(), CodeInvalidParameters},
		{"text bad style", AddTextParams{X: 1, Y: 1, Text: "hi", FontStyle: "wavy"}.Validate(), CodeInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCode(t, tt.err, tt.wantCode)
		})
	}
}

func TestImageParamsValidation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"rotate 90", RotateImageParams{Degrees: 90}.Validate(), 0},
		{"rotate 180", RotateImageParams{Degrees: 180}.Validate(), 0},
		{"rotate 45", RotateImageParams{Degrees: 45}.Validate(), CodeInvalidParameters},
		{"flip horizontal", FlipImageParams{Direction: "horizontal"}.Validate(), 0},
		{"flip diagonal", FlipImageParams{Direction: "diagonal"}.Validate(), CodeInvalidParameters},
		{"scale by percent", ScaleImageParams{Percentage: 50}.Validate(), 0},
		{"scale by width", ScaleImageParams{Width: 640}.Validate(), 0},
		{"scale nothing", ScaleImageParams{}.Validate(), CodeInvalidParameters},
		{"crop ok", CropImageParams{StartX: 0, StartY: 0, Width: 10, Height: 10}.Validate(), 0},
		{"crop zero width", CropImageParams{Width: 0, Height: 10}.Validate(), CodeInvalidParameters},
		{"save ok", SaveParams{FilePath: "/tmp/out.png"}.Validate(), 0},
		{"save bad format", SaveParams{FilePath: "/tmp/out.png", Format: "tiff"}.Validate(), CodeInvalidImageFormat},
		{"save empty path", SaveParams{}.Validate(), CodeInvalidParameters},
		{"recreate ok", RecreateImageParams{ImageBase64: "aGk=", MaxDetailLevel: 100}.Validate(), 0},
		{"recreate detail high", RecreateImageParams{ImageBase64: "aGk=", MaxDetailLevel: 201}.Validate(), CodeInvalidParameters},
		{"recreate empty", RecreateImageParams{}.Validate(), CodeInvalidParameters},
		{"canvas ok", CreateCanvasParams{Width: 1024, Height: 768}.Validate(), 0},
		{"canvas zero", CreateCanvasParams{Width: 0, Height: 768}.Validate(), CodeInvalidParameters},
		{"paste bad base64", PasteParams{X: 1, Y: 1, ImageBase64: "%%%"}.Validate(), CodeInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCode(t, tt.err, tt.wantCode)
		})
	}
}

func TestOptionalDefaults(t *testing.T) {
	if !(RotateImageParams{Degrees: 90}).ClockwiseOrDefault() {
		t.Error("rotation defaults to clockwise")
	}
	ccw := false
	if (RotateImageParams{Degrees: 90, Clockwise: &ccw}).ClockwiseOrDefault() {
		t.Error("explicit counter-clockwise must be honored")
	}

	if got := (RecreateImageParams{ImageBase64: "aGk="}).DetailOrDefault(); got != 100 {
		t.Errorf("default detail = %d, want 100", got)
	}
	if got := (RecreateImageParams{ImageBase64: "aGk=", MaxDetailLevel: 25}).DetailOrDefault(); got != 25 {
		t.Errorf("explicit detail = %d, want 25", got)
	}

	if !(ScaleImageParams{Percentage: 50}).KeepAspect() {
		t.Error("scale defaults to keeping aspect ratio")
	}
}

func checkCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()
	if want == 0 {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Errorf("expected error code %d, got nil", want)
		return
	}
	if CodeOf(err) != want {
		t.Errorf("error code = %d, want %d (%v)", CodeOf(err), want, err)
	}
}
