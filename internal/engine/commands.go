package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	clipboard "github.com/paintmcp/paintd/internal/clipboard"
	dialog "github.com/paintmcp/paintd/internal/dialog"
	domain "github.com/paintmcp/paintd/internal/domain"
	logger "github.com/paintmcp/paintd/internal/logger"
	session "github.com/paintmcp/paintd/internal/session"
	toolstate "github.com/paintmcp/paintd/internal/toolstate"
)

// Post-interaction settles for operations the target application
// processes asynchronously.
const (
	selectAllSettle = 300 * time.Millisecond
	textSettle      = 300 * time.Millisecond
	clipboardSettle = 300 * time.Millisecond
)

// mustColor parses a color already vetted by parameter validation
func mustColor(s string) domain.Color {
	c, _ := domain.ParseColor(s)
	return c
}

// Connect attaches to the target application, launching it when no
// window exists yet
func (e *Engine) Connect(ctx context.Context, p domain.ConnectParams) (domain.ConnectResult, error) {
	s, err := e.acquireSession(ctx)
	if err != nil {
		return domain.ConnectResult{}, err
	}

	if p.ClientID != "" || p.ClientName != "" {
		logger.Info("client connected", "client_id", p.ClientID, "client_name", p.ClientName)
	}

	w, h := s.DocSize()
	return domain.ConnectResult{
		Status:       domain.StatusSuccess,
		PaintVersion: s.PaintVersion,
		CanvasWidth:  w,
		CanvasHeight: h,
	}, nil
}

// ActivateWindow re-runs foreground activation for the attached window
func (e *Engine) ActivateWindow(ctx context.Context) (domain.SuccessResult, error) {
	if err := e.sessions.Reactivate(ctx); err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// GetCanvasDimensions reports the logical document size
func (e *Engine) GetCanvasDimensions(ctx context.Context) (domain.CanvasDimensionsResult, error) {
	w, h, err := e.sessions.CanvasSize()
	if err != nil {
		return domain.CanvasDimensionsResult{}, err
	}
	return domain.CanvasDimensionsResult{Status: domain.StatusSuccess, Width: w, Height: h}, nil
}

// GetVersion reports protocol, server and target application versions
func (e *Engine) GetVersion(ctx context.Context) (domain.VersionResult, error) {
	paintVersion := "unknown"
	if s := e.sessions.Current(); s != nil {
		paintVersion = s.PaintVersion
	}
	return domain.VersionResult{
		Status:          domain.StatusSuccess,
		ProtocolVersion: domain.ProtocolVersion,
		ServerVersion:   e.serverVersion,
		PaintVersion:    paintVersion,
	}, nil
}

// Disconnect detaches from the window; the target process keeps running
func (e *Engine) Disconnect(ctx context.Context) (domain.SuccessResult, error) {
	e.sessions.Disconnect()
	e.tracker.Reset()
	e.lastSession = ""
	return domain.OK(), nil
}

// SelectTool activates a drawing tool, including a shape preset for
// the shape tool
func (e *Engine) SelectTool(ctx context.Context, p domain.SelectToolParams) (domain.SuccessResult, error) {
	tool, _ := domain.ParseTool(p.Tool)
	delta := toolstate.Delta{Tool: &tool}
	if p.ShapeType != "" {
		shape, _ := domain.ParseShapeType(p.ShapeType)
		delta.Shape = &shape
	}

	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.applyDelta(ctx, s, delta)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// SetColor sets the active drawing color
func (e *Engine) SetColor(ctx context.Context, p domain.SetColorParams) (domain.SuccessResult, error) {
	c := mustColor(p.Color)
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.applyDelta(ctx, s, toolstate.Delta{Color: &c})
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// SetThickness sets the stroke thickness level
func (e *Engine) SetThickness(ctx context.Context, p domain.SetThicknessParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.applyDelta(ctx, s, toolstate.Delta{Thickness: &p.Level})
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// SetBrushSize sets the brush pixel size, optionally switching tool
// first
func (e *Engine) SetBrushSize(ctx context.Context, p domain.SetBrushSizeParams) (domain.SuccessResult, error) {
	delta := toolstate.Delta{BrushSize: &p.Size}
	if p.Tool != "" {
		tool, _ := domain.ParseTool(p.Tool)
		delta.Tool = &tool
	}

	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.applyDelta(ctx, s, delta)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// SetFill sets the shape fill mode
func (e *Engine) SetFill(ctx context.Context, p domain.SetFillParams) (domain.SuccessResult, error) {
	fill, _ := domain.ParseFillType(p.FillType)
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.applyDelta(ctx, s, toolstate.Delta{Fill: &fill})
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// DrawPixel clicks a single canvas point with the pencil at minimum
// thickness
func (e *Engine) DrawPixel(ctx context.Context, p domain.DrawPixelParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		pencil := domain.ToolPencil
		one := 1
		delta := toolstate.Delta{Tool: &pencil, Thickness: &one}
		if p.Color != "" {
			c := mustColor(p.Color)
			delta.Color = &c
		}
		if err := e.applyDelta(ctx, s, delta); err != nil {
			return err
		}

		screen, err := s.Mapper().ToScreen(domain.Point{X: p.X, Y: p.Y})
		if err != nil {
			return err
		}
		return e.sim.ClickAt(ctx, screen)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// DrawLine drags a single pencil stroke between two canvas points
func (e *Engine) DrawLine(ctx context.Context, p domain.DrawLineParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		pencil := domain.ToolPencil
		delta := toolstate.Delta{Tool: &pencil}
		if p.Color != "" {
			c := mustColor(p.Color)
			delta.Color = &c
		}
		if p.Thickness != 0 {
			delta.Thickness = &p.Thickness
		}
		if err := e.applyDelta(ctx, s, delta); err != nil {
			return err
		}

		m := s.Mapper()
		start, err := m.ToScreen(domain.Point{X: p.StartX, Y: p.StartY})
		if err != nil {
			return err
		}
		end, err := m.ToScreen(domain.Point{X: p.EndX, Y: p.EndY})
		if err != nil {
			return err
		}
		return e.sim.Drag(ctx, start, end)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// DrawShape drags a preset shape across its bounding diagonal
func (e *Engine) DrawShape(ctx context.Context, p domain.DrawShapeParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		tool := domain.ToolShape
		shape, _ := domain.ParseShapeType(p.ShapeType)
		delta := toolstate.Delta{Tool: &tool, Shape: &shape}
		if p.Color != "" {
			c := mustColor(p.Color)
			delta.Color = &c
		}
		if p.Thickness != 0 {
			delta.Thickness = &p.Thickness
		}
		if p.FillType != "" {
			fill, _ := domain.ParseFillType(p.FillType)
			delta.Fill = &fill
		}
		if err := e.applyDelta(ctx, s, delta); err != nil {
			return err
		}

		m := s.Mapper()
		start, err := m.ToScreen(domain.Point{X: p.StartX, Y: p.StartY})
		if err != nil {
			return err
		}
		end, err := m.ToScreen(domain.Point{X: p.EndX, Y: p.EndY})
		if err != nil {
			return err
		}
		return e.sim.Drag(ctx, start, end)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// DrawPolyline drags one continuous freehand stroke through the points
func (e *Engine) DrawPolyline(ctx context.Context, p domain.DrawPolylineParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		tool := domain.ToolPencil
		if p.Tool != "" {
			tool, _ = domain.ParseTool(p.Tool)
		}
		delta := toolstate.Delta{Tool: &tool}
		if p.Color != "" {
			c := mustColor(p.Color)
			delta.Color = &c
		}
		if p.Thickness != 0 {
			delta.Thickness = &p.Thickness
		}
		if err := e.applyDelta(ctx, s, delta); err != nil {
			return err
		}

		m := s.Mapper()
		screen := make([]domain.Point, 0, len(p.Points))
		for _, pt := range p.Points {
			sp, err := m.ToScreen(pt)
			if err != nil {
				return err
			}
			screen = append(screen, sp)
		}
		return e.sim.DragPath(ctx, screen)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// AddText places and types text at a canvas anchor. Font settings go
// through the font dialog before typing; a click outside the text box
// commits it.
func (e *Engine) AddText(ctx context.Context, p domain.AddTextParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		text := domain.ToolText
		delta := toolstate.Delta{Tool: &text}
		if p.Color != "" {
			c := mustColor(p.Color)
			delta.Color = &c
		}
		if err := e.applyDelta(ctx, s, delta); err != nil {
			return err
		}

		m := s.Mapper()
		anchor, err := m.ToScreen(domain.Point{X: p.X, Y: p.Y})
		if err != nil {
			return err
		}
		if err := e.sim.ClickAt(ctx, anchor); err != nil {
			return err
		}
		if err := e.sim.Pause(ctx, textSettle); err != nil {
			return err
		}

		style := domain.FontRegular
		if p.FontStyle != "" {
			style, _ = domain.ParseFontStyle(p.FontStyle)
		}
		if p.FontName != "" || p.FontSize > 0 || style != domain.FontRegular {
			size := int(p.FontSize + 0.5)
			if err := e.dialogs.SetFont(ctx, p.FontName, size, style); err != nil {
				return err
			}
		}

		if err := e.sim.TypeText(ctx, p.Text); err != nil {
			return err
		}
		if err := e.sim.Pause(ctx, textSettle); err != nil {
			return err
		}

		// Click away to commit the text box.
		lw, lh := m.LogicalSize()
		commit := domain.Point{X: min(p.X+300, lw-1), Y: min(p.Y+300, lh-1)}
		screen, err := m.ToScreen(commit)
		if err != nil {
			return err
		}
		return e.sim.ClickAt(ctx, screen)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// dragSelection activates the select tool and drags out a rectangle
func (e *Engine) dragSelection(ctx context.Context, s *session.Session, x0, y0, x1, y1 int) error {
	sel := domain.ToolSelect
	if err := e.applyDelta(ctx, s, toolstate.Delta{Tool: &sel}); err != nil {
		return err
	}

	m := s.Mapper()
	start, err := m.ToScreen(domain.Point{X: x0, Y: y0})
	if err != nil {
		return err
	}
	end, err := m.ToScreen(domain.Point{X: x1, Y: y1})
	if err != nil {
		return err
	}
	return e.sim.Drag(ctx, start, end)
}

// SelectRegion drags out a rectangular selection
func (e *Engine) SelectRegion(ctx context.Context, p domain.SelectRegionParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.dragSelection(ctx, s, p.StartX, p.StartY, p.EndX, p.EndY)
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// CopySelection copies the current selection to the system clipboard
func (e *Engine) CopySelection(ctx context.Context) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if err := e.sim.Keys(ctx, "ctrl+c"); err != nil {
			return err
		}
		if err := e.sim.Pause(ctx, clipboardSettle); err != nil {
			return err
		}
		if e.clipboardReady && len(clipboard.Read(clipboard.FmtImage)) == 0 {
			logger.Warn("clipboard holds no image after copy; selection may have been empty")
		}
		return nil
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// Paste pastes at a canvas anchor. With image_base64 set, the bytes
// are placed on the system clipboard first.
func (e *Engine) Paste(ctx context.Context, p domain.PasteParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if p.ImageBase64 != "" {
			if !e.clipboardReady {
				return domain.NewError(domain.CodeGeneral, "system clipboard is unavailable, cannot inject image data")
			}
			data, err := base64.StdEncoding.DecodeString(p.ImageBase64)
			if err != nil {
				return domain.ErrInvalidParameters("invalid base64 image data")
			}
			clipboard.Write(clipboard.FmtImage, data)
		}

		screen, err := s.Mapper().ToScreen(domain.Point{X: p.X, Y: p.Y})
		if err != nil {
			return err
		}
		if err := e.sim.ClickAt(ctx, screen); err != nil {
			return err
		}
		if err := e.sim.Pause(ctx, clipboardSettle); err != nil {
			return err
		}
		return e.sim.Keys(ctx, "ctrl+v")
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// ClearCanvas selects everything and deletes it
func (e *Engine) ClearCanvas(ctx context.Context) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if err := e.sim.Keys(ctx, "ctrl+a"); err != nil {
			return err
		}
		if err := e.sim.Pause(ctx, selectAllSettle); err != nil {
			return err
		}
		return e.sim.Keys(ctx, "delete")
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// CreateCanvas replaces the document with a fresh canvas of the given
// size. A new document resets the target application's tool state, so
// believed state resets with it.
func (e *Engine) CreateCanvas(ctx context.Context, p domain.CreateCanvasParams) (domain.CreateCanvasResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if err := e.dialogs.NewCanvas(ctx, p.Width, p.Height); err != nil {
			return err
		}
		e.sessions.SetCanvasSize(p.Width, p.Height)
		e.tracker.Reset()

		if p.BackgroundColor != "" {
			fill := domain.ToolFill
			c := mustColor(p.BackgroundColor)
			if err := e.applyDelta(ctx, s, toolstate.Delta{Tool: &fill, Color: &c}); err != nil {
				return err
			}
			m := s.Mapper()
			lw, lh := m.LogicalSize()
			center, err := m.ToScreen(domain.Point{X: lw / 2, Y: lh / 2})
			if err != nil {
				return err
			}
			if err := e.sim.ClickAt(ctx, center); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.CreateCanvasResult{}, err
	}
	return domain.CreateCanvasResult{
		Status:       domain.StatusSuccess,
		CanvasWidth:  p.Width,
		CanvasHeight: p.Height,
	}, nil
}

// formatExtension returns the on-disk extension for a format
func formatExtension(f domain.ImageFormat) string {
	switch f {
	case domain.FormatJPEG:
		return ".jpg"
	case domain.FormatBMP:
		return ".bmp"
	default:
		return ".png"
	}
}

// resolveSavePath keeps a recognized extension, otherwise appends one
// for the requested format (png when unspecified)
func resolveSavePath(path, format string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, err := domain.ParseImageFormat(ext); err == nil {
		return path
	}

	f := domain.FormatPNG
	if format != "" {
		f, _ = domain.ParseImageFormat(format)
	}
	return path + formatExtension(f)
}

// Save writes the document to disk through the Save As dialog
func (e *Engine) Save(ctx context.Context, p domain.SaveParams) (domain.SaveResult, error) {
	path := resolveSavePath(p.FilePath, p.Format)
	if err := e.guard.CheckWritable(path); err != nil {
		return domain.SaveResult{}, err
	}

	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		return e.dialogs.SaveAs(ctx, path)
	})
	if err != nil {
		return domain.SaveResult{}, err
	}
	return domain.SaveResult{Status: domain.StatusSuccess, FilePath: path}, nil
}

// FetchImage reads a saved image back with its metadata. Purely a
// filesystem operation; no session needed.
func (e *Engine) FetchImage(ctx context.Context, p domain.FetchImageParams) (domain.FetchImageResult, error) {
	if err := e.guard.CheckReadable(p.FilePath); err != nil {
		return domain.FetchImageResult{}, err
	}

	data, err := os.ReadFile(p.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.FetchImageResult{}, domain.NewError(domain.CodeFileNotFound, "file not found: %s", p.FilePath)
		}
		return domain.FetchImageResult{}, domain.WrapError(domain.CodePermissionDenied, err, "cannot read file: %s", p.FilePath)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.FetchImageResult{}, domain.NewError(domain.CodeInvalidImageFormat,
			"file %s is not a supported image: %v", p.FilePath, err)
	}

	return domain.FetchImageResult{
		Status:      domain.StatusSuccess,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// RotateImage rotates the whole document via the ribbon
func (e *Engine) RotateImage(ctx context.Context, p domain.RotateImageParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if err := e.transformImage(ctx, rotateItem(p.Degrees, p.ClockwiseOrDefault())); err != nil {
			return domain.WrapError(domain.CodeTransformationFailed, err, "rotate by %d degrees failed", p.Degrees)
		}
		if p.Degrees != 180 {
			w, h := s.DocSize()
			e.sessions.SetCanvasSize(h, w)
		}
		return nil
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// FlipImage mirrors the whole document via the ribbon
func (e *Engine) FlipImage(ctx context.Context, p domain.FlipImageParams) (domain.SuccessResult, error) {
	direction, _ := domain.ParseFlipDirection(p.Direction)
	item := flipHorizontal
	if direction == domain.FlipVertical {
		item = flipVertical
	}

	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		if err := e.transformImage(ctx, item); err != nil {
			return domain.WrapError(domain.CodeTransformationFailed, err, "flip %s failed", direction)
		}
		return nil
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// resolveScale turns scale parameters into resize dialog options plus
// the resulting document size. Percentage wins over explicit
// dimensions; a missing dimension follows the aspect ratio.
func resolveScale(p domain.ScaleImageParams, docW, docH int) (dialog.ResizeOptions, int, int, error) {
	if p.Percentage > 0 {
		pct := max(1, int(p.Percentage+0.5))
		return dialog.ResizeOptions{Horizontal: pct, Vertical: pct, Percent: true},
			max(1, docW*pct/100), max(1, docH*pct/100), nil
	}

	w, h := p.Width, p.Height
	switch {
	case w > 0 && h > 0:
		if p.KeepAspect() && docW > 0 {
			h = w * docH / docW
		}
	case w > 0:
		if docW > 0 {
			h = w * docH / docW
		}
	case h > 0:
		if docH > 0 {
			w = h * docW / docH
		}
	}
	if w < 1 || h < 1 {
		return dialog.ResizeOptions{}, 0, 0, domain.ErrInvalidParameters(
			"scaled dimensions must stay positive, got %dx%d", w, h)
	}
	return dialog.ResizeOptions{Horizontal: w, Vertical: h}, w, h, nil
}

// ScaleImage resizes the document through the resize dialog
func (e *Engine) ScaleImage(ctx context.Context, p domain.ScaleImageParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		docW, docH := s.DocSize()
		opts, newW, newH, err := resolveScale(p, docW, docH)
		if err != nil {
			return err
		}
		if err := e.dialogs.Resize(ctx, opts); err != nil {
			return err
		}
		e.sessions.SetCanvasSize(newW, newH)
		return nil
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}

// CropImage selects a rectangle and crops the document to it
func (e *Engine) CropImage(ctx context.Context, p domain.CropImageParams) (domain.SuccessResult, error) {
	err := e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		endX := p.StartX + p.Width - 1
		endY := p.StartY + p.Height - 1
		if err := e.dragSelection(ctx, s, p.StartX, p.StartY, endX, endY); err != nil {
			return err
		}
		if err := e.sim.Pause(ctx, selectAllSettle); err != nil {
			return err
		}
		if err := e.sim.Keys(ctx, "ctrl+shift+x"); err != nil {
			return domain.WrapError(domain.CodeTransformationFailed, err, "crop failed")
		}
		e.sessions.SetCanvasSize(p.Width, p.Height)
		return nil
	})
	if err != nil {
		return domain.SuccessResult{}, err
	}
	return domain.OK(), nil
}
