package server

import (
	"context"
	"encoding/json"
	"fmt"

	mcp "github.com/metoro-io/mcp-golang"

	domain "github.com/paintmcp/paintd/internal/domain"
	engine "github.com/paintmcp/paintd/internal/engine"
	guide "github.com/paintmcp/paintd/internal/guide"
)

// registerTool exposes one engine command as an MCP tool. The tool response
// is always the wire envelope rendered as text content; command failures go
// into the envelope, not into a JSON-RPC error.
func registerTool[P interface{ Validate() error }](srv *mcp.Server, eng *engine.Engine, name string) error {
	return srv.RegisterTool(name, toolDescription(name), func(args P) (*mcp.ToolResponse, error) {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s arguments: %w", name, err)
		}

		result, execErr := eng.Execute(context.Background(), name, raw)
		envelope := domain.Envelope(result, execErr)
		return mcp.NewToolResponse(mcp.NewTextContent(string(envelope))), nil
	})
}

func toolDescription(name string) string {
	if topic, ok := guide.For(name); ok {
		return topic.Summary
	}
	return name
}

// RegisterTools registers every engine command on the MCP server. Shared by
// the HTTP endpoint and the stdio transport.
func RegisterTools(srv *mcp.Server, eng *engine.Engine) error {
	regs := []func() error{
		func() error { return registerTool[domain.ConnectParams](srv, eng, "connect") },
		func() error { return registerTool[domain.EmptyParams](srv, eng, "activate_window") },
		func() error { return registerTool[domain.EmptyParams](srv, eng, "get_canvas_dimensions") },
		func() error { return registerTool[domain.EmptyParams](srv, eng, "get_version") },
		func() error { return registerTool[domain.EmptyParams](srv, eng, "disconnect") },
		func() error { return registerTool[domain.SelectToolParams](srv, eng, "select_tool") },
		func() error { return registerTool[domain.SetColorParams](srv, eng, "set_color") },
		func() error { return registerTool[domain.SetThicknessParams](srv, eng, "set_thickness") },
		func() error { return registerTool[domain.SetBrushSizeParams](srv, eng, "set_brush_size") },
		func() error { return registerTool[domain.SetFillParams](srv, eng, "set_fill") },
		func() error { return registerTool[domain.DrawPixelParams](srv, eng, "draw_pixel") },
		func() error { return registerTool[domain.DrawLineParams](srv, eng, "draw_line") },
		func() error { return registerTool[domain.DrawShapeParams](srv, eng, "draw_shape") },
		func() error { return registerTool[domain.DrawPolylineParams](srv, eng, "draw_polyline") },
		func() error { return registerTool[domain.AddTextParams](srv, eng, "add_text") },
		func() error { return registerTool[domain.SelectRegionParams](srv, eng, "select_region") },
		func() error { return registerTool[domain.EmptyParams](srv, eng, "copy_selection") },
		func() error { return registerTool[domain.PasteParams](srv, eng, "paste") },
		func() error { return registerTool[domain.EmptyParams](srv, eng, "clear_canvas") },
		func() error { return registerTool[domain.CreateCanvasParams](srv, eng, "create_canvas") },
		func() error { return registerTool[domain.SaveParams](srv, eng, "save") },
		func() error { return registerTool[domain.FetchImageParams](srv, eng, "fetch_image") },
		func() error { return registerTool[domain.RotateImageParams](srv, eng, "rotate_image") },
		func() error { return registerTool[domain.FlipImageParams](srv, eng, "flip_image") },
		func() error { return registerTool[domain.ScaleImageParams](srv, eng, "scale_image") },
		func() error { return registerTool[domain.CropImageParams](srv, eng, "crop_image") },
		func() error { return registerTool[domain.RecreateImageParams](srv, eng, "recreate_image") },
	}
	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}
