package guide

import "encoding/json"

// topics holds one entry per protocol command. Bodies are markdown; examples
// are canonical requests that pass parameter validation as-is.
var topics = []Topic{
	{
		Command: "connect",
		Summary: "Attach to the Paint window and report the canvas size",
		Body: `Finds a running Paint window, launching Paint when none is open, activates
it, and measures the drawable canvas. Returns paint_version along with
canvas_width and canvas_height in pixels. Safe to call again at any time.

- client_id (optional): caller-chosen identifier, echoed into logs
- client_name (optional): human-readable client name`,
		Example: json.RawMessage(`{"client_id":"sketch-agent","client_name":"Sketch Agent"}`),
	},
	{
		Command: "activate_window",
		Summary: "Bring the Paint window back to the foreground",
		Body: `Re-activates the connected Paint window after something else stole focus.
Takes no parameters. Fails with code 1007 when activation cannot be
verified.`,
		Example: json.RawMessage(`{}`),
	},
	{
		Command: "get_canvas_dimensions",
		Summary: "Return the current canvas width and height",
		Body: `Measures the drawable area of the connected window and returns width and
height in pixels. Call it after create_canvas or any transformation to
learn the new bounds.`,
		Example: json.RawMessage(`{}`),
	},
	{
		Command: "get_version",
		Summary: "Report protocol, server, and Paint versions",
		Body: `Returns protocol_version (currently 1.1), server_version, and the detected
paint_version (classic or modern, or unknown without a session). Works
without connecting first.`,
		Example: json.RawMessage(`{}`),
	},
	{
		Command: "disconnect",
		Summary: "Forget the session and the believed tool state",
		Body: `Drops the session handle and resets what the engine believes about the
active tool, color, and sizes. The Paint window stays open. The next
drawing command reconnects automatically.`,
		Example: json.RawMessage(`{}`),
	},
	{
		Command: "select_tool",
		Summary: "Pick the active drawing tool on the ribbon",
		Body: `Clicks the ribbon button for the requested tool.

- tool (required): pencil, brush, fill, text, eraser, select, or shape
- shape_type: required when tool is shape; one of rectangle, ellipse, line,
  arrow, triangle, pentagon, hexagon

The engine remembers the selection and skips the click when the tool is
already believed active.`,
		Example: json.RawMessage(`{"tool":"shape","shape_type":"ellipse"}`),
	},
	{
		Command: "set_color",
		Summary: "Set the active drawing color",
		Body: `Sets the foreground color used by subsequent strokes.

- color (required): #RRGGBB hex string

Common palette colors are clicked directly; anything else goes through the
Edit Colors dialog. Invalid strings fail with code 1004.`,
		Example: json.RawMessage(`{"color":"#FF0000"}`),
	},
	{
		Command: "set_thickness",
		Summary: "Set the stroke thickness level",
		Body: `Picks one of the five thickness presets from the size dropdown.

- level (required): 1 (thinnest) through 5 (thickest)

Applies to the pencil, shapes, and the eraser. For brush width use
set_brush_size instead.`,
		Example: json.RawMessage(`{"level":3}`),
	},
	{
		Command: "set_brush_size",
		Summary: "Set the brush stroke size in pixels",
		Body: `Sets the brush width through the size dropdown.

- size (required): 1 through 30 pixels
- tool: tool the size applies to, defaults to the current tool`,
		Example: json.RawMessage(`{"size":8,"tool":"brush"}`),
	},
	{
		Command: "set_fill",
		Summary: "Set the shape fill mode",
		Body: `Chooses how subsequent shapes are filled.

- fill_type (required): none (outline only), solid, or outline (outline
  plus fill color)`,
		Example: json.RawMessage(`{"fill_type":"solid"}`),
	},
	{
		Command: "draw_pixel",
		Summary: "Draw a single pixel",
		Body: `Switches to the pencil at thickness 1 and clicks one canvas point.

- x, y (required): canvas coordinates
- color: optional #RRGGBB applied first

Slow for bulk work; prefer draw_line or recreate_image for anything bigger
than a handful of pixels.`,
		Example: json.RawMessage(`{"x":120,"y":80,"color":"#000000"}`),
	},
	{
		Command: "draw_line",
		Summary: "Draw a straight stroke between two points",
		Body: `Drags the pencil from start to end in one continuous stroke.

- start_x, start_y, end_x, end_y (required): canvas coordinates
- color: optional #RRGGBB applied first
- thickness: optional level 1-5 applied first`,
		Example: json.RawMessage(`{"start_x":10,"start_y":10,"end_x":200,"end_y":150,"color":"#0000FF","thickness":2}`),
	},
	{
		Command: "draw_shape",
		Summary: "Draw a preset shape across a bounding box",
		Body: `Selects the shape preset and drags its bounding diagonal from start to
end.

- shape_type (required): rectangle, ellipse, line, arrow, triangle,
  pentagon, or hexagon
- start_x, start_y, end_x, end_y (required): bounding box corners
- color: optional #RRGGBB applied first
- thickness: optional level 1-5 applied first
- fill_type: optional none, solid, or outline applied first`,
		Example: json.RawMessage(`{"shape_type":"rectangle","start_x":50,"start_y":50,"end_x":250,"end_y":180,"color":"#00AA00","fill_type":"outline"}`),
	},
	{
		Command: "draw_polyline",
		Summary: "Draw a continuous stroke through ordered points",
		Body: `Presses at the first point, drags through every following point, and
releases at the last. The whole path is one stroke.

- points (required): at least two {"x":..,"y":..} canvas points in order
- color: optional #RRGGBB applied first
- thickness: optional level 1-5 applied first
- tool: optional override, pencil (default) or brush`,
		Example: json.RawMessage(`{"points":[{"x":100,"y":300},{"x":200,"y":120},{"x":300,"y":300}],"color":"#AA00AA"}`),
	},
	{
		Command: "add_text",
		Summary: "Type text onto the canvas",
		Body: `Selects the text tool, clicks the anchor point, optionally applies font
settings through the font dialog, types the text, and clicks away to
commit it.

- x, y (required): anchor for the top-left of the text box
- text (required): the text to type
- color: optional #RRGGBB applied first
- font_name: optional font family
- font_size: optional size in points
- font_style: optional regular, bold, italic, or bold_italic

Font dialog failures report code 1013; typing failures report 1012.`,
		Example: json.RawMessage(`{"x":120,"y":80,"text":"Hello","font_name":"Arial","font_size":24,"font_style":"bold"}`),
	},
	{
		Command: "select_region",
		Summary: "Drag a rectangular selection",
		Body: `Switches to the select tool and drags a rectangle from start to end. The
selection stays active for copy_selection or a following crop.

- start_x, start_y, end_x, end_y (required): canvas coordinates`,
		Example: json.RawMessage(`{"start_x":0,"start_y":0,"end_x":199,"end_y":149}`),
	},
	{
		Command: "copy_selection",
		Summary: "Copy the current selection to the clipboard",
		Body: `Sends ctrl+c for the active selection. Make a selection with
select_region first; copying with nothing selected copies nothing.`,
		Example: json.RawMessage(`{}`),
	},
	{
		Command: "paste",
		Summary: "Paste clipboard content at a canvas point",
		Body: `Clicks the target point and sends ctrl+v. When image_base64 is provided
the decoded PNG is placed on the system clipboard first, so you can paste
arbitrary images without copying inside Paint.

- x, y (required): paste anchor
- image_base64: optional PNG bytes, base64 encoded`,
		Example: json.RawMessage(`{"x":300,"y":200}`),
	},
	{
		Command: "clear_canvas",
		Summary: "Select everything and delete it",
		Body: `Sends ctrl+a followed by delete, leaving a blank canvas at the current
size. Not undoable through this interface.`,
		Example: json.RawMessage(`{}`),
	},
	{
		Command: "create_canvas",
		Summary: "Start a new canvas with given dimensions",
		Body: `Opens a new document, discarding unsaved changes, and resizes it through
the properties dialog.

- width, height (required): new canvas size in pixels
- background_color: optional #RRGGBB; fills the fresh canvas with the
  fill tool

Failures report code 1015.`,
		Example: json.RawMessage(`{"width":1024,"height":768,"background_color":"#FFFFFF"}`),
	},
	{
		Command: "save",
		Summary: "Save the canvas to a file",
		Body: `Drives the Save As dialog to write the canvas to disk.

- file_path (required): absolute destination path
- format: optional png, jpeg, or bmp; when the path has no recognized
  extension one is appended to match

Paths outside the allowed directories fail with code 1010. The response
echoes the resolved file_path.`,
		Example: json.RawMessage(`{"file_path":"/tmp/drawing.png","format":"png"}`),
	},
	{
		Command: "fetch_image",
		Summary: "Read a saved image back with metadata",
		Body: `Reads an image file from disk and returns its format, width, height, and
base64 data. Works without a Paint session; use it to verify what a save
or recreate_image actually produced.

- file_path (required): absolute path of the image

Missing files report 1009, disallowed paths 1010, undecodable data 1011.`,
		Example: json.RawMessage(`{"file_path":"/tmp/drawing.png"}`),
	},
	{
		Command: "rotate_image",
		Summary: "Rotate the whole canvas image",
		Body: `Rotates the full canvas through the ribbon rotate menu and adjusts the
document dimensions to match.

- degrees (required): 90, 180, or 270
- clockwise: optional direction, defaults to true

90 and 270 degree rotations swap the canvas width and height.`,
		Example: json.RawMessage(`{"degrees":90,"clockwise":true}`),
	},
	{
		Command: "flip_image",
		Summary: "Mirror the whole canvas image",
		Body: `Flips the full canvas through the ribbon rotate menu.

- direction (required): horizontal (left-right) or vertical (top-bottom)`,
		Example: json.RawMessage(`{"direction":"horizontal"}`),
	},
	{
		Command: "scale_image",
		Summary: "Resize the canvas image",
		Body: `Resizes the image through the resize dialog. Give either a percentage or
target dimensions.

- percentage: uniform scale, e.g. 50 halves the image; wins over width and
  height when both are present
- width, height: target size in pixels; when only one is given the other
  is derived from the current aspect ratio
- maintain_aspect_ratio: defaults to true; with both dimensions set, true
  recomputes height from width`,
		Example: json.RawMessage(`{"percentage":50}`),
	},
	{
		Command: "crop_image",
		Summary: "Crop the canvas to a rectangle",
		Body: `Selects the rectangle and crops the canvas to it.

- start_x, start_y (required): top-left corner of the crop
- width, height (required): crop size in pixels

The rectangle must lie inside the current canvas.`,
		Example: json.RawMessage(`{"start_x":10,"start_y":10,"width":200,"height":100}`),
	},
	{
		Command: "recreate_image",
		Summary: "Redraw a provided bitmap stroke by stroke",
		Body: `Decodes the image, plans a grid of colored strokes, and replays them on
the canvas as real mouse input. Runs as a batch job with progress events
on the WebSocket; expect minutes for detailed images.

- image_base64 (required): source image bytes, base64 PNG, JPEG, or BMP
- output_filename: optional path to save the result to afterwards
- max_detail_level: 1-200, default 100; higher means a finer grid and more
  strokes

A mid-batch failure reports 1014 with the number of strokes completed.
There is no rollback; clear_canvas and retry.`,
		Example: json.RawMessage(`{"image_base64":"iVBORw0KGgoAAAANSUhEUgAA...","output_filename":"/tmp/recreated.png","max_detail_level":100}`),
	},
}
