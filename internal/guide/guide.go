package guide

import (
	"encoding/json"
	"sort"
)

// Topic documents one protocol command: a one-line summary for listings, a
// markdown body, and a canonical JSON request that passes validation.
type Topic struct {
	Command string          `json:"command"`
	Summary string          `json:"summary"`
	Body    string          `json:"body"`
	Example json.RawMessage `json:"example,omitempty"`
}

var index = make(map[string]Topic, len(topics))

func init() {
	for _, t := range topics {
		index[t.Command] = t
	}
}

// Overview returns the full operation guide as markdown. The console renders
// it with glamour; the status API serves it raw.
func Overview() string {
	return overview
}

// Topics returns every documented command sorted by name.
func Topics() []Topic {
	out := make([]Topic, 0, len(index))
	for _, t := range index {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

// For returns the topic for a single command.
func For(command string) (Topic, bool) {
	t, ok := index[command]
	return t, ok
}

// Example returns the canonical JSON request for a command.
func Example(command string) (json.RawMessage, bool) {
	t, ok := index[command]
	if !ok || len(t.Example) == 0 {
		return nil, false
	}
	return t.Example, true
}

const overview = `# Paint Automation Guide

paintd drives Microsoft Paint the way a person does: it activates the window,
moves the mouse, clicks, drags, and types. There is no drawing API underneath,
so every command translates into real input events against the live window.
That shapes how you should use it.

## Ground rules

- One command at a time. Commands are serialized; a second caller either waits
  or is rejected with a busy error depending on server policy.
- Results are best-effort. The engine cannot read pixels back from the window,
  so a success response means the input sequence completed, not that the canvas
  looks the way you intended. Use save and fetch_image to verify visually.
- Keep the window alone while a batch runs. Moving focus away mid-command can
  break a drag or land keystrokes in the wrong application.

## Session lifecycle

Call connect first. It finds the Paint window (launching Paint if none is
open), activates it, and reports the canvas size. Drawing commands reconnect
automatically if the session was lost, but connect is the cheap way to learn
the canvas dimensions up front. disconnect forgets the session and the
believed tool state; the Paint window stays open.

## Coordinate system

All coordinates are canvas-relative pixels with the origin at the top left of
the drawable area. (0,0) is the canvas corner, not the window corner; the
engine adds the window chrome offsets itself. Coordinates outside the canvas
are rejected with code 1003. Use get_canvas_dimensions to learn the current
bounds before drawing near the edges.

## Colors

Colors are #RRGGBB hex strings, for example #FF0000 for red. The engine picks
the nearest palette entry for common colors and opens the custom color dialog
for everything else. Drawing commands accept an optional color parameter that
sets the color before drawing; without it the current color is kept.

## Tools

pencil draws 1px freehand strokes, brush draws thicker strokes sized by
set_brush_size, fill flood-fills a region, text places a caret for add_text,
eraser erases, select drags a rectangular selection, and shape draws the
preset picked with shape_type (rectangle, ellipse, line, arrow, triangle,
pentagon, hexagon). The engine tracks which tool it believes is active and
skips redundant ribbon clicks; after an error it forgets and re-applies.

## Error codes

    1000 general failure          1008 unsupported Paint version
    1001 Paint window not found   1009 file not found
    1002 operation timed out      1010 path not allowed
    1003 invalid parameters       1011 invalid image format
    1004 invalid color            1012 text input failed
    1005 invalid tool             1013 font selection failed
    1006 invalid shape            1014 transformation failed
    1007 window activation failed 1015 canvas creation failed

## Recipes

### Sketch and save

1. connect
2. create_canvas {"width":800,"height":600}
3. select_tool {"tool":"pencil"}
4. set_color {"color":"#0000FF"}
5. draw_polyline {"points":[{"x":100,"y":300},{"x":200,"y":120},{"x":300,"y":300}]}
6. save {"file_path":"/tmp/sketch.png"}

### Outlined shape with fill color

1. select_tool {"tool":"shape","shape_type":"rectangle"}
2. set_fill {"fill_type":"outline"}
3. set_color {"color":"#00AA00"}
4. draw_shape {"shape_type":"rectangle","start_x":50,"start_y":50,"end_x":250,"end_y":180}

### Reproduce a bitmap

recreate_image decodes the image you send, plans a grid of colored strokes,
and replays them one by one. Expect it to take a while: every stroke is a real
mouse drag. Lower max_detail_level for a faster, coarser result. Progress is
streamed over the event WebSocket as batch_progress events.

## Command reference

Session: connect, activate_window, get_canvas_dimensions, get_version,
disconnect.

Tool state: select_tool, set_color, set_thickness, set_brush_size, set_fill.

Drawing: draw_pixel, draw_line, draw_shape, draw_polyline, add_text.

Selection and canvas: select_region, copy_selection, paste, clear_canvas,
create_canvas.

Files: save, fetch_image.

Transformations: rotate_image, flip_image, scale_image, crop_image,
recreate_image.

Ask for any command by name to get its parameters and a ready-to-send example
request.
`
