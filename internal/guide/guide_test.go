package guide

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintmcp/paintd/internal/domain"
)

// checkAs decodes an example into its parameter struct and validates it.
func checkAs[P interface{ Validate() error }](t *testing.T, raw json.RawMessage) {
	t.Helper()
	var p P
	require.NoError(t, json.Unmarshal(raw, &p))
	require.NoError(t, p.Validate())
}

var exampleChecks = map[string]func(*testing.T, json.RawMessage){
	"connect":               checkAs[domain.ConnectParams],
	"activate_window":       checkAs[domain.EmptyParams],
	"get_canvas_dimensions": checkAs[domain.EmptyParams],
	"get_version":           checkAs[domain.EmptyParams],
	"disconnect":            checkAs[domain.EmptyParams],
	"select_tool":           checkAs[domain.SelectToolParams],
	"set_color":             checkAs[domain.SetColorParams],
	"set_thickness":         checkAs[domain.SetThicknessParams],
	"set_brush_size":        checkAs[domain.SetBrushSizeParams],
	"set_fill":              checkAs[domain.SetFillParams],
	"draw_pixel":            checkAs[domain.DrawPixelParams],
	"draw_line":             checkAs[domain.DrawLineParams],
	"draw_shape":            checkAs[domain.DrawShapeParams],
	"draw_polyline":         checkAs[domain.DrawPolylineParams],
	"add_text":              checkAs[domain.AddTextParams],
	"select_region":         checkAs[domain.SelectRegionParams],
	"copy_selection":        checkAs[domain.EmptyParams],
	"paste":                 checkAs[domain.PasteParams],
	"clear_canvas":          checkAs[domain.EmptyParams],
	"create_canvas":         checkAs[domain.CreateCanvasParams],
	"save":                  checkAs[domain.SaveParams],
	"fetch_image":           checkAs[domain.FetchImageParams],
	"rotate_image":          checkAs[domain.RotateImageParams],
	"flip_image":            checkAs[domain.FlipImageParams],
	"scale_image":           checkAs[domain.ScaleImageParams],
	"crop_image":            checkAs[domain.CropImageParams],
	"recreate_image":        checkAs[domain.RecreateImageParams],
}

func TestTopicsAreSortedAndComplete(t *testing.T) {
	all := Topics()
	require.Len(t, all, len(exampleChecks))

	assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool {
		return all[i].Command < all[j].Command
	}))

	for _, topic := range all {
		assert.Contains(t, exampleChecks, topic.Command)
		assert.NotEmpty(t, topic.Summary, "summary for %s", topic.Command)
		assert.NotEmpty(t, topic.Body, "body for %s", topic.Command)
		assert.True(t, json.Valid(topic.Example), "example for %s", topic.Command)
	}
}

func TestExamplesValidate(t *testing.T) {
	for name, check := range exampleChecks {
		t.Run(name, func(t *testing.T) {
			raw, ok := Example(name)
			require.True(t, ok, "no example for %s", name)
			check(t, raw)
		})
	}
}

func TestOverviewMentionsEveryCommand(t *testing.T) {
	text := Overview()
	require.NotEmpty(t, text)

	for _, topic := range Topics() {
		assert.True(t, strings.Contains(text, topic.Command), "overview omits %s", topic.Command)
	}
}

func TestLookupMiss(t *testing.T) {
	_, ok := For("draw_owl")
	assert.False(t, ok)

	raw, ok := Example("draw_owl")
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestForReturnsTopic(t *testing.T) {
	topic, ok := For("draw_line")
	require.True(t, ok)
	assert.Equal(t, "draw_line", topic.Command)
	assert.Contains(t, topic.Body, "start_x")
}
