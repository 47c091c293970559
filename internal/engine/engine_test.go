package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintmcp/paintd/config"
	"github.com/paintmcp/paintd/internal/dialog"
	"github.com/paintmcp/paintd/internal/display"
	"github.com/paintmcp/paintd/internal/display/displaytest"
	"github.com/paintmcp/paintd/internal/domain"
	"github.com/paintmcp/paintd/internal/geometry"
	"github.com/paintmcp/paintd/internal/input"
	"github.com/paintmcp/paintd/internal/journal"
	"github.com/paintmcp/paintd/internal/logger"
	"github.com/paintmcp/paintd/internal/planner"
	"github.com/paintmcp/paintd/internal/session"
	"github.com/paintmcp/paintd/internal/toolstate"
	"github.com/paintmcp/paintd/internal/utils"
)

var paintWindow = display.WindowInfo{ID: 7, PID: 4242, Title: "Untitled - Paint", Class: "MSPaintApp"}

// prober answers every visibility probe with a fixed result
type prober struct {
	visible bool
	confirm bool
}

func (p *prober) DialogVisible(ctx context.Context, kind dialog.Kind) (bool, error) {
	if kind == dialog.KindConfirm {
		return p.confirm, nil
	}
	return p.visible, nil
}

// fastConfig strips every wait so command flows run instantly
func fastConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Engine.CommandTimeoutSeconds = 10
	cfg.Engine.BatchTimeoutSeconds = 10
	cfg.Input = config.InputConfig{DragSteps: 3}
	cfg.Session = config.SessionConfig{
		ProcessName:          "mspaint",
		LaunchCommand:        []string{"mspaint.exe"},
		WindowClasses:        []string{"MSPaintApp"},
		WindowTitles:         []string{"Paint"},
		LaunchInitialWaitMs:  0,
		LaunchPollIntervalMs: 0,
		LaunchPollMax:        3,
		ActivationSettleMs:   []int{0, 0, 0},
		RaiseFallbackMs:      0,
		VerifyDelayMs:        0,
		MaximizeOnConnect:    false,
	}
	cfg.Dialogs = config.DialogsConfig{VisibilityTimeoutMs: 50, PollIntervalMs: 1, SettleMs: 0}
	cfg.Guard = config.GuardConfig{}
	return cfg
}

type rig struct {
	engine *Engine
	fake   *displaytest.FakeController
	mem    *journal.Memory
	canvas geometry.Rect
}

func newRig(t *testing.T, probe dialog.Prober) *rig {
	t.Helper()

	fake := displaytest.NewFakeController()
	fake.SetWindows(paintWindow)
	fake.SetBounds(paintWindow.ID, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})

	cfg := fastConfig()
	sim := input.NewSimulator(fake, cfg.Input)
	guard, err := utils.NewPathGuard(cfg.Guard)
	require.NoError(t, err)
	mem := journal.NewMemory(128)

	eng := New(Deps{
		Config:     cfg,
		Controller: fake,
		Sessions:   session.NewManager(fake, cfg.Session),
		Simulator:  sim,
		Tracker:    toolstate.NewTracker(),
		Dialogs:    dialog.NewController(sim, probe, cfg.Dialogs),
		Planner:    planner.New(cfg.Planner),
		Guard:      guard,
		Journal:    mem,
	})

	return &rig{
		engine: eng,
		fake:   fake,
		mem:    mem,
		canvas: geometry.CanvasRectFromWindow(geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, 1.0),
	}
}

func (r *rig) exec(t *testing.T, command string, params any) (any, error) {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		require.NoError(t, err)
		raw = b
	}
	return r.engine.Execute(context.Background(), command, raw)
}

func combosOf(fake *displaytest.FakeController) []string {
	var out []string
	for _, e := range fake.EventsOfKind("key") {
		out = append(out, e.Combo)
	}
	return out
}

func typedOf(fake *displaytest.FakeController) []string {
	var out []string
	for _, e := range fake.EventsOfKind("type") {
		out = append(out, e.Text)
	}
	return out
}

// canvasPresses returns the presses landing inside the drawing area
func (r *rig) canvasPresses() []displaytest.Event {
	var out []displaytest.Event
	for _, e := range r.fake.EventsOfKind("press") {
		if r.canvas.Contains(domain.Point{X: e.X, Y: e.Y}) {
			out = append(out, e)
		}
	}
	return out
}

// toolRowPresses returns the presses on the toolbar button row
func (r *rig) toolRowPresses() []displaytest.Event {
	var out []displaytest.Event
	for _, e := range r.fake.EventsOfKind("press") {
		if e.Y == toolRowOffsetY {
			out = append(out, e)
		}
	}
	return out
}

func pngPayload(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// twoColorStrip is a 4x1 bitmap: two red pixels then two blue ones.
// At default detail this plans exactly one segment per color.
func twoColorStrip() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 2; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	for x := 2; x < 4; x++ {
		img.Set(x, 0, color.RGBA{B: 255, A: 255})
	}
	return img
}

func TestConnectReportsDocument(t *testing.T) {
	r := newRig(t, &prober{})

	res, err := r.exec(t, "connect", domain.ConnectParams{ClientName: "test-suite"})
	require.NoError(t, err)

	conn, ok := res.(domain.ConnectResult)
	require.True(t, ok)
	assert.Equal(t, domain.StatusSuccess, conn.Status)
	assert.Equal(t, "classic", conn.PaintVersion)
	assert.Equal(t, r.canvas.Width, conn.CanvasWidth)
	assert.Equal(t, r.canvas.Height, conn.CanvasHeight)
	assert.Equal(t, session.StateReady, r.engine.sessions.State())
}

func TestUnknownCommand(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "draw_owl", nil)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidParameters, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "unknown command")
}

func TestValidationRunsBeforeSession(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "set_color", map[string]any{"color": "red"})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidColor, domain.CodeOf(err))

	// bad parameters must not have launched or touched anything
	assert.Empty(t, r.fake.Events())
	assert.Equal(t, session.StateDisconnected, r.engine.sessions.State())
}

func TestCommandsNeverInterleave(t *testing.T) {
	r := newRig(t, &prober{})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		raw, err := json.Marshal(domain.DrawPixelParams{X: 10 * i, Y: 20})
		require.NoError(t, err)

		wg.Add(1)
		go func(raw json.RawMessage) {
			defer wg.Done()
			_, execErr := r.engine.Execute(context.Background(), "draw_pixel", raw)
			assert.NoError(t, execErr)
		}(raw)
	}
	wg.Wait()

	// A mouse button held by one command must be released before any
	// other command presses.
	depth := 0
	for _, ev := range r.fake.Events() {
		switch ev.Kind {
		case "press":
			depth++
			assert.LessOrEqual(t, depth, 1, "interleaved press")
		case "release":
			depth--
		}
	}
	assert.Zero(t, depth)
}

func TestDrawLineIsOneStroke(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "select_tool", domain.SelectToolParams{Tool: "pencil"})
	require.NoError(t, err)
	r.fake.ResetEvents()

	_, err = r.exec(t, "draw_line", domain.DrawLineParams{StartX: 10, StartY: 10, EndX: 50, EndY: 60})
	require.NoError(t, err)

	presses := r.fake.EventsOfKind("press")
	releases := r.fake.EventsOfKind("release")
	require.Len(t, presses, 1, "a line is exactly one stroke")
	require.Len(t, releases, 1)

	assert.Equal(t, r.canvas.X+10, presses[0].X)
	assert.Equal(t, r.canvas.Y+10, presses[0].Y)
	assert.Equal(t, r.canvas.X+50, releases[0].X)
	assert.Equal(t, r.canvas.Y+60, releases[0].Y)
}

func TestCreateCanvasAppliesDimensions(t *testing.T) {
	r := newRig(t, &prober{visible: true, confirm: true})

	res, err := r.exec(t, "create_canvas", domain.CreateCanvasParams{Width: 1024, Height: 768})
	require.NoError(t, err)

	created, ok := res.(domain.CreateCanvasResult)
	require.True(t, ok)
	assert.Equal(t, 1024, created.CanvasWidth)
	assert.Equal(t, 768, created.CanvasHeight)

	res, err = r.exec(t, "get_canvas_dimensions", nil)
	require.NoError(t, err)
	dims := res.(domain.CanvasDimensionsResult)
	assert.Equal(t, 1024, dims.Width)
	assert.Equal(t, 768, dims.Height)

	combos := combosOf(r.fake)
	assert.Contains(t, combos, "ctrl+n")
	assert.Contains(t, combos, "ctrl+e")
	assert.Equal(t, []string{"1024", "768"}, typedOf(r.fake))
}

func TestStalledDialogLeavesSessionUsable(t *testing.T) {
	r := newRig(t, &prober{visible: false})

	_, err := r.exec(t, "select_tool", domain.SelectToolParams{Tool: "pencil"})
	require.NoError(t, err)
	require.Len(t, r.toolRowPresses(), 1)

	_, err = r.exec(t, "scale_image", domain.ScaleImageParams{Width: 800, Height: 600})
	require.Error(t, err)
	assert.Equal(t, domain.CodeOperationTimeout, domain.CodeOf(err))

	combos := combosOf(r.fake)
	require.NotEmpty(t, combos)
	assert.Equal(t, "esc", combos[len(combos)-1], "a stalled dialog must be escaped")
	assert.Equal(t, session.StateReady, r.engine.sessions.State())
	assert.False(t, r.engine.tracker.Believed().Certain)

	// Uncertainty forces the next tool use to re-assert instead of
	// trusting the old belief.
	_, err = r.exec(t, "select_tool", domain.SelectToolParams{Tool: "pencil"})
	require.NoError(t, err)
	assert.Len(t, r.toolRowPresses(), 2)
}

func TestBusyPolicyReject(t *testing.T) {
	r := newRig(t, &prober{})
	r.engine.cfg.Engine.BusyPolicy = "reject"
	r.fake.SetWindows() // no window yet, connect must launch

	started := make(chan struct{})
	release := make(chan struct{})
	r.engine.sessions.SetLauncher(func(ctx context.Context, command []string) error {
		close(started)
		<-release
		r.fake.SetWindows(paintWindow)
		return nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := r.engine.Execute(context.Background(), "connect", nil)
		done <- err
	}()

	<-started
	_, err := r.exec(t, "get_version", nil)
	require.Error(t, err)
	assert.Equal(t, domain.CodeGeneral, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "busy")

	close(release)
	require.NoError(t, <-done)
}

func TestRotateSwapsDocumentDimensions(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "connect", nil)
	require.NoError(t, err)
	r.fake.ResetEvents()

	_, err = r.exec(t, "rotate_image", domain.RotateImageParams{Degrees: 90})
	require.NoError(t, err)

	res, err := r.exec(t, "get_canvas_dimensions", nil)
	require.NoError(t, err)
	dims := res.(domain.CanvasDimensionsResult)
	assert.Equal(t, r.canvas.Height, dims.Width)
	assert.Equal(t, r.canvas.Width, dims.Height)

	combos := combosOf(r.fake)
	assert.Contains(t, combos, "ctrl+a")
	assert.Contains(t, combos, "alt+h")
	assert.Equal(t, []string{"ro"}, typedOf(r.fake))
	assert.Equal(t, "esc", combos[len(combos)-1])
}

func TestFlipWalksMenuWithoutResizing(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "connect", nil)
	require.NoError(t, err)

	_, err = r.exec(t, "flip_image", domain.FlipImageParams{Direction: "vertical"})
	require.NoError(t, err)

	downs := 0
	for _, combo := range combosOf(r.fake) {
		if combo == "down" {
			downs++
		}
	}
	assert.Equal(t, flipVertical+1, downs)

	res, err := r.exec(t, "get_canvas_dimensions", nil)
	require.NoError(t, err)
	dims := res.(domain.CanvasDimensionsResult)
	assert.Equal(t, r.canvas.Width, dims.Width)
	assert.Equal(t, r.canvas.Height, dims.Height)
}

func TestClearCanvasSequence(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "clear_canvas", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl+a", "delete"}, combosOf(r.fake))
}

func TestCropShrinksDocument(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "crop_image", domain.CropImageParams{StartX: 10, StartY: 10, Width: 200, Height: 100})
	require.NoError(t, err)
	assert.Contains(t, combosOf(r.fake), "ctrl+shift+x")

	res, err := r.exec(t, "get_canvas_dimensions", nil)
	require.NoError(t, err)
	dims := res.(domain.CanvasDimensionsResult)
	assert.Equal(t, 200, dims.Width)
	assert.Equal(t, 100, dims.Height)
}

func TestPasteClicksTargetFirst(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "connect", nil)
	require.NoError(t, err)
	r.fake.ResetEvents()

	_, err = r.exec(t, "paste", domain.PasteParams{X: 30, Y: 40})
	require.NoError(t, err)

	presses := r.fake.EventsOfKind("press")
	require.Len(t, presses, 1)
	assert.Equal(t, r.canvas.X+30, presses[0].X)
	assert.Equal(t, r.canvas.Y+40, presses[0].Y)
	assert.Equal(t, []string{"ctrl+v"}, combosOf(r.fake))
}

func TestAddTextTypesThroughFontDialog(t *testing.T) {
	r := newRig(t, &prober{visible: true})

	_, err := r.exec(t, "add_text", domain.AddTextParams{
		X: 100, Y: 100, Text: "Hi",
		FontName: "Arial", FontSize: 24, FontStyle: "bold",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Arial", "24", "Hi"}, typedOf(r.fake))
	combos := combosOf(r.fake)
	assert.Contains(t, combos, "ctrl+f")
	assert.Contains(t, combos, "ctrl+b")
	assert.NotContains(t, combos, "ctrl+i")

	// anchor click plus the commit click away from the text box
	assert.Len(t, r.canvasPresses(), 2)
}

func TestSaveResolvesExtension(t *testing.T) {
	r := newRig(t, &prober{visible: true})
	target := filepath.Join(t.TempDir(), "drawing")

	res, err := r.exec(t, "save", domain.SaveParams{FilePath: target, Format: "jpeg"})
	require.NoError(t, err)

	saved, ok := res.(domain.SaveResult)
	require.True(t, ok)
	assert.Equal(t, target+".jpg", saved.FilePath)
	assert.Contains(t, typedOf(r.fake), target+".jpg")
	assert.Contains(t, combosOf(r.fake), "f12")
}

func TestSaveOutsideGuardRoot(t *testing.T) {
	r := newRig(t, &prober{visible: true})
	guard, err := utils.NewPathGuard(config.GuardConfig{Enabled: true, Root: t.TempDir()})
	require.NoError(t, err)
	r.engine.guard = guard

	_, err = r.exec(t, "save", domain.SaveParams{FilePath: "/tmp/elsewhere/out.png"})
	require.Error(t, err)
	assert.Equal(t, domain.CodePermissionDenied, domain.CodeOf(err))
	assert.Empty(t, r.fake.EventsOfKind("key"), "guard failures must precede any UI work")
}

func TestFetchImageRoundTrip(t *testing.T) {
	r := newRig(t, &prober{})
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	res, err := r.exec(t, "fetch_image", domain.FetchImageParams{FilePath: path})
	require.NoError(t, err)

	fetched, ok := res.(domain.FetchImageResult)
	require.True(t, ok)
	assert.Equal(t, "png", fetched.Format)
	assert.Equal(t, 3, fetched.Width)
	assert.Equal(t, 2, fetched.Height)

	decoded, err := base64.StdEncoding.DecodeString(fetched.ImageBase64)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), decoded)

	// a pure filesystem read needs no window
	assert.Equal(t, session.StateDisconnected, r.engine.sessions.State())

	_, err = r.exec(t, "fetch_image", domain.FetchImageParams{FilePath: filepath.Join(dir, "missing.png")})
	require.Error(t, err)
	assert.Equal(t, domain.CodeFileNotFound, domain.CodeOf(err))
}

func TestRecreateImageReplaysPlan(t *testing.T) {
	r := newRig(t, &prober{})

	ch, cancel := r.engine.Events().Subscribe(16)
	defer cancel()

	res, err := r.exec(t, "recreate_image", domain.RecreateImageParams{ImageBase64: pngPayload(t, twoColorStrip())})
	require.NoError(t, err)

	out, ok := res.(domain.RecreateImageResult)
	require.True(t, ok)
	assert.Equal(t, domain.StatusSuccess, out.Status)
	assert.Equal(t, 2, out.PrimitivesTotal)
	assert.Equal(t, 2, out.ColorsUsed)
	assert.NotEmpty(t, out.JobID)
	assert.Empty(t, out.OutputPath)

	// one stroke per planned segment
	assert.Len(t, r.canvasPresses(), 2)

	var progress []Event
drain:
	for {
		select {
		case ev := <-ch:
			if ev.Kind == EventBatchProgress {
				progress = append(progress, ev)
			}
		default:
			break drain
		}
	}
	require.NotEmpty(t, progress)
	last := progress[len(progress)-1]
	assert.Equal(t, out.JobID, last.JobID)
	assert.Equal(t, 2, last.Done)
	assert.Equal(t, 2, last.Total)

	// journaling runs off the critical path
	assert.Eventually(t, func() bool {
		entries, listErr := r.mem.List(context.Background(), 10, 0)
		return listErr == nil && len(entries) == 1 &&
			entries[0].Command == "recreate_image" && entries[0].Outcome == journal.OutcomeOK
	}, time.Second, 10*time.Millisecond)
}

func TestRecreateFailureReportsBatchPosition(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "connect", nil)
	require.NoError(t, err)
	r.fake.FailOn["press"] = errors.New("injection refused")

	_, err = r.exec(t, "recreate_image", domain.RecreateImageParams{ImageBase64: pngPayload(t, twoColorStrip())})
	require.Error(t, err)
	assert.Equal(t, domain.CodeTransformationFailed, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "after 0 of 2")
	assert.False(t, r.engine.tracker.Believed().Certain)
}

func TestRecreateBatchLogsScopedFields(t *testing.T) {
	r := newRig(t, &prober{})

	ctx, logs := logger.TestContext()
	raw, err := json.Marshal(domain.RecreateImageParams{ImageBase64: pngPayload(t, twoColorStrip())})
	require.NoError(t, err)

	_, err = r.engine.Execute(ctx, "recreate_image", raw)
	require.NoError(t, err)

	started := logs.FilterMessage("recreation batch started").All()
	require.Len(t, started, 1)
	fields := started[0].ContextMap()
	assert.Equal(t, "recreate_image", fields["command"])
	assert.NotEmpty(t, fields["job_id"])
	assert.EqualValues(t, 2, fields["primitives"])

	assert.Equal(t, 1, logs.FilterMessage("recreation batch finished").Len())
}

func TestDisconnectForgetsBelievedState(t *testing.T) {
	r := newRig(t, &prober{})

	_, err := r.exec(t, "select_tool", domain.SelectToolParams{Tool: "brush"})
	require.NoError(t, err)
	assert.Equal(t, domain.ToolBrush, r.engine.tracker.Believed().Tool)

	_, err = r.exec(t, "disconnect", nil)
	require.NoError(t, err)
	assert.Equal(t, session.StateDisconnected, r.engine.sessions.State())
	believed := r.engine.tracker.Believed()
	assert.Equal(t, domain.ToolPencil, believed.Tool)
	assert.False(t, believed.Certain)

	// the next drawing command reattaches on its own
	_, err = r.exec(t, "draw_pixel", domain.DrawPixelParams{X: 5, Y: 5})
	require.NoError(t, err)
	assert.Equal(t, session.StateReady, r.engine.sessions.State())
}

func TestGetVersionWithoutSession(t *testing.T) {
	r := newRig(t, &prober{})

	res, err := r.exec(t, "get_version", nil)
	require.NoError(t, err)

	v, ok := res.(domain.VersionResult)
	require.True(t, ok)
	assert.Equal(t, domain.ProtocolVersion, v.ProtocolVersion)
	assert.Equal(t, "dev", v.ServerVersion)
	assert.Equal(t, "unknown", v.PaintVersion)
	assert.Empty(t, r.fake.Events())
}

func TestResolveScale(t *testing.T) {
	tests := []struct {
		name   string
		params domain.ScaleImageParams
		wantH  int
		wantV  int
		wantW  int
		wantHt int
		pct    bool
	}{
		{
			name:   "percentage wins",
			params: domain.ScaleImageParams{Percentage: 50},
			wantH:  50, wantV: 50, wantW: 800, wantHt: 450, pct: true,
		},
		{
			name:   "width derives height",
			params: domain.ScaleImageParams{Width: 800},
			wantH:  800, wantV: 450, wantW: 800, wantHt: 450,
		},
		{
			name:   "height derives width",
			params: domain.ScaleImageParams{Height: 450},
			wantH:  800, wantV: 450, wantW: 800, wantHt: 450,
		},
		{
			name:   "both with aspect keeps width",
			params: domain.ScaleImageParams{Width: 800, Height: 999},
			wantH:  800, wantV: 450, wantW: 800, wantHt: 450,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, w, h, err := resolveScale(tt.params, 1600, 900)
			require.NoError(t, err)
			assert.Equal(t, tt.wantH, opts.Horizontal)
			assert.Equal(t, tt.wantV, opts.Vertical)
			assert.Equal(t, tt.pct, opts.Percent)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantHt, h)
		})
	}

	free := false
	opts, w, h, err := resolveScale(domain.ScaleImageParams{Width: 800, Height: 999, MaintainAspectRatio: &free}, 1600, 900)
	require.NoError(t, err)
	assert.Equal(t, 999, opts.Vertical)
	assert.Equal(t, 800, w)
	assert.Equal(t, 999, h)
}

func TestResolveSavePath(t *testing.T) {
	assert.Equal(t, "/tmp/a.png", resolveSavePath("/tmp/a.png", ""))
	assert.Equal(t, "/tmp/a.png", resolveSavePath("/tmp/a.png", "jpeg"), "an explicit extension is kept")
	assert.Equal(t, "/tmp/a.png", resolveSavePath("/tmp/a", ""))
	assert.Equal(t, "/tmp/a.jpg", resolveSavePath("/tmp/a", "jpeg"))
	assert.Equal(t, "/tmp/a.bmp", resolveSavePath("/tmp/a", "bmp"))
	assert.Equal(t, "/tmp/a.note.png", resolveSavePath("/tmp/a.note", ""))
}
