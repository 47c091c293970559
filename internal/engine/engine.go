// Package engine dispatches protocol commands against the attached
// target application. Validation happens before any session work; one
// mutex serializes every command so synthetic input streams never
// interleave.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	zap "go.uber.org/zap"

	config "github.com/paintmcp/paintd/config"
	clipboard "github.com/paintmcp/paintd/internal/clipboard"
	dialog "github.com/paintmcp/paintd/internal/dialog"
	display "github.com/paintmcp/paintd/internal/display"
	domain "github.com/paintmcp/paintd/internal/domain"
	input "github.com/paintmcp/paintd/internal/input"
	journal "github.com/paintmcp/paintd/internal/journal"
	logger "github.com/paintmcp/paintd/internal/logger"
	planner "github.com/paintmcp/paintd/internal/planner"
	session "github.com/paintmcp/paintd/internal/session"
	toolstate "github.com/paintmcp/paintd/internal/toolstate"
	utils "github.com/paintmcp/paintd/internal/utils"
)

// Deps bundles the engine's collaborators. Everything is required
// except Journal, which falls back to a no-op sink.
type Deps struct {
	Config     *config.Config
	Controller display.Controller
	Sessions   *session.Manager
	Simulator  *input.Simulator
	Tracker    *toolstate.Tracker
	Dialogs    *dialog.Controller
	Planner    *planner.Planner
	Guard      *utils.PathGuard
	Journal    journal.Journal

	// ServerVersion is reported by get_version
	ServerVersion string
}

// runner pairs a command's parameter decoding with its execution
type runner struct {
	parse func(raw json.RawMessage) (any, error)
	run   func(ctx context.Context, params any) (any, error)
}

// Engine executes protocol commands. One engine per process.
type Engine struct {
	cfg      *config.Config
	ctrl     display.Controller
	sessions *session.Manager
	sim      *input.Simulator
	tracker  *toolstate.Tracker
	dialogs  *dialog.Controller
	plans    *planner.Planner
	guard    *utils.PathGuard
	journal  journal.Journal
	events   *Broadcaster

	serverVersion  string
	clipboardReady bool

	// mu is the single execution slot; see the busy policy in Execute
	mu       sync.Mutex
	registry map[string]runner

	// lastSession detects reattachment, which resets believed tool state
	lastSession string
}

// New wires an engine from its collaborators
func New(deps Deps) *Engine {
	j := deps.Journal
	if j == nil {
		j = journal.NewNoop()
	}
	version := deps.ServerVersion
	if version == "" {
		version = "dev"
	}

	e := &Engine{
		cfg:           deps.Config,
		ctrl:          deps.Controller,
		sessions:      deps.Sessions,
		sim:           deps.Simulator,
		tracker:       deps.Tracker,
		dialogs:       deps.Dialogs,
		plans:         deps.Planner,
		guard:         deps.Guard,
		journal:       j,
		events:        NewBroadcaster(),
		serverVersion: version,
		registry:      make(map[string]runner),
	}
	if err := clipboard.Init(); err != nil {
		logger.Debug("system clipboard unavailable", "error", err)
	} else {
		e.clipboardReady = true
	}
	e.registerAll()
	return e
}

// Events exposes the engine's progress stream
func (e *Engine) Events() *Broadcaster {
	return e.events
}

// Tracker exposes the believed tool state for the status API
func (e *Engine) Tracker() *toolstate.Tracker {
	return e.tracker
}

// Sessions exposes the session manager for the status API
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Journal exposes the command journal for the history API
func (e *Engine) Journal() journal.Journal {
	return e.journal
}

// Commands returns the registered command names, sorted
func (e *Engine) Commands() []string {
	names := make([]string, 0, len(e.registry))
	for name := range e.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// register binds a command name to a typed handler. Parameters are
// decoded and validated before the handler or any session work runs.
func register[P interface{ Validate() error }](e *Engine, name string, run func(ctx context.Context, p P) (any, error)) {
	e.registry[name] = runner{
		parse: func(raw json.RawMessage) (any, error) {
			var p P
			if len(raw) > 0 && string(raw) != "null" {
				if err := json.Unmarshal(raw, &p); err != nil {
					return nil, domain.ErrInvalidParameters("malformed parameters for %s: %v", name, err)
				}
			}
			if err := p.Validate(); err != nil {
				return nil, err
			}
			return p, nil
		},
		run: func(ctx context.Context, params any) (any, error) {
			return run(ctx, params.(P))
		},
	}
}

func (e *Engine) registerAll() {
	register(e, "connect", func(ctx context.Context, p domain.ConnectParams) (any, error) {
		return e.Connect(ctx, p)
	})
	register(e, "activate_window", func(ctx context.Context, _ domain.EmptyParams) (any, error) {
		return e.ActivateWindow(ctx)
	})
	register(e, "get_canvas_dimensions", func(ctx context.Context, _ domain.EmptyParams) (any, error) {
		return e.GetCanvasDimensions(ctx)
	})
	register(e, "get_version", func(ctx context.Context, _ domain.EmptyParams) (any, error) {
		return e.GetVersion(ctx)
	})
	register(e, "disconnect", func(ctx context.Context, _ domain.EmptyParams) (any, error) {
		return e.Disconnect(ctx)
	})
	register(e, "select_tool", func(ctx context.Context, p domain.SelectToolParams) (any, error) {
		return e.SelectTool(ctx, p)
	})
	register(e, "set_color", func(ctx context.Context, p domain.SetColorParams) (any, error) {
		return e.SetColor(ctx, p)
	})
	register(e, "set_thickness", func(ctx context.Context, p domain.SetThicknessParams) (any, error) {
		return e.SetThickness(ctx, p)
	})
	register(e, "set_brush_size", func(ctx context.Context, p domain.SetBrushSizeParams) (any, error) {
		return e.SetBrushSize(ctx, p)
	})
	register(e, "set_fill", func(ctx context.Context, p domain.SetFillParams) (any, error) {
		return e.SetFill(ctx, p)
	})
	register(e, "draw_pixel", func(ctx context.Context, p domain.DrawPixelParams) (any, error) {
		return e.DrawPixel(ctx, p)
	})
	register(e, "draw_line", func(ctx context.Context, p domain.DrawLineParams) (any, error) {
		return e.DrawLine(ctx, p)
	})
	register(e, "draw_shape", func(ctx context.Context, p domain.DrawShapeParams) (any, error) {
		return e.DrawShape(ctx, p)
	})
	register(e, "draw_polyline", func(ctx context.Context, p domain.DrawPolylineParams) (any, error) {
		return e.DrawPolyline(ctx, p)
	})
	register(e, "add_text", func(ctx context.Context, p domain.AddTextParams) (any, error) {
		return e.AddText(ctx, p)
	})
	register(e, "select_region", func(ctx context.Context, p domain.SelectRegionParams) (any, error) {
		return e.SelectRegion(ctx, p)
	})
	register(e, "copy_selection", func(ctx context.Context, _ domain.EmptyParams) (any, error) {
		return e.CopySelection(ctx)
	})
	register(e, "paste", func(ctx context.Context, p domain.PasteParams) (any, error) {
		return e.Paste(ctx, p)
	})
	register(e, "clear_canvas", func(ctx context.Context, _ domain.EmptyParams) (any, error) {
		return e.ClearCanvas(ctx)
	})
	register(e, "create_canvas", func(ctx context.Context, p domain.CreateCanvasParams) (any, error) {
		return e.CreateCanvas(ctx, p)
	})
	register(e, "save", func(ctx context.Context, p domain.SaveParams) (any, error) {
		return e.Save(ctx, p)
	})
	register(e, "fetch_image", func(ctx context.Context, p domain.FetchImageParams) (any, error) {
		return e.FetchImage(ctx, p)
	})
	register(e, "rotate_image", func(ctx context.Context, p domain.RotateImageParams) (any, error) {
		return e.RotateImage(ctx, p)
	})
	register(e, "flip_image", func(ctx context.Context, p domain.FlipImageParams) (any, error) {
		return e.FlipImage(ctx, p)
	})
	register(e, "scale_image", func(ctx context.Context, p domain.ScaleImageParams) (any, error) {
		return e.ScaleImage(ctx, p)
	})
	register(e, "crop_image", func(ctx context.Context, p domain.CropImageParams) (any, error) {
		return e.CropImage(ctx, p)
	})
	register(e, "recreate_image", func(ctx context.Context, p domain.RecreateImageParams) (any, error) {
		return e.RecreateImage(ctx, p)
	})
}

// Execute runs one named command with raw JSON parameters. Unknown
// names and invalid parameters fail without touching the session or
// the execution slot.
func (e *Engine) Execute(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	cmd, ok := e.registry[name]
	if !ok {
		return nil, domain.ErrInvalidParameters("unknown command: %s", name)
	}

	params, err := cmd.parse(raw)
	if err != nil {
		return nil, err
	}

	if err := e.acquireSlot(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.commandTimeout(name))
	defer cancel()
	ctx = logger.With(ctx, zap.String("command", name))

	e.events.Publish(Event{Kind: EventCommandStarted, Command: name})
	logger.Debug("executing command", "command", name)

	started := time.Now()
	result, err := cmd.run(ctx, params)
	err = translateDeadline(name, err)

	if err != nil && uncertainAfter(domain.CodeOf(err)) {
		e.tracker.MarkUncertain()
	}

	go e.record(name, raw, started, err)

	finished := Event{Kind: EventCommandFinished, Command: name, Outcome: journal.OutcomeOK}
	if err != nil {
		finished.Outcome = journal.OutcomeError
		finished.ErrorCode = int(domain.CodeOf(err))
		logger.Warn("command failed",
			"command", name,
			"code", int(domain.CodeOf(err)),
			"duration", time.Since(started),
			"error", err)
	} else {
		logger.Debug("command finished", "command", name, "duration", time.Since(started))
	}
	e.events.Publish(finished)

	return result, err
}

// acquireSlot takes the execution slot per the configured busy policy:
// wait queues on the mutex, reject fails fast when it is held.
func (e *Engine) acquireSlot() error {
	if e.cfg.Engine.BusyPolicy == "reject" {
		if !e.mu.TryLock() {
			return domain.NewError(domain.CodeGeneral, "engine is busy with another command")
		}
		return nil
	}
	e.mu.Lock()
	return nil
}

func (e *Engine) commandTimeout(name string) time.Duration {
	secs := e.cfg.Engine.CommandTimeoutSeconds
	if name == "recreate_image" {
		secs = e.cfg.Engine.BatchTimeoutSeconds
	}
	if secs <= 0 {
		return time.Hour
	}
	return time.Duration(secs) * time.Second
}

// translateDeadline turns a bare context deadline into the protocol's
// timeout code. Errors already classified keep their code.
func translateDeadline(name string, err error) error {
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if domain.CodeOf(err) != domain.CodeGeneral {
		return err
	}
	return domain.WrapError(domain.CodeOperationTimeout, err, "%s timed out", name)
}

// uncertainAfter reports whether a failure leaves the target
// application's control state unknown. Validation and filesystem
// failures never touched the UI, so believed state survives them.
func uncertainAfter(code domain.ErrorCode) bool {
	switch code {
	case domain.CodeOperationTimeout,
		domain.CodeActivationFailed,
		domain.CodeTextInputFailed,
		domain.CodeFontSelectionFailed,
		domain.CodeTransformationFailed,
		domain.CodeCanvasCreationFailed:
		return true
	}
	return false
}

// record writes the journal entry for one execution. Runs off the
// critical path; failures only log.
func (e *Engine) record(name string, raw json.RawMessage, started time.Time, execErr error) {
	entry := journal.Entry{
		ID:        uuid.NewString(),
		Command:   name,
		Params:    raw,
		Outcome:   journal.OutcomeOK,
		Duration:  time.Since(started),
		StartedAt: started.UTC(),
	}
	if execErr != nil {
		entry.Outcome = journal.OutcomeError
		entry.ErrorCode = int(domain.CodeOf(execErr))
		entry.Message = domain.MessageOf(execErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.journal.Record(ctx, entry); err != nil {
		logger.Warn("journal record failed", "command", name, "error", err)
	}
}

// acquireSession returns a Ready session, resetting believed tool
// state when the session identity changed since the last command
func (e *Engine) acquireSession(ctx context.Context) (*session.Session, error) {
	s, err := e.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if s.ID != e.lastSession {
		e.tracker.Reset()
		e.lastSession = s.ID
	}
	return s, nil
}

// withSession acquires a Ready session and holds it Busy while fn runs
func (e *Engine) withSession(ctx context.Context, fn func(ctx context.Context, s *session.Session) error) error {
	s, err := e.acquireSession(ctx)
	if err != nil {
		return err
	}
	if err := e.sessions.BeginWork(); err != nil {
		return err
	}
	defer e.sessions.EndWork()
	return fn(ctx, s)
}
