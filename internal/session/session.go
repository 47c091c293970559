package session

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	uuid "github.com/google/uuid"

	config "github.com/paintmcp/paintd/config"
	display "github.com/paintmcp/paintd/internal/display"
	domain "github.com/paintmcp/paintd/internal/domain"
	geometry "github.com/paintmcp/paintd/internal/geometry"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// State is the session lifecycle state
type State int

const (
	StateDisconnected State = iota
	StateLocating
	StateLaunching
	StateActivating
	StateReady
	StateBusy
	StateFailed
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateLocating:
		return "locating"
	case StateLaunching:
		return "launching"
	case StateActivating:
		return "activating"
	case StateReady:
		return "ready"
	case StateBusy:
		return "busy"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is an attached target window with valid canvas geometry.
// Geometry is only trustworthy while the manager is Ready or Busy.
type Session struct {
	ID           string
	Window       display.WindowInfo
	Canvas       geometry.Rect
	DPIScale     float64
	PaintVersion string

	docWidth  int
	docHeight int
}

// Mapper returns the coordinate mapper for the current canvas geometry
func (s *Session) Mapper() geometry.Mapper {
	return geometry.NewMapper(s.Canvas, s.DPIScale)
}

// DocSize returns the logical document dimensions
func (s *Session) DocSize() (int, int) {
	return s.docWidth, s.docHeight
}

// Launcher starts the target process. Replaceable in tests.
type Launcher func(ctx context.Context, command []string) error

// execLauncher starts the command without waiting for it to exit
func execLauncher(ctx context.Context, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("no launch command configured")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", command[0], err)
	}
	// the process outlives us; reap it in the background
	go func() { _ = cmd.Wait() }()
	return nil
}

// Manager owns the window lifecycle: locate, launch, activate, measure.
// One manager per process; Acquire is the only way to get a Session.
type Manager struct {
	cfg    config.SessionConfig
	ctrl   display.Controller
	launch Launcher

	opMu    sync.Mutex   // serializes Acquire/Disconnect
	stateMu sync.RWMutex // guards state and sess
	state   State
	sess    *Session

	hook func(from, to State)
}

// NewManager creates a session manager over the given controller
func NewManager(ctrl display.Controller, cfg config.SessionConfig) *Manager {
	return &Manager{
		cfg:    cfg,
		ctrl:   ctrl,
		launch: execLauncher,
		state:  StateDisconnected,
	}
}

// SetLauncher replaces the process launcher (tests)
func (m *Manager) SetLauncher(l Launcher) {
	m.launch = l
}

// OnTransition registers a hook invoked on every state change. The hook
// runs synchronously; keep it cheap.
func (m *Manager) OnTransition(fn func(from, to State)) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.hook = fn
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// Current returns the session if one is attached, nil otherwise
func (m *Manager) Current() *Session {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.sess
}

// CanvasSize returns the logical document dimensions of the attached
// session, or an error when no session is attached
func (m *Manager) CanvasSize() (int, int, error) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	if m.sess == nil || (m.state != StateReady && m.state != StateBusy) {
		return 0, 0, domain.ErrWindowNotFound("no active session")
	}
	return m.sess.docWidth, m.sess.docHeight, nil
}

// SetCanvasSize records a new logical document size (after create_canvas
// or scale_image)
func (m *Manager) SetCanvasSize(width, height int) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.sess != nil {
		m.sess.docWidth = width
		m.sess.docHeight = height
	}
}

func (m *Manager) setState(to State) {
	m.stateMu.Lock()
	from := m.state
	m.state = to
	hook := m.hook
	m.stateMu.Unlock()

	if from != to {
		logger.Debug("session state changed", "from", from.String(), "to", to.String())
		if hook != nil {
			hook(from, to)
		}
	}
}

// Acquire returns a Ready session, connecting first if necessary.
// The connect path walks Locating, Launching (only when no window
// exists yet) and Activating before landing in Ready.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if s := m.readySession(); s != nil {
		return s, nil
	}

	m.setState(StateLocating)
	win, found, err := m.locate(ctx)
	if err != nil {
		m.setState(StateFailed)
		return nil, err
	}

	if !found {
		m.setState(StateLaunching)
		win, err = m.launchAndWait(ctx)
		if err != nil {
			m.setState(StateFailed)
			return nil, err
		}
	}

	m.setState(StateActivating)
	if err := m.activate(ctx, win); err != nil {
		m.setState(StateFailed)
		return nil, err
	}

	sess, err := m.measure(ctx, win)
	if err != nil {
		m.setState(StateFailed)
		return nil, err
	}

	m.stateMu.Lock()
	m.sess = sess
	m.stateMu.Unlock()
	m.setState(StateReady)

	logger.Info("session ready",
		"session_id", sess.ID,
		"window", win.Title,
		"canvas", sess.Canvas,
		"dpi_scale", sess.DPIScale)
	return sess, nil
}

func (m *Manager) readySession() *Session {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	if m.sess != nil && (m.state == StateReady || m.state == StateBusy) {
		return m.sess
	}
	return nil
}

// spec builds the window matcher from config
func (m *Manager) spec() display.WindowSpec {
	return display.WindowSpec{
		ProcessNames:  []string{m.cfg.ProcessName},
		Classes:       m.cfg.WindowClasses,
		TitleContains: m.cfg.WindowTitles,
		TitleExcludes: m.cfg.TitleExcludes,
	}
}

func (m *Manager) locate(ctx context.Context) (display.WindowInfo, bool, error) {
	windows, err := m.ctrl.FindWindows(ctx, m.spec())
	if err != nil {
		return display.WindowInfo{}, false, domain.WrapError(domain.CodeWindowNotFound, err, "window enumeration failed")
	}
	if len(windows) == 0 {
		return display.WindowInfo{}, false, nil
	}
	return windows[0], true, nil
}

// launchAndWait starts the target process and polls until its window
// appears: one initial settle, then bounded fixed-interval polls.
func (m *Manager) launchAndWait(ctx context.Context) (display.WindowInfo, error) {
	logger.Info("launching target application", "command", m.cfg.LaunchCommand)
	if err := m.launch(ctx, m.cfg.LaunchCommand); err != nil {
		return display.WindowInfo{}, domain.WrapError(domain.CodeWindowNotFound, err, "failed to launch target application")
	}

	if err := sleep(ctx, time.Duration(m.cfg.LaunchInitialWaitMs)*time.Millisecond); err != nil {
		return display.WindowInfo{}, err
	}

	interval := time.Duration(m.cfg.LaunchPollIntervalMs) * time.Millisecond
	for attempt := 0; attempt < m.cfg.LaunchPollMax; attempt++ {
		win, found, err := m.locate(ctx)
		if err != nil {
			return display.WindowInfo{}, err
		}
		if found {
			logger.Debug("target window appeared", "attempt", attempt, "title", win.Title)
			return win, nil
		}
		if err := sleep(ctx, interval); err != nil {
			return display.WindowInfo{}, err
		}
	}

	return display.WindowInfo{}, domain.ErrWindowNotFound(
		"target window did not appear within %d polls after launch", m.cfg.LaunchPollMax)
}

// activate brings the window to the foreground and verifies it got
// there. Settle times escalate per attempt; a stacking-order raise is
// the last resort.
func (m *Manager) activate(ctx context.Context, win display.WindowInfo) error {
	settles := m.cfg.ActivationSettleMs
	if len(settles) == 0 {
		settles = []int{200, 300, 500}
	}
	verifyDelay := time.Duration(m.cfg.VerifyDelayMs) * time.Millisecond

	for attempt, settleMs := range settles {
		if err := m.ctrl.ActivateWindow(ctx, win); err != nil {
			logger.Warn("window activation request failed", "attempt", attempt, "error", err)
		}
		if err := sleep(ctx, time.Duration(settleMs)*time.Millisecond); err != nil {
			return err
		}

		ok, err := m.verifyForeground(ctx, win, verifyDelay)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		logger.Debug("window not in foreground yet", "attempt", attempt)
	}

	// activation requests exhausted; try raising the window instead
	if err := m.ctrl.RaiseWindow(ctx, win); err != nil {
		logger.Warn("window raise failed", "error", err)
	}
	if err := sleep(ctx, time.Duration(m.cfg.RaiseFallbackMs)*time.Millisecond); err != nil {
		return err
	}

	ok, err := m.verifyForeground(ctx, win, verifyDelay)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrActivationFailed(
			"window %q never reached the foreground after %d attempts", win.Title, len(settles)+1)
	}
	return nil
}

func (m *Manager) verifyForeground(ctx context.Context, win display.WindowInfo, delay time.Duration) (bool, error) {
	if err := sleep(ctx, delay); err != nil {
		return false, err
	}
	fg, err := m.ctrl.ForegroundWindow(ctx)
	if err != nil {
		logger.Debug("foreground query failed", "error", err)
		return false, nil
	}
	return fg.ID == win.ID, nil
}

// measure computes canvas geometry for the activated window
func (m *Manager) measure(ctx context.Context, win display.WindowInfo) (*Session, error) {
	if m.cfg.MaximizeOnConnect {
		if err := m.ctrl.MaximizeWindow(ctx, win); err != nil {
			logger.Warn("window maximize failed, continuing with current geometry", "error", err)
		} else if err := sleep(ctx, 300*time.Millisecond); err != nil {
			return nil, err
		}
	}

	bounds, err := m.ctrl.WindowBounds(ctx, win)
	if err != nil {
		return nil, domain.WrapError(domain.CodeWindowNotFound, err, "failed to measure window")
	}

	scale, err := m.ctrl.ScaleFactor(ctx)
	if err != nil || scale <= 0 {
		scale = 1.0
	}

	canvas := geometry.CanvasRectFromWindow(bounds, scale)
	if canvas.Width < geometry.MinCanvasWidth || canvas.Height < geometry.MinCanvasHeight {
		logger.Warn("window too small for reliable canvas derivation, using default canvas",
			"window", bounds, "derived", canvas)
		canvas = geometry.Rect{
			X:      bounds.X + int(float64(geometry.DrawingAreaOffsetX)*scale),
			Y:      bounds.Y + int(float64(geometry.DrawingAreaOffsetY)*scale),
			Width:  int(float64(geometry.DefaultCanvasWidth) * scale),
			Height: int(float64(geometry.DefaultCanvasHeight) * scale),
		}
	}

	mapper := geometry.NewMapper(canvas, scale)
	docW, docH := mapper.LogicalSize()

	return &Session{
		ID:           uuid.NewString(),
		Window:       win,
		Canvas:       canvas,
		DPIScale:     scale,
		PaintVersion: paintVersion(win),
		docWidth:     docW,
		docHeight:    docH,
	}, nil
}

// RefreshCanvas re-measures window geometry without dropping the
// session. Document size is preserved.
func (m *Manager) RefreshCanvas(ctx context.Context) error {
	m.stateMu.RLock()
	sess := m.sess
	state := m.state
	m.stateMu.RUnlock()

	if sess == nil || (state != StateReady && state != StateBusy) {
		return domain.ErrWindowNotFound("no active session")
	}

	bounds, err := m.ctrl.WindowBounds(ctx, sess.Window)
	if err != nil {
		return domain.WrapError(domain.CodeWindowNotFound, err, "failed to re-measure window")
	}

	canvas := geometry.CanvasRectFromWindow(bounds, sess.DPIScale)
	if canvas.Width < geometry.MinCanvasWidth || canvas.Height < geometry.MinCanvasHeight {
		return domain.NewError(domain.CodeWindowNotFound, "window shrank below usable size")
	}

	m.stateMu.Lock()
	m.sess.Canvas = canvas
	m.stateMu.Unlock()
	return nil
}

// Reactivate re-runs foreground activation for the attached window
func (m *Manager) Reactivate(ctx context.Context) error {
	m.stateMu.RLock()
	sess := m.sess
	m.stateMu.RUnlock()

	if sess == nil {
		return domain.ErrWindowNotFound("no active session")
	}
	return m.activate(ctx, sess.Window)
}

// BeginWork transitions Ready into Busy for the duration of a command
func (m *Manager) BeginWork() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.state != StateReady {
		return domain.NewError(domain.CodeGeneral, "session is %s, not ready", m.state)
	}
	m.state = StateBusy
	return nil
}

// EndWork transitions Busy back to Ready
func (m *Manager) EndWork() {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.state == StateBusy {
		m.state = StateReady
	}
}

// Invalidate drops cached geometry, forcing the next Acquire to walk
// the full connect path again
func (m *Manager) Invalidate() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.stateMu.Lock()
	m.sess = nil
	m.stateMu.Unlock()
	m.setState(StateDisconnected)
}

// Disconnect detaches from the window. The target process keeps running.
func (m *Manager) Disconnect() {
	m.Invalidate()
	logger.Info("session disconnected")
}

func paintVersion(win display.WindowInfo) string {
	switch {
	case win.Class == "MSPaintApp":
		return "classic"
	case win.Class != "" || win.Title != "":
		return "modern"
	default:
		return "unknown"
	}
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
