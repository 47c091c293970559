package container

import (
	"context"
	"fmt"

	config "github.com/paintmcp/paintd/config"
	dialog "github.com/paintmcp/paintd/internal/dialog"
	display "github.com/paintmcp/paintd/internal/display"
	engine "github.com/paintmcp/paintd/internal/engine"
	input "github.com/paintmcp/paintd/internal/input"
	journal "github.com/paintmcp/paintd/internal/journal"
	logger "github.com/paintmcp/paintd/internal/logger"
	planner "github.com/paintmcp/paintd/internal/planner"
	session "github.com/paintmcp/paintd/internal/session"
	toolstate "github.com/paintmcp/paintd/internal/toolstate"
	utils "github.com/paintmcp/paintd/internal/utils"
	viper "github.com/spf13/viper"
)

// ServiceContainer manages all daemon dependencies
type ServiceContainer struct {
	// Configuration
	viper  *viper.Viper
	config *config.Config

	// Display backend
	controller display.Controller

	// Engine collaborators
	simulator *input.Simulator
	sessions  *session.Manager
	tracker   *toolstate.Tracker
	dialogs   *dialog.Controller
	planner   *planner.Planner
	guard     *utils.PathGuard
	journal   journal.Journal

	engine *engine.Engine
}

// NewServiceContainer builds the full dependency graph: display backend,
// input simulator, session manager, dialog controller, planner, path
// guard, journal and engine. The caller owns the container and must call
// Shutdown to release the journal and display connection.
func NewServiceContainer(cfg *config.Config, serverVersion string, v ...*viper.Viper) (*ServiceContainer, error) {
	container := &ServiceContainer{
		config: cfg,
	}

	if len(v) > 0 && v[0] != nil {
		container.viper = v[0]
	}

	if err := container.initializeDisplay(); err != nil {
		return nil, err
	}
	if err := container.initializeJournal(); err != nil {
		return nil, err
	}
	if err := container.initializeEngine(serverVersion); err != nil {
		return nil, err
	}

	return container, nil
}

// initializeDisplay selects and opens the display backend
func (c *ServiceContainer) initializeDisplay() error {
	var (
		provider display.Provider
		err      error
	)

	switch backend := c.config.Display.Backend; backend {
	case "", "auto":
		provider, err = display.Detect()
		if err != nil {
			return fmt.Errorf("no display backend available: %w", err)
		}
	default:
		provider = display.GetProvider(backend)
		if provider == nil {
			return fmt.Errorf("unknown display backend: %s", backend)
		}
		if !provider.IsAvailable() {
			return fmt.Errorf("display backend %s is not available on this system", backend)
		}
	}

	ctrl, err := provider.GetController(c.config.Display.Display)
	if err != nil {
		return fmt.Errorf("failed to open display: %w", err)
	}

	logger.Info("Display backend selected", "backend", provider.GetInfo().Name)
	c.controller = ctrl
	return nil
}

// initializeJournal opens the configured journal backend
func (c *ServiceContainer) initializeJournal() error {
	j, err := journal.New(c.config.Journal)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	c.journal = j
	return nil
}

// initializeEngine wires the engine and its collaborators
func (c *ServiceContainer) initializeEngine(serverVersion string) error {
	c.simulator = input.NewSimulator(c.controller, c.config.Input)
	c.sessions = session.NewManager(c.controller, c.config.Session)
	c.tracker = toolstate.NewTracker()

	// The prober needs the session's window ID to tell dialogs apart
	// from the main window; the session may not exist yet, so resolve
	// it on every probe.
	prober := dialog.NewWindowProber(c.controller, func() uint64 {
		if s := c.sessions.Current(); s != nil {
			return s.Window.ID
		}
		return 0
	})
	c.dialogs = dialog.NewController(c.simulator, prober, c.config.Dialogs)
	c.planner = planner.New(c.config.Planner)

	guard, err := utils.NewPathGuard(c.config.Guard)
	if err != nil {
		return fmt.Errorf("failed to build path guard: %w", err)
	}
	c.guard = guard

	c.engine = engine.New(engine.Deps{
		Config:        c.config,
		Controller:    c.controller,
		Sessions:      c.sessions,
		Simulator:     c.simulator,
		Tracker:       c.tracker,
		Dialogs:       c.dialogs,
		Planner:       c.planner,
		Guard:         c.guard,
		Journal:       c.journal,
		ServerVersion: serverVersion,
	})
	return nil
}

// Shutdown releases the journal and the display connection
func (c *ServiceContainer) Shutdown(_ context.Context) error {
	var firstErr error

	if c.journal != nil {
		if err := c.journal.Close(); err != nil {
			logger.Warn("Failed to close journal", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if c.controller != nil {
		if err := c.controller.Close(); err != nil {
			logger.Warn("Failed to close display connection", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (c *ServiceContainer) GetConfig() *config.Config {
	return c.config
}

func (c *ServiceContainer) GetEngine() *engine.Engine {
	return c.engine
}

func (c *ServiceContainer) GetController() display.Controller {
	return c.controller
}

func (c *ServiceContainer) GetSessions() *session.Manager {
	return c.sessions
}

func (c *ServiceContainer) GetJournal() journal.Journal {
	return c.journal
}

// GetViper returns the Viper instance
func (c *ServiceContainer) GetViper() *viper.Viper {
	return c.viper
}
