package native

import (
	"os"
	"runtime"

	display "github.com/paintmcp/paintd/internal/display"
)

// Provider implements the display.Provider interface for the robotgo backend
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new native provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController creates a new Controller. The display argument is
// ignored; robotgo always talks to the default desktop.
func (p *Provider) GetController(display string) (display.Controller, error) {
	return NewClient()
}

// GetInfo returns information about the native backend
func (p *Provider) GetInfo() display.Info {
	return display.Info{
		Name:              "native",
		SupportsWindows:   true,
		SupportsMouse:     true,
		SupportsKeyboard:  true,
		MaxTextLength:     0,
		RequiresElevation: false,
	}
}

// IsAvailable returns true if the native backend can run on this system
func (p *Provider) IsAvailable() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	default:
		// robotgo needs an X server on Linux
		return os.Getenv("DISPLAY") != ""
	}
}

// Register the native provider in the global registry
func init() {
	display.Register(NewProvider())
}
