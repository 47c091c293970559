package x11

import (
	"os"

	display "github.com/paintmcp/paintd/internal/display"
)

// Provider implements the display.Provider interface for X11
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new X11 provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController creates a new Controller for the specified display
func (p *Provider) GetController(display string) (display.Controller, error) {
	return NewClient(display)
}

// GetInfo returns information about the X11 backend
func (p *Provider) GetInfo() display.Info {
	return display.Info{
		Name:              "x11",
		SupportsWindows:   true,
		SupportsMouse:     true,
		SupportsKeyboard:  true,
		MaxTextLength:     0,
		RequiresElevation: false,
	}
}

// IsAvailable returns true if X11 is available on the current system
func (p *Provider) IsAvailable() bool {
	return os.Getenv("DISPLAY") != ""
}

// Register the X11 provider in the global registry
func init() {
	display.Register(NewProvider())
}
