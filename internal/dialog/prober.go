package dialog

import (
	"context"
	"strings"

	"github.com/paintmcp/paintd/internal/display"
)

// dialogTitles lists window titles that identify each dialog kind. A
// bare "Paint" entry matches exactly, so the main window ("Untitled -
// Paint") never counts as a dialog.
var dialogTitles = map[Kind][]string{
	KindResize:    {"Resize and Skew", "Resize"},
	KindFont:      {"Fonts", "Font"},
	KindNewCanvas: {"Image Properties", "Attributes"},
	KindSave:      {"Save As"},
	KindConfirm:   {"Confirm Save As", "Paint"},
}

// WindowProber detects dialogs by inspecting the foreground window. A
// dialog is visible when the foreground window is not the main Paint
// window and its title matches the kind.
type WindowProber struct {
	ctrl display.Controller

	// mainWindow returns the session's window ID, or 0 when unknown
	mainWindow func() uint64
}

// NewWindowProber creates a foreground-window based prober
func NewWindowProber(ctrl display.Controller, mainWindow func() uint64) *WindowProber {
	if mainWindow == nil {
		mainWindow = func() uint64 { return 0 }
	}
	return &WindowProber{ctrl: ctrl, mainWindow: mainWindow}
}

// DialogVisible implements Prober
func (p *WindowProber) DialogVisible(ctx context.Context, kind Kind) (bool, error) {
	fg, err := p.ctrl.ForegroundWindow(ctx)
	if err != nil {
		return false, err
	}
	if main := p.mainWindow(); main != 0 && fg.ID == main {
		return false, nil
	}
	return titleMatches(kind, fg.Title), nil
}

// titleMatches reports whether title identifies a dialog of the given
// kind
func titleMatches(kind Kind, title string) bool {
	for _, want := range dialogTitles[kind] {
		if want == "Paint" {
			if strings.EqualFold(title, want) {
				return true
			}
			continue
		}
		if containsFold(title, want) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
