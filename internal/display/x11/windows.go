package x11

import (
	"context"
	"fmt"
	"os"
	"strings"

	xproto "github.com/BurntSushi/xgb/xproto"
	ewmh "github.com/BurntSushi/xgbutil/ewmh"
	icccm "github.com/BurntSushi/xgbutil/icccm"
	xwindow "github.com/BurntSushi/xgbutil/xwindow"

	display "github.com/paintmcp/paintd/internal/display"
	geometry "github.com/paintmcp/paintd/internal/geometry"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// FindWindows lists the top-level windows matching spec, as reported by
// the window manager through _NET_CLIENT_LIST.
func (c *Client) FindWindows(ctx context.Context, spec display.WindowSpec) ([]display.WindowInfo, error) {
	clients, err := ewmh.ClientListGet(c.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to list client windows: %w", err)
	}

	var windows []display.WindowInfo
	for _, win := range clients {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info := c.windowInfo(win)
		if matchesSpec(info, spec) {
			windows = append(windows, info)
		}
	}

	return windows, nil
}

// ActivateWindow maps win if iconified and asks the window manager to
// focus it
func (c *Client) ActivateWindow(ctx context.Context, win display.WindowInfo) error {
	w := xwindow.New(c.xu, xproto.Window(win.ID))
	w.Map()

	if err := ewmh.ActiveWindowReq(c.xu, xproto.Window(win.ID)); err != nil {
		return fmt.Errorf("failed to request window activation: %w", err)
	}

	c.conn.Sync()
	return nil
}

// RaiseWindow brings win to the top of the stacking order without
// changing focus
func (c *Client) RaiseWindow(ctx context.Context, win display.WindowInfo) error {
	w := xwindow.New(c.xu, xproto.Window(win.ID))
	w.Stack(xproto.StackModeAbove)
	c.conn.Sync()
	return nil
}

// MaximizeWindow maximizes win in both directions
func (c *Client) MaximizeWindow(ctx context.Context, win display.WindowInfo) error {
	err := ewmh.WmStateReqExtra(c.xu, xproto.Window(win.ID), ewmh.StateAdd,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 2)
	if err != nil {
		return fmt.Errorf("failed to maximize window: %w", err)
	}

	c.conn.Sync()
	return nil
}

// WindowBounds returns the outer geometry of win, decorations included
func (c *Client) WindowBounds(ctx context.Context, win display.WindowInfo) (geometry.Rect, error) {
	w := xwindow.New(c.xu, xproto.Window(win.ID))

	rect, err := w.DecorGeometry()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to query window geometry: %w", err)
	}

	return geometry.Rect{
		X:      rect.X(),
		Y:      rect.Y(),
		Width:  rect.Width(),
		Height: rect.Height(),
	}, nil
}

// ForegroundWindow returns the window that currently has input focus
func (c *Client) ForegroundWindow(ctx context.Context) (display.WindowInfo, error) {
	active, err := ewmh.ActiveWindowGet(c.xu)
	if err != nil {
		return display.WindowInfo{}, fmt.Errorf("failed to query active window: %w", err)
	}
	if active == 0 {
		return display.WindowInfo{}, fmt.Errorf("no active window")
	}

	return c.windowInfo(active), nil
}

// windowInfo gathers title, class and pid for a window, tolerating
// clients that do not set every property
func (c *Client) windowInfo(win xproto.Window) display.WindowInfo {
	info := display.WindowInfo{ID: uint64(win)}

	if name, err := ewmh.WmNameGet(c.xu, win); err == nil && name != "" {
		info.Title = name
	} else if name, err := icccm.WmNameGet(c.xu, win); err == nil {
		info.Title = name
	}

	if class, err := icccm.WmClassGet(c.xu, win); err == nil && class != nil {
		info.Class = class.Class
	}

	if pid, err := ewmh.WmPidGet(c.xu, win); err == nil {
		info.PID = int(pid)
	}

	return info
}

func matchesSpec(info display.WindowInfo, spec display.WindowSpec) bool {
	for _, exclude := range spec.TitleExcludes {
		if exclude != "" && strings.Contains(info.Title, exclude) {
			return false
		}
	}

	if len(spec.Classes) > 0 && !containsFold(spec.Classes, info.Class) {
		return false
	}

	if len(spec.ProcessNames) > 0 {
		if !containsFold(spec.ProcessNames, processName(info.PID)) {
			return false
		}
	}

	if len(spec.TitleContains) == 0 {
		return true
	}
	for _, want := range spec.TitleContains {
		if want != "" && strings.Contains(info.Title, want) {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

// processName resolves a pid to its executable name via /proc
func processName(pid int) string {
	if pid <= 0 {
		return ""
	}

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		logger.Debug("Failed to resolve process name", "pid", pid, "error", err)
		return ""
	}

	return strings.TrimSpace(string(comm))
}
