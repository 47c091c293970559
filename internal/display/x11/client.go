package x11

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	xgb "github.com/BurntSushi/xgb"
	xproto "github.com/BurntSushi/xgb/xproto"
	xtest "github.com/BurntSushi/xgb/xtest"
	xgbutil "github.com/BurntSushi/xgbutil"
	keybind "github.com/BurntSushi/xgbutil/keybind"
	xgraphics "github.com/BurntSushi/xgbutil/xgraphics"

	display "github.com/paintmcp/paintd/internal/display"
	geometry "github.com/paintmcp/paintd/internal/geometry"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// Client drives an X11 display through the XTEST extension. It exists
// for driving Paint-compatible applications under X and for end-to-end
// runs against a virtual framebuffer.
type Client struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	name   string
}

var _ display.Controller = (*Client)(nil)

// Character mapping tables for X11 key names
var (
	shiftChars = map[rune]string{
		'!': "exclam", '@': "at", '#': "numbersign", '$': "dollar",
		'%': "percent", '^': "asciicircum", '&': "ampersand", '*': "asterisk",
		'(': "parenleft", ')': "parenright", '_': "underscore", '+': "plus",
		'{': "braceleft", '}': "braceright", '|': "bar", ':': "colon",
		'"': "quotedbl", '<': "less", '>': "greater", '?': "question",
		'~': "asciitilde",
	}

	punctuationChars = map[rune]string{
		'.': "period", ',': "comma", ';': "semicolon", '\'': "apostrophe",
		'/': "slash", '\\': "backslash", '-': "minus", '=': "equal",
		'[': "bracketleft", ']': "bracketright", '`': "grave",
	}
)

// NewClient creates a new X11 client connection
func NewClient(displayName string) (*Client, error) {

	oldStderr := os.Stderr
	devNull, devErr := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if devErr == nil {
		os.Stderr = devNull
	}

	xu, err := xgbutil.NewConnDisplay(displayName)

	if devErr == nil {
		os.Stderr = oldStderr
		_ = devNull.Close()
	}

	if err != nil {
		logger.Error("Failed to connect to X11 display", "display", displayName, "error", err)
		return nil, fmt.Errorf("failed to connect to X11 display %s: %w", displayName, err)
	}

	if err := xtest.Init(xu.Conn()); err != nil {
		logger.Error("Failed to initialize XTEST extension", "error", err)
		return nil, fmt.Errorf("failed to initialize XTEST extension: %w", err)
	}

	keybind.Initialize(xu)

	return &Client{
		xu:     xu,
		conn:   xu.Conn(),
		screen: xproto.Setup(xu.Conn()).DefaultScreen(xu.Conn()),
		name:   displayName,
	}, nil
}

// Close closes the X11 connection
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// ScreenSize returns the screen width and height
func (c *Client) ScreenSize(ctx context.Context) (int, int, error) {
	return int(c.screen.WidthInPixels), int(c.screen.HeightInPixels), nil
}

// ScaleFactor returns 1.0: X11 coordinates are already physical pixels
func (c *Client) ScaleFactor(ctx context.Context) (float64, error) {
	return 1.0, nil
}

// CaptureScreen captures a screenshot of the entire screen or a region
func (c *Client) CaptureScreen(ctx context.Context, region *geometry.Rect) (image.Image, error) {
	x, y, width, height := 0, 0, int(c.screen.WidthInPixels), int(c.screen.HeightInPixels)
	if region != nil && !region.Empty() {
		x, y, width, height = region.X, region.Y, region.Width, region.Height
	}

	root := c.screen.Root

	ximg, err := xgraphics.NewDrawable(c.xu, xproto.Drawable(root))
	if err != nil {
		return nil, fmt.Errorf("failed to create drawable: %w", err)
	}

	subImg := ximg.SubImage(image.Rect(x, y, x+width, y+height))

	return subImg, nil
}

// CursorPosition returns the current cursor position
func (c *Client) CursorPosition(ctx context.Context) (int, int, error) {
	root := c.screen.Root

	pointer, err := xproto.QueryPointer(c.conn, root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}

	return int(pointer.RootX), int(pointer.RootY), nil
}

// MoveMouse moves the cursor to the specified absolute coordinates
func (c *Client) MoveMouse(ctx context.Context, x, y int) error {
	root := c.screen.Root

	err := xproto.WarpPointerChecked(
		c.conn,
		xproto.WindowNone,
		root,
		0, 0,
		0, 0,
		int16(x), int16(y),
	).Check()

	if err != nil {
		return fmt.Errorf("failed to move mouse: %w", err)
	}

	c.conn.Sync()

	return nil
}

func buttonCode(button display.MouseButton) byte {
	switch button {
	case display.MouseButtonMiddle:
		return 2
	case display.MouseButtonRight:
		return 3
	default:
		return 1
	}
}

// PressMouse presses and holds the given button
func (c *Client) PressMouse(ctx context.Context, button display.MouseButton) error {
	cookie := xtest.FakeInputChecked(c.conn, xproto.ButtonPress, buttonCode(button), 0, c.screen.Root, 0, 0, 0)
	if err := cookie.Check(); err != nil {
		return fmt.Errorf("failed to send button press: %w", err)
	}
	c.conn.Sync()
	return nil
}

// ReleaseMouse releases a previously pressed button
func (c *Client) ReleaseMouse(ctx context.Context, button display.MouseButton) error {
	cookie := xtest.FakeInputChecked(c.conn, xproto.ButtonRelease, buttonCode(button), 0, c.screen.Root, 0, 0, 0)
	if err := cookie.Check(); err != nil {
		return fmt.Errorf("failed to send button release: %w", err)
	}
	c.conn.Sync()
	return nil
}

// ClickMouse performs a mouse click at the current cursor position
func (c *Client) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	if clicks < 1 {
		return fmt.Errorf("invalid click count: %d", clicks)
	}

	root := c.screen.Root
	code := buttonCode(button)

	for i := 0; i < clicks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		cookie := xtest.FakeInputChecked(c.conn, xproto.ButtonPress, code, 0, root, 0, 0, 0)
		if err := cookie.Check(); err != nil {
			return fmt.Errorf("failed to send button press: %w", err)
		}
		time.Sleep(50 * time.Millisecond)

		cookie = xtest.FakeInputChecked(c.conn, xproto.ButtonRelease, code, 0, root, 0, 0, 0)
		if err := cookie.Check(); err != nil {
			return fmt.Errorf("failed to send button release: %w", err)
		}

		if i < clicks-1 {
			time.Sleep(100 * time.Millisecond)
		}
	}

	c.conn.Sync()
	return nil
}

// charToKeyInfo maps a character to its X11 key string and shift requirement
type charToKeyInfo struct {
	keyStr     string
	needsShift bool
}

// mapCharToKey converts a character to its X11 key name and shift requirement
func mapCharToKey(char rune) charToKeyInfo {
	if char >= 'A' && char <= 'Z' {
		return charToKeyInfo{
			keyStr:     strings.ToLower(string(char)),
			needsShift: true,
		}
	}

	if shiftChar, ok := shiftChars[char]; ok {
		return charToKeyInfo{
			keyStr:     shiftChar,
			needsShift: true,
		}
	}

	if punctChar, ok := punctuationChars[char]; ok {
		return charToKeyInfo{
			keyStr:     punctChar,
			needsShift: false,
		}
	}

	switch char {
	case '\n':
		return charToKeyInfo{keyStr: "Return", needsShift: false}
	case '\t':
		return charToKeyInfo{keyStr: "Tab", needsShift: false}
	case ' ':
		return charToKeyInfo{keyStr: "space", needsShift: false}
	default:
		return charToKeyInfo{keyStr: string(char), needsShift: false}
	}
}

// TypeText types the given text with a configurable delay between keystrokes (in milliseconds)
func (c *Client) TypeText(ctx context.Context, text string, delayMs int) error {
	root := c.screen.Root
	baseDelay := time.Duration(delayMs) * time.Millisecond

	for _, char := range text {
		if err := ctx.Err(); err != nil {
			return err
		}

		keyInfo := mapCharToKey(char)

		keycodes := keybind.StrToKeycodes(c.xu, keyInfo.keyStr)
		if len(keycodes) == 0 {
			logger.Debug("No keycode found for character", "char", string(char), "keyStr", keyInfo.keyStr)
			continue
		}

		keycode := keycodes[0]

		if err := c.typeKeyWithShift(root, keycode, keyInfo.needsShift, baseDelay); err != nil {
			return err
		}
	}

	c.conn.Sync()
	return nil
}

// typeKeyWithShift types a single key, optionally with shift modifier
func (c *Client) typeKeyWithShift(root xproto.Window, keycode xproto.Keycode, needsShift bool, delay time.Duration) error {
	if needsShift {
		shiftKeycodes := keybind.StrToKeycodes(c.xu, "Shift_L")
		if len(shiftKeycodes) > 0 {
			_ = xtest.FakeInput(c.conn, xproto.KeyPress, byte(shiftKeycodes[0]), 0, root, 0, 0, 0)
			time.Sleep(delay)
		}
	}

	_ = xtest.FakeInput(c.conn, xproto.KeyPress, byte(keycode), 0, root, 0, 0, 0)
	time.Sleep(delay)

	_ = xtest.FakeInput(c.conn, xproto.KeyRelease, byte(keycode), 0, root, 0, 0, 0)
	time.Sleep(delay)

	if needsShift {
		shiftKeycodes := keybind.StrToKeycodes(c.xu, "Shift_L")
		if len(shiftKeycodes) > 0 {
			_ = xtest.FakeInput(c.conn, xproto.KeyRelease, byte(shiftKeycodes[0]), 0, root, 0, 0, 0)
			time.Sleep(delay)
		}
	}

	return nil
}

// SendKeyCombo sends a key combination (e.g., "ctrl+v", "shift+Return")
func (c *Client) SendKeyCombo(ctx context.Context, combo string) error {
	root := c.screen.Root

	combo = strings.ReplaceAll(combo, "-", "+")
	parts := strings.Split(combo, "+")

	if len(parts) == 0 {
		return fmt.Errorf("invalid key combination: %s", combo)
	}

	modifiers := parts[:len(parts)-1]
	mainKey := parts[len(parts)-1]

	modifierMap := map[string]string{
		"ctrl":    "Control_L",
		"control": "Control_L",
		"alt":     "Alt_L",
		"shift":   "Shift_L",
		"super":   "Super_L",
		"meta":    "Meta_L",
		"win":     "Super_L",
		"cmd":     "Super_L",
	}

	keyAliases := map[string]string{
		"enter":     "Return",
		"return":    "Return",
		"esc":       "Escape",
		"escape":    "Escape",
		"tab":       "Tab",
		"space":     "space",
		"backspace": "BackSpace",
		"delete":    "Delete",
		"del":       "Delete",
		"up":        "Up",
		"down":      "Down",
		"left":      "Left",
		"right":     "Right",
		"home":      "Home",
		"end":       "End",
		"pageup":    "Prior",
		"pagedown":  "Next",
		"f12":       "F12",
	}

	var modKeycodes []xproto.Keycode
	for _, mod := range modifiers {
		modName := strings.ToLower(strings.TrimSpace(mod))
		xModName, ok := modifierMap[modName]
		if !ok {
			xModName = mod
		}

		keycodes := keybind.StrToKeycodes(c.xu, xModName)
		if len(keycodes) == 0 {
			return fmt.Errorf("no keycode found for modifier: %s", mod)
		}
		modKeycodes = append(modKeycodes, keycodes[0])
	}

	mainKey = strings.TrimSpace(mainKey)
	if alias, ok := keyAliases[strings.ToLower(mainKey)]; ok {
		mainKey = alias
	}
	mainKeycodes := keybind.StrToKeycodes(c.xu, mainKey)
	if len(mainKeycodes) == 0 {
		return fmt.Errorf("no keycode found for key: %s", mainKey)
	}
	mainKeycode := mainKeycodes[0]

	for _, keycode := range modKeycodes {
		_ = xtest.FakeInput(c.conn, xproto.KeyPress, byte(keycode), 0, root, 0, 0, 0)
		time.Sleep(10 * time.Millisecond)
	}

	_ = xtest.FakeInput(c.conn, xproto.KeyPress, byte(mainKeycode), 0, root, 0, 0, 0)
	time.Sleep(50 * time.Millisecond)

	_ = xtest.FakeInput(c.conn, xproto.KeyRelease, byte(mainKeycode), 0, root, 0, 0, 0)
	time.Sleep(10 * time.Millisecond)

	for i := len(modKeycodes) - 1; i >= 0; i-- {
		_ = xtest.FakeInput(c.conn, xproto.KeyRelease, byte(modKeycodes[i]), 0, root, 0, 0, 0)
		time.Sleep(10 * time.Millisecond)
	}

	c.conn.Sync()
	return nil
}
