package domain

import (
	"fmt"
	"image/color"
)

// Color is a 24-bit RGB value. The wire format is "#RRGGBB", uppercase or
// lowercase hex accepted, always emitted uppercase.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a "#RRGGBB" string. Any other shape fails with the
// canonical invalid-color error.
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, ErrInvalidColor(s)
	}
	var r, g, b uint8
	for i, dst := range []*uint8{&r, &g, &b} {
		hi, ok1 := hexNibble(s[1+i*2])
		lo, ok2 := hexNibble(s[2+i*2])
		if !ok1 || !ok2 {
			return Color{}, ErrInvalidColor(s)
		}
		*dst = hi<<4 | lo
	}
	return Color{R: r, G: g, B: b}, nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// String formats the color as "#RRGGBB"
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA implements image/color.Color so planner code can hand Colors straight
// to the image packages.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// Value packs the color into a single 24-bit integer, used as a map key when
// grouping primitives by color.
func (c Color) Value() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// White is the default canvas background
var White = Color{R: 0xFF, G: 0xFF, B: 0xFF}

// Black is the default drawing color
var Black = Color{}
