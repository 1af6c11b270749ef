package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// ErrNoColor is returned by ParseColor for the "none" keyword and empty strings.
var ErrNoColor = errors.New("no color")

// IsNone reports whether s disables a color (empty or "none").
func IsNone(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "" || s == "none"
}

// ParseColor parses a CSS color: hex with optional alpha, rgb()/rgba(),
// hsl()/hsla(), hwb() or a named color.
func ParseColor(s string) (color.Color, error) {
	if IsNone(s) {
		return nil, ErrNoColor
	}
	c, err := csscolorparser.Parse(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}, nil
}
