// Package palette maps horizontal positions onto the rainbow gradient shared by
// the mesh layers and the clock overlay.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// StartHue is the hue at the left edge of the page. The hue falls linearly to 0 at the right edge.
	StartHue = 270.0

	rainbowSaturation = 1.0
	rainbowLightness  = 0.5
)

// HSLA is a hue/saturation/lightness color with alpha.
// H is in degrees [0,360); S, L and A are fractions in [0,1].
type HSLA struct {
	H, S, L, A float64
}

var _ color.Color = HSLA{}

// Rainbow maps x on a page of the given width to the gradient color at alpha.
// A non-positive width maps every x to StartHue.
func Rainbow(x, width, alpha float64) HSLA {
	hue := StartHue
	if width > 0 {
		hue = StartHue - (x/width)*StartHue
	}
	return HSLA{H: wrapHue(hue), S: rainbowSaturation, L: rainbowLightness, A: alpha}
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h == 0 || h == 360 {
		return 0
	}
	return h
}

// WithAlpha returns a copy of c with a different alpha.
func (c HSLA) WithAlpha(alpha float64) HSLA {
	c.A = alpha
	return c
}

// String renders the color in CSS notation, e.g. "hsla(270, 100%, 50%, 0.2)".
func (c HSLA) String() string {
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)",
		formatFloat(c.H), formatFloat(c.S*100), formatFloat(c.L*100), formatFloat(c.A))
}

// RGBA implements color.Color with alpha-premultiplied 16-bit channels.
func (c HSLA) RGBA() (r, g, b, a uint32) {
	rgb := colorful.Hsl(c.H, clamp01(c.S), clamp01(c.L)).Clamped()
	alpha := clamp01(c.A)

	r = uint32(math.Round(rgb.R * alpha * 0xffff))
	g = uint32(math.Round(rgb.G * alpha * 0xffff))
	b = uint32(math.Round(rgb.B * alpha * 0xffff))
	a = uint32(math.Round(alpha * 0xffff))
	return
}

// NRGBA converts the color to a non-premultiplied 8-bit color.
func (c HSLA) NRGBA() color.NRGBA {
	rgb := colorful.Hsl(c.H, clamp01(c.S), clamp01(c.L)).Clamped()
	return color.NRGBA{
		R: to8(rgb.R),
		G: to8(rgb.G),
		B: to8(rgb.B),
		A: to8(clamp01(c.A)),
	}
}

// to8 scales a [0,1] channel to 0..255, rounding half up. The HSL conversion
// lands a hair below exact halves (hue 270 gives R=0.4999...), so a small
// epsilon keeps those on the CSS side: hsl(270,100%,50%) is rgb(128,0,255).
func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v)*255 + roundingEpsilon))
}

const roundingEpsilon = 1e-9

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
