// Package clock lays out and paints the optional time overlay. Its gradient
// fill uses the same rainbow mapping as the mesh so the text blends into the
// background beneath it.
package clock

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// GradientSpread is how far the gradient extends on each side of the clock
// center, in multiples of the box width.
const GradientSpread = 1.6

// Measurer reports the size of rendered text.
type Measurer interface {
	MeasureText(text string, size float64, mono bool) (w, h float64)
}

// Rect is an axis-aligned box in viewport pixels.
type Rect struct {
	X, Y, W, H float64
}

// Stop is one gradient color stop; Offset is in [0,1] across the box.
type Stop struct {
	Offset float64
	Color  color.Color
}

// Fill is either a flat color or a horizontal gradient across the box.
type Fill struct {
	Solid color.Color
	Stops []Stop
}

// Gradient reports whether the fill uses stops.
func (f Fill) Gradient() bool { return len(f.Stops) > 0 }

// Layout is everything needed to draw one clock frame.
type Layout struct {
	Hidden   bool
	Text     string
	Box      Rect
	Padding  float64
	FontSize float64
	Mono     bool
	Fill     Fill
	Outline  color.Color // nil when disabled
}

// Overlay turns the clock parameters into per-frame layouts.
type Overlay struct {
	position config.ClockPosition
	format   string
	fill     color.Color // nil for the rainbow gradient
	outline  color.Color
	opacity  float64
	padding  float64
	fontSize float64
	mono     bool
}

// New builds an overlay from cfg. Colors and the font size must parse.
func New(cfg config.Config) (*Overlay, error) {
	o := &Overlay{
		position: cfg.ClockPosition,
		format:   cfg.ClockFormat,
		opacity:  cfg.ClockOpacity,
		padding:  cfg.ClockPadding,
		mono:     strings.Contains(strings.ToLower(cfg.ClockFont), "mono"),
	}
	if o.opacity == 0 {
		o.opacity = 1
	}

	size, err := cfg.FontSizePixels()
	if err != nil {
		return nil, fmt.Errorf("failed to configure clock: %w", err)
	}
	o.fontSize = size

	if cfg.ClockColor != config.ClipColor {
		c, err := palette.ParseColor(cfg.ClockColor)
		if err != nil {
			return nil, fmt.Errorf("failed to parse clock color: %w", err)
		}
		o.fill = c
	}
	if !palette.IsNone(cfg.ClockOutline) {
		c, err := palette.ParseColor(cfg.ClockOutline)
		if err != nil {
			return nil, fmt.Errorf("failed to parse clock outline: %w", err)
		}
		o.outline = c
	}
	return o, nil
}

// Visible reports whether layouts will be drawn at all.
func (o *Overlay) Visible() bool { return o.position.Visible() }

// Layout computes the clock for time now inside a viewW x viewH viewport.
// pageWidth is the width the rainbow is spread over.
func (o *Overlay) Layout(now time.Time, viewW, viewH, pageWidth float64, m Measurer) Layout {
	if !o.Visible() {
		return Layout{Hidden: true}
	}

	text := Format(now, o.format)
	tw, th := m.MeasureText(text, o.fontSize, o.mono)
	boxW, boxH := tw+2*o.padding, th+2*o.padding
	x, y := PlacementFor(o.position, o.padding).Resolve(viewW, viewH, boxW, boxH)

	l := Layout{
		Text:     text,
		Box:      Rect{X: x, Y: y, W: boxW, H: boxH},
		Padding:  o.padding,
		FontSize: o.fontSize,
		Mono:     o.mono,
		Outline:  o.outline,
	}
	if o.fill != nil {
		l.Fill = Fill{Solid: o.fill}
	} else {
		l.Fill = Fill{Stops: o.gradient(l.Box, pageWidth)}
	}
	return l
}

func (o *Overlay) gradient(box Rect, pageWidth float64) []Stop {
	center := box.X + box.W/2
	left := math.Max(0, center-box.W*GradientSpread)
	right := math.Min(pageWidth, center+box.W*GradientSpread)
	middle := (left + right) / 2
	return []Stop{
		{Offset: 0, Color: palette.Rainbow(left, pageWidth, o.opacity)},
		{Offset: 0.5, Color: palette.Rainbow(middle, pageWidth, o.opacity)},
		{Offset: 1, Color: palette.Rainbow(right, pageWidth, o.opacity)},
	}
}
