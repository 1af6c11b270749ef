package config

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// Normalize replaces out-of-range values with their defaults and returns one
// warning per replaced key. DotCount is left alone: generation rejects counts
// below two and keeps the previous mesh.
func (c *Config) Normalize() []string {
	d := Defaults()
	var warnings []string
	reset := func(key string, got, want any) {
		warnings = append(warnings, fmt.Sprintf("%s: %v is out of range, using %v", key, got, want))
	}

	positive := func(key string, v *float64, def float64) {
		if !finite(*v) || *v <= 0 {
			reset(key, *v, def)
			*v = def
		}
	}
	nonNegative := func(key string, v *float64, def float64) {
		if !finite(*v) || *v < 0 {
			reset(key, *v, def)
			*v = def
		}
	}
	unit := func(key string, v *float64, def float64) {
		if !finite(*v) || *v < 0 || *v > 1 {
			reset(key, *v, def)
			*v = def
		}
	}
	anyFinite := func(key string, v *float64, def float64) {
		if !finite(*v) {
			reset(key, *v, def)
			*v = def
		}
	}

	if _, err := palette.ParseColor(c.BackgroundColor); err != nil {
		reset("backgroundColor", c.BackgroundColor, d.BackgroundColor)
		c.BackgroundColor = d.BackgroundColor
	}

	positive("curveStrength", &c.CurveStrength, d.CurveStrength)
	anyFinite("leftMaxHeight", &c.LeftMaxHeight, d.LeftMaxHeight)
	anyFinite("middleMaxHeight", &c.MiddleMaxHeight, d.MiddleMaxHeight)
	anyFinite("rightMaxHeight", &c.RightMaxHeight, d.RightMaxHeight)
	nonNegative("maxEdgeWidthDistance", &c.MaxEdgeWidthDistance, d.MaxEdgeWidthDistance)
	nonNegative("maxEdgeHeightDistance", &c.MaxEdgeHeightDistance, d.MaxEdgeHeightDistance)
	if c.MaxNeighbors < 0 {
		reset("maxNeighbors", c.MaxNeighbors, d.MaxNeighbors)
		c.MaxNeighbors = d.MaxNeighbors
	}
	anyFinite("removalThreshold", &c.RemovalThreshold, d.RemovalThreshold)

	unit("planeMinOpacity", &c.PlaneMinOpacity, d.PlaneMinOpacity)
	unit("planeMaxOpacity", &c.PlaneMaxOpacity, d.PlaneMaxOpacity)
	if c.PlaneMinOpacity > c.PlaneMaxOpacity {
		warnings = append(warnings, "planeMinOpacity: greater than planeMaxOpacity, swapping")
		c.PlaneMinOpacity, c.PlaneMaxOpacity = c.PlaneMaxOpacity, c.PlaneMinOpacity
	}
	unit("lineMinOpacity", &c.LineMinOpacity, d.LineMinOpacity)
	unit("lineMaxOpacity", &c.LineMaxOpacity, d.LineMaxOpacity)
	if c.LineMinOpacity > c.LineMaxOpacity {
		warnings = append(warnings, "lineMinOpacity: greater than lineMaxOpacity, swapping")
		c.LineMinOpacity, c.LineMaxOpacity = c.LineMaxOpacity, c.LineMinOpacity
	}
	nonNegative("lineWidth", &c.LineWidth, d.LineWidth)

	nonNegative("dotSize", &c.DotSize, d.DotSize)
	unit("dotOpacity", &c.DotOpacity, d.DotOpacity)
	anyFinite("spikeAmplitude", &c.SpikeAmplitude, d.SpikeAmplitude)
	anyFinite("spikeFrequency", &c.SpikeFrequency, d.SpikeFrequency)
	nonNegative("frameRate", &c.FrameRate, d.FrameRate)
	anyFinite("animationAmplitude", &c.AnimationAmplitude, d.AnimationAmplitude)

	if !c.ClockPosition.Valid() {
		reset("clockPosition", c.ClockPosition, d.ClockPosition)
		c.ClockPosition = d.ClockPosition
	}
	if c.ClockFormat == "" {
		reset("clockFormat", `""`, d.ClockFormat)
		c.ClockFormat = d.ClockFormat
	}
	if !palette.IsNone(c.ClockOutline) {
		if _, err := palette.ParseColor(c.ClockOutline); err != nil {
			reset("clockOutline", c.ClockOutline, d.ClockOutline)
			c.ClockOutline = d.ClockOutline
		}
	}
	if c.ClockColor != ClipColor {
		if _, err := palette.ParseColor(c.ClockColor); err != nil {
			reset("clockColor", c.ClockColor, d.ClockColor)
			c.ClockColor = d.ClockColor
		}
	}
	unit("clockOpacity", &c.ClockOpacity, d.ClockOpacity)
	nonNegative("clockPadding", &c.ClockPadding, d.ClockPadding)
	if _, err := ParseFontSize(c.ClockFontSize); err != nil {
		reset("clockFontSize", c.ClockFontSize, d.ClockFontSize)
		c.ClockFontSize = d.ClockFontSize
	}

	if !c.RenderMode.Valid() {
		reset("renderMode", c.RenderMode, d.RenderMode)
		c.RenderMode = d.RenderMode
	}
	unit("backgroundGrain", &c.BackgroundGrain, d.BackgroundGrain)
	if c.Supersample < 1 || c.Supersample > 4 {
		reset("supersample", c.Supersample, d.Supersample)
		c.Supersample = d.Supersample
	}

	return warnings
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
