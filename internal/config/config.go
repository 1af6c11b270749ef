// Package config holds the wallpaper parameters, their defaults and the
// adapters that fill them from property snapshots and config files.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/meshwall/internal/mesh"
)

// RenderMode selects how the scene reacts to time and resizes.
type RenderMode string

const (
	// Continuous animates one persistent mesh on every admitted frame.
	Continuous RenderMode = "continuous"
	// RegenerateOnResize rebuilds the mesh when the page changes and draws it
	// without animation.
	RegenerateOnResize RenderMode = "regenerate-on-resize"
)

// Valid reports whether m is a known mode.
func (m RenderMode) Valid() bool {
	return m == Continuous || m == RegenerateOnResize
}

// ClockPosition names one of the nine clock anchors, or none.
type ClockPosition string

const (
	ClockNone        ClockPosition = "none"
	ClockLeft        ClockPosition = "left"
	ClockCenter      ClockPosition = "center"
	ClockRight       ClockPosition = "right"
	ClockTopLeft     ClockPosition = "top-left"
	ClockTop         ClockPosition = "top"
	ClockTopRight    ClockPosition = "top-right"
	ClockBottomLeft  ClockPosition = "bottom-left"
	ClockBottom      ClockPosition = "bottom"
	ClockBottomRight ClockPosition = "bottom-right"
)

// ClockPositions lists every anchor in display order.
var ClockPositions = []ClockPosition{
	ClockLeft, ClockCenter, ClockRight,
	ClockTopLeft, ClockTop, ClockTopRight,
	ClockBottomLeft, ClockBottom, ClockBottomRight,
}

// Visible reports whether the clock is drawn at this position.
func (p ClockPosition) Visible() bool {
	for _, known := range ClockPositions {
		if p == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is an anchor or none.
func (p ClockPosition) Valid() bool {
	return p == ClockNone || p.Visible()
}

// ClipColor makes the clock use the rainbow gradient instead of a flat color.
const ClipColor = "clip"

// Config is the full parameter set. The mapstructure tags are the lower-cased
// property names used by config files and property snapshots.
type Config struct {
	BackgroundColor string `mapstructure:"backgroundcolor" json:"backgroundColor"`

	CurveStrength   float64 `mapstructure:"curvestrength" json:"curveStrength"`
	LeftMaxHeight   float64 `mapstructure:"leftmaxheight" json:"leftMaxHeight"`
	MiddleMaxHeight float64 `mapstructure:"middlemaxheight" json:"middleMaxHeight"`
	RightMaxHeight  float64 `mapstructure:"rightmaxheight" json:"rightMaxHeight"`

	MaxEdgeWidthDistance  float64 `mapstructure:"maxedgewidthdistance" json:"maxEdgeWidthDistance"`
	MaxEdgeHeightDistance float64 `mapstructure:"maxedgeheightdistance" json:"maxEdgeHeightDistance"`
	MaxNeighbors          int     `mapstructure:"maxneighbors" json:"maxNeighbors"`
	// RemovalThreshold is accepted and kept but not used by generation.
	RemovalThreshold float64 `mapstructure:"removalthreshold" json:"removalThreshold"`

	PlaneMinOpacity float64 `mapstructure:"planeminopacity" json:"planeMinOpacity"`
	PlaneMaxOpacity float64 `mapstructure:"planemaxopacity" json:"planeMaxOpacity"`
	LineMinOpacity  float64 `mapstructure:"lineminopacity" json:"lineMinOpacity"`
	LineMaxOpacity  float64 `mapstructure:"linemaxopacity" json:"lineMaxOpacity"`
	LineWidth       float64 `mapstructure:"linewidth" json:"lineWidth"`

	DotCount   int     `mapstructure:"dotcount" json:"dotCount"`
	DotSize    float64 `mapstructure:"dotsize" json:"dotSize"`
	DotOpacity float64 `mapstructure:"dotopacity" json:"dotOpacity"`

	SpikeAmplitude float64 `mapstructure:"spikeamplitude" json:"spikeAmplitude"`
	SpikeFrequency float64 `mapstructure:"spikefrequency" json:"spikeFrequency"`

	// FrameRate is the minimum time between drawn frames in milliseconds.
	FrameRate          float64 `mapstructure:"framerate" json:"frameRate"`
	AnimationAmplitude float64 `mapstructure:"animationamplitude" json:"animationAmplitude"`

	ClockPosition ClockPosition `mapstructure:"clockposition" json:"clockPosition"`
	ClockFormat   string        `mapstructure:"clockformat" json:"clockFormat"`
	ClockOutline  string        `mapstructure:"clockoutline" json:"clockOutline"`
	ClockColor    string        `mapstructure:"clockcolor" json:"clockColor"`
	ClockOpacity  float64       `mapstructure:"clockopacity" json:"clockOpacity"`
	ClockPadding  float64       `mapstructure:"clockpadding" json:"clockPadding"`
	ClockFontSize string        `mapstructure:"clockfontsize" json:"clockFontSize"`
	ClockFont     string        `mapstructure:"clockfont" json:"clockFont"`

	RenderMode      RenderMode `mapstructure:"rendermode" json:"renderMode"`
	DedupeFaces     bool       `mapstructure:"dedupefaces" json:"dedupeFaces"`
	OpenFaces       bool       `mapstructure:"openfaces" json:"openFaces"`
	BackgroundGrain float64    `mapstructure:"backgroundgrain" json:"backgroundGrain"`
	Supersample     int        `mapstructure:"supersample" json:"supersample"`
}

// Defaults returns the stock wallpaper configuration.
func Defaults() Config {
	return Config{
		BackgroundColor:       "#050206",
		CurveStrength:         100,
		LeftMaxHeight:         1,
		MiddleMaxHeight:       0.2,
		RightMaxHeight:        1,
		MaxEdgeWidthDistance:  200,
		MaxEdgeHeightDistance: 200,
		MaxNeighbors:          4,
		RemovalThreshold:      3,
		PlaneMinOpacity:       0.001,
		PlaneMaxOpacity:       0.0075,
		LineMinOpacity:        0.001,
		LineMaxOpacity:        0.03,
		LineWidth:             1,
		DotCount:              500,
		DotSize:               2,
		DotOpacity:            0.2,
		SpikeAmplitude:        0.1,
		SpikeFrequency:        800,
		FrameRate:             1,
		AnimationAmplitude:    3,
		ClockPosition:         ClockNone,
		ClockFormat:           "HH:mm",
		ClockOutline:          "#f0f0f01f",
		ClockColor:            ClipColor,
		ClockOpacity:          0.5,
		ClockPadding:          10,
		ClockFontSize:         "100px",
		ClockFont:             "'monospace', monospace",
		RenderMode:            Continuous,
		BackgroundGrain:       0,
		Supersample:           1,
	}
}

// MeshParams extracts the generation parameters. Zero spike settings are
// replaced by their fallbacks here, so the config itself round-trips.
func (c Config) MeshParams() mesh.Params {
	return mesh.Params{
		CurveStrength:         c.CurveStrength,
		LeftMaxHeight:         c.LeftMaxHeight,
		MiddleMaxHeight:       c.MiddleMaxHeight,
		RightMaxHeight:        c.RightMaxHeight,
		SpikeAmplitude:        orFallback(c.SpikeAmplitude, FallbackSpikeAmplitude),
		SpikeFrequency:        orFallback(c.SpikeFrequency, FallbackSpikeFrequency),
		DotCount:              c.DotCount,
		DotOpacity:            c.DotOpacity,
		MaxEdgeWidthDistance:  c.MaxEdgeWidthDistance,
		MaxEdgeHeightDistance: c.MaxEdgeHeightDistance,
		MaxNeighbors:          c.MaxNeighbors,
		LineMinOpacity:        c.LineMinOpacity,
		LineMaxOpacity:        c.LineMaxOpacity,
		PlaneMinOpacity:       c.PlaneMinOpacity,
		PlaneMaxOpacity:       c.PlaneMaxOpacity,
		DedupeFaces:           c.DedupeFaces,
		OpenFaces:             c.OpenFaces,
	}
}

// A spike amplitude or frequency of 0 means unset and falls back to these.
const (
	FallbackSpikeAmplitude = 0.1
	FallbackSpikeFrequency = 5
)

func orFallback(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

// FrameInterval is FrameRate as a duration.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameRate * float64(time.Millisecond))
}

// FontSizePixels parses ClockFontSize ("100px" or "100") into pixels.
func (c Config) FontSizePixels() (float64, error) {
	return ParseFontSize(c.ClockFontSize)
}

// ParseFontSize accepts a positive number with an optional px suffix.
func ParseFontSize(s string) (float64, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "px")
	size, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid font size %q: %w", s, err)
	}
	if size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
		return 0, fmt.Errorf("invalid font size %q: must be positive", s)
	}
	return size, nil
}
