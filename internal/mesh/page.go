package mesh

import "github.com/paulmach/orb"

// HeightPadding stretches the logical page below the visible surface so the
// mesh can bleed past the bottom edge.
const HeightPadding = 1.1

// PageMetrics is the logical drawing area used by every geometry formula.
type PageMetrics struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewPageMetrics derives page metrics from raw surface dimensions.
func NewPageMetrics(surfaceWidth, surfaceHeight int) PageMetrics {
	return PageMetrics{
		Width:  float64(surfaceWidth),
		Height: float64(surfaceHeight) * HeightPadding,
	}
}

// Empty reports whether the page has no drawable area.
func (p PageMetrics) Empty() bool {
	return p.Width <= 0 || p.Height <= 0
}

// Bound returns the page rectangle.
func (p PageMetrics) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{p.Width, p.Height}}
}
