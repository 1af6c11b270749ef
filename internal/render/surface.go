// Package render draws a mesh snapshot onto a 2D drawing surface.
package render

import (
	"image/color"

	"github.com/paulmach/orb"
)

// Surface is the drawing capability the renderer consumes. Coordinates are in
// surface pixels; colors may carry alpha and are composited over what is
// already drawn.
type Surface interface {
	// Size returns the logical surface dimensions.
	Size() (width, height int)
	// Clear resets every pixel to transparent.
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(center orb.Point, radius float64, c color.Color)
	StrokeLine(from, to orb.Point, width float64, c color.Color)
	FillPolygon(ring orb.Ring, c color.Color)
}

// Grainer is implemented by surfaces that can add a noise texture over the
// background. strength is in [0,1].
type Grainer interface {
	ApplyGrain(strength float64)
}
