// Package raster implements the drawing surface on top of an in-memory RGBA
// image using the x/image vector rasterizer.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/gift"
	"github.com/paulmach/orb"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four arcs approximate a circle.
const kappa = 0.5522847498

// Canvas is a raster drawing surface. Drawing happens at width*scale by
// height*scale device pixels; Image resamples back to the logical size.
type Canvas struct {
	img    *image.RGBA
	ras    *vector.Rasterizer
	width  int
	height int
	scale  int
	seed   int64
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithSupersample draws at factor times the logical resolution.
func WithSupersample(factor int) Option {
	return func(c *Canvas) {
		if factor > 1 {
			c.scale = factor
		}
	}
}

// WithSeed sets the seed of the background grain noise.
func WithSeed(seed int64) Option {
	return func(c *Canvas) { c.seed = seed }
}

// NewCanvas allocates a transparent canvas of the given logical size.
func NewCanvas(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	c := &Canvas{width: width, height: height, scale: 1, seed: 1}
	for _, opt := range opts {
		opt(c)
	}
	dw, dh := width*c.scale, height*c.scale
	c.img = image.NewRGBA(image.Rect(0, 0, dw, dh))
	c.ras = vector.NewRasterizer(dw, dh)
	c.ras.DrawOp = draw.Over
	return c, nil
}

// Size returns the logical dimensions.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Clear resets the canvas to transparent.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// FillRect composites an axis-aligned rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.begin()
	c.moveTo(x, y)
	c.lineTo(x+w, y)
	c.lineTo(x+w, y+h)
	c.lineTo(x, y+h)
	c.ras.ClosePath()
	c.draw(col)
}

// FillCircle composites a filled disc.
func (c *Canvas) FillCircle(center orb.Point, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	cx, cy := center.X(), center.Y()
	k := radius * kappa

	c.begin()
	c.moveTo(cx+radius, cy)
	c.cubeTo(cx+radius, cy+k, cx+k, cy+radius, cx, cy+radius)
	c.cubeTo(cx-k, cy+radius, cx-radius, cy+k, cx-radius, cy)
	c.cubeTo(cx-radius, cy-k, cx-k, cy-radius, cx, cy-radius)
	c.cubeTo(cx+k, cy-radius, cx+radius, cy-k, cx+radius, cy)
	c.ras.ClosePath()
	c.draw(col)
}

// StrokeLine composites a straight segment with butt caps as a quad.
func (c *Canvas) StrokeLine(from, to orb.Point, width float64, col color.Color) {
	if width <= 0 {
		return
	}
	dx, dy := to.X()-from.X(), to.Y()-from.Y()
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal scaled to half the stroke width.
	nx, ny := -dy/length*width/2, dx/length*width/2

	c.begin()
	c.moveTo(from.X()+nx, from.Y()+ny)
	c.lineTo(to.X()+nx, to.Y()+ny)
	c.lineTo(to.X()-nx, to.Y()-ny)
	c.lineTo(from.X()-nx, from.Y()-ny)
	c.ras.ClosePath()
	c.draw(col)
}

// FillPolygon composites a closed ring using the non-zero winding rule.
func (c *Canvas) FillPolygon(ring orb.Ring, col color.Color) {
	if len(ring) < 3 {
		return
	}
	c.begin()
	for i, pt := range ring {
		if i == 0 {
			c.moveTo(pt.X(), pt.Y())
			continue
		}
		c.lineTo(pt.X(), pt.Y())
	}
	c.ras.ClosePath()
	c.draw(col)
}

// Image returns the canvas at its logical resolution. With supersampling the
// device image is downscaled with a Lanczos filter.
func (c *Canvas) Image() image.Image {
	if c.scale == 1 {
		return c.img
	}
	g := gift.New(gift.Resize(c.width, c.height, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(c.img.Bounds()))
	g.Draw(dst, c.img)
	return dst
}

// EncodePNG writes the logical image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.Image()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func (c *Canvas) begin() {
	c.ras.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	c.ras.DrawOp = draw.Over
}

func (c *Canvas) draw(col color.Color) {
	c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *Canvas) moveTo(x, y float64) {
	s := float64(c.scale)
	c.ras.MoveTo(float32(x*s), float32(y*s))
}

func (c *Canvas) lineTo(x, y float64) {
	s := float64(c.scale)
	c.ras.LineTo(float32(x*s), float32(y*s))
}

func (c *Canvas) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	s := float64(c.scale)
	c.ras.CubeTo(float32(x1*s), float32(y1*s), float32(x2*s), float32(y2*s), float32(x3*s), float32(y3*s))
}
