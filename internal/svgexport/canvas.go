// Package svgexport implements the drawing surface as an SVG document.
package svgexport

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
)

// precision is the number of user units per pixel. svgo takes integer
// coordinates, so geometry is scaled up and a viewBox maps it back.
const precision = 100

// Canvas records drawing calls as SVG elements.
type Canvas struct {
	body   bytes.Buffer
	doc    *svg.SVG
	title  string
	width  int
	height int
}

// NewCanvas creates an empty SVG surface of the given pixel size.
func NewCanvas(width, height int, title string) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	c := &Canvas{width: width, height: height, title: title}
	c.doc = svg.New(&c.body)
	return c, nil
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Clear drops every element drawn so far.
func (c *Canvas) Clear() { c.body.Reset() }

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.doc.Rect(scale(x), scale(y), scale(w), scale(h), fill(col))
}

func (c *Canvas) FillCircle(center orb.Point, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	c.doc.Circle(scale(center.X()), scale(center.Y()), scale(radius), fill(col))
}

func (c *Canvas) StrokeLine(from, to orb.Point, width float64, col color.Color) {
	if width <= 0 {
		return
	}
	c.doc.Line(scale(from.X()), scale(from.Y()), scale(to.X()), scale(to.Y()), stroke(col, width))
}

func (c *Canvas) FillPolygon(ring orb.Ring, col color.Color) {
	if len(ring) < 3 {
		return
	}
	xs := make([]int, len(ring))
	ys := make([]int, len(ring))
	for i, pt := range ring {
		xs[i], ys[i] = scale(pt.X()), scale(pt.Y())
	}
	c.doc.Polygon(xs, ys, fill(col))
}

// WriteTo writes the complete document.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	doc := svg.New(cw)
	doc.Startview(c.width, c.height, 0, 0, c.width*precision, c.height*precision)
	if c.title != "" {
		doc.Title(c.title)
	}
	if _, err := cw.Write(c.body.Bytes()); err != nil {
		return cw.n, fmt.Errorf("failed to write SVG body: %w", err)
	}
	doc.End()
	return cw.n, cw.err
}

func scale(v float64) int {
	return int(math.Round(v * precision))
}

func fill(col color.Color) string {
	rgb, alpha := split(col)
	return "fill:" + rgb + ";fill-opacity:" + alpha
}

func stroke(col color.Color, width float64) string {
	rgb, alpha := split(col)
	return "stroke:" + rgb + ";stroke-opacity:" + alpha + ";stroke-width:" + strconv.Itoa(scale(width))
}

func split(col color.Color) (rgb, alpha string) {
	n, _ := color.NRGBAModel.Convert(col).(color.NRGBA)
	rgb = fmt.Sprintf("rgb(%d,%d,%d)", n.R, n.G, n.B)
	alpha = strconv.FormatFloat(math.Round(float64(n.A)/255*1000)/1000, 'f', -1, 64)
	return rgb, alpha
}

// countingWriter remembers the first error since svgo discards write errors.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}
