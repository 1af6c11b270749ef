package clock

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Painter draws a layout onto a frame.
type Painter interface {
	Paint(dst *image.RGBA, l Layout) error
}

// outlineOffsets approximate a one pixel text stroke.
var outlineOffsets = [8][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

var (
	regularFont = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(goregular.TTF) })
	monoFont    = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(gomono.TTF) })
)

type faceKey struct {
	size float64
	mono bool
}

// GGPainter measures and paints clock text with the Go fonts. It is safe for
// concurrent use.
type GGPainter struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewGGPainter creates a painter with an empty face cache.
func NewGGPainter() *GGPainter {
	return &GGPainter{faces: make(map[faceKey]font.Face)}
}

func (p *GGPainter) face(size float64, mono bool) (font.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := faceKey{size: size, mono: mono}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	load := regularFont
	if mono {
		load = monoFont
	}
	ttf, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: size})
	p.faces[key] = f
	return f, nil
}

// MeasureText implements Measurer. Unloadable fonts measure as empty.
func (p *GGPainter) MeasureText(text string, size float64, mono bool) (float64, float64) {
	f, err := p.face(size, mono)
	if err != nil {
		return 0, 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(f)
	return dc.MeasureString(text)
}

// Paint implements Painter. Gradient fills are clipped to the glyphs with an
// alpha mask.
func (p *GGPainter) Paint(dst *image.RGBA, l Layout) error {
	if l.Hidden || l.Text == "" {
		return nil
	}
	f, err := p.face(l.FontSize, l.Mono)
	if err != nil {
		return err
	}
	// truetype faces are not safe for concurrent use.
	p.mu.Lock()
	defer p.mu.Unlock()

	x, y := l.Box.X+l.Padding, l.Box.Y+l.Padding
	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(f)

	if l.Outline != nil {
		dc.SetColor(l.Outline)
		for _, off := range outlineOffsets {
			dc.DrawStringAnchored(l.Text, x+off[0], y+off[1], 0, 1)
		}
	}

	if !l.Fill.Gradient() {
		dc.SetColor(l.Fill.Solid)
		dc.DrawStringAnchored(l.Text, x, y, 0, 1)
		return nil
	}

	b := dst.Bounds()
	mask := gg.NewContext(b.Dx(), b.Dy())
	mask.SetFontFace(f)
	mask.SetRGB(1, 1, 1)
	mask.DrawStringAnchored(l.Text, x, y, 0, 1)
	if err := dc.SetMask(mask.AsMask()); err != nil {
		return fmt.Errorf("failed to set text mask: %w", err)
	}

	grad := gg.NewLinearGradient(l.Box.X, 0, l.Box.X+l.Box.W, 0)
	for _, s := range l.Fill.Stops {
		grad.AddColorStop(s.Offset, s.Color)
	}
	dc.SetFillStyle(grad)
	dc.DrawRectangle(l.Box.X, l.Box.Y, l.Box.W, l.Box.H)
	dc.Fill()
	dc.ResetClip()
	return nil
}
