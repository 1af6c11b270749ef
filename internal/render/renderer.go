package render

import (
	"image/color"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/MeKo-Tech/meshwall/internal/mesh"
)

// Style holds the drawing parameters that are not baked into mesh colors.
type Style struct {
	Background      color.Color
	BackgroundGrain float64
	DotSize         float64
	LineWidth       float64
}

// Renderer paints mesh snapshots.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer. A nil logger falls back to slog.Default.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Draw clears the surface, fills the background and paints points, edges and
// faces in that order, each layer over the previous one. Vertex positions come
// from pose; a nil pose draws the generated positions.
func (r *Renderer) Draw(s Surface, m *mesh.Mesh, pose mesh.Pose, style Style) {
	w, h := s.Size()
	s.Clear()
	if style.Background != nil {
		s.FillRect(0, 0, float64(w), float64(h), style.Background)
	}
	if style.BackgroundGrain > 0 {
		if g, ok := s.(Grainer); ok {
			g.ApplyGrain(style.BackgroundGrain)
		}
	}

	if m == nil {
		r.log().Debug("Nothing to draw; no mesh yet")
		return
	}

	radius := style.DotSize / 2
	for i := range m.Points {
		s.FillCircle(m.Position(i, pose), radius, m.Points[i].Color)
	}

	for _, e := range m.Edges {
		s.StrokeLine(m.Position(e.A, pose), m.Position(e.B, pose), style.LineWidth, e.Color)
	}

	for _, f := range m.Faces {
		ring := orb.Ring{
			m.Position(f.A, pose),
			m.Position(f.B, pose),
			m.Position(f.C, pose),
		}
		s.FillPolygon(ring, f.Color)
	}
}

func (r *Renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
