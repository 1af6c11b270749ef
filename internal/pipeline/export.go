package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/MeKo-Tech/meshwall/internal/render"
	"github.com/MeKo-Tech/meshwall/internal/svgexport"
)

// WriteSVG writes the frame at elapsed as an SVG document. The clock overlay
// is raster only and is not part of the vector output.
func (g *FrameGenerator) WriteSVG(w io.Writer, elapsed time.Duration, title string) error {
	canvas, err := svgexport.NewCanvas(g.opts.Width, g.opts.Height, title)
	if err != nil {
		return err
	}
	g.renderer.Draw(canvas, g.opts.Mesh, g.Pose(elapsed), render.StyleFor(g.opts.Config))
	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}
