// Package pipeline renders frames of one generated mesh outside the live scene,
// for frame sequences and single exports.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/meshwall/internal/clock"
	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/mesh"
	"github.com/MeKo-Tech/meshwall/internal/raster"
	"github.com/MeKo-Tech/meshwall/internal/render"
	"github.com/MeKo-Tech/meshwall/internal/worker"
)

// Sink stores encoded frames. framestore.Writer implements it.
type Sink interface {
	WriteFrame(index int, elapsed time.Duration, data []byte) error
}

// Options configures a FrameGenerator.
type Options struct {
	Config config.Config
	Mesh   *mesh.Mesh
	Width  int
	Height int
	// OutputDir receives frame_NNNNN.png files when Sink is nil.
	OutputDir string
	Sink      Sink
	// ClockStart is the wall time of frame zero, used by the clock overlay.
	ClockStart time.Time
	Text       clock.Painter
	Measurer   clock.Measurer
	Seed       int64
	Force      bool
	Logger     *slog.Logger
}

// FrameGenerator renders frames of a single immutable mesh. Generate is safe
// for concurrent use; every call owns its canvas and pose.
type FrameGenerator struct {
	opts     Options
	overlay  *clock.Overlay
	renderer *render.Renderer
	logger   *slog.Logger
}

// GenerateMesh builds a mesh for a width x height surface. A zero seed uses
// the current time.
func GenerateMesh(cfg config.Config, width, height int, seed int64) (*mesh.Mesh, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // nolint:gosec
	m, err := mesh.Generate(mesh.NewPageMetrics(width, height), cfg.MeshParams(), rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mesh: %w", err)
	}
	return m, nil
}

// NewFrameGenerator validates opts and prepares a generator.
func NewFrameGenerator(opts Options) (*FrameGenerator, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Mesh == nil {
		return nil, fmt.Errorf("mesh is required")
	}

	g := &FrameGenerator{
		opts:     opts,
		renderer: render.NewRenderer(opts.Logger),
		logger:   opts.Logger,
	}

	overlay, err := clock.New(opts.Config)
	if err != nil {
		return nil, err
	}
	if overlay.Visible() {
		if opts.Text == nil || opts.Measurer == nil {
			p := clock.NewGGPainter()
			g.opts.Text, g.opts.Measurer = p, p
		}
		g.overlay = overlay
	}
	return g, nil
}

// Tasks returns count frame tasks spaced interval apart.
func Tasks(count int, interval time.Duration) []worker.Task {
	tasks := make([]worker.Task, count)
	for i := range tasks {
		tasks[i] = worker.Task{Index: i, Elapsed: time.Duration(i) * interval}
	}
	return tasks
}

// FramePath is the file name of frame index inside dir.
func FramePath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d.png", index))
}

// Generate renders one frame and hands it to the sink or writes it to the
// output directory. It implements worker.Generator.
func (g *FrameGenerator) Generate(ctx context.Context, task worker.Task) (string, error) {
	finalPath := ""
	if g.opts.Sink == nil {
		finalPath = FramePath(g.opts.OutputDir, task.Index)
		if !g.opts.Force {
			if _, err := os.Stat(finalPath); err == nil {
				g.log().Info("Frame already exists; skipping", "frame", task.Index, "path", finalPath)
				return finalPath, nil
			}
		}
		if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := g.Render(task.Elapsed)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode frame %d: %w", task.Index, err)
	}

	if g.opts.Sink != nil {
		if err := g.opts.Sink.WriteFrame(task.Index, task.Elapsed, buf.Bytes()); err != nil {
			return "", fmt.Errorf("failed to store frame %d: %w", task.Index, err)
		}
		g.log().Debug("Stored frame", "frame", task.Index, "bytes", buf.Len())
		return "", nil
	}

	if err := os.WriteFile(finalPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write frame file: %w", err)
	}
	g.log().Debug("Wrote frame", "frame", task.Index, "path", finalPath)
	return finalPath, nil
}

// Render draws the frame at animation time elapsed, clock included.
func (g *FrameGenerator) Render(elapsed time.Duration) (*image.RGBA, error) {
	cfg := g.opts.Config
	canvas, err := raster.NewCanvas(g.opts.Width, g.opts.Height,
		raster.WithSupersample(cfg.Supersample),
		raster.WithSeed(g.opts.Seed))
	if err != nil {
		return nil, err
	}

	g.renderer.Draw(canvas, g.opts.Mesh, g.Pose(elapsed), render.StyleFor(cfg))

	src := canvas.Image()
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)

	if g.overlay != nil {
		l := g.overlay.Layout(g.opts.ClockStart.Add(elapsed),
			float64(g.opts.Width), float64(g.opts.Height), g.opts.Mesh.Page.Width, g.opts.Measurer)
		if err := g.opts.Text.Paint(img, l); err != nil {
			return nil, fmt.Errorf("failed to paint clock: %w", err)
		}
	}
	return img, nil
}

// Pose returns the vertex pose at elapsed. Static render modes draw the
// generated positions.
func (g *FrameGenerator) Pose(elapsed time.Duration) mesh.Pose {
	if g.opts.Config.RenderMode != config.Continuous {
		return nil
	}
	return g.opts.Mesh.Pose(mesh.Phase(elapsed), g.opts.Config.AnimationAmplitude)
}

func (g *FrameGenerator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
