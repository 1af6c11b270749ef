// Package scene is the application context of the live wallpaper: the current
// configuration, page size and mesh, plus the render and clock tasks that run
// on a shared scheduler.
//
// Outside events (config snapshots, property updates, resizes) only record
// pending state. The render task observes it at the start of the next admitted
// frame, so a frame never sees a half-applied change.
package scene

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/MeKo-Tech/meshwall/internal/clock"
	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/mesh"
	"github.com/MeKo-Tech/meshwall/internal/raster"
	"github.com/MeKo-Tech/meshwall/internal/render"
	"github.com/MeKo-Tech/meshwall/internal/schedule"
)

// ErrNoFrame is returned when no frame has been rendered yet.
var ErrNoFrame = errors.New("no frame rendered yet")

// TextRenderer measures and paints the clock.
type TextRenderer interface {
	clock.Measurer
	clock.Painter
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) { s.logger = l }
}

// WithRand sets the random source used for generation.
func WithRand(r *rand.Rand) Option {
	return func(s *Scene) { s.rng = r }
}

// WithTextRenderer replaces the clock text renderer.
func WithTextRenderer(t TextRenderer) Option {
	return func(s *Scene) { s.text = t }
}

// Status is a point-in-time summary of the scene.
type Status struct {
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	Page         mesh.PageMetrics  `json:"page"`
	Mesh         mesh.Stats        `json:"mesh"`
	Generation   int               `json:"generation"`
	Frames       uint64            `json:"frames"`
	RenderMode   config.RenderMode `json:"renderMode"`
	ClockVisible bool              `json:"clockVisible"`
	LastError    string            `json:"lastError,omitempty"`
}

// Scene owns all mutable wallpaper state.
type Scene struct {
	logger   *slog.Logger
	rng      *rand.Rand
	text     TextRenderer
	renderer *render.Renderer

	mu         sync.Mutex
	cfg        config.Config
	overlay    *clock.Overlay
	viewW      int
	viewH      int
	page       mesh.PageMetrics
	mesh       *mesh.Mesh
	generation int
	regenerate bool
	dirty      bool
	lastFrame  time.Duration
	drewFrame  bool
	canvas     *raster.Canvas
	base       *image.RGBA
	layout     clock.Layout
	frames     uint64
	lastErr    error
	renderTask *schedule.Task
	clockTask  *schedule.Task
}

// New creates a scene with cfg. The scene draws nothing until it has a size.
func New(cfg config.Config, opts ...Option) *Scene {
	s := &Scene{regenerate: true, dirty: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec
	}
	if s.text == nil {
		s.text = clock.NewGGPainter()
	}
	s.renderer = render.NewRenderer(s.logger)
	s.setConfig(cfg)
	return s
}

// Attach registers the render and clock tasks on sched and arms them. The
// clock task stays disarmed while the clock is hidden.
func (s *Scene) Attach(sched *schedule.Scheduler) {
	renderTask := sched.NewTask("render", s.RenderTick)
	clockTask := sched.NewTask("clock", s.ClockTick)

	s.mu.Lock()
	s.renderTask, s.clockTask = renderTask, clockTask
	visible := s.overlay != nil && s.overlay.Visible()
	s.mu.Unlock()

	renderTask.Start()
	if visible {
		clockTask.Start()
	}
}

// ApplyConfig replaces the configuration. The next frame is drawn without
// throttling and regenerates the mesh.
func (s *Scene) ApplyConfig(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setConfig(cfg)
}

// ApplyProperties merges a property snapshot into the current configuration.
// Malformed values leave the configuration untouched.
func (s *Scene) ApplyProperties(props map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, unused, err := config.ApplyProperties(s.cfg, props)
	if err != nil {
		return err
	}
	for _, key := range unused {
		s.log().Debug("Ignoring unknown property", "key", key)
	}
	s.setConfig(next)
	return nil
}

// Resize records new surface dimensions and schedules regeneration.
func (s *Scene) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width == s.viewW && height == s.viewH {
		return
	}
	s.viewW, s.viewH = width, height
	s.page = mesh.NewPageMetrics(width, height)
	s.regenerate = true
	s.dirty = true
	s.drewFrame = false
	s.canvas = nil
	s.log().Debug("Surface resized", "width", width, "height", height)
}

// Config returns the active configuration.
func (s *Scene) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Mesh returns the current mesh, or nil before the first generation.
func (s *Scene) Mesh() *mesh.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mesh
}

// Status summarizes the scene.
func (s *Scene) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Width:        s.viewW,
		Height:       s.viewH,
		Page:         s.page,
		Mesh:         s.mesh.Stats(),
		Generation:   s.generation,
		Frames:       s.frames,
		RenderMode:   s.cfg.RenderMode,
		ClockVisible: s.overlay != nil && s.overlay.Visible(),
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// setConfig must be called with mu held.
func (s *Scene) setConfig(cfg config.Config) {
	for _, w := range cfg.Normalize() {
		s.log().Warn("Config value reset", "reason", w)
	}
	s.cfg = cfg
	s.regenerate = true
	s.dirty = true
	s.drewFrame = false
	s.canvas = nil

	overlay, err := clock.New(cfg)
	if err != nil {
		s.log().Error("Clock disabled", "error", err)
		overlay = nil
	}
	s.overlay = overlay
	if overlay != nil && overlay.Visible() && s.clockTask != nil {
		s.clockTask.Start()
	}
}

// WritePNG encodes the latest frame with the clock composited on top.
func (s *Scene) WritePNG(w io.Writer) error {
	img, err := s.Frame()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// Frame returns a copy of the latest frame with the clock composited on top.
func (s *Scene) Frame() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.base == nil {
		return nil, ErrNoFrame
	}
	out := image.NewRGBA(s.base.Bounds())
	draw.Draw(out, out.Bounds(), s.base, image.Point{}, draw.Src)
	if !s.layout.Hidden && s.layout.Text != "" {
		if err := s.text.Paint(out, s.layout); err != nil {
			s.log().Warn("Failed to paint clock", "error", err)
		}
	}
	return out, nil
}

func (s *Scene) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
