package scene

import (
	"image"
	"image/draw"

	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/mesh"
	"github.com/MeKo-Tech/meshwall/internal/raster"
	"github.com/MeKo-Tech/meshwall/internal/render"
	"github.com/MeKo-Tech/meshwall/internal/schedule"
)

// RenderTick is the render task body. Ticks closer than the frame interval to
// the last drawn frame are skipped; the task never disarms itself.
func (s *Scene) RenderTick(f schedule.Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page.Empty() {
		return true
	}
	if s.drewFrame && f.Elapsed-s.lastFrame < s.cfg.FrameInterval() {
		return true
	}

	if s.regenerate {
		s.regenerateLocked()
	}

	switch s.cfg.RenderMode {
	case config.RegenerateOnResize:
		if s.dirty {
			s.drawLocked(nil)
		}
	default:
		var pose mesh.Pose
		if s.mesh != nil {
			pose = s.mesh.Pose(mesh.Phase(f.Elapsed), s.cfg.AnimationAmplitude)
		}
		s.drawLocked(pose)
	}

	s.lastFrame = f.Elapsed
	s.drewFrame = true
	return true
}

// ClockTick is the clock task body. It disarms itself while the clock is
// hidden; a config with a visible position arms it again.
func (s *Scene) ClockTick(f schedule.Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overlay == nil || !s.overlay.Visible() {
		s.layout.Hidden = true
		return false
	}
	s.layout = s.overlay.Layout(f.Now, float64(s.viewW), float64(s.viewH), s.page.Width, s.text)
	return true
}

// regenerateLocked replaces the mesh. On failure the previous mesh stays.
func (s *Scene) regenerateLocked() {
	s.regenerate = false

	m, err := mesh.Generate(s.page, s.cfg.MeshParams(), s.rng)
	if err != nil {
		s.lastErr = err
		s.log().Error("Mesh regeneration failed, keeping previous mesh", "error", err)
		return
	}
	s.mesh = m
	s.generation++
	s.lastErr = nil
	s.dirty = true

	st := m.Stats()
	s.log().Info("Mesh regenerated",
		"generation", s.generation,
		"dots", st.Dots,
		"lines", st.Lines,
		"shapes", st.Shapes)
}

func (s *Scene) drawLocked(pose mesh.Pose) {
	if s.canvas == nil {
		c, err := raster.NewCanvas(s.viewW, s.viewH,
			raster.WithSupersample(s.cfg.Supersample),
			raster.WithSeed(int64(s.generation)))
		if err != nil {
			s.lastErr = err
			s.log().Error("Failed to allocate canvas", "error", err)
			return
		}
		s.canvas = c
	}

	s.renderer.Draw(s.canvas, s.mesh, pose, render.StyleFor(s.cfg))

	img := s.canvas.Image()
	if s.base == nil || s.base.Bounds() != img.Bounds() {
		s.base = image.NewRGBA(img.Bounds())
	}
	draw.Draw(s.base, s.base.Bounds(), img, img.Bounds().Min, draw.Src)
	s.frames++
	s.dirty = false
}
