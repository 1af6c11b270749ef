package mesh

import (
	"math"
	"time"
)

// PhaseModulus bounds the animation clock in milliseconds. It is a whole number
// of sine periods (2π·1000 ms each), so reducing by it leaves every pose unchanged.
const PhaseModulus = 2 * math.Pi * 1000 * 100_000

// Pose holds the animated Y of every point for one frame, indexed by point id.
type Pose []float64

// Phase converts elapsed time into the bounded animation clock in milliseconds.
func Phase(elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	return math.Mod(ms, PhaseModulus)
}

// Pose computes y + sin(phase/1000 + i)·amplitude for every point i.
// The point id serves as a fixed per-point phase offset.
func (m *Mesh) Pose(phase, amplitude float64) Pose {
	pose := make(Pose, len(m.Points))
	for i, pt := range m.Points {
		pose[i] = pt.Y + math.Sin(phase/1000+float64(i))*amplitude
	}
	return pose
}
