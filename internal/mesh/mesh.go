// Package mesh builds the procedural geometry of the background: density-biased
// point samples, a degree-capped neighbor graph and the triangles derived from it.
//
// Points live in an arena (Mesh.Points) and refer to each other by index, so a
// Mesh has no reference cycles and can be copied, inspected and serialized freely.
package mesh

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// ErrInvalidConfiguration is returned when parameters make generation impossible.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MinDotCount is the smallest sample count the cosine parametrization supports.
const MinDotCount = 2

// Params holds the generation parameters. It is derived from the application
// config and only read during generation.
type Params struct {
	// Height profile
	CurveStrength   float64
	LeftMaxHeight   float64
	MiddleMaxHeight float64
	RightMaxHeight  float64
	SpikeAmplitude  float64 // fraction of page height
	SpikeFrequency  float64 // spikes across the full width

	// Sampling
	DotCount   int
	DotOpacity float64

	// Graph
	MaxEdgeWidthDistance  float64
	MaxEdgeHeightDistance float64
	MaxNeighbors          int
	LineMinOpacity        float64
	LineMaxOpacity        float64

	// Faces
	PlaneMinOpacity float64
	PlaneMaxOpacity float64
	DedupeFaces     bool
	// OpenFaces emits a face for every pair of an anchor's neighbors, closed
	// triangle or not. By default only pairs adjacent to each other qualify.
	OpenFaces bool
}

// Point is a sample. X and Y never change after generation.
type Point struct {
	X, Y      float64
	Neighbors []int // ids of adjacent points, in acceptance order
	Color     palette.HSLA
}

// Edge connects two mutually adjacent points.
type Edge struct {
	A, B  int
	Color palette.HSLA
}

// Face is a filled triangle. Its points are pairwise adjacent unless
// Params.OpenFaces is set, in which case only A-B and A-C are guaranteed.
type Face struct {
	A, B, C int
	Color   palette.HSLA
}

// Mesh is one generated geometry snapshot. It is immutable once returned by Generate.
type Mesh struct {
	Page   PageMetrics
	Points []Point
	Edges  []Edge
	Faces  []Face
}

// Stats summarizes a mesh.
type Stats struct {
	Dots   int `json:"dots"`
	Lines  int `json:"lines"`
	Shapes int `json:"shapes"`
}

// Generate runs the full pipeline: sampling, neighbor graph, triangles.
func Generate(page PageMetrics, p Params, rng *rand.Rand) (*Mesh, error) {
	points, err := Sample(page, p, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to sample points: %w", err)
	}

	edges := Connect(points, page, p, rng)
	faces := Triangulate(points, page, p, rng)

	return &Mesh{
		Page:   page,
		Points: points,
		Edges:  edges,
		Faces:  faces,
	}, nil
}

// Stats returns the element counts of the mesh.
func (m *Mesh) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{Dots: len(m.Points), Lines: len(m.Edges), Shapes: len(m.Faces)}
}

// Position returns the drawn position of point i under pose.
// A nil pose, or one too short for i, yields the generated Y.
func (m *Mesh) Position(i int, pose Pose) orb.Point {
	pt := m.Points[i]
	if i < len(pose) {
		return orb.Point{pt.X, pose[i]}
	}
	return orb.Point{pt.X, pt.Y}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo) // nolint:gosec // visual randomness only
}
