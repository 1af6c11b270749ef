package mesh

import (
	"math"
	"math/rand"

	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// Connect builds the neighbor graph greedily over pairs (i<j) in point order.
// A pair is accepted when both deltas are strictly below the thresholds and
// neither endpoint has reached MaxNeighbors. The result depends on point order
// by design: Sample's shuffle is what varies the mesh between generations.
//
// Neighbor lists of points are reset and filled in place.
func Connect(points []Point, page PageMetrics, p Params, rng *rand.Rand) []Edge {
	for i := range points {
		points[i].Neighbors = points[i].Neighbors[:0]
	}

	var edges []Edge
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			a, b := &points[i], &points[j]

			dx := math.Abs(a.X - b.X)
			dy := math.Abs(a.Y - b.Y)
			if dx >= p.MaxEdgeWidthDistance || dy >= p.MaxEdgeHeightDistance {
				continue
			}
			if len(a.Neighbors) >= p.MaxNeighbors || len(b.Neighbors) >= p.MaxNeighbors {
				continue
			}

			a.Neighbors = append(a.Neighbors, j)
			b.Neighbors = append(b.Neighbors, i)

			alpha := uniform(rng, p.LineMinOpacity, p.LineMaxOpacity)
			edges = append(edges, Edge{
				A:     i,
				B:     j,
				Color: palette.Rainbow((a.X+b.X)/2, page.Width, alpha),
			})
		}
	}
	return edges
}

// Adjacent reports whether point b is in a's neighbor list.
func Adjacent(points []Point, a, b int) bool {
	for _, n := range points[a].Neighbors {
		if n == b {
			return true
		}
	}
	return false
}
