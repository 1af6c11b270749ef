package mesh

import (
	"math/rand"
	"sort"

	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// Triangulate derives faces from the neighbor lists. For every anchor and every
// pair of its neighbors (in list order) that are adjacent to each other, one
// face is emitted. A triangle is therefore found once per corner; with
// DedupeFaces only the first occurrence of each vertex set is kept.
// OpenFaces drops the adjacency requirement, filling open wedges too.
func Triangulate(points []Point, page PageMetrics, p Params, rng *rand.Rand) []Face {
	var (
		faces []Face
		seen  map[[3]int]struct{}
	)
	if p.DedupeFaces {
		seen = make(map[[3]int]struct{})
	}

	for a := range points {
		nbrs := points[a].Neighbors
		for i := 0; i < len(nbrs); i++ {
			for j := i + 1; j < len(nbrs); j++ {
				b, c := nbrs[i], nbrs[j]
				if !p.OpenFaces && !Adjacent(points, b, c) {
					continue
				}

				if seen != nil {
					key := canonical(a, b, c)
					if _, dup := seen[key]; dup {
						continue
					}
					seen[key] = struct{}{}
				}

				cx := (points[a].X + points[b].X + points[c].X) / 3
				alpha := uniform(rng, p.PlaneMinOpacity, p.PlaneMaxOpacity)
				faces = append(faces, Face{
					A:     a,
					B:     b,
					C:     c,
					Color: palette.Rainbow(cx, page.Width, alpha),
				})
			}
		}
	}
	return faces
}

func canonical(a, b, c int) [3]int {
	k := []int{a, b, c}
	sort.Ints(k)
	return [3]int{k[0], k[1], k[2]}
}
