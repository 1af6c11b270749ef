package mesh

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// BalancedXs returns count horizontal coordinates in increasing order,
// denser towards both edges: width·(0.5 − 0.5·cos(π·i/(count−1))).
func BalancedXs(count int, width float64) ([]float64, error) {
	if count < MinDotCount {
		return nil, fmt.Errorf("%w: dot count must be at least %d, got %d", ErrInvalidConfiguration, MinDotCount, count)
	}

	xs := make([]float64, count)
	last := float64(count - 1)
	for i := range xs {
		t := float64(i) / last
		xs[i] = width * (0.5 - 0.5*math.Cos(math.Pi*t))
	}
	return xs, nil
}

// Shuffle permutes xs in place (Fisher–Yates).
func Shuffle(xs []float64, rng *rand.Rand) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1) // nolint:gosec // visual randomness only
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Sample generates the shuffled point set. Each point's Y is uniform between the
// profile floor and the page bottom; a floor below the page bottom pins the
// point to the floor.
func Sample(page PageMetrics, p Params, rng *rand.Rand) ([]Point, error) {
	xs, err := BalancedXs(p.DotCount, page.Width)
	if err != nil {
		return nil, err
	}
	Shuffle(xs, rng)

	profile := p.Profile()
	points := make([]Point, len(xs))
	for i, x := range xs {
		floor := profile.Floor(x, page)
		bottom := math.Max(floor, page.Height)

		points[i] = Point{
			X:     x,
			Y:     uniform(rng, floor, bottom),
			Color: palette.Rainbow(x, page.Width, p.DotOpacity),
		}
	}
	return points, nil
}
