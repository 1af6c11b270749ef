package mesh

import "math/rand"

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // nolint:gosec // deterministic tests
}

// defaultParams mirrors the wallpaper defaults at a smaller dot count.
func defaultParams() Params {
	return Params{
		CurveStrength:         100,
		LeftMaxHeight:         1,
		MiddleMaxHeight:       0.2,
		RightMaxHeight:        1,
		SpikeAmplitude:        0.1,
		SpikeFrequency:        800,
		DotCount:              200,
		DotOpacity:            0.2,
		MaxEdgeWidthDistance:  200,
		MaxEdgeHeightDistance: 200,
		MaxNeighbors:          4,
		LineMinOpacity:        0.001,
		LineMaxOpacity:        0.03,
		PlaneMinOpacity:       0.001,
		PlaneMaxOpacity:       0.0075,
	}
}
