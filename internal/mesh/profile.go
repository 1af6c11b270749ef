package mesh

import "math"

// Profile is the height floor of the mesh: a U-shaped curve blended from three
// target heights plus a sinusoidal spike ripple.
type Profile struct {
	CurveStrength  float64
	Left           float64
	Middle         float64
	Right          float64
	SpikeAmplitude float64
	SpikeFrequency float64
}

// Profile returns the height profile described by p.
func (p Params) Profile() Profile {
	return Profile{
		CurveStrength:  p.CurveStrength,
		Left:           p.LeftMaxHeight,
		Middle:         p.MiddleMaxHeight,
		Right:          p.RightMaxHeight,
		SpikeAmplitude: p.SpikeAmplitude,
		SpikeFrequency: p.SpikeFrequency,
	}
}

// Floor returns the minimum vertical coordinate at x. Smaller values are higher
// on screen.
func (pr Profile) Floor(x float64, page PageMetrics) float64 {
	if page.Width <= 0 {
		return page.Height
	}

	t := 2*(x/page.Width) - 1
	u := 1 - math.Pow(math.Abs(t), pr.CurveStrength)

	var edge float64
	if t < 0 {
		edge = lerp(pr.Left, pr.Middle, 1+t)
	} else {
		edge = lerp(pr.Middle, pr.Right, t)
	}
	shape := lerp(pr.Middle, edge, u)

	spike := math.Sin((x/page.Width)*math.Pi*2*pr.SpikeFrequency) * pr.SpikeAmplitude * page.Height

	return page.Height*HeightPadding*(1-shape) + spike
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
