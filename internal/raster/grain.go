package raster

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// grainScale is the noise period in device pixels.
const grainScale = 24.0

// maxGrainShift is the largest per-channel brightness change at strength 1.
const maxGrainShift = 48.0

// ApplyGrain modulates the brightness of every pixel with Perlin noise.
// strength is clamped to [0,1]; 0 leaves the canvas untouched.
func (c *Canvas) ApplyGrain(strength float64) {
	strength = math.Max(0, math.Min(1, strength))
	if strength == 0 {
		return
	}

	p := perlin.NewPerlin(2.0, 2.0, 3, c.seed)
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := c.img.PixOffset(x, y)
			a := float64(c.img.Pix[i+3])
			if a == 0 {
				continue
			}
			shift := p.Noise2D(float64(x)/grainScale, float64(y)/grainScale) * maxGrainShift * strength
			for ch := 0; ch < 3; ch++ {
				// Premultiplied channels stay within [0, alpha].
				v := float64(c.img.Pix[i+ch]) + shift*a/255
				c.img.Pix[i+ch] = uint8(math.Round(math.Max(0, math.Min(a, v))))
			}
		}
	}
}
