package preset

import (
	"math"
	rand "math/rand/v2"

	"github.com/lox/galaxygen/galaxy"
	"github.com/lucasb-eyer/go-colorful"
)

// Randomize returns s with every tunable drawn from its "reasonable" range.
// Arms and twist are only redrawn in spiral mode; the mode itself is kept.
func Randomize(rng *rand.Rand, s Settings) Settings {
	g := &s.Galaxy
	g.Count = rng.IntN(45000) + 5000
	s.View.Size = uniform(rng, 0.5, 3.5)
	g.Radius = uniform(rng, 150, 300)
	g.Spread = uniform(rng, 0.5, 1.5)
	g.Thickness = uniform(rng, 2, 10)
	g.RadiusExp = uniform(rng, 0.5, 2.5)
	g.NoiseExp = uniform(rng, 0.5, 3)
	g.ColorExp = uniform(rng, 0.5, 3)
	g.Seed = uint32(rng.IntN(99999) + 1)
	g.Clusters = rng.IntN(50) + 10
	g.Clump = uniform(rng, 0.2, 1.0)

	if g.Mode == galaxy.Spiral {
		g.Arms = rng.IntN(6) + 2
		g.Twist = uniform(rng, 2, 12)
	}

	// Two hues 60 to 180 degrees apart.
	hue1 := rng.Float64() * 360
	hue2 := math.Mod(hue1+rng.Float64()*120+60, 360)
	g.ColorStart = hslColor(hue1)
	g.ColorEnd = hslColor(hue2)
	return s
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func hslColor(hue float64) galaxy.Color {
	c := colorful.Hsl(hue, 0.7, 0.5)
	return galaxy.Color{R: c.R, G: c.G, B: c.B}
}
