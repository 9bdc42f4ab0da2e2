package galaxy

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"
)

// Point is one record of a Cloud
type Point struct {
	Position r3.Vector
	Color    Color
}

// Cloud is the output of one generation call: exactly Params.Count points,
// with position i and color i describing the same point.
type Cloud struct {
	Params Params
	Points []Point
}

// Len returns the number of points
func (c *Cloud) Len() int {
	return len(c.Points)
}

// Positions returns the positions in index order
func (c *Cloud) Positions() []r3.Vector {
	out := make([]r3.Vector, len(c.Points))
	for i, pt := range c.Points {
		out[i] = pt.Position
	}
	return out
}

// Colors returns the colors in index order
func (c *Cloud) Colors() []Color {
	out := make([]Color, len(c.Points))
	for i, pt := range c.Points {
		out[i] = pt.Color
	}
	return out
}

// Buffers flattens the cloud into xyz and rgb float32 attribute arrays,
// three entries per point, the layout GPU point renderers consume.
func (c *Cloud) Buffers() (positions, colors []float32) {
	positions = make([]float32, 3*len(c.Points))
	colors = make([]float32, 3*len(c.Points))
	for i, pt := range c.Points {
		positions[3*i] = float32(pt.Position.X)
		positions[3*i+1] = float32(pt.Position.Y)
		positions[3*i+2] = float32(pt.Position.Z)
		colors[3*i] = float32(pt.Color.R)
		colors[3*i+1] = float32(pt.Color.G)
		colors[3*i+2] = float32(pt.Color.B)
	}
	return positions, colors
}

// Generate builds the cloud for p. The PRNG is created from p.Seed on every
// call, so identical Params always yield identical clouds.
func Generate(p Params) (*Cloud, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sampler, err := NewSampler(p)
	if err != nil {
		return nil, err
	}

	rng := NewMulberry32(p.Seed)
	cloud := &Cloud{Params: p, Points: make([]Point, p.Count)}
	for i := range cloud.Points {
		cloud.Points[i] = p.point(sampler.Sample(i, rng))
	}
	return cloud, nil
}

// GenerateParallel produces the same cloud as Generate using up to workers
// goroutines (GOMAXPROCS when workers < 1). The PRNG stream is drawn in full
// before any worker starts; each worker replays its own index range of it.
func GenerateParallel(ctx context.Context, p Params, workers int) (*Cloud, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sampler, err := NewSampler(p)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	k := sampler.Draws()
	if p.Count > math.MaxInt/k {
		return nil, invalidf("count", "%d needs more than %d draws", p.Count, math.MaxInt)
	}
	draws := presequence(p.Seed, p.Count*k)
	cloud := &Cloud{Params: p, Points: make([]Point, p.Count)}
	if p.Count == 0 {
		return cloud, nil
	}

	chunk := (p.Count + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < p.Count; start += chunk {
		end := min(start+chunk, p.Count)
		g.Go(func() error {
			src := &drawSource{draws: draws[start*k : end*k]}
			for i := start; i < end; i++ {
				if (i-start)%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				cloud.Points[i] = p.point(sampler.Sample(i, src))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel generation: %w", err)
	}
	return cloud, nil
}

// point colors a sampled position by its normalized radial distance
func (p Params) point(pos r3.Vector) Point {
	distance := pos.Norm() / p.Radius
	t := math.Pow(distance, p.ColorExp)
	// Shaping already happened above, so the interpolator runs linear.
	return Point{Position: pos, Color: Interpolate(t, p.ColorStart, p.ColorEnd, 1.0)}
}
