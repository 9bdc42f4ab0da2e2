package galaxy

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Sampler produces the position of point i. Implementations read noise from
// src and must consume exactly Draws() values per call, which is what lets
// GenerateParallel hand each index a pre-sequenced slice of the stream.
type Sampler interface {
	Sample(i int, src Source) r3.Vector
	Draws() int
}

// NewSampler selects the sampler for p.Mode. Generation selects once per call,
// never per point.
func NewSampler(p Params) (Sampler, error) {
	switch p.Mode {
	case Spiral:
		return spiralSampler{p: p}, nil
	case Sphere:
		return sphereSampler{p: p}, nil
	case Disk:
		return diskSampler{p: p}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidParameter, p.Mode)
	}
}

// spiralSampler places points along evenly spaced arms. Arm, angle and radius
// are a function of the index alone so the arms stay coherent; only the
// vertical jitter comes from the PRNG.
type spiralSampler struct {
	p Params
}

func (s spiralSampler) Draws() int { return 1 }

func (s spiralSampler) armAngle(i int) float64 {
	return float64(i%s.p.Arms) * (2 * math.Pi / float64(s.p.Arms))
}

func (s spiralSampler) Sample(i int, src Source) r3.Vector {
	f := float64(i) / float64(s.p.Count)
	r := math.Pow(f, s.p.RadiusExp) * s.p.Radius
	t := s.armAngle(i) + (r/s.p.Radius)*s.p.Twist

	// Fixed function of the index, not the seed.
	wobble := math.Sin(float64(i)*0.1)*0.5 + 0.5
	rr := r + (wobble-0.5)*s.p.Spread*30

	return r3.Vector{
		X: math.Cos(t) * rr,
		Y: (src.Float64() - 0.5) * s.p.Thickness * 5,
		Z: math.Sin(t) * rr,
	}
}

// sphereSampler samples directions uniformly on the sphere with an
// exponent-shaped radius.
type sphereSampler struct {
	p Params
}

func (s sphereSampler) Draws() int { return 4 }

func (s sphereSampler) Sample(_ int, src Source) r3.Vector {
	u := src.Float64()
	v := src.Float64()
	theta := 2 * math.Pi * u
	phi := math.Acos(2*v - 1)
	r := math.Pow(src.Float64(), s.p.RadiusExp) * s.p.Radius

	pos := r3.Vector{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Sin(phi) * math.Sin(theta),
		Z: r * math.Cos(phi),
	}

	// One scalar shifts all three axes.
	noise := (src.Float64() - 0.5) * s.p.Spread * r * 0.1
	pos.X += noise
	pos.Y += noise
	pos.Z += noise
	return pos
}

// diskSampler spreads points over a flat disk in the xz plane
type diskSampler struct {
	p Params
}

func (s diskSampler) Draws() int { return 5 }

func (s diskSampler) Sample(_ int, src Source) r3.Vector {
	angle := src.Float64() * 2 * math.Pi
	radius := math.Pow(src.Float64(), s.p.RadiusExp) * s.p.Radius

	pos := r3.Vector{
		X: math.Cos(angle) * radius,
		Y: (src.Float64() - 0.5) * s.p.Thickness,
		Z: math.Sin(angle) * radius,
	}

	// Independent draws per axis.
	pos.X += (src.Float64() - 0.5) * s.p.Spread
	pos.Z += (src.Float64() - 0.5) * s.p.Spread
	return pos
}
