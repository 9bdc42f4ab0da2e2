package galaxy

const (
	mulberryIncrement = 0x6D2B79F5
	twoPow32          = 4294967296.0
)

// Source yields uniform values in [0, 1). Samplers read their noise terms
// from a Source.
type Source interface {
	Float64() float64
}

// Mulberry32 is a small deterministic PRNG with a single 32-bit state.
// Sequences are reproducible across processes and platforms for a given seed.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator seeded with seed
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 advances the state and returns the next raw 32-bit output
func (m *Mulberry32) Uint32() uint32 {
	m.state += mulberryIncrement
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value in [0, 1)
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / twoPow32
}

// drawSource replays a pre-sequenced slice of PRNG draws
type drawSource struct {
	draws []float64
	next  int
}

func (d *drawSource) Float64() float64 {
	v := d.draws[d.next]
	d.next++
	return v
}

// presequence pulls n draws from a fresh stream seeded with seed
func presequence(seed uint32, n int) []float64 {
	rng := NewMulberry32(seed)
	draws := make([]float64, n)
	for i := range draws {
		draws[i] = rng.Float64()
	}
	return draws
}
