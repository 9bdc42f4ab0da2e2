package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulberry32KnownSequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed uint32
		want []uint32
	}{
		{seed: 0, want: []uint32{1144304738, 1416247, 958946056, 627933444, 2007157716}},
		{seed: 1, want: []uint32{2693262067, 11749833, 2265367787, 4213581821, 4159151403}},
		{seed: 2, want: []uint32{3153583793, 1395857638, 1225337227, 2310499808, 3759333107}},
		{seed: 42, want: []uint32{2581720956, 1925393290, 3661312704, 2876485805, 750819978}},
		{seed: 12345, want: []uint32{4207900869, 1317490944, 2079646450, 3513001552, 2187978186}},
	}

	for _, tt := range tests {
		rng := NewMulberry32(tt.seed)
		got := make([]uint32, len(tt.want))
		for i := range got {
			got[i] = rng.Uint32()
		}
		assert.Equal(t, tt.want, got, "seed %d", tt.seed)
	}
}

func TestMulberry32Float64(t *testing.T) {
	t.Parallel()

	rng := NewMulberry32(1)
	assert.Equal(t, 0.6270739405881613, rng.Float64())
	assert.Equal(t, 0.002735721180215478, rng.Float64())
	assert.Equal(t, 0.5274470399599522, rng.Float64())

	rng = NewMulberry32(42)
	for i := 0; i < 10000; i++ {
		v := rng.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestMulberry32Reproducible(t *testing.T) {
	t.Parallel()

	a := NewMulberry32(98765)
	b := NewMulberry32(98765)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}

	t.Run("different seeds differ", func(t *testing.T) {
		one := NewMulberry32(1)
		two := NewMulberry32(2)
		var seqOne, seqTwo []float64
		for i := 0; i < 5; i++ {
			seqOne = append(seqOne, one.Float64())
			seqTwo = append(seqTwo, two.Float64())
		}
		assert.NotEqual(t, seqOne, seqTwo)
	})
}

func TestPresequenceMatchesStream(t *testing.T) {
	t.Parallel()

	draws := presequence(12345, 5)
	rng := NewMulberry32(12345)
	for i, d := range draws {
		assert.Equal(t, rng.Float64(), d, "draw %d", i)
	}

	src := &drawSource{draws: draws}
	assert.Equal(t, draws[0], src.Float64())
	assert.Equal(t, draws[1], src.Float64())
}
