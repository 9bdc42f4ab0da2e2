package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestNearbySeedsDiverge(t *testing.T) {
	t.Parallel()

	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 16; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Zero(t, same)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	seed := int64(99)
	got, rng := Resolve(&seed)
	assert.Equal(t, int64(99), got)
	assert.Equal(t, New(99).Uint64(), rng.Uint64())

	picked, rng := Resolve(nil)
	assert.NotZero(t, picked)
	assert.Equal(t, New(picked).Uint64(), rng.Uint64())
}
