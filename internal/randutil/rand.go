// Package randutil derives math/rand/v2 generators for the non-generation
// randomness in the tools (preset randomizer, demo seeds). Galaxy generation
// itself always uses galaxy.Mulberry32.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenGamma = 0x9e3779b97f4a7c15

// New returns a *rand.Rand whose stream depends only on seed
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenGamma)))
}

// Resolve returns the seed to use and a generator for it. A nil seed picks
// one from the wall clock; the chosen value is returned so callers can log it
// and reproduce the run later.
func Resolve(seed *int64) (int64, *rand.Rand) {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return s, New(s)
}

// splitmix is the SplitMix64 finalizer; it spreads nearby seeds apart.
func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	return x ^ (x >> 31)
}
