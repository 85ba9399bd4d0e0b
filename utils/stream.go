package utils

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stream is the single deterministic pseudo-random draw stream derived from
// a secret key. Parameter derivation and catalyst synthesis consume it in a
// fixed, documented order; that call order is part of the cipher contract,
// since decryption must reproduce every draw exactly.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	rng *rand.Rand
}

// NewStream returns a stream seeded with the given value. Equal seeds yield
// identical draw sequences on every platform.
func NewStream(seed uint32) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(uint64(seed)))}
}

// Uniform draws one sample uniformly from [min, max). A degenerate range
// (min == max) still consumes exactly one draw and returns min, which keeps
// the stream position independent of parameter ranges.
func (s *Stream) Uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: s.rng}.Rand()
}

// IntRange draws one integer uniformly from [lo, hi).
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo)
}
