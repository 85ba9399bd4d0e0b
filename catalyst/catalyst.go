// Package catalyst synthesizes the key-dependent initial catalyst field.
//
// The catalyst is the v state variable of the reaction-diffusion system. It
// is built purely from the secret key, independent of the plaintext, and is
// regenerated identically on decryption, so it never needs to travel with
// the plaintext-dependent state.
package catalyst

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/graycipher/gray-scott-go/utils"
)

// Sampling ranges for the Gaussian kernels.
const (
	KernelCountMin = 3
	KernelCountMax = 8 // exclusive

	AmplitudeMin = 0.1
	AmplitudeMax = 0.5

	SigmaMin = 5.0
	SigmaMax = 15.0
)

// FieldCeiling bounds the synthesized field. Overlapping kernels can stack
// well past 1, and a catalyst peak that high drives the reaction through the
// simulation's state clamp, which truncates values the backward pass needs.
// Fields whose maximum exceeds the ceiling are rescaled to it; the scaling is
// a pure function of the key-derived kernels, so decryption reproduces it.
const FieldCeiling = 0.6

// Kernel is one Gaussian bump contributing to the catalyst field.
type Kernel struct {
	CX, CY    float64 // center, in grid coordinates
	Amplitude float64
	Sigma     float64
}

// Synthesize draws the catalyst kernels from the key stream and accumulates
// them into a dense field over the padded h×w grid, flattened row-major.
//
// It must be called directly after core.DeriveParameters on the same stream:
// the draw order is the kernel count followed by (cx, cy, amplitude, sigma)
// per kernel, and shifting any draw changes the cipher.
func Synthesize(stream *utils.Stream, h, w int) []float64 {
	kernels := sample(stream, h, w)

	v := make([]float64, h*w)
	for _, k := range kernels {
		accumulate(v, h, w, k)
	}

	if max := floats.Max(v); max > FieldCeiling {
		floats.Scale(FieldCeiling/max, v)
	}
	return v
}

// sample draws the kernel set for an h×w grid.
func sample(stream *utils.Stream, h, w int) []Kernel {
	count := stream.IntRange(KernelCountMin, KernelCountMax)
	kernels := make([]Kernel, count)
	for i := range kernels {
		kernels[i] = Kernel{
			CX:        stream.Uniform(0, float64(w)),
			CY:        stream.Uniform(0, float64(h)),
			Amplitude: stream.Uniform(AmplitudeMin, AmplitudeMax),
			Sigma:     stream.Uniform(SigmaMin, SigmaMax),
		}
	}
	return kernels
}

// accumulate adds one dense Gaussian bump to the field.
func accumulate(v []float64, h, w int, k Kernel) {
	inv := 1.0 / (2.0 * k.Sigma * k.Sigma)
	for y := 0; y < h; y++ {
		dy := float64(y) - k.CY
		row := y * w
		for x := 0; x < w; x++ {
			dx := float64(x) - k.CX
			v[row+x] += k.Amplitude * math.Exp(-(dx*dx+dy*dy)*inv)
		}
	}
}
