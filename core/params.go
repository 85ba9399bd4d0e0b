// Package core derives and validates simulation parameters from secret keys.
package core

import (
	"encoding/binary"
	"errors"
	"fmt"

	grayscott "github.com/graycipher/gray-scott-go"
	"github.com/graycipher/gray-scott-go/utils"
)

const DomainKeySeed = "grayscott-key-seed-v1"

// Physical ranges for the key-derived draws. KillRate and TotalTime are
// fixed but remain overridable through Config.
const (
	FeedRateMin = 0.01
	FeedRateMax = 0.1

	KillRateMin = 0.05
	KillRateMax = 0.05

	DiffUMin = 0.5
	DiffUMax = 2.0

	TotalTimeMin = 40.0
	TotalTimeMax = 40.0
)

// MaxReversibleTime bounds the simulated duration of one pass. The backward
// pass amplifies float rounding and Newton residuals exponentially in the
// simulated time, and past this horizon the amplified error swamps the
// recovered image no matter how the remaining parameters are chosen. A
// TotalTime override beyond it would produce ciphertext that cannot be
// decrypted, so it is rejected at construction instead.
const MaxReversibleTime = 80.0

// Defaults applied when the corresponding Config field is nil.
const (
	DefaultTimeStep = 1.0
	DefaultPadWidth = 8
)

// NewKeyStream validates the secret key and returns the deterministic draw
// stream derived from it. The seed is the first 4 bytes (little-endian) of a
// domain-separated SHA3-256 digest of the key.
//
// The stream must be consumed in a fixed order: DeriveParameters first, then
// catalyst.Synthesize, with no other draws in between. Both encryption and
// decryption rebuild the exact same stream from the key, so any deviation in
// call order breaks the cipher.
func NewKeyStream(key string) (*utils.Stream, error) {
	if len(key) < grayscott.MinKeyLength {
		return nil, &grayscott.InvalidKeyError{Length: len(key)}
	}
	digest := utils.HashWithDomain(DomainKeySeed, []byte(key))
	seed := binary.LittleEndian.Uint32(digest[:4])
	return utils.NewStream(seed), nil
}

// DeriveParameters produces the simulation parameter set from the key stream
// and optional overrides. The four uniform draws always execute in the fixed
// order f, k, ru, T; an override replaces the drawn value without skipping
// the draw, so later key-derived fields (and the catalyst synthesis that
// follows) are unaffected by whether an earlier field was overridden.
//
// DiffV and StepCount are always derived and cannot be overridden.
func DeriveParameters(stream *utils.Stream, cfg grayscott.Config) (grayscott.SimulationParameters, error) {
	var p grayscott.SimulationParameters

	p.FeedRate = stream.Uniform(FeedRateMin, FeedRateMax)
	if cfg.FeedRate != nil {
		p.FeedRate = *cfg.FeedRate
	}

	p.KillRate = stream.Uniform(KillRateMin, KillRateMax)
	if cfg.KillRate != nil {
		p.KillRate = *cfg.KillRate
	}

	p.DiffU = stream.Uniform(DiffUMin, DiffUMax)
	if cfg.DiffU != nil {
		p.DiffU = *cfg.DiffU
	}
	p.DiffV = p.DiffU / 2

	p.TotalTime = stream.Uniform(TotalTimeMin, TotalTimeMax)
	if cfg.TotalTime != nil {
		p.TotalTime = *cfg.TotalTime
	}

	p.TimeStep = DefaultTimeStep
	if cfg.TimeStep != nil {
		p.TimeStep = *cfg.TimeStep
	}
	p.StepCount = int(p.TotalTime / p.TimeStep)

	if err := ValidateParameters(p); err != nil {
		return grayscott.SimulationParameters{}, err
	}
	return p, nil
}

// ValidateParameters validates a parameter set for consistency.
func ValidateParameters(p grayscott.SimulationParameters) error {
	if p.TimeStep <= 0 {
		return errors.New("time step must be positive")
	}
	if p.TotalTime <= 0 {
		return errors.New("total time must be positive")
	}
	if p.TotalTime > MaxReversibleTime {
		return fmt.Errorf("total time %v exceeds the reversible horizon %v: the backward pass could not recover the image",
			p.TotalTime, MaxReversibleTime)
	}
	if p.StepCount < 1 {
		return fmt.Errorf("step count %d: total time %v shorter than one step %v",
			p.StepCount, p.TotalTime, p.TimeStep)
	}
	if p.FeedRate < 0 || p.KillRate < 0 {
		return errors.New("reaction rates must be non-negative")
	}
	if p.DiffU <= 0 || p.DiffV <= 0 {
		return errors.New("diffusion rates must be positive")
	}
	return nil
}
