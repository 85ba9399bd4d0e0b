package pde

import (
	grayscott "github.com/graycipher/gray-scott-go"
)

// Direction selects the sign of the time step for a pass.
type Direction int

const (
	Forward  Direction = 1  // encryption
	Backward Direction = -1 // decryption
)

// Stepper runs Strang-split Gray-Scott steps over the padded grid:
//
//	R(dt/2) → D(dt) → R(dt/2)
//
// The splitting is palindromic and each stage is time-symmetric, so the
// Backward stepper built from the same operator and parameters inverts the
// Forward one step for step.
type Stepper struct {
	params grayscott.SimulationParameters
	dt     float64 // signed
	dir    Direction

	react *Reaction
	diffU *CrankNicolson
	diffV *CrankNicolson
}

// NewStepper builds a stepper for one pass direction. Both Crank-Nicolson
// operators are factorized here, once, and reused for every step of the pass.
func NewStepper(l *Laplacian, p grayscott.SimulationParameters, dir Direction) (*Stepper, error) {
	dt := float64(dir) * p.TimeStep

	diffU, err := NewCrankNicolson(l, p.DiffU, dt)
	if err != nil {
		return nil, err
	}
	diffV, err := NewCrankNicolson(l, p.DiffV, dt)
	if err != nil {
		return nil, err
	}

	return &Stepper{
		params: p,
		dt:     dt,
		dir:    dir,
		react:  NewReaction(p),
		diffU:  diffU,
		diffV:  diffV,
	}, nil
}

// Step advances the coupled fields by one Strang step in place.
func (s *Stepper) Step(u, v []float64) {
	tau := 0.5 * s.dt
	s.react.HalfStep(u, v, tau)
	s.diffU.Step(u)
	s.diffV.Step(v)
	s.react.HalfStep(u, v, tau)
}

// Run executes the full coupled pass: StepCount Strang steps.
func (s *Stepper) Run(u, v []float64) {
	for i := 0; i < s.params.StepCount; i++ {
		s.Step(u, v)
	}
}

// Schedule is the recorded catalyst trajectory of a coupled pass: one frozen
// midpoint field per reaction half-step, indexed by step. Color channels are
// advanced against these fields instead of carrying their own catalyst, so
// all channels share one deterministic, exactly invertible schedule.
type Schedule struct {
	VBar1 [][]float64 // midpoint of the first half-step of each step
	VBar2 [][]float64 // midpoint of the second half-step of each step
}

// RunRecording executes the coupled pass forward while recording the
// catalyst midpoint (v_pre + v_post)/2 of every reaction half-step. Only a
// Forward stepper records: decryption regenerates the identical schedule by
// replaying the same forward pass from the key-derived initial state.
func (s *Stepper) RunRecording(u, v []float64) *Schedule {
	n := len(v)
	sch := &Schedule{
		VBar1: make([][]float64, s.params.StepCount),
		VBar2: make([][]float64, s.params.StepCount),
	}

	tau := 0.5 * s.dt
	pre := make([]float64, n)
	for i := 0; i < s.params.StepCount; i++ {
		copy(pre, v)
		s.react.HalfStep(u, v, tau)
		sch.VBar1[i] = midpoint(pre, v)

		s.diffU.Step(u)
		s.diffV.Step(v)

		copy(pre, v)
		s.react.HalfStep(u, v, tau)
		sch.VBar2[i] = midpoint(pre, v)
	}
	return sch
}

// RunScheduled advances a single scalar field through the pass against a
// recorded schedule. The Forward order is VBar1 → diffuse → VBar2 per step;
// Backward walks the steps and half-steps in reverse with the negated time
// step, which is the exact inverse composition.
func (s *Stepper) RunScheduled(u []float64, sch *Schedule) {
	tau := 0.5 * s.dt
	if s.dir == Forward {
		for i := 0; i < s.params.StepCount; i++ {
			s.react.HalfStepScheduled(u, sch.VBar1[i], tau)
			s.diffU.Step(u)
			s.react.HalfStepScheduled(u, sch.VBar2[i], tau)
		}
		return
	}
	for i := s.params.StepCount - 1; i >= 0; i-- {
		s.react.HalfStepScheduled(u, sch.VBar2[i], tau)
		s.diffU.Step(u)
		s.react.HalfStepScheduled(u, sch.VBar1[i], tau)
	}
}

// Diagnostics returns the reaction diagnostics accumulated by this stepper.
func (s *Stepper) Diagnostics() grayscott.Diagnostics { return s.react.Diagnostics() }

func midpoint(a, b []float64) []float64 {
	m := make([]float64, len(a))
	for i := range m {
		m[i] = 0.5 * (a[i] + b[i])
	}
	return m
}
