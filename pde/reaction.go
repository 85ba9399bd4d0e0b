package pde

import (
	"math"

	grayscott "github.com/graycipher/gray-scott-go"
)

// Newton iteration policy for the implicit reaction half-step. The backward
// pass amplifies whatever residual the forward pass leaves behind, so the
// exit tolerance sits near machine precision rather than at a visually
// plausible level. A half-step that exhausts the budget keeps its last
// iterate; the event is recorded in the diagnostics rather than failing the
// pass.
const (
	MaxNewtonIterations = 12
	NewtonTolerance     = 1e-12

	// detFloor guards the 2×2 Jacobian solve; a cell whose Jacobian is this
	// close to singular keeps its previous iterate for that iteration.
	detFloor = 1e-12

	// State clamp applied after every coupled half-step. Normalized images
	// start in [0, 1] and the ceiling-capped catalyst keeps both fields
	// below 2, so the clamp stays inactive on well-posed inputs. Every
	// truncation loses state the inverse pass cannot reconstruct, which is
	// why activations are counted in the diagnostics.
	ClampMin = 0.0
	ClampMax = 2.0
)

// Reaction applies the local Gray-Scott kinetics
//
//	u' = -u·v² + F·(1-u)
//	v' =  u·v² - (F+K)·v
//
// over half a Strang step with the implicit midpoint rule, the residual and
// Jacobian both evaluated at ū = (u0+u1)/2, v̄ = (v0+v1)/2. The midpoint
// rule is self-adjoint: a half-step of -τ undoes a half-step of +τ up to
// Newton tolerance, which is the reaction side of the cipher's
// reversibility.
//
// All cells iterate in lockstep: each Newton sweep updates every
// non-degenerate cell once, and the sweep loop exits early only when the
// maximum update magnitude across the whole grid drops below tolerance.
type Reaction struct {
	F, K float64

	u1, v1 []float64 // Newton iterates, reused across half-steps
	diag   grayscott.Diagnostics
}

// NewReaction builds the kinetics for one parameter set.
func NewReaction(p grayscott.SimulationParameters) *Reaction {
	return &Reaction{F: p.FeedRate, K: p.KillRate}
}

// HalfStep advances the coupled fields u, v in place by a signed half time
// increment tau.
func (r *Reaction) HalfStep(u, v []float64, tau float64) {
	n := len(u)
	if len(r.u1) < n {
		r.u1 = make([]float64, n)
		r.v1 = make([]float64, n)
	}
	u1, v1 := r.u1[:n], r.v1[:n]
	copy(u1, u)
	copy(v1, v)

	maxUpdate := math.Inf(1)
	for iter := 0; iter < MaxNewtonIterations && maxUpdate >= NewtonTolerance; iter++ {
		maxUpdate = 0
		for i := 0; i < n; i++ {
			ub := 0.5 * (u[i] + u1[i])
			vb := 0.5 * (v[i] + v1[i])
			vv := vb * vb

			f1 := u1[i] - u[i] - tau*(-ub*vv+r.F*(1-ub))
			f2 := v1[i] - v[i] - tau*(ub*vv-(r.F+r.K)*vb)

			a := 1 + 0.5*tau*(vv+r.F)
			b := tau * ub * vb
			c := -0.5 * tau * vv
			d := 1 - tau*ub*vb + 0.5*tau*(r.F+r.K)

			det := a*d - b*c
			if math.Abs(det) <= detFloor {
				continue
			}
			du := (-d*f1 + b*f2) / det
			dv := (c*f1 - a*f2) / det
			u1[i] += du
			v1[i] += dv

			if upd := math.Max(math.Abs(du), math.Abs(dv)); upd > maxUpdate {
				maxUpdate = upd
			}
		}
	}

	var clamped uint64
	for i := 0; i < n; i++ {
		cu, cv := clamp(u1[i]), clamp(v1[i])
		if cu != u1[i] || cv != v1[i] {
			clamped++
		}
		u[i], v[i] = cu, cv
	}
	r.diag.ClampedCells += clamped

	r.diag.HalfSteps++
	if maxUpdate >= NewtonTolerance {
		r.diag.NonConvergedHalfSteps++
	}
	if maxUpdate > r.diag.MaxFinalUpdate {
		r.diag.MaxFinalUpdate = maxUpdate
	}
}

// HalfStepScheduled advances u alone by a signed half time increment tau
// against a frozen catalyst field vbar. With v fixed the midpoint equation
// is linear in the new u and solves in closed form:
//
//	u1 = (u0·(1 - 0.5·τ·S) + τ·F) / (1 + 0.5·τ·S),  S = v̄² + F
//
// The formula for -τ is the exact algebraic inverse of the one for +τ, so
// scheduled channels round-trip to float rounding rather than to Newton
// tolerance.
func (r *Reaction) HalfStepScheduled(u, vbar []float64, tau float64) {
	ht := 0.5 * tau
	for i := range u {
		s := vbar[i]*vbar[i] + r.F
		denom := 1 + ht*s
		if math.Abs(denom) <= detFloor {
			r.diag.NonConvergedHalfSteps++
			continue
		}
		// No clamp here: clamping would discard the information the exact
		// inverse needs, and scheduled state never feeds back into v.
		u[i] = (u[i]*(1-ht*s) + tau*r.F) / denom
	}
	r.diag.HalfSteps++
}

// Diagnostics returns the accumulated observations.
func (r *Reaction) Diagnostics() grayscott.Diagnostics { return r.diag }

func clamp(x float64) float64 {
	if x < ClampMin {
		return ClampMin
	}
	if x > ClampMax {
		return ClampMax
	}
	return x
}
