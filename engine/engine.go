// Package engine is the cipher facade: it owns the key-derived parameters,
// the catalyst field and the diffusion operator, and exposes Encrypt and
// Decrypt over normalized image arrays.
package engine

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	grayscott "github.com/graycipher/gray-scott-go"
	"github.com/graycipher/gray-scott-go/catalyst"
	"github.com/graycipher/gray-scott-go/core"
	"github.com/graycipher/gray-scott-go/pde"
	"github.com/graycipher/gray-scott-go/utils"
)

// Ciphertext is the output of one forward pass: the final activator state of
// every channel (planar, channel-major) and the final catalyst state, both
// over the padded grid. Both arrays together are the ciphertext; neither
// alone decrypts.
type Ciphertext struct {
	Shape grayscott.Shape // original image shape
	Pad   int             // padding width the arrays were produced with

	U []float64 // Shape.Channels * padded-plane cells
	V []float64 // one padded plane
}

// Engine encrypts and decrypts images of one fixed shape under one secret
// key. Parameters, the catalyst field and the Laplacian are derived once at
// construction and shared read-only by every call; the simulation state of a
// call never survives it, so an Engine is safe for concurrent use.
type Engine struct {
	shape  grayscott.Shape
	pad    int
	ph, pw int // padded dimensions

	params grayscott.SimulationParameters
	v0     []float64
	lap    *pde.Laplacian

	mu   sync.Mutex
	diag grayscott.Diagnostics
}

// New derives the simulation from the secret key and optional overrides.
// The key stream is consumed in the fixed contract order: parameter
// derivation first, catalyst synthesis second.
func New(key string, shape grayscott.Shape, cfg grayscott.Config) (*Engine, error) {
	if shape.H < 1 || shape.W < 1 {
		return nil, fmt.Errorf("invalid image shape %dx%d", shape.H, shape.W)
	}
	if shape.Channels != 1 && shape.Channels != 3 {
		return nil, fmt.Errorf("unsupported channel count %d, want 1 or 3", shape.Channels)
	}

	pad := core.DefaultPadWidth
	if cfg.PadWidth != nil {
		pad = *cfg.PadWidth
	}
	if pad < 0 {
		return nil, fmt.Errorf("negative padding width %d", pad)
	}
	min := shape.H
	if shape.W < min {
		min = shape.W
	}
	if pad > min-1 {
		return nil, fmt.Errorf("padding width %d too large for %dx%d image (reflection needs pad <= %d)",
			pad, shape.H, shape.W, min-1)
	}

	ph, pw := shape.H+2*pad, shape.W+2*pad
	if ph < 2 || pw < 2 {
		return nil, fmt.Errorf("padded grid %dx%d too small, need at least 2 cells per axis", ph, pw)
	}
	n, err := utils.SafeMultiply(ph, pw)
	if err != nil {
		return nil, err
	}
	if err := utils.CheckLength(n, utils.MaxGridElements); err != nil {
		return nil, fmt.Errorf("padded grid %dx%d: %w", ph, pw, err)
	}

	stream, err := core.NewKeyStream(key)
	if err != nil {
		return nil, err
	}
	params, err := core.DeriveParameters(stream, cfg)
	if err != nil {
		return nil, err
	}
	v0 := catalyst.Synthesize(stream, ph, pw)

	return &Engine{
		shape:  shape,
		pad:    pad,
		ph:     ph,
		pw:     pw,
		params: params,
		v0:     v0,
		lap:    pde.NewLaplacian(ph, pw),
	}, nil
}

// Parameters returns the derived simulation parameters.
func (e *Engine) Parameters() grayscott.SimulationParameters { return e.params }

// Shape returns the image shape the engine was built for.
func (e *Engine) Shape() grayscott.Shape { return e.shape }

// PadWidth returns the reflective padding width.
func (e *Engine) PadWidth() int { return e.pad }

// Diagnostics returns the numeric observations accumulated across all
// Encrypt and Decrypt calls so far.
func (e *Engine) Diagnostics() grayscott.Diagnostics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diag
}

func (e *Engine) recordDiagnostics(d grayscott.Diagnostics) {
	e.mu.Lock()
	e.diag.Merge(d)
	e.mu.Unlock()
}

// Encrypt runs the forward pass over a normalized image (values in [0, 1],
// planar channel-major layout for color) and returns the ciphertext.
//
// Grayscale images run one coupled pass. Color images run one auxiliary
// coupled pass from the key-derived state to record the catalyst schedule
// and fix the final shared catalyst, then advance the three channels
// independently, in parallel, against that read-only schedule.
func (e *Engine) Encrypt(image []float64) (*Ciphertext, error) {
	if len(image) != e.shape.Len() {
		return nil, &grayscott.ShapeMismatchError{Field: "image", Want: e.shape.Len(), Got: len(image)}
	}

	n := e.ph * e.pw

	if e.shape.Grayscale() {
		fwd, err := pde.NewStepper(e.lap, e.params, pde.Forward)
		if err != nil {
			return nil, err
		}
		u := padReflect(image, e.shape.H, e.shape.W, e.pad)
		v := append([]float64(nil), e.v0...)
		fwd.Run(u, v)
		e.recordDiagnostics(fwd.Diagnostics())
		return &Ciphertext{Shape: e.shape, Pad: e.pad, U: u, V: v}, nil
	}

	// Auxiliary pass: records the schedule and fixes v_final.
	aux, err := pde.NewStepper(e.lap, e.params, pde.Forward)
	if err != nil {
		return nil, err
	}
	uAux := make([]float64, n)
	for i := range uAux {
		uAux[i] = 1
	}
	v := append([]float64(nil), e.v0...)
	sch := aux.RunRecording(uAux, v)
	e.recordDiagnostics(aux.Diagnostics())

	u := make([]float64, e.shape.Channels*n)
	var g errgroup.Group
	for c := 0; c < e.shape.Channels; c++ {
		c := c
		g.Go(func() error {
			fwd, err := pde.NewStepper(e.lap, e.params, pde.Forward)
			if err != nil {
				return err
			}
			plane := image[c*e.shape.Pixels() : (c+1)*e.shape.Pixels()]
			uc := padReflect(plane, e.shape.H, e.shape.W, e.pad)
			fwd.RunScheduled(uc, sch)
			copy(u[c*n:(c+1)*n], uc)
			e.recordDiagnostics(fwd.Diagnostics())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Ciphertext{Shape: e.shape, Pad: e.pad, U: u, V: v}, nil
}

// Decrypt runs the backward pass over a ciphertext and recovers the
// normalized image in the engine's configured shape.
//
// Grayscale decryption consumes both arrays directly. Color decryption
// replays the auxiliary forward pass from the key-derived state to
// regenerate the catalyst schedule, then runs each channel backward against
// it; the ciphertext's V array is validated and carried but the schedule is
// what actually reverses the channels.
func (e *Engine) Decrypt(ct *Ciphertext) ([]float64, error) {
	n := e.ph * e.pw
	if len(ct.U) != e.shape.Channels*n {
		return nil, &grayscott.ShapeMismatchError{Field: "u", Want: e.shape.Channels * n, Got: len(ct.U)}
	}
	if len(ct.V) != n {
		return nil, &grayscott.ShapeMismatchError{Field: "v", Want: n, Got: len(ct.V)}
	}

	if e.shape.Grayscale() {
		bwd, err := pde.NewStepper(e.lap, e.params, pde.Backward)
		if err != nil {
			return nil, err
		}
		u := append([]float64(nil), ct.U...)
		v := append([]float64(nil), ct.V...)
		bwd.Run(u, v)
		e.recordDiagnostics(bwd.Diagnostics())
		return unpad(u, e.shape.H, e.shape.W, e.pad), nil
	}

	// Regenerate the schedule with the same forward pass encryption ran.
	aux, err := pde.NewStepper(e.lap, e.params, pde.Forward)
	if err != nil {
		return nil, err
	}
	uAux := make([]float64, n)
	for i := range uAux {
		uAux[i] = 1
	}
	vAux := append([]float64(nil), e.v0...)
	sch := aux.RunRecording(uAux, vAux)
	e.recordDiagnostics(aux.Diagnostics())

	image := make([]float64, e.shape.Len())
	var g errgroup.Group
	for c := 0; c < e.shape.Channels; c++ {
		c := c
		g.Go(func() error {
			bwd, err := pde.NewStepper(e.lap, e.params, pde.Backward)
			if err != nil {
				return err
			}
			uc := append([]float64(nil), ct.U[c*n:(c+1)*n]...)
			bwd.RunScheduled(uc, sch)
			copy(image[c*e.shape.Pixels():(c+1)*e.shape.Pixels()], unpad(uc, e.shape.H, e.shape.W, e.pad))
			e.recordDiagnostics(bwd.Diagnostics())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return image, nil
}
