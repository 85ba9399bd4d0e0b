// Package pde implements the numeric kernels of the reaction-diffusion
// cipher: the banded Laplacian, the Crank-Nicolson diffusion step, the
// per-cell implicit reaction step and the Strang-split time stepper.
package pde

import (
	"gonum.org/v1/gonum/mat"
)

// Laplacian is the discrete 2-D diffusion operator over the flattened padded
// grid. It is a Kronecker sum of two 1-D second-difference operators with
// zero-flux boundary rows, built once from the grid shape alone and shared
// read-only by every step in both directions.
type Laplacian struct {
	H, W int // padded grid dimensions (rows, columns)
	N    int // H * W, the operator order

	// Bandwidth is the number of sub- (and super-) diagonals, equal to W
	// for row-major flattening: the y-neighbor of cell k is cell k±W.
	Bandwidth int

	// Band holds the operator entries.
	Band *mat.BandDense
}

// OneDimOperator builds the n×n second-difference operator for grid spacing
// h. Interior rows carry the [1, -2, 1]/h² stencil; the first and last rows
// are overwritten with the reflective zero-flux pattern, 2/h² on the
// diagonal and -2/h² on the single neighbor.
func OneDimOperator(n int, h float64) *mat.BandDense {
	inv := 1.0 / (h * h)
	op := mat.NewBandDense(n, n, 1, 1, nil)

	for i := 1; i < n-1; i++ {
		op.SetBand(i, i-1, inv)
		op.SetBand(i, i, -2*inv)
		op.SetBand(i, i+1, inv)
	}
	op.SetBand(0, 0, 2*inv)
	op.SetBand(0, 1, -2*inv)
	op.SetBand(n-1, n-1, 2*inv)
	op.SetBand(n-1, n-2, -2*inv)

	return op
}

// NewLaplacian assembles the 2-D operator for a padded h×w grid flattened
// row-major (cell (y, x) at index y*w + x). Grid spacing is normalized to a
// unit domain on each axis: dx = 1/w, dy = 1/h.
func NewLaplacian(h, w int) *Laplacian {
	dxOp := OneDimOperator(w, 1.0/float64(w))
	dyOp := OneDimOperator(h, 1.0/float64(h))

	n := h * w
	band := mat.NewBandDense(n, n, w, w, nil)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := y*w + x

			// x-direction couplings live on the first off-diagonals.
			if x > 0 {
				band.SetBand(k, k-1, dxOp.At(x, x-1))
			}
			if x < w-1 {
				band.SetBand(k, k+1, dxOp.At(x, x+1))
			}

			// y-direction couplings live on the ±w diagonals.
			if y > 0 {
				band.SetBand(k, k-w, dyOp.At(y, y-1))
			}
			if y < h-1 {
				band.SetBand(k, k+w, dyOp.At(y, y+1))
			}

			band.SetBand(k, k, dxOp.At(x, x)+dyOp.At(y, y))
		}
	}

	return &Laplacian{H: h, W: w, N: n, Bandwidth: w, Band: band}
}
