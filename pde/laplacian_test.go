package pde

import (
	"math"
	"testing"
)

func TestOneDimOperatorBoundaryRows(t *testing.T) {
	const n = 5
	h := 1.0 / n
	inv := 1.0 / (h * h)
	op := OneDimOperator(n, h)

	if got := op.At(0, 0); got != 2*inv {
		t.Errorf("first row diagonal = %v, want %v", got, 2*inv)
	}
	if got := op.At(0, 1); got != -2*inv {
		t.Errorf("first row neighbor = %v, want %v", got, -2*inv)
	}
	if got := op.At(n-1, n-1); got != 2*inv {
		t.Errorf("last row diagonal = %v, want %v", got, 2*inv)
	}
	if got := op.At(n-1, n-2); got != -2*inv {
		t.Errorf("last row neighbor = %v, want %v", got, -2*inv)
	}
}

func TestOneDimOperatorInteriorStencil(t *testing.T) {
	const n = 5
	h := 1.0 / n
	inv := 1.0 / (h * h)
	op := OneDimOperator(n, h)

	for i := 1; i < n-1; i++ {
		if got := op.At(i, i-1); got != inv {
			t.Errorf("row %d left = %v, want %v", i, got, inv)
		}
		if got := op.At(i, i); got != -2*inv {
			t.Errorf("row %d diag = %v, want %v", i, got, -2*inv)
		}
		if got := op.At(i, i+1); got != inv {
			t.Errorf("row %d right = %v, want %v", i, got, inv)
		}
	}
}

func TestLaplacianInteriorCoupling(t *testing.T) {
	const h, w = 6, 5
	l := NewLaplacian(h, w)
	dx := 1.0 / w
	dy := 1.0 / h

	// Fully interior cell (2, 2).
	k := 2*w + 2
	if got, want := l.Band.At(k, k-1), 1/(dx*dx); got != want {
		t.Errorf("x coupling = %v, want %v", got, want)
	}
	if got, want := l.Band.At(k, k-w), 1/(dy*dy); got != want {
		t.Errorf("y coupling = %v, want %v", got, want)
	}
	if got, want := l.Band.At(k, k), -2/(dx*dx)-2/(dy*dy); got != want {
		t.Errorf("diagonal = %v, want %v", got, want)
	}
}

func TestLaplacianRowSumsZero(t *testing.T) {
	// Zero-flux boundaries: the operator annihilates constant fields, so
	// every row must sum to zero.
	const h, w = 5, 4
	l := NewLaplacian(h, w)

	for i := 0; i < l.N; i++ {
		sum := 0.0
		for j := 0; j < l.N; j++ {
			sum += l.Band.At(i, j)
		}
		if math.Abs(sum) > 1e-8 {
			t.Errorf("row %d sums to %v, want 0", i, sum)
		}
	}
}
