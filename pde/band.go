package pde

import (
	"errors"
	"math"
)

// bandMatrix stores a general band matrix in LAPACK-style band layout:
// element (i, j) lives at data[i*stride + j - i + kl] for
// max(0, i-kl) <= j <= min(n-1, i+ku).
type bandMatrix struct {
	n, kl, ku int
	stride    int
	data      []float64
}

func newBandMatrix(n, kl, ku int) *bandMatrix {
	stride := kl + ku + 1
	return &bandMatrix{n: n, kl: kl, ku: ku, stride: stride, data: make([]float64, n*stride)}
}

func (m *bandMatrix) at(i, j int) float64 {
	return m.data[i*m.stride+j-i+m.kl]
}

func (m *bandMatrix) set(i, j int, v float64) {
	m.data[i*m.stride+j-i+m.kl] = v
}

// mulVec computes dst = M·x. dst and x must not alias.
func (m *bandMatrix) mulVec(dst, x []float64) {
	for i := 0; i < m.n; i++ {
		lo := i - m.kl
		if lo < 0 {
			lo = 0
		}
		hi := i + m.ku
		if hi > m.n-1 {
			hi = m.n - 1
		}
		sum := 0.0
		row := i*m.stride - i + m.kl
		for j := lo; j <= hi; j++ {
			sum += m.data[row+j] * x[j]
		}
		dst[i] = sum
	}
}

// errSingular reports a vanishing pivot during factorization.
var errSingular = errors.New("singular operator: zero pivot")

// pivotFloor is the smallest pivot magnitude accepted during elimination.
const pivotFloor = 1e-300

// bandLU is a banded LU factorization with partial pivoting, computed once
// per pass and reused for every step. Row exchanges widen the upper band by
// up to kl diagonals, so the matrix handed to factorize must be allocated
// with ku = logical ku + kl; the extra diagonals start out zero and receive
// the pivoting fill.
type bandLU struct {
	m    *bandMatrix // overwritten with the multipliers and U
	ipiv []int
}

// factorize computes the pivoted LU decomposition, consuming the receiver.
func (m *bandMatrix) factorize() (*bandLU, error) {
	n, kl, ku := m.n, m.kl, m.ku
	ipiv := make([]int, n)

	for k := 0; k < n; k++ {
		iMax := k + kl
		if iMax > n-1 {
			iMax = n - 1
		}
		jMax := k + ku
		if jMax > n-1 {
			jMax = n - 1
		}

		// Partial pivot: largest magnitude in column k on or below the
		// diagonal, never more than kl rows down.
		p := k
		for i := k + 1; i <= iMax; i++ {
			if math.Abs(m.at(i, k)) > math.Abs(m.at(p, k)) {
				p = i
			}
		}
		ipiv[k] = p
		if math.Abs(m.at(p, k)) < pivotFloor {
			return nil, errSingular
		}
		if p != k {
			for j := k; j <= jMax; j++ {
				tmp := m.at(k, j)
				m.set(k, j, m.at(p, j))
				m.set(p, j, tmp)
			}
		}

		piv := m.at(k, k)
		for i := k + 1; i <= iMax; i++ {
			mult := m.at(i, k) / piv
			m.set(i, k, mult)
			if mult == 0 {
				continue
			}
			for j := k + 1; j <= jMax; j++ {
				m.set(i, j, m.at(i, j)-mult*m.at(k, j))
			}
		}
	}
	return &bandLU{m: m, ipiv: ipiv}, nil
}

// solve overwrites b with the solution of A·x = b for the factorized A.
func (lu *bandLU) solve(b []float64) {
	m := lu.m
	n, kl, ku := m.n, m.kl, m.ku

	// Forward elimination, replaying the row exchanges.
	for k := 0; k < n; k++ {
		if p := lu.ipiv[k]; p != k {
			b[k], b[p] = b[p], b[k]
		}
		iMax := k + kl
		if iMax > n-1 {
			iMax = n - 1
		}
		for i := k + 1; i <= iMax; i++ {
			b[i] -= m.at(i, k) * b[k]
		}
	}

	// Back substitution with the upper factor.
	for i := n - 1; i >= 0; i-- {
		hi := i + ku
		if hi > n-1 {
			hi = n - 1
		}
		sum := b[i]
		for j := i + 1; j <= hi; j++ {
			sum -= m.at(i, j) * b[j]
		}
		b[i] = sum / m.at(i, i)
	}
}
