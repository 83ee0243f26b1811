// SPDX-License-Identifier: MIT
// Package matrix: kernels on *Dense.
//
// All kernels validate operands first (nil → shape), never mutate their
// inputs, and allocate a fresh result.

package matrix

import "math"

// pivotTol is the magnitude below which a pivot is treated as zero.
const pivotTol = 1e-300

// validateNotNil returns ErrNilMatrix if any operand is nil.
func validateNotNil(ms ...*Dense) error {
	for _, m := range ms {
		if m == nil {
			return ErrNilMatrix
		}
	}

	return nil
}

// Mul returns a·b.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := validateNotNil(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k int
		av      float64
	)
	// i→k→j keeps both the read of b and the write of res row-contiguous.
	for i = 0; i < a.r; i++ {
		for k = 0; k < a.c; k++ {
			av = a.data[i*a.c+k]
			if av == 0 {
				continue
			}
			for j = 0; j < b.c; j++ {
				res.data[i*b.c+j] += av * b.data[k*b.c+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ; m is never mutated.
// Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// MatVec returns m·x as a new slice of length m.Rows().
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != m.Cols()).
//
// Complexity: O(r*c).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if len(x) != m.c {
		return nil, matrixErrorf(opMatVec, ErrDimensionMismatch)
	}
	out := make([]float64, m.r)
	var i, j int
	var sum float64
	for i = 0; i < m.r; i++ {
		sum = 0
		for j = 0; j < m.c; j++ {
			sum += m.data[i*m.c+j] * x[j]
		}
		out[i] = sum
	}

	return out, nil
}

// Inverse returns m⁻¹ using LU decomposition with partial (row) pivoting.
//
// Implementation:
//   - Stage 1: validate non-nil and square.
//   - Stage 2: factor P·A = L·U in place on a copy, choosing the largest
//     magnitude pivot per column.
//   - Stage 3: for each identity column solve L·y = P·e, then U·x = y.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (|pivot| below pivotTol or
//     a non-finite result).
//
// Determinism:
//   - Pivot ties resolve to the lowest row index.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Inverse(m *Dense) (*Dense, error) {
	if err := validateNotNil(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	if m.r != m.c {
		return nil, matrixErrorf(opInverse, ErrNonSquare)
	}
	n := m.r
	lu := make([]float64, len(m.data))
	copy(lu, m.data)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	// Stage 2: Doolittle elimination with row swaps.
	var i, j, k, p int
	for k = 0; k < n; k++ {
		p = k
		best := math.Abs(lu[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := math.Abs(lu[i*n+k]); v > best {
				best, p = v, i
			}
		}
		if best < pivotTol {
			return nil, matrixErrorf(opInverse, ErrSingular)
		}
		if p != k {
			for j = 0; j < n; j++ {
				lu[k*n+j], lu[p*n+j] = lu[p*n+j], lu[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
		}
		pivot := lu[k*n+k]
		for i = k + 1; i < n; i++ {
			f := lu[i*n+k] / pivot
			lu[i*n+k] = f // store L below the diagonal
			for j = k + 1; j < n; j++ {
				lu[i*n+j] -= f * lu[k*n+j]
			}
		}
	}

	// Stage 3: triangular solves per column of the identity.
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	y := make([]float64, n)
	var col int
	var sum float64
	for col = 0; col < n; col++ {
		for i = 0; i < n; i++ {
			sum = 0
			if perm[i] == col {
				sum = 1
			}
			for k = 0; k < i; k++ {
				sum -= lu[i*n+k] * y[k]
			}
			y[i] = sum
		}
		for i = n - 1; i >= 0; i-- {
			sum = y[i]
			for k = i + 1; k < n; k++ {
				sum -= lu[i*n+k] * inv.data[k*n+col]
			}
			v := sum / lu[i*n+i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, matrixErrorf(opInverse, ErrSingular)
			}
			inv.data[i*n+col] = v
		}
	}

	return inv, nil
}
