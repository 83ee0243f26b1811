// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra kernel used by peak
// geometry: orientation (UB) matrices, goniometer rotations and their
// inverses.
//
// What:
//
//   - Dense: row-major float64 matrix; NewDense and Identity allocate it.
//   - FromRows / Rows2D: deep-copy conversion from and to [][]float64.
//   - Mul, Transpose, MatVec, Inverse: fail-fast kernels returning sentinel
//     errors (errors.Is) instead of panicking.
//   - RotationX, RotationZ: right-handed rotations by degrees (the
//     goniometer axes).
//
// Why:
//
//   - Peaks own private copies of their UB and rotation matrices; Dense makes
//     copy-in/copy-out explicit and cheap.
//   - Inverse uses LU with partial pivoting: UB matrices frequently carry a
//     zero in the leading position, which a non-pivoting scheme rejects.
//
// Complexity:
//
//   - Mul O(n³); Inverse O(n³); MatVec O(n²).
//
// Errors:
//
//   - ErrBadShape: empty or ragged input.
//   - ErrDimensionMismatch: incompatible operands.
//   - ErrNonSquare: square matrix required.
//   - ErrNaNInf: non-finite value rejected.
//   - ErrSingular: matrix cannot be inverted.
package matrix
