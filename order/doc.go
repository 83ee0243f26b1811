// SPDX-License-Identifier: MIT

// Package order provides the two total orders over peak collections.
//
// Both orders are three-way comparators (negative, zero, positive) suitable
// for slices.SortStableFunc and friends, and neither ever mutates a peak:
//
//   - FileOrder: run, detector ID, then round(h), round(k), round(l). This
//     is the order peaks files persist.
//   - Radial(ref): squared distance of the unrotated Q vector to a fixed
//     reciprocal-space reference, nearest first.
//
// SortFileOrder and SortRadial copy the input slice before sorting; the
// caller's slice keeps its order. Nil peaks sort after every non-nil peak
// and keep their relative order.
package order
