// SPDX-License-Identifier: MIT

// Package peak models one observed or predicted diffraction spot and the
// geometry derived from it.
//
// What:
//
//   - Peak: identity (sequence number, run, detector grid, sub-pixel
//     column/row/channel), Miller indices, intensities, status flag, sample
//     orientation, instrument constants, UB matrix and calibration.
//   - Builder: configured once per run/detector with instrument constants,
//     then stamps out peaks (Instance, PixelInstance, HKLInstance). Builder
//     and products never share mutable storage.
//   - Calibration: the fixed-order detector calibration file consumed by
//     Builder.Apply.
//
// Derived geometry (pure functions of the peak's fields and its grid):
//
//	pos  = lab position of the pixel (cm), calibration-aware
//	L2   = |pos|
//	2θ   = acos(û·x̂)                    (degrees)
//	az   = atan2(pos.y, pos.x)          (degrees)
//	tof  = t0 + frac(z)*(t1-t0) + T0    (µs)
//	λ    = 0.3956034 * tof / (L1+L2)    (Å, lengths in cm)
//	Q    = (û - x̂)/λ                    (Q/2π, lab frame, 1/Å)
//	d    = 1/|Q|                        (Å)
//	Q₀   = Rᵀ·Q,  R = Rz(ω)·Rx(χ)·Rz(φ)  (crystal frame, unrotated)
//	hkl  = UB⁻¹·Q₀                       (Index)
//
// A peak without a grid reports NaN for every derived quantity.
//
// Setting the sample orientation recomputes the rotation matrix but does
// not touch already-set Miller indices; call Index to re-derive them.
//
// Errors:
//
//   - ErrNonFinite: NaN/Inf rejected by SetHKL.
//   - ErrNoUB: Index without an invertible UB matrix.
//   - ErrDetectorMismatch: calibration for another detector.
//   - ErrCalibrationFormat: malformed calibration file (inside *CalibrationError).
//
// Peaks are not safe for concurrent mutation. Once built they may be shared
// read-only.
package peak
