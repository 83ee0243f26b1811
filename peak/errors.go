// SPDX-License-Identifier: MIT
// Package peak: sentinel errors and the calibration error type.
// Callers branch with errors.Is / errors.As; messages are prefixed "peak: ".

package peak

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite indicates a NaN or ±Inf where a finite value is required.
	ErrNonFinite = errors.New("peak: NaN or Inf value")

	// ErrNoUB indicates that no invertible UB matrix is set.
	ErrNoUB = errors.New("peak: no invertible UB matrix")

	// ErrDetectorMismatch indicates a calibration for a different detector.
	ErrDetectorMismatch = errors.New("peak: calibration detector mismatch")

	// ErrCalibrationFormat indicates a malformed or truncated calibration file.
	ErrCalibrationFormat = errors.New("peak: malformed calibration file")
)

// Method tags used as error prefixes.
const (
	methodSetHKL    = "SetHKL"
	methodIndex     = "Index"
	methodApply     = "Apply"
	methodHKLInst   = "HKLInstance"
	methodCalibLoad = "LoadCalibration"
)

// peakErrorf wraps err with a method tag. Call only with err != nil.
func peakErrorf(method string, err error) error {
	return fmt.Errorf("%s: %w", method, err)
}

// CalibrationError reports a failure reading a calibration file.
// Line is 0 when the file could not be opened at all.
type CalibrationError struct {
	Path  string // file path, empty for reader input
	Line  int    // 1-based line of the offending value, 0 if not applicable
	Field string // calibration field being read
	Err   error  // underlying cause (fs error or ErrCalibrationFormat)
}

func (e *CalibrationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("peak: calibration %s line %d (%s): %v", e.Path, e.Line, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("peak: calibration %s (%s): %v", e.Path, e.Field, e.Err)
	default:
		return fmt.Sprintf("peak: calibration %s: %v", e.Path, e.Err)
	}
}

func (e *CalibrationError) Unwrap() error { return e.Err }
