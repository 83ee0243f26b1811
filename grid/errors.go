package grid

import "errors"

var (
	// ErrBadGeometry indicates an unusable physical description of a detector.
	ErrBadGeometry = errors.New("grid: invalid detector geometry")
)
