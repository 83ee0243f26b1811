// Package grid defines the Grid capability interface and the helpers shared
// by its backings.
package grid

import "github.com/katalvlaran/scdpeaks/geom"

// Grid is one detector's intensity lattice.
//
// Rows and columns are 1-indexed; channels are 0-indexed. No method ever
// panics on a bad address.
type Grid interface {
	// ID returns the detector number peaks use to reference this grid.
	ID() int
	// NumRows returns the total row count, 0 if the grid holds no data.
	NumRows() int
	// NumCols returns the total column count, 0 if NumRows() == 0.
	NumCols() int
	// NumChannels returns the channel count of the 1-indexed cell (row, col),
	// or 0 for any out-of-range cell.
	NumChannels(row, col int) int
	// Intensity returns the value at (row, col, channel) or NaN when the
	// address is out of range or no backing storage exists.
	Intensity(row, col, channel int) float64
	// Geometry returns the physical description of the detector.
	Geometry() Geometry
}

// Compile-time assertions for interface conformance.
var (
	_ Grid = (*Nested)(nil)
	_ Grid = (*Flat)(nil)
)

// nonNeg clamps negative counts to zero.
func nonNeg(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

// inCell reports whether the 1-indexed (row, col) lies within rows×cols.
// Complexity: O(1).
func inCell(row, col, rows, cols int) bool {
	return row >= 1 && col >= 1 && row <= rows && col <= cols
}

// Position returns the lab-frame position (cm) of the sub-pixel (col, row)
// on g using the uniform mapping of its geometry:
//
//	x = (col - (ncols+1)/2) * width/ncols
//	y = (row - (nrows+1)/2) * height/nrows
//	pos = Center + x*Base + y*Up
//
// A nil grid or an empty lattice yields geom.NaN3().
// Complexity: O(1).
func Position(g Grid, col, row float64) geom.Vec3 {
	if g == nil {
		return geom.NaN3()
	}
	nr, nc := g.NumRows(), g.NumCols()
	if nr == 0 || nc == 0 {
		return geom.NaN3()
	}
	gm := g.Geometry()
	x := (col - float64(nc+1)/2) * gm.Width / float64(nc)
	y := (row - float64(nr+1)/2) * gm.Height / float64(nr)

	return gm.Offset(x, y)
}

// ID reports g.ID(), or -1 for a nil grid.
func ID(g Grid) int {
	if g == nil {
		return -1
	}

	return g.ID()
}
