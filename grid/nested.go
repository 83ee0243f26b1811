package grid

import "math"

// Nested is the dense nested backing: data[row-1][col-1][channel].
// Per-cell channel counts may vary; a short row simply has fewer cells.
// Nested is immutable once built.
type Nested struct {
	id   int
	rows int
	cols int
	data [][][]float64
	geo  Geometry
}

// NewNested constructs a Nested grid from caller storage. It deep-copies
// data so later caller-side mutation cannot affect the grid. A nil or
// empty data slice yields a grid with no rows.
//
// The column count is taken from the first row; rows shorter than that
// report 0 channels for their missing cells.
//
// Errors: ErrBadGeometry from g.Validate().
// Complexity: O(R×C×N) time and memory.
func NewNested(id int, data [][][]float64, g Geometry) (*Nested, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	n := &Nested{id: id, geo: g.normalized()}
	if len(data) == 0 {
		return n, nil
	}
	n.rows = len(data)
	n.cols = len(data[0])
	// Deep copy to prevent external mutation.
	n.data = make([][][]float64, len(data))
	for r, row := range data {
		n.data[r] = make([][]float64, len(row))
		for c, cell := range row {
			n.data[r][c] = append([]float64(nil), cell...)
		}
	}

	return n, nil
}

// ID returns the detector number, or -1 on a nil receiver.
func (n *Nested) ID() int {
	if n == nil {
		return -1
	}

	return n.id
}

// NumRows returns the row count (0 when no data is held).
func (n *Nested) NumRows() int {
	if n == nil {
		return 0
	}

	return n.rows
}

// NumCols returns the column count of the first row; 0 when NumRows() == 0.
func (n *Nested) NumCols() int {
	if n == nil || n.rows == 0 {
		return 0
	}

	return n.cols
}

// NumChannels returns len(data[row-1][col-1]), or 0 out of range.
// Complexity: O(1).
func (n *Nested) NumChannels(row, col int) int {
	if n == nil || !inCell(row, col, n.rows, n.cols) {
		return 0
	}
	cells := n.data[row-1]
	if col > len(cells) {
		return 0
	}

	return len(cells[col-1])
}

// Intensity returns data[row-1][col-1][channel] or NaN out of range.
// Complexity: O(1).
func (n *Nested) Intensity(row, col, channel int) float64 {
	if channel < 0 || channel >= n.NumChannels(row, col) {
		return math.NaN()
	}

	return n.data[row-1][col-1][channel]
}

// Geometry returns the detector geometry.
func (n *Nested) Geometry() Geometry {
	if n == nil {
		return Geometry{}
	}

	return n.geo
}
