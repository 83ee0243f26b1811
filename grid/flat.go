package grid

import "math"

// Flat is the strided backing: one linear buffer with channel the
// fastest-varying index, then column, then row:
//
//	offset = channel + nch*(col-1) + nch*ncols*(row-1)
//
// Every cell has the same channel count. Flat is immutable once built.
type Flat struct {
	id   int
	rows int
	cols int
	nch  int
	data []float64
	geo  Geometry
}

// NewFlat constructs a Flat grid over a copy of buf with the given
// dimensions. Negative dimensions are treated as zero. buf may be shorter
// than rows*cols*nch; addresses whose offset falls outside the buffer read
// as NaN.
//
// Errors: ErrBadGeometry from g.Validate().
// Complexity: O(len(buf)).
func NewFlat(id int, buf []float64, rows, cols, nch int, g Geometry) (*Flat, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	var data []float64
	if buf != nil {
		data = append([]float64(nil), buf...)
	}
	rows = nonNeg(rows)
	cols = nonNeg(cols)
	if rows == 0 {
		cols = 0
	}

	return &Flat{
		id:   id,
		rows: rows,
		cols: cols,
		nch:  nonNeg(nch),
		data: data,
		geo:  g.normalized(),
	}, nil
}

// NewLayout constructs a grid that carries dimensions and geometry but no
// intensities: every cell reports 0 channels and every lookup yields NaN.
// Peaks files rebuild their detectors this way.
func NewLayout(id, rows, cols int, g Geometry) (*Flat, error) {
	return NewFlat(id, nil, rows, cols, 0, g)
}

// ID returns the detector number, or -1 on a nil receiver.
func (f *Flat) ID() int {
	if f == nil {
		return -1
	}

	return f.id
}

// NumRows returns the declared row count.
func (f *Flat) NumRows() int {
	if f == nil {
		return 0
	}

	return f.rows
}

// NumCols returns the declared column count; 0 when NumRows() == 0.
func (f *Flat) NumCols() int {
	if f == nil {
		return 0
	}

	return f.cols
}

// NumChannels returns the constant channel count inside the lattice, 0
// outside it.
func (f *Flat) NumChannels(row, col int) int {
	if f == nil || !inCell(row, col, f.rows, f.cols) {
		return 0
	}

	return f.nch
}

// Intensity returns the buffer value at the strided offset, or NaN.
// The computed offset itself is bounds-checked against len(data), so a
// buffer shorter than rows*cols*nch never causes an out-of-range read.
// Complexity: O(1).
func (f *Flat) Intensity(row, col, channel int) float64 {
	if f == nil || f.data == nil {
		return math.NaN()
	}
	if channel < 0 || channel >= f.NumChannels(row, col) {
		return math.NaN()
	}
	offset := channel + f.nch*(col-1) + f.nch*f.cols*(row-1)
	if offset < 0 || offset >= len(f.data) {
		return math.NaN()
	}

	return f.data[offset]
}

// Geometry returns the detector geometry.
func (f *Flat) Geometry() Geometry {
	if f == nil {
		return Geometry{}
	}

	return f.geo
}
