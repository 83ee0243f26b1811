// SPDX-License-Identifier: MIT
// Package peaksfile: record layout.
//
// Every record is a type tag followed by fixed-width, right-aligned,
// single-space-separated columns. Overwide values are narrowed or, failing
// that, widen their own column (see formatValue); the read path splits on
// whitespace and accepts both. Column tables below are the single source
// of truth for titles, widths and precision on both the write and read
// paths.

package peaksfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/peak"
)

// Record type tags.
const (
	tagTitle     = "0"
	tagBlock     = "1"
	tagPeakTitle = "2"
	tagPeak      = "3"
	tagCalib     = "4"
	tagDetector  = "5"
)

// intCol marks an integer column.
const intCol = -1

type column struct {
	name  string
	width int
	prec  int // digits after the decimal point, or intCol
}

var detectorCols = []column{
	{"NDET", 6, intCol}, {"NROWS", 6, intCol}, {"NCOLS", 6, intCol},
	{"WIDTH", 9, 4}, {"HEIGHT", 9, 4}, {"DEPTH", 9, 4}, {"DETD", 9, 4},
	{"CenterX", 9, 4}, {"CenterY", 9, 4}, {"CenterZ", 9, 4},
	{"BaseX", 9, 6}, {"BaseY", 9, 6}, {"BaseZ", 9, 6},
	{"UpX", 9, 6}, {"UpY", 9, 6}, {"UpZ", 9, 6},
}

var blockCols = []column{
	{"NRUN", 6, intCol}, {"DETNUM", 6, intCol},
	{"DETA", 8, 2}, {"DETA2", 8, 2}, {"DETD", 8, 3},
	{"CHI", 8, 2}, {"PHI", 8, 2}, {"OMEGA", 8, 2},
	{"MONCNT", 8, intCol}, {"L1", 8, 2}, {"T0", 8, 3},
}

// calibCols follow a block record whose peaks carry pixel calibration
// coefficients; blocks without one use the grid's uniform mapping.
var calibCols = []column{
	{"XSCALE", 10, 6}, {"YSCALE", 10, 6}, {"XOFFSET", 10, 6}, {"YOFFSET", 10, 6},
}

var peakCols = []column{
	{"SEQN", 6, intCol}, {"H", 4, intCol}, {"K", 4, intCol}, {"L", 4, intCol},
	{"COL", 8, 2}, {"ROW", 8, 2}, {"CHAN", 8, 2},
	{"L2", 8, 3}, {"2_THETA", 9, 5}, {"AZ", 9, 5}, {"WL", 9, 6}, {"D", 8, 5},
	{"IPK", 6, intCol}, {"INTI", 10, 2}, {"SIGI", 7, 2}, {"RFLG", 4, intCol},
}

// Field positions used by the decoder, indexing the column tables above.
const (
	detID     = 0
	detRows   = 1
	detCols   = 2
	detWidth  = 3
	detHeight = 4
	detDepth  = 5
	detCenter = 7
	detBase   = 10
	detUp     = 13
)

const (
	blkRun    = 0
	blkDet    = 1
	blkDetA   = 2
	blkDetA2  = 3
	blkDetD   = 4
	blkChi    = 5
	blkPhi    = 6
	blkOmega  = 7
	blkMonCnt = 8
	blkL1     = 9
	blkT0     = 10
)

const (
	pkSeq    = 0
	pkH      = 1
	pkK      = 2
	pkL      = 3
	pkCol    = 4
	pkRow    = 5
	pkChan   = 6
	pkWL     = 10
	pkIpk    = 12
	pkInti   = 13
	pkSigi   = 14
	pkReflag = 15
)

// titleLine renders the column titles of a table.
func titleLine(tag string, cols []column) string {
	var b strings.Builder
	b.WriteString(tag)
	for _, c := range cols {
		fmt.Fprintf(&b, " %*s", c.width, c.name)
	}
	b.WriteByte('\n')

	return b.String()
}

// recordLine renders one record; vals must line up with cols.
func recordLine(tag string, cols []column, vals []float64) string {
	var b strings.Builder
	b.WriteString(tag)
	for i, c := range cols {
		fmt.Fprintf(&b, " %*s", c.width, formatValue(c, vals[i]))
	}
	b.WriteByte('\n')

	return b.String()
}

// formatValue renders v for column c. A float wider than its column drops
// decimals until it fits. A value whose integer part alone is wider is
// written in full: the record then no longer lines up with its titles but
// still splits on whitespace.
func formatValue(c column, v float64) string {
	if c.prec == intCol {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	s := strconv.FormatFloat(v, 'f', c.prec, 64)
	for prec := c.prec - 1; len(s) > c.width && prec >= 0; prec-- {
		s = strconv.FormatFloat(v, 'f', prec, 64)
	}

	return s
}

func detectorValues(g grid.Grid) []float64 {
	gm := g.Geometry()

	return []float64{
		float64(g.ID()), float64(g.NumRows()), float64(g.NumCols()),
		gm.Width, gm.Height, gm.Depth, gm.Distance(),
		gm.Center[0], gm.Center[1], gm.Center[2],
		gm.Base[0], gm.Base[1], gm.Base[2],
		gm.Up[0], gm.Up[1], gm.Up[2],
	}
}

func blockValues(p *peak.Peak) []float64 {
	chi, phi, omega := p.SampleOrientation()

	return []float64{
		float64(p.Run()), float64(p.DetectorID()),
		p.DetA(), p.DetA2(), p.DetD(),
		chi, phi, omega,
		float64(p.MonitorCount()), p.L1(), p.T0(),
	}
}

// calibValues returns the peak's calibration coefficients, or nil when it
// has none the geometry would use.
func calibValues(p *peak.Peak) []float64 {
	c := p.Calibration()
	if len(c) != len(calibCols) {
		return nil
	}

	return c
}

func peakValues(p *peak.Peak) []float64 {
	h, k, l := p.HKL()
	x, y, z := p.Pixel()

	return []float64{
		float64(p.SeqNum()), h, k, l,
		x, y, z,
		p.L2(), p.TwoTheta(), p.Azimuth(), p.Wavelength(), p.DSpacing(),
		float64(p.Ipkobs()), p.Inti(), p.Sigi(), float64(p.Reflag()),
	}
}

// parseValues parses the columns of one record. fields excludes the tag.
func parseValues(line int, fields []string, cols []column) ([]float64, error) {
	if len(fields) != len(cols) {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("%d fields, want %d: %w",
			len(fields), len(cols), ErrFieldCount)}
	}
	vals := make([]float64, len(cols))
	for i, c := range cols {
		var err error
		if c.prec == intCol {
			var n int
			n, err = strconv.Atoi(fields[i])
			vals[i] = float64(n)
		} else {
			vals[i], err = strconv.ParseFloat(fields[i], 64)
		}
		if err != nil {
			return nil, &ParseError{Line: line, Field: c.name,
				Err: fmt.Errorf("%q: %w", fields[i], ErrBadValue)}
		}
	}

	return vals, nil
}
