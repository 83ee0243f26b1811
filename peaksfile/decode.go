// SPDX-License-Identifier: MIT
// Package peaksfile: read path.
//
// Decoding is fail-fast: the first malformed record stops the read with a
// *ParseError naming its line and column. Records keep file order.

package peaksfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/katalvlaran/scdpeaks/geom"
	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/peak"
)

// File is a decoded peaks file.
type File struct {
	Grids []grid.Grid  // detectors in order of first declaration
	Peaks []*peak.Peak // peak records in file order
}

// Grid returns the detector with the given ID, or nil. When an appended
// document redeclared an ID with a different layout, the latest wins.
func (f *File) Grid(id int) grid.Grid {
	for i := len(f.Grids) - 1; i >= 0; i-- {
		if f.Grids[i].ID() == id {
			return f.Grids[i]
		}
	}

	return nil
}

// declared is one detector record bound to its rebuilt grid.
type declared struct {
	vals []float64
	grid grid.Grid
}

// blockState is the state opened by a block record.
type blockState struct {
	builder *peak.Builder
	l1, t0  float64
}

type decoder struct {
	line  int
	dets  map[int]declared
	blk   *blockState
	file  *File
	log   *slog.Logger
	stats struct{ blocks, redeclared int }
}

// Decode reads a peaks document from r. Gzip and zstd streams are
// recognised by their magic bytes.
//
// Errors: *ParseError (wrapping ErrBadValue, ErrFieldCount, ErrRecordType,
// ErrUnknownDetector, ErrNoBlock or a grid.ErrBadGeometry), or the
// reader's error. A calibration record applies to the rest of its block.
func Decode(r io.Reader) (*File, error) {
	f, err := decode(r, discardLogger())
	if err != nil {
		return nil, codecErrorf(opDecode, err)
	}

	return f, nil
}

// ReadFile opens path and decodes it. Only WithLogger affects reading.
func ReadFile(path string, opts ...Option) (*File, error) {
	o := newOptions(opts...)
	fh, err := os.Open(path)
	if err != nil {
		return nil, codecErrorf(opReadFile, err)
	}
	defer fh.Close()

	f, err := decode(fh, o.logger)
	if err != nil {
		return nil, codecErrorf(opReadFile, fmt.Errorf("%s: %w", path, err))
	}
	o.logger.Debug("peaks file read",
		slog.String("path", path),
		slog.Int("peaks", len(f.Peaks)),
		slog.Int("detectors", len(f.Grids)))

	return f, nil
}

func decode(r io.Reader, log *slog.Logger) (*File, error) {
	text, closeFn, err := decompressReader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	defer closeFn()

	d := &decoder{dets: make(map[int]declared), file: &File{}, log: log}
	sc := bufio.NewScanner(text)
	for sc.Scan() {
		d.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := d.record(fields[0], fields[1:]); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	log.Debug("peaks decoded",
		slog.Int("lines", d.line),
		slog.Int("blocks", d.stats.blocks),
		slog.Int("redeclared_detectors", d.stats.redeclared))

	return d.file, nil
}

func (d *decoder) record(tag string, fields []string) error {
	switch tag {
	case tagTitle, tagPeakTitle:
		return nil
	case tagDetector:
		return d.detectorRecord(fields)
	case tagBlock:
		return d.blockRecord(fields)
	case tagCalib:
		return d.calibRecord(fields)
	case tagPeak:
		return d.peakRecord(fields)
	default:
		return &ParseError{Line: d.line, Field: "type", Err: fmt.Errorf("%q: %w", tag, ErrRecordType)}
	}
}

// detectorRecord rebuilds a layout grid. Redeclaring an ID with identical values
// reuses the grid; different values rebind the ID for later blocks.
func (d *decoder) detectorRecord(fields []string) error {
	v, err := parseValues(d.line, fields, detectorCols)
	if err != nil {
		return err
	}
	id := int(v[detID])
	if prev, ok := d.dets[id]; ok && slices.Equal(prev.vals, v) {
		return nil
	} else if ok {
		d.stats.redeclared++
	}

	gm := grid.Geometry{
		Width:  v[detWidth],
		Height: v[detHeight],
		Depth:  v[detDepth],
		Center: vecAt(v, detCenter),
		Base:   vecAt(v, detBase),
		Up:     vecAt(v, detUp),
	}
	g, err := grid.NewLayout(id, int(v[detRows]), int(v[detCols]), gm)
	if err != nil {
		return &ParseError{Line: d.line, Field: "NDET", Err: err}
	}
	d.dets[id] = declared{vals: v, grid: g}
	d.file.Grids = append(d.file.Grids, g)

	return nil
}

func (d *decoder) blockRecord(fields []string) error {
	v, err := parseValues(d.line, fields, blockCols)
	if err != nil {
		return err
	}
	det := int(v[blkDet])
	dec, ok := d.dets[det]
	if !ok {
		return &ParseError{Line: d.line, Field: "DETNUM", Err: fmt.Errorf("%d: %w", det, ErrUnknownDetector)}
	}

	b := peak.NewBuilder(peak.Instrument{
		Run:          int(v[blkRun]),
		Grid:         dec.grid,
		L1:           v[blkL1],
		DetD:         v[blkDetD],
		DetA:         v[blkDetA],
		DetA2:        v[blkDetA2],
		MonitorCount: int(v[blkMonCnt]),
	})
	b.SetSampleOrientation(v[blkChi], v[blkPhi], v[blkOmega]).SetT0(v[blkT0])
	d.blk = &blockState{builder: b, l1: v[blkL1], t0: v[blkT0]}
	d.stats.blocks++

	return nil
}

// calibRecord sets the pixel calibration of the open block.
func (d *decoder) calibRecord(fields []string) error {
	if d.blk == nil {
		return &ParseError{Line: d.line, Err: ErrNoBlock}
	}
	v, err := parseValues(d.line, fields, calibCols)
	if err != nil {
		return err
	}
	d.blk.builder.SetCalibration(v)

	return nil
}

// peakRecord rebuilds one peak. The TOF window collapses to the single time
// that reproduces the recorded wavelength over the peak's own flight path,
// calibrated or not.
func (d *decoder) peakRecord(fields []string) error {
	if d.blk == nil {
		return &ParseError{Line: d.line, Err: ErrNoBlock}
	}
	v, err := parseValues(d.line, fields, peakCols)
	if err != nil {
		return err
	}

	b := d.blk.builder
	col, row, ch := v[pkCol], v[pkRow], v[pkChan]
	l2 := b.PixelInstance(col, row, ch, 0, 0).L2()
	tof := v[pkWL]*(d.blk.l1+l2)/peak.AngstromPerMicrosecondPerCm - d.blk.t0

	p := b.PixelInstance(col, row, ch, tof, tof)
	if err := p.SetHKL(v[pkH], v[pkK], v[pkL]); err != nil {
		return &ParseError{Line: d.line, Field: "H", Err: err}
	}
	p.SetSeqNum(int(v[pkSeq]))
	p.SetIpkobs(int(v[pkIpk]))
	p.SetInti(v[pkInti])
	p.SetSigi(v[pkSigi])
	p.SetReflag(int(v[pkReflag]))
	d.file.Peaks = append(d.file.Peaks, p)

	return nil
}

func vecAt(v []float64, i int) geom.Vec3 { return geom.Vec3{v[i], v[i+1], v[i+2]} }
