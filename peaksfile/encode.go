// SPDX-License-Identifier: MIT
// Package peaksfile: write path.
//
// Implementation:
//   - Stage 1: validate the collection and collect its distinct grids by
//     detector ID (plan). Nothing is written if this fails.
//   - Stage 2: stable-sort a copy of the peaks into file order.
//   - Stage 3: emit the detector table, then blocks of peak records.
//
// Complexity: O(n log n) for the sort, O(n) for the rest.

package peaksfile

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/order"
	"github.com/katalvlaran/scdpeaks/peak"
)

// plan is a validated, ordered peak collection ready to encode.
type plan struct {
	grids    []grid.Grid // distinct, detector ID ascending
	detLines []string    // rendered detector records, parallel to grids
	peaks    []*peak.Peak
	maxCells int // largest rows*cols among grids of this invocation
}

// newPlan validates peaks and builds the write plan. The caller's slice is
// not modified.
//
// Errors: ErrNilPeak, ErrNoGrid, ErrDetectorConflict, ErrBadValue (an index
// too large to round to an integer column).
func newPlan(peaks []*peak.Peak) (*plan, error) {
	byID := make(map[int]int) // detector ID -> index in pl.grids
	pl := &plan{}
	for i, p := range peaks {
		if p == nil {
			return nil, fmt.Errorf("index %d: %w", i, ErrNilPeak)
		}
		g := p.Grid()
		if g == nil {
			return nil, fmt.Errorf("peak %d: %w", p.SeqNum(), ErrNoGrid)
		}
		if h, k, l := p.HKL(); !writableIndex(h) || !writableIndex(k) || !writableIndex(l) {
			return nil, fmt.Errorf("peak %d: hkl (%g %g %g): %w", p.SeqNum(), h, k, l, ErrBadValue)
		}
		line := recordLine(tagDetector, detectorCols, detectorValues(g))
		if j, ok := byID[g.ID()]; ok {
			if pl.detLines[j] != line {
				return nil, fmt.Errorf("detector %d: %w", g.ID(), ErrDetectorConflict)
			}
			continue
		}
		byID[g.ID()] = len(pl.grids)
		pl.grids = append(pl.grids, g)
		pl.detLines = append(pl.detLines, line)
		pl.maxCells = max(pl.maxCells, g.NumRows()*g.NumCols())
	}

	idx := make([]int, len(pl.grids))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int { return cmp.Compare(pl.grids[a].ID(), pl.grids[b].ID()) })
	grids := make([]grid.Grid, len(idx))
	lines := make([]string, len(idx))
	for i, j := range idx {
		grids[i], lines[i] = pl.grids[j], pl.detLines[j]
	}
	pl.grids, pl.detLines = grids, lines
	pl.peaks = order.SortFileOrder(peaks)

	return pl, nil
}

// maxIndex bounds the Miller indices an integer column can carry: every
// integer up to 2^53 is exact in a float64.
const maxIndex = 1 << 53

func writableIndex(v float64) bool { return math.Abs(v) <= maxIndex }

// encode writes the planned document to w and returns the number of peak
// records accepted.
func (pl *plan) encode(w io.Writer, log *slog.Logger) (int, error) {
	bw := bufio.NewWriter(w)
	put := func(s string) error {
		_, err := bw.WriteString(s)

		return err
	}

	if err := put(titleLine(tagTitle, detectorCols)); err != nil {
		return 0, err
	}
	for _, line := range pl.detLines {
		if err := put(line); err != nil {
			return 0, err
		}
	}

	var (
		records int
		blocks  int
		prev    string

		blockTitle = titleLine(tagTitle, blockCols)
		calibTitle = titleLine(tagTitle, calibCols)
		peakTitle  = titleLine(tagPeakTitle, peakCols)
	)
	for _, p := range pl.peaks {
		blk := recordLine(tagBlock, blockCols, blockValues(p))
		var cal string
		if c := calibValues(p); c != nil {
			cal = recordLine(tagCalib, calibCols, c)
		}
		if blk+cal != prev {
			hdr := []string{blockTitle, blk}
			if cal != "" {
				hdr = append(hdr, calibTitle, cal)
			}
			for _, s := range append(hdr, peakTitle) {
				if err := put(s); err != nil {
					return records, err
				}
			}
			prev = blk + cal
			blocks++
		}
		if err := put(recordLine(tagPeak, peakCols, peakValues(p))); err != nil {
			return records, err
		}
		records++
	}
	if err := bw.Flush(); err != nil {
		return records, err
	}

	log.Debug("peaks encoded",
		slog.Int("records", records),
		slog.Int("blocks", blocks),
		slog.Int("detectors", len(pl.grids)),
		slog.Int("max_cells", pl.maxCells))

	return records, nil
}

// Encode writes peaks as an uncompressed peaks document to w and returns
// the number of peak records written. The caller's slice is not modified.
//
// Errors: ErrNilPeak, ErrNoGrid, ErrDetectorConflict (nothing written), or
// the writer's error.
func Encode(w io.Writer, peaks []*peak.Peak) (int, error) {
	pl, err := newPlan(peaks)
	if err != nil {
		return 0, codecErrorf(opEncode, err)
	}
	n, err := pl.encode(w, discardLogger())
	if err != nil {
		return n, codecErrorf(opEncode, err)
	}

	return n, nil
}

// WriteFile writes peaks to path.
//
// By default the target is replaced atomically: the document goes to a
// temp file in the same directory which is synced and renamed over path,
// so a failure leaves any existing file untouched. WithAppend appends the
// document to path instead, creating it if needed. An appended document
// uses the encoding the file already has.
//
// Errors: validation errors as for Encode (nothing touched), or a
// *WriteError wrapping the I/O cause or ErrCompressionMismatch (nothing
// written).
func WriteFile(path string, peaks []*peak.Peak, opts ...Option) error {
	o := newOptions(opts...)

	pl, err := newPlan(peaks)
	if err != nil {
		return codecErrorf(opWriteFile, err)
	}
	emit := func(w io.Writer, comp Compression) (int, error) {
		cw, err := compressWriter(w, comp)
		if err != nil {
			return 0, err
		}
		n, err := pl.encode(cw, o.logger)
		if cerr := cw.Close(); err == nil {
			err = cerr
		}

		return n, err
	}

	var (
		n    int
		comp Compression
	)
	if o.append {
		comp, n, err = writeAppend(path, o.compression, emit)
	} else {
		comp = o.compression.resolve(path)
		n, err = writeAtomic(path, func(w io.Writer) (int, error) { return emit(w, comp) })
	}
	if err != nil {
		var we *WriteError
		if errors.As(err, &we) && we.Partial() {
			o.logger.Warn("peaks file left with a truncated document",
				slog.String("path", path), slog.Int("records", we.Records), slog.Int64("bytes", we.Bytes))
		}

		return err
	}
	o.logger.Debug("peaks file written",
		slog.String("path", path),
		slog.Int("records", n),
		slog.Bool("append", o.append),
		slog.String("compression", comp.String()))

	return nil
}

// writeAtomic runs emit against a temp file next to path and renames it
// over path once synced. The temp file is removed on any failure. An
// existing target keeps its permission bits.
func writeAtomic(path string, emit func(io.Writer) (int, error)) (int, error) {
	dir, base := filepath.Dir(path), filepath.Base(path)
	fail := func(n int, err error) (int, error) {
		return n, &WriteError{Path: path, Records: n, Err: err}
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fail(0, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()
	_ = tmp.Chmod(mode)

	n, err := emit(tmp)
	if err != nil {
		return fail(n, err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(n, err)
	}
	if err := tmp.Close(); err != nil {
		return fail(n, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fail(n, err)
	}
	tmpName = ""

	// Make the rename durable; best effort.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return n, nil
}

// countingWriter counts bytes that reached the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// writeAppend runs emit against path opened for appending and returns the
// compression used. A non-empty target keeps its encoding: CompressAuto
// adopts it, and an explicit different choice fails with
// ErrCompressionMismatch before anything is written.
func writeAppend(path string, want Compression, emit func(io.Writer, Compression) (int, error)) (Compression, int, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return want, 0, &WriteError{Path: path, Append: true, Err: err}
	}
	comp, err := appendCompression(f, path, want)
	if err != nil {
		_ = f.Close()

		return want, 0, &WriteError{Path: path, Append: true, Err: err}
	}
	cw := &countingWriter{w: f}
	fail := func(n int, err error) (Compression, int, error) {
		return comp, n, &WriteError{Path: path, Append: true, Records: n, Bytes: cw.n, Err: err}
	}

	n, err := emit(cw, comp)
	if err != nil {
		_ = f.Close()

		return fail(n, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()

		return fail(n, err)
	}
	if err := f.Close(); err != nil {
		return fail(n, err)
	}

	return comp, n, nil
}

// appendCompression picks the encoding of a document appended to f: the
// one already in the file, or want resolved against path when f is empty.
func appendCompression(f *os.File, path string, want Compression) (Compression, error) {
	head := make([]byte, len(zstdMagic))
	n, err := f.ReadAt(head, 0)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return want, err
		}

		return want.resolve(path), nil
	}

	have := sniff(head[:n])
	if want != CompressAuto && want != have {
		return want, fmt.Errorf("file is %s, asked for %s: %w", have, want, ErrCompressionMismatch)
	}

	return have, nil
}
