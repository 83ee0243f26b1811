// SPDX-License-Identifier: MIT

// Package peaksfile reads and writes peaks files: the fixed-width text
// format that persists an indexed peak collection together with the
// detector table needed to rebuild its grids.
//
// Layout, one record per line, the first token naming the record type:
//
//	0  detector column titles
//	5  one detector (grid) per line, ID ascending
//	0  block column titles
//	1  block header: run, detector, angles, orientation, monitor, L1, T0
//	2  peak column titles
//	3  one peak per line, canonical file order
//
// A new 0/1/2 block is emitted whenever the rendered block header changes
// between consecutive peaks. Units: lengths cm, angles degrees, wavelength
// and d-spacing Å, time µs. Miller indices are written rounded.
//
// Writes either replace the target atomically (temp file, fsync, rename)
// or append to it. Appending a document to an existing file yields a file
// that still decodes: repeated detector lines are reconciled by ID.
// Output may be gzip or zstd compressed (by option or by the .gz / .zst
// suffix); reads detect compression from the magic bytes.
//
// Not persisted: UB matrices and calibration coefficients. Decoded peaks
// are positioned through the grid's uniform pixel mapping, and their TOF
// window is reconstructed from the wavelength column.
package peaksfile
