// Package scdpeaks is the peak indexing and persistence core for
// time-of-flight single-crystal diffraction.
//
// What it covers:
//
//	grid/       detector lattice (nested and flat backings) + physical geometry
//	sortcode/   packs (value, row, col, channel) into one sortable integer
//	matrix/     3×3-scale dense linear algebra used by peak geometry
//	geom/       the shared three-vector
//	peak/       the Peak entity, its derived geometry, Builder, calibration files
//	order/      canonical file order and radial order comparators
//	peaksfile/  fixed-width peaks file codec (plain, gzip, zstd)
//	cmd/peaks   command-line front end
//
// Conventions:
//
//   - Lab frame: beam along +x, z up. Lengths cm, angles degrees, time µs,
//     wavelength and d-spacing Å, Q/2π in 1/Å.
//   - Grid rows and columns are 1-indexed; channels are 0-indexed.
//   - Grids are immutable and safe to share. Peaks are not safe for
//     concurrent mutation.
//   - Errors are sentinels prefixed with their package name, matched with
//     errors.Is; typed errors (peak.CalibrationError, peaksfile.ParseError,
//     peaksfile.WriteError) carry position or progress.
//
// Every call is synchronous and returns once its work is done.
package scdpeaks
