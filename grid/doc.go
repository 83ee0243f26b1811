// Package grid models one area detector's (row, column, time-channel)
// intensity lattice together with its physical geometry.
//
// What:
//
//   - Grid: the capability interface every backing implements.
//   - Nested: dense nested storage, data[row-1][col-1][channel], with a
//     per-cell channel count.
//   - Flat: one linear buffer plus fixed nrows/ncols/nchannels, channel
//     fastest, then column, then row.
//   - NewLayout: a Flat grid without intensities, rebuilt from a peaks-file
//     header.
//   - Geometry: detector size, center and orientation basis (cm).
//
// Addressing contract:
//
//   - Rows and columns are 1-indexed; channels are 0-indexed.
//   - Lookups never fail: any out-of-range address, or a grid without
//     backing storage, yields NaN from Intensity and 0 from NumChannels.
//   - Negative row/column counts are treated as zero.
//
// Complexity:
//
//   - NumRows/NumCols/NumChannels/Intensity: O(1).
//   - Construction: O(R×C×N) (deep copy of caller storage).
//
// Errors:
//
//   - ErrBadGeometry: non-finite sizes or vectors, negative sizes, or a
//     zero-length basis on a detector with non-zero extent.
//
// Grids are immutable after construction and safe for concurrent read-only
// use.
package grid
