// SPDX-License-Identifier: MIT
// Package peaksfile: functional options.
//
// Defaults:
//   - mode        = overwrite (atomic replace)
//   - compression = chosen from the path suffix (.gz, .zst), else none
//   - logger      = discards everything
//
// Option constructors panic on meaningless input; codec functions never do.

package peaksfile

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Compression selects the stream encoding of a peaks file.
type Compression int

const (
	// CompressAuto picks gzip for ".gz", zstd for ".zst", else none.
	CompressAuto Compression = iota
	// CompressNone writes plain text.
	CompressNone
	// CompressGzip writes a gzip stream (one member per write).
	CompressGzip
	// CompressZstd writes a zstd stream (one frame per write).
	CompressZstd
)

func (c Compression) String() string {
	switch c {
	case CompressAuto:
		return "auto"
	case CompressNone:
		return "none"
	case CompressGzip:
		return "gzip"
	case CompressZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// Option configures WriteFile and ReadFile.
type Option func(*options)

type options struct {
	append      bool
	compression Compression
	logger      *slog.Logger
}

func newOptions(opts ...Option) options {
	o := options{
		compression: CompressAuto,
		logger:      discardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithAppend appends to the target instead of replacing it.
func WithAppend() Option {
	return func(o *options) { o.append = true }
}

// WithCompression forces the output compression regardless of suffix.
// Panics on an unknown value.
func WithCompression(c Compression) Option {
	if c < CompressAuto || c > CompressZstd {
		panic(fmt.Sprintf("peaksfile: WithCompression(%d)", int(c)))
	}

	return func(o *options) { o.compression = c }
}

// WithLogger routes codec diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("peaksfile: WithLogger(nil)")
	}

	return func(o *options) { o.logger = l }
}

// resolve maps CompressAuto to a concrete choice for path.
func (c Compression) resolve(path string) Compression {
	if c != CompressAuto {
		return c
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CompressGzip
	case ".zst":
		return CompressZstd
	default:
		return CompressNone
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
