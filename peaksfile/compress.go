// SPDX-License-Identifier: MIT

package peaksfile

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressWriter wraps w for c. Close must be called to flush the stream;
// it never closes w itself.
func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressGzip:
		return gzip.NewWriter(w), nil
	case CompressZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}

		return enc, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

// sniff reports the encoding of a stream that starts with head.
func sniff(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressZstd
	default:
		return CompressNone
	}
}

// decompressReader sniffs the magic bytes of br and returns a reader of the
// decoded text. Concatenated gzip members and zstd frames (appended
// writes) decode as one stream.
func decompressReader(br *bufio.Reader) (io.Reader, func(), error) {
	head, _ := br.Peek(len(zstdMagic))
	switch sniff(head) {
	case CompressGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}

		return zr, func() { _ = zr.Close() }, nil
	case CompressZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}

		return zr, zr.Close, nil
	default:
		return br, func() {}, nil
	}
}
