package peaksfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// failingEmit writes a fragment, then fails as a full disk would.
func failingEmit(w io.Writer) (int, error) {
	if _, err := io.WriteString(w, "3 partial\n"); err != nil {
		return 0, err
	}

	return 1, errBoom
}

func failingAppend(w io.Writer, _ Compression) (int, error) { return failingEmit(w) }

func TestWriteAtomic_FailureLeavesTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.peaks")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	n, err := writeAtomic(path, failingEmit)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, errBoom)

	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.False(t, we.Append)
	assert.False(t, we.Partial())
	assert.Equal(t, 1, we.Records)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file removed")
}

func TestWriteAppend_PartialIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.peaks")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	comp, _, err := writeAppend(path, CompressAuto, failingAppend)
	assert.Equal(t, CompressNone, comp, "plain content is kept")
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, we.Append)
	assert.True(t, we.Partial())
	assert.Equal(t, int64(len("3 partial\n")), we.Bytes)
	assert.Equal(t, 1, we.Records)
	assert.Contains(t, we.Error(), "append")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original\n3 partial\n", string(got))
}

func TestWriteAppend_OpenFailure(t *testing.T) {
	_, _, err := writeAppend(filepath.Join(t.TempDir(), "no", "such", "dir"), CompressAuto, failingAppend)
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.False(t, we.Partial(), "nothing reached the file")
}

func TestRecordLine_Widths(t *testing.T) {
	cols := []column{{"A", 4, intCol}, {"B", 8, 3}}
	assert.Equal(t, "9   -3   12.346\n", recordLine("9", cols, []float64{-3, 12.3457}))
	assert.Equal(t, "9    A        B\n", titleLine("9", cols))

	vals, err := parseValues(7, []string{"-3", "12.346"}, cols)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, 12.346}, vals)

	_, err = parseValues(7, []string{"x", "1"}, cols)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "A", pe.Field)
	assert.Equal(t, 7, pe.Line)
}

func TestFormatValue_Overwide(t *testing.T) {
	inti := column{"INTI", 10, 2}
	assert.Equal(t, "434.44", formatValue(inti, 434.44))
	assert.Equal(t, "12345678.9", formatValue(inti, 12345678.9), "drops decimals to fit")
	assert.Equal(t, "123456789012", formatValue(inti, 123456789012.25), "integer part kept in full")

	cols := []column{{"A", 4, intCol}, {"B", 6, 2}}
	line := recordLine("9", cols, []float64{123456, 12345.678})
	assert.Equal(t, "9 123456  12346\n", line)

	vals, err := parseValues(1, strings.Fields(line)[1:], cols)
	require.NoError(t, err)
	assert.Equal(t, []float64{123456, 12346}, vals)
}

func TestSniff(t *testing.T) {
	assert.Equal(t, CompressGzip, sniff([]byte{0x1f, 0x8b, 8, 0}))
	assert.Equal(t, CompressZstd, sniff([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, CompressNone, sniff([]byte("0 ")))
	assert.Equal(t, CompressNone, sniff(nil))
}

func TestCompressionResolve(t *testing.T) {
	assert.Equal(t, CompressGzip, CompressAuto.resolve("x.PEAKS.GZ"))
	assert.Equal(t, CompressZstd, CompressAuto.resolve("x.zst"))
	assert.Equal(t, CompressNone, CompressAuto.resolve("x.peaks"))
	assert.Equal(t, CompressNone, CompressNone.resolve("x.gz"))
}
