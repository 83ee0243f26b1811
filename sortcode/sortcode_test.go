package sortcode_test

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"

	"github.com/katalvlaran/scdpeaks/sortcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cell is the reference record a Code stands for.
type cell struct{ value, row, col, ch int }

func compareCells(a, b cell) int {
	if c := cmp.Compare(a.value, b.value); c != 0 {
		return c
	}
	if c := cmp.Compare(a.row, b.row); c != 0 {
		return c
	}
	if c := cmp.Compare(a.col, b.col); c != 0 {
		return c
	}

	return cmp.Compare(a.ch, b.ch)
}

// TestEncodeDecode_Scenario checks the documented sample cell.
func TestEncodeDecode_Scenario(t *testing.T) {
	code := sortcode.Encode(111111, 123, 234, 345)
	got := sortcode.Decode(code, make([]int, 4))

	require.Len(t, got, 4)
	assert.Equal(t, 345, got[sortcode.SlotChannel])
	assert.Equal(t, 234, got[sortcode.SlotCol])
	assert.Equal(t, 123, got[sortcode.SlotRow])
	assert.Equal(t, 111111, got[sortcode.SlotValue])
	assert.Equal(t, "123  234  345  111111", sortcode.String(code))
}

// TestEncode_Saturation clamps values above the limit and below zero.
func TestEncode_Saturation(t *testing.T) {
	buf := make([]int, 4)

	d := sortcode.Decode(sortcode.Encode(sortcode.MaxCodeableValue+12345, 1, 2, 3), buf)
	assert.Equal(t, sortcode.MaxCodeableValue, d[sortcode.SlotValue])
	assert.Equal(t, 1, d[sortcode.SlotRow])

	d = sortcode.Decode(sortcode.Encode(-5, 1, 2, 3), buf)
	assert.Equal(t, 0, d[sortcode.SlotValue])

	top := sortcode.Encode(sortcode.MaxCodeableValue, sortcode.MaxNumRows-1, sortcode.MaxNumCols-1, sortcode.MaxNumChan-1)
	assert.Less(t, uint64(top), uint64(1)<<63, "top code stays within 63 bits")
}

// TestDecode_BufferReuse reuses a long buffer and replaces a short one.
func TestDecode_BufferReuse(t *testing.T) {
	long := make([]int, 8)
	out := sortcode.Decode(sortcode.Encode(9, 8, 7, 6), long)
	assert.Same(t, &long[0], &out[0], "buffer of len >= 4 is reused")

	out = sortcode.Decode(sortcode.Encode(9, 8, 7, 6), nil)
	assert.Equal(t, []int{6, 7, 8, 9}, out)
}

// TestRoundTrip_Random decodes random in-range cells back exactly.
func TestRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buf := make([]int, 4)
	for i := 0; i < 10000; i++ {
		want := cell{
			value: rng.Intn(sortcode.MaxCodeableValue + 1),
			row:   rng.Intn(sortcode.MaxNumRows),
			col:   rng.Intn(sortcode.MaxNumCols),
			ch:    rng.Intn(sortcode.MaxNumChan),
		}
		require.True(t, sortcode.Valid(want.row, want.col, want.ch))
		d := sortcode.Decode(sortcode.Encode(want.value, want.row, want.col, want.ch), buf)
		got := cell{d[sortcode.SlotValue], d[sortcode.SlotRow], d[sortcode.SlotCol], d[sortcode.SlotChannel]}
		require.Equal(t, want, got)
	}
}

// TestOrdering_Random sorts codes numerically and compares against the
// lexicographic reference ordering of the underlying cells. Small ranges
// force plenty of ties on the leading fields.
func TestOrdering_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cells := make([]cell, 5000)
	for i := range cells {
		cells[i] = cell{rng.Intn(20), rng.Intn(5), rng.Intn(5), rng.Intn(5)}
	}
	codes := make([]sortcode.Code, len(cells))
	for i, c := range cells {
		codes[i] = sortcode.Encode(c.value, c.row, c.col, c.ch)
	}

	sortcode.Sort(codes)
	slices.SortFunc(cells, compareCells)

	buf := make([]int, 4)
	for i, code := range codes {
		d := sortcode.Decode(code, buf)
		got := cell{d[sortcode.SlotValue], d[sortcode.SlotRow], d[sortcode.SlotCol], d[sortcode.SlotChannel]}
		require.Equal(t, cells[i], got, "position %d", i)
	}
}

// TestValid covers each field boundary.
func TestValid(t *testing.T) {
	assert.True(t, sortcode.Valid(0, 0, 0))
	assert.False(t, sortcode.Valid(-1, 0, 0))
	assert.False(t, sortcode.Valid(sortcode.MaxNumRows, 0, 0))
	assert.False(t, sortcode.Valid(0, sortcode.MaxNumCols, 0))
	assert.False(t, sortcode.Valid(0, 0, sortcode.MaxNumChan))
}
