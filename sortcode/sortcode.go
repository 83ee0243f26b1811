// SPDX-License-Identifier: MIT

// Package sortcode packs (value, row, col, channel) for one grid cell into a
// single unsigned integer whose numeric order is the order by value, then
// row, then column, then channel. Sorting millions of Codes is far cheaper
// than sorting composite records.
//
// Field layout (most significant first), version 1:
//
//	value   30 bits  [0, MaxCodeableValue], saturated
//	row     11 bits  [0, MaxNumRows)
//	col     11 bits  [0, MaxNumCols)
//	channel 11 bits  [0, MaxNumChan)
//
// The moduli are powers of two so packing is shift-equivalent. Changing any
// of the constants changes the representable cells without notice to old
// data: never persist Codes across a change of Version.
//
// Encode is a hot-path primitive: row, col and channel are not validated.
// Callers check them upstream with Valid.
package sortcode

import (
	"fmt"
	"slices"
)

// Version identifies the field-width constants below.
const Version = 1

// Field-width constants. Documented and versioned together.
const (
	MaxNumRows = 1 << 11 // exclusive upper bound on row
	MaxNumCols = 1 << 11 // exclusive upper bound on column
	MaxNumChan = 1 << 11 // exclusive upper bound on channel

	// MaxCodeableValue is the saturation limit for value, roughly half the
	// largest 31-bit signed integer.
	MaxCodeableValue = 1<<30 - 1
)

// decodeLen is the minimum length of a Decode output buffer.
const decodeLen = 4

// Decode buffer slots.
const (
	SlotChannel = 0
	SlotCol     = 1
	SlotRow     = 2
	SlotValue   = 3
)

// Code is one packed cell. Codes compare with the ordinary integer operators.
type Code uint64

// Valid reports whether (row, col, channel) is representable.
func Valid(row, col, channel int) bool {
	return row >= 0 && row < MaxNumRows &&
		col >= 0 && col < MaxNumCols &&
		channel >= 0 && channel < MaxNumChan
}

// clamp saturates value into [0, MaxCodeableValue].
func clamp(value int) uint64 {
	switch {
	case value < 0:
		return 0
	case value > MaxCodeableValue:
		return MaxCodeableValue
	default:
		return uint64(value)
	}
}

// Encode packs the cell:
//
//	code = ((value*MaxNumRows + row)*MaxNumCols + col)*MaxNumChan + channel
//
// value is saturated to [0, MaxCodeableValue] first; negative values encode
// as 0. row, col and channel outside Valid give an undefined code.
// Complexity: O(1).
func Encode(value, row, col, channel int) Code {
	c := clamp(value)
	c = c*MaxNumRows + uint64(row)
	c = c*MaxNumCols + uint64(col)
	c = c*MaxNumChan + uint64(channel)

	return Code(c)
}

// Decode unpacks code into buf and returns it: channel at index 0, column at
// 1, row at 2, value at 3. A buf of length >= 4 is reused without
// allocation; a shorter one is replaced by a fresh slice. buf must not be
// shared between goroutines.
// Complexity: O(1).
func Decode(code Code, buf []int) []int {
	if len(buf) < decodeLen {
		buf = make([]int, decodeLen)
	}
	c := uint64(code)
	buf[SlotChannel] = int(c % MaxNumChan)
	c /= MaxNumChan
	buf[SlotCol] = int(c % MaxNumCols)
	c /= MaxNumCols
	buf[SlotRow] = int(c % MaxNumRows)
	c /= MaxNumRows
	buf[SlotValue] = int(c)

	return buf
}

// String renders the decoded cell as "row  col  channel  value".
// Diagnostics only; not a persisted format.
func String(code Code) string {
	var buf [decodeLen]int
	d := Decode(code, buf[:])

	return fmt.Sprintf("%d  %d  %d  %d", d[SlotRow], d[SlotCol], d[SlotChannel], d[SlotValue])
}

// String implements fmt.Stringer.
func (c Code) String() string { return String(c) }

// Sort orders codes ascending in place, which is ascending by (value, row,
// col, channel).
func Sort(codes []Code) { slices.Sort(codes) }
