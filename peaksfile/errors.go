// SPDX-License-Identifier: MIT

package peaksfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNoGrid indicates a peak without a detector grid on write.
	ErrNoGrid = errors.New("peaksfile: peak has no grid")

	// ErrNilPeak indicates a nil entry in the peak collection on write.
	ErrNilPeak = errors.New("peaksfile: nil peak")

	// ErrDetectorConflict indicates two different grids sharing one ID.
	ErrDetectorConflict = errors.New("peaksfile: conflicting grids for detector")

	// ErrUnknownDetector indicates a block referencing an undeclared detector.
	ErrUnknownDetector = errors.New("peaksfile: unknown detector")

	// ErrNoBlock indicates a peak record before any block header.
	ErrNoBlock = errors.New("peaksfile: peak record outside a block")

	// ErrRecordType indicates an unrecognised record type.
	ErrRecordType = errors.New("peaksfile: unknown record type")

	// ErrFieldCount indicates a record with the wrong number of fields.
	ErrFieldCount = errors.New("peaksfile: wrong field count")

	// ErrBadValue indicates a field that does not parse as its type, or on
	// write a Miller index too large for its integer column.
	ErrBadValue = errors.New("peaksfile: malformed value")

	// ErrCompressionMismatch indicates an append whose requested compression
	// differs from the encoding already in the file.
	ErrCompressionMismatch = errors.New("peaksfile: compression differs from existing file")
)

// Operation tags used as error prefixes.
const (
	opEncode    = "Encode"
	opDecode    = "Decode"
	opWriteFile = "WriteFile"
	opReadFile  = "ReadFile"
)

// codecErrorf wraps err with an operation tag. Call only with err != nil.
func codecErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// ParseError reports the first malformed record of a peaks file.
type ParseError struct {
	Line  int    // 1-based line number
	Field string // column title of the offending field, empty for whole-record errors
	Err   error  // ErrBadValue, ErrFieldCount, ErrRecordType, ErrNoBlock, ...
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("peaksfile: line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("peaksfile: line %d (%s): %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a failed WriteFile.
//
// For an overwrite the target is untouched and Partial reports false. For
// an append, Bytes counts what reached the file before the failure and
// Records how many peak records the encoder had accepted, so Partial
// reports whether the file now ends in a truncated document.
type WriteError struct {
	Path    string
	Append  bool
	Records int   // peak records accepted before the failure
	Bytes   int64 // bytes that reached the file (append only)
	Err     error
}

func (e *WriteError) Error() string {
	mode := "overwrite"
	if e.Append {
		mode = "append"
	}

	return fmt.Sprintf("peaksfile: %s %s after %d records: %v", mode, e.Path, e.Records, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Partial reports whether the failed write left a truncated document in an
// existing file.
func (e *WriteError) Partial() bool { return e.Append && e.Bytes > 0 }
