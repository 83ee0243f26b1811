// SPDX-License-Identifier: MIT

package peak

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Calibration is one detector's calibration record.
type Calibration struct {
	Detector int     // detector number
	Angle    float64 // detector angle, degrees
	Distance float64 // detector distance, cm
	L1       float64 // primary flight path, cm
	T0       float64 // time-zero offset, µs
	XScale   float64 // cm per column
	YScale   float64 // cm per row
	XOffset  float64 // cm
	YOffset  float64 // cm
}

// Coefficients returns the linear pixel mapping as
// [x-scale, y-scale, x-offset, y-offset].
func (c Calibration) Coefficients() []float64 {
	return []float64{c.XScale, c.YScale, c.XOffset, c.YOffset}
}

// calibField names one value of the fixed line order and where it goes.
type calibField struct {
	name string
	set  func(c *Calibration, tok string) error
}

// calibFields is the fixed line order of a calibration file.
var calibFields = []calibField{
	{"detector", func(c *Calibration, tok string) (err error) { c.Detector, err = strconv.Atoi(tok); return }},
	{"angle", floatField(func(c *Calibration) *float64 { return &c.Angle })},
	{"distance", floatField(func(c *Calibration) *float64 { return &c.Distance })},
	{"l1", floatField(func(c *Calibration) *float64 { return &c.L1 })},
	{"t0", floatField(func(c *Calibration) *float64 { return &c.T0 })},
	{"x-scale", floatField(func(c *Calibration) *float64 { return &c.XScale })},
	{"y-scale", floatField(func(c *Calibration) *float64 { return &c.YScale })},
	{"x-offset", floatField(func(c *Calibration) *float64 { return &c.XOffset })},
	{"y-offset", floatField(func(c *Calibration) *float64 { return &c.YOffset })},
}

func floatField(dst func(c *Calibration) *float64) func(*Calibration, string) error {
	return func(c *Calibration, tok string) error {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return err
		}
		*dst(c) = v

		return nil
	}
}

// LoadCalibration reads a calibration file.
//
// Errors: *CalibrationError wrapping the fs error (missing/unreadable file)
// or ErrCalibrationFormat (bad value, short file).
func LoadCalibration(path string) (Calibration, error) {
	f, err := os.Open(path)
	if err != nil {
		return Calibration{}, &CalibrationError{Path: path, Err: err}
	}
	defer f.Close()

	c, err := ParseCalibration(f)
	var ce *CalibrationError
	if errors.As(err, &ce) {
		ce.Path = path
	}

	return c, err
}

// ParseCalibration reads the fixed line order:
//
//	detector, angle, distance, l1, t0, x-scale, y-scale, x-offset, y-offset
//
// one value per line (the first whitespace-separated token). Blank lines and
// lines starting with '#' are skipped; trailing text after the value is a
// free-form comment.
func ParseCalibration(r io.Reader) (Calibration, error) {
	var (
		c    Calibration
		next int
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() && next < len(calibFields) {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		tok := strings.Fields(text)[0]
		fld := calibFields[next]
		if err := fld.set(&c, tok); err != nil {
			return Calibration{}, &CalibrationError{
				Line:  line,
				Field: fld.name,
				Err:   fmt.Errorf("%q: %w", tok, ErrCalibrationFormat),
			}
		}
		next++
	}
	if err := sc.Err(); err != nil {
		return Calibration{}, &CalibrationError{Line: line, Err: err}
	}
	if next < len(calibFields) {
		return Calibration{}, &CalibrationError{
			Field: calibFields[next].name,
			Err:   fmt.Errorf("%s: missing value: %w", methodCalibLoad, ErrCalibrationFormat),
		}
	}

	return c, nil
}
