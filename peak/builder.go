// SPDX-License-Identifier: MIT
// Package peak: Builder.
//
// Design:
//   - Instrument holds the per-run/per-detector constants; it is copied by
//     value into the Builder at construction.
//   - Mutable builder state (orientation, time-zero, UB, calibration) is
//     copied again into each product, so later builder changes never reach
//     peaks already stamped out and vice versa.
//
// Complexity: every Instance call is O(1) (fixed 3×3 copies).

package peak

import (
	"fmt"

	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/matrix"
)

// Instrument groups the constants shared by every peak of one run on one
// detector.
type Instrument struct {
	Run          int       // run number
	Grid         grid.Grid // detector the peaks lie on (shared, read-only)
	L1           float64   // primary flight path, cm
	DetD         float64   // nominal detector distance, cm
	DetA         float64   // detector angle, degrees
	DetA2        float64   // detector elevation angle, degrees
	MonitorCount int       // monitor count of the run
}

// Builder stamps out peaks carrying one Instrument plus the currently
// configured sample orientation, time calibration, UB and calibration
// coefficients. A Builder is not safe for concurrent use.
type Builder struct {
	inst Instrument

	chi, phi, omega float64
	rot             *matrix.Dense
	t0              float64
	ub, ubInv       *matrix.Dense
	calib           []float64
}

// NewBuilder returns a Builder for inst with zero orientation and no UB.
func NewBuilder(inst Instrument) *Builder {
	rot, _ := matrix.Identity(ubOrder) // chi = phi = omega = 0; a positive order cannot fail

	return &Builder{inst: inst, rot: rot}
}

// Instrument returns the builder's instrument constants.
func (b *Builder) Instrument() Instrument { return b.inst }

// SetSampleOrientation sets chi, phi, omega (degrees) for subsequent peaks.
func (b *Builder) SetSampleOrientation(chi, phi, omega float64) *Builder {
	b.chi, b.phi, b.omega = chi, phi, omega
	b.rot = sampleRotation(chi, phi, omega)

	return b
}

// SetT0 sets the time-zero offset (µs) for subsequent peaks.
func (b *Builder) SetT0(t0 float64) *Builder {
	b.t0 = t0

	return b
}

// SetUB copies ub for subsequent peaks under the same rule as Peak.SetUB:
// anything but a finite 3×3 matrix is ignored.
func (b *Builder) SetUB(ub [][]float64) *Builder {
	if m, inv, ok := copyUB(ub); ok {
		b.ub, b.ubInv = m, inv
	}

	return b
}

// SetCalibration copies the calibration coefficients for subsequent peaks.
func (b *Builder) SetCalibration(c []float64) *Builder {
	b.calib = cloneFloats(c)

	return b
}

// Apply configures the builder from a detector calibration: detector
// distance and angle, L1, T0 and the four linear coefficients.
//
// Errors:
//   - ErrDetectorMismatch when c.Detector differs from the grid's ID.
func (b *Builder) Apply(c Calibration) error {
	if b.inst.Grid != nil && c.Detector != b.inst.Grid.ID() {
		return peakErrorf(methodApply, fmt.Errorf("calibration for %d, grid %d: %w",
			c.Detector, b.inst.Grid.ID(), ErrDetectorMismatch))
	}
	b.inst.DetA = c.Angle
	b.inst.DetD = c.Distance
	b.inst.L1 = c.L1
	b.t0 = c.T0
	b.calib = c.Coefficients()

	return nil
}

// Instance returns a base peak carrying the instrument constants and the
// current orientation, time calibration, UB and calibration coefficients.
func (b *Builder) Instance() *Peak {
	return &Peak{
		run:    b.inst.Run,
		grid:   b.inst.Grid,
		chi:    b.chi,
		phi:    b.phi,
		omega:  b.omega,
		rot:    b.rot.Clone(),
		l1:     b.inst.L1,
		detD:   b.inst.DetD,
		detA:   b.inst.DetA,
		detA2:  b.inst.DetA2,
		t0:     b.t0,
		monCnt: b.inst.MonitorCount,
		ub:     b.ub.Clone(),
		ubInv:  b.ubInv.Clone(),
		calib:  cloneFloats(b.calib),
	}
}

// PixelInstance returns Instance() positioned at column x, row y, channel z
// with the TOF window [t0, t1] (µs) of channel floor(z).
func (b *Builder) PixelInstance(x, y, z, t0, t1 float64) *Peak {
	p := b.Instance()
	p.x, p.y, p.z = x, y, z
	p.tofLo, p.tofHi = t0, t1

	return p
}

// HKLInstance returns Instance() with Miller indices set.
//
// Errors:
//   - ErrNonFinite for NaN/Inf indices (no peak is returned).
func (b *Builder) HKLInstance(h, k, l float64) (*Peak, error) {
	p := b.Instance()
	if err := p.SetHKL(h, k, l); err != nil {
		return nil, peakErrorf(methodHKLInst, err)
	}

	return p, nil
}
