// SPDX-License-Identifier: MIT

package peak

import (
	"math"

	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/matrix"
)

// ubOrder is the required order of a UB matrix.
const ubOrder = 3

// calibLen is the number of linear calibration coefficients
// (x-scale, y-scale, x-offset, y-offset).
const calibLen = 4

// Peak is one diffraction spot.
//
// The zero value is a peak with no grid; derived geometry then reads NaN.
// Use a Builder to create peaks carrying instrument constants.
type Peak struct {
	seqNum int
	run    int
	grid   grid.Grid // shared, read-only

	x, y, z float64 // column, row, channel (sub-pixel)
	h, k, l float64 // Miller indices, real-valued

	ipkobs int     // observed peak height
	inti   float64 // integrated intensity
	sigi   float64 // uncertainty of inti
	reflag int     // reflection/status flag

	chi, phi, omega float64       // sample orientation, degrees
	rot             *matrix.Dense // R = Rz(omega)·Rx(chi)·Rz(phi)

	l1     float64 // primary flight path, cm
	detD   float64 // detector distance, cm
	detA   float64 // detector angle, degrees
	detA2  float64 // detector elevation angle, degrees
	t0     float64 // time-zero offset, µs
	tofLo  float64 // TOF at the lower edge of channel floor(z), µs
	tofHi  float64 // TOF at the upper edge, µs
	monCnt int     // monitor count of the run

	ub    *matrix.Dense // private copy, 3×3 or nil
	ubInv *matrix.Dense // cached inverse, nil if ub is nil or singular
	calib []float64     // private copy, nil when unset
}

// ---------- identity ----------

// SeqNum returns the sequence number.
func (p *Peak) SeqNum() int { return p.seqNum }

// SetSeqNum sets the sequence number.
func (p *Peak) SetSeqNum(n int) { p.seqNum = n }

// Run returns the run number.
func (p *Peak) Run() int { return p.run }

// Grid returns the detector grid the peak was observed on (may be nil).
func (p *Peak) Grid() grid.Grid { return p.grid }

// DetectorID returns the grid's detector number, or -1 without a grid.
func (p *Peak) DetectorID() int { return grid.ID(p.grid) }

// Pixel returns the sub-pixel column (x), row (y) and channel (z).
func (p *Peak) Pixel() (x, y, z float64) { return p.x, p.y, p.z }

// TOFWindow returns the times (µs) bounding the channel the peak lies in.
func (p *Peak) TOFWindow() (t0, t1 float64) { return p.tofLo, p.tofHi }

// ---------- Miller indices & intensities ----------

// HKL returns the Miller indices.
func (p *Peak) HKL() (h, k, l float64) { return p.h, p.k, p.l }

// SetHKL sets the Miller indices. Non-finite input is rejected with
// ErrNonFinite and leaves the peak unchanged.
func (p *Peak) SetHKL(h, k, l float64) error {
	for _, v := range [...]float64{h, k, l} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return peakErrorf(methodSetHKL, ErrNonFinite)
		}
	}
	p.h, p.k, p.l = h, k, l

	return nil
}

// Ipkobs returns the observed integer peak height.
func (p *Peak) Ipkobs() int { return p.ipkobs }

// SetIpkobs sets the observed peak height.
func (p *Peak) SetIpkobs(v int) { p.ipkobs = v }

// Inti returns the fitted integrated intensity.
func (p *Peak) Inti() float64 { return p.inti }

// SetInti sets the integrated intensity.
func (p *Peak) SetInti(v float64) { p.inti = v }

// Sigi returns the uncertainty of the integrated intensity.
func (p *Peak) Sigi() float64 { return p.sigi }

// SetSigi sets the uncertainty of the integrated intensity.
func (p *Peak) SetSigi(v float64) { p.sigi = v }

// Reflag returns the reflection/status flag.
func (p *Peak) Reflag() int { return p.reflag }

// SetReflag sets the reflection/status flag.
func (p *Peak) SetReflag(v int) { p.reflag = v }

// ---------- orientation & instrument ----------

// SampleOrientation returns chi, phi, omega in degrees.
func (p *Peak) SampleOrientation() (chi, phi, omega float64) { return p.chi, p.phi, p.omega }

// SetSampleOrientation sets chi, phi, omega (degrees) and recomputes the
// rotation matrix. Miller indices are left as they are.
func (p *Peak) SetSampleOrientation(chi, phi, omega float64) {
	p.chi, p.phi, p.omega = chi, phi, omega
	p.rot = sampleRotation(chi, phi, omega)
}

// Rotation returns a copy of the sample rotation matrix R.
func (p *Peak) Rotation() [][]float64 { return p.rotation().Rows2D() }

// rotation returns the stored R, or computes it without caching so that
// readers never mutate the peak.
func (p *Peak) rotation() *matrix.Dense {
	if p.rot != nil {
		return p.rot
	}

	return sampleRotation(p.chi, p.phi, p.omega)
}

// L1 returns the primary flight path (cm).
func (p *Peak) L1() float64 { return p.l1 }

// DetD returns the nominal detector distance (cm).
func (p *Peak) DetD() float64 { return p.detD }

// DetA returns the detector angle (degrees).
func (p *Peak) DetA() float64 { return p.detA }

// DetA2 returns the detector elevation angle (degrees).
func (p *Peak) DetA2() float64 { return p.detA2 }

// T0 returns the time-zero offset (µs).
func (p *Peak) T0() float64 { return p.t0 }

// MonitorCount returns the monitor count of the run.
func (p *Peak) MonitorCount() int { return p.monCnt }

// ---------- UB & calibration ----------

// SetUB stores a private copy of ub when it is a finite 3×3 matrix and
// caches its inverse. Any other input is ignored and the previous matrix is
// kept.
func (p *Peak) SetUB(ub [][]float64) {
	m, inv, ok := copyUB(ub)
	if !ok {
		return
	}
	p.ub, p.ubInv = m, inv
}

// UB returns a copy of the UB matrix, or nil when unset.
func (p *Peak) UB() [][]float64 { return p.ub.Rows2D() }

// UBInverse returns a copy of UB⁻¹, or nil when UB is unset or singular.
func (p *Peak) UBInverse() [][]float64 { return p.ubInv.Rows2D() }

// SetCalibration stores a copy of the calibration coefficients
// (x-scale, y-scale, x-offset, y-offset). A nil slice clears them.
func (p *Peak) SetCalibration(c []float64) { p.calib = cloneFloats(c) }

// Calibration returns a copy of the calibration coefficients.
func (p *Peak) Calibration() []float64 { return cloneFloats(p.calib) }

// Clone returns a deep copy sharing only the read-only grid.
func (p *Peak) Clone() *Peak {
	c := *p
	c.rot = p.rot.Clone()
	c.ub = p.ub.Clone()
	c.ubInv = p.ubInv.Clone()
	c.calib = cloneFloats(p.calib)

	return &c
}

// ---------- helpers ----------

// copyUB validates and copies a UB matrix, returning its inverse when one
// exists.
func copyUB(ub [][]float64) (m, inv *matrix.Dense, ok bool) {
	if len(ub) != ubOrder {
		return nil, nil, false
	}
	for _, row := range ub {
		if len(row) != ubOrder {
			return nil, nil, false
		}
	}
	m, err := matrix.FromRows(ub)
	if err != nil {
		return nil, nil, false
	}
	inv, err = matrix.Inverse(m)
	if err != nil {
		inv = nil
	}

	return m, inv, true
}

// sampleRotation builds R = Rz(omega)·Rx(chi)·Rz(phi).
func sampleRotation(chi, phi, omega float64) *matrix.Dense {
	// Operands are non-nil 3×3, so the kernels cannot fail.
	r, _ := matrix.Mul(matrix.RotationX(chi), matrix.RotationZ(phi))
	r, _ = matrix.Mul(matrix.RotationZ(omega), r)

	return r
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}

	return append([]float64(nil), s...)
}
