// SPDX-License-Identifier: MIT
// Package peak: derived geometry.
//
// Every function here is pure: it reads the peak's fields and its grid and
// never writes to either. Missing inputs (no grid, empty lattice) surface as
// NaN, never as an error.

package peak

import (
	"math"

	"github.com/katalvlaran/scdpeaks/geom"
	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/matrix"
)

// AngstromPerMicrosecondPerCm converts tof/path (µs/cm) into a neutron
// wavelength in Å: λ = h·t/(m·L).
const AngstromPerMicrosecondPerCm = 0.3956034

// radToDeg converts radians to degrees.
const radToDeg = 180 / math.Pi

// Position returns the lab-frame pixel position (cm) relative to the sample.
//
// With calibration coefficients set, the in-plane offsets from the detector
// center are x = xs*col + xo and y = ys*row + yo along the grid's Base and
// Up; otherwise the grid's uniform mapping is used (grid.Position).
func (p *Peak) Position() geom.Vec3 {
	if p.grid == nil {
		return geom.NaN3()
	}
	if len(p.calib) == calibLen {
		xs, ys, xo, yo := p.calib[0], p.calib[1], p.calib[2], p.calib[3]

		return p.grid.Geometry().Offset(xs*p.x+xo, ys*p.y+yo)
	}

	return grid.Position(p.grid, p.x, p.y)
}

// L2 returns the secondary flight path |pos| (cm).
func (p *Peak) L2() float64 { return p.Position().Norm() }

// TwoTheta returns the scattering angle (degrees) between the incident beam
// and the direction to the pixel.
func (p *Peak) TwoTheta() float64 {
	u := p.Position().Unit()

	return math.Acos(clampUnit(u.Dot(geom.BeamDir))) * radToDeg
}

// Azimuth returns atan2(pos.y, pos.x) in degrees.
func (p *Peak) Azimuth() float64 {
	pos := p.Position()

	return math.Atan2(pos[1], pos[0]) * radToDeg
}

// TOF returns the time of flight (µs): the channel window interpolated at
// the fractional channel, plus the time-zero offset.
func (p *Peak) TOF() float64 {
	frac := p.z - math.Floor(p.z)

	return p.tofLo + frac*(p.tofHi-p.tofLo) + p.t0
}

// Wavelength returns the neutron wavelength (Å) over the total path L1+L2.
func (p *Peak) Wavelength() float64 {
	path := p.l1 + p.L2()
	if path == 0 {
		return math.NaN()
	}

	return AngstromPerMicrosecondPerCm * p.TOF() / path
}

// Q returns the lab-frame (rotated) scattering vector Q/2π = (û - x̂)/λ, 1/Å.
func (p *Peak) Q() geom.Vec3 {
	pos := p.Position()
	wl := p.Wavelength()
	if !pos.IsFinite() || math.IsNaN(wl) || wl == 0 {
		return geom.NaN3()
	}

	return pos.Unit().Sub(geom.BeamDir).Scale(1 / wl)
}

// QUnrotated returns Q/2π in crystal coordinates, Rᵀ·Q, independent of the
// sample orientation.
func (p *Peak) QUnrotated() geom.Vec3 {
	q := p.Q()
	if !q.IsFinite() {
		return q
	}
	rt, _ := matrix.Transpose(p.rotation())
	v, err := matrix.MatVec(rt, q.Slice())
	if err != nil {
		return geom.NaN3()
	}

	return geom.FromSlice(v)
}

// DSpacing returns the lattice-plane spacing d = 1/|Q/2π| (Å).
func (p *Peak) DSpacing() float64 {
	n := p.Q().Norm()
	if n == 0 {
		return math.Inf(1)
	}

	return 1 / n
}

// IndexedHKL returns UB⁻¹·QUnrotated without storing it.
//
// Errors:
//   - ErrNoUB: UB unset or singular.
//   - ErrNonFinite: the peak's geometry is undefined.
func (p *Peak) IndexedHKL() (h, k, l float64, err error) {
	if p.ubInv == nil {
		return 0, 0, 0, peakErrorf(methodIndex, ErrNoUB)
	}
	q := p.QUnrotated()
	if !q.IsFinite() {
		return 0, 0, 0, peakErrorf(methodIndex, ErrNonFinite)
	}
	v, err := matrix.MatVec(p.ubInv, q.Slice())
	if err != nil {
		return 0, 0, 0, peakErrorf(methodIndex, err)
	}

	return v[0], v[1], v[2], nil
}

// Index derives the Miller indices from the UB matrix and stores them.
// On error the peak is left unchanged.
func (p *Peak) Index() error {
	h, k, l, err := p.IndexedHKL()
	if err != nil {
		return err
	}

	return p.SetHKL(h, k, l)
}

// clampUnit guards acos against rounding just outside [-1, 1].
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
