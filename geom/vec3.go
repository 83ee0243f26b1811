// SPDX-License-Identifier: MIT

// Package geom holds the three-component vector shared by detector geometry,
// peak positions and reciprocal-space vectors.
//
// Vec3 is a value type: every method returns a new vector and never mutates
// its receiver.
package geom

import "math"

// Vec3 is a Cartesian vector (x, y, z). Lab frame convention: the incident
// beam travels along +x and z points up.
type Vec3 [3]float64

// BeamDir is the unit vector of the incident beam.
var BeamDir = Vec3{1, 0, 0}

// NaN3 returns a vector whose components are all NaN, used as the
// "undefined geometry" result.
func NaN3() Vec3 {
	n := math.NaN()

	return Vec3{n, n, n}
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

// Scale returns s·v.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{s * v[0], s * v[1], s * v[2]} }

// Dot returns v·w.
func (v Vec3) Dot(w Vec3) float64 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

// Cross returns v×w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Norm returns the Euclidean length |v|.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Dist2 returns the squared Euclidean distance |v-w|².
func (v Vec3) Dist2(w Vec3) float64 {
	d := v.Sub(w)

	return d.Dot(d)
}

// Unit returns v/|v|. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}

	return v.Scale(1 / n)
}

// IsFinite reports whether every component is neither NaN nor ±Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}

	return true
}

// Slice returns the components as a fresh []float64, for matrix kernels.
func (v Vec3) Slice() []float64 { return []float64{v[0], v[1], v[2]} }

// FromSlice builds a Vec3 from the first three entries of s; missing
// entries are zero.
func FromSlice(s []float64) Vec3 {
	var v Vec3
	copy(v[:], s)

	return v
}
