// SPDX-License-Identifier: MIT

package matrix

import "math"

// RotationX returns the right-handed 3×3 rotation by deg degrees about x.
func RotationX(deg float64) *Dense {
	s, c := math.Sincos(deg * math.Pi / 180)

	return &Dense{r: 3, c: 3, data: []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}}
}

// RotationZ returns the right-handed 3×3 rotation by deg degrees about z.
func RotationZ(deg float64) *Dense {
	s, c := math.Sincos(deg * math.Pi / 180)

	return &Dense{r: 3, c: 3, data: []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}
