package grid

import (
	"fmt"
	"math"

	"github.com/katalvlaran/scdpeaks/geom"
)

// Geometry is the physical description of a flat area detector.
// Lengths are centimeters; Center is relative to the sample; Base and Up
// are unit vectors along increasing column and increasing row.
type Geometry struct {
	Width, Height, Depth float64   // active area and thickness, cm
	Center               geom.Vec3 // detector center relative to the sample, cm
	Base                 geom.Vec3 // unit vector along +column
	Up                   geom.Vec3 // unit vector along +row
}

// Distance returns the detector-center-to-sample distance |Center|.
func (g Geometry) Distance() float64 { return g.Center.Norm() }

// Normal returns the unit detector normal Base×Up.
func (g Geometry) Normal() geom.Vec3 { return g.Base.Cross(g.Up).Unit() }

// Offset returns Center + x*Base + y*Up for in-plane offsets (cm).
func (g Geometry) Offset(x, y float64) geom.Vec3 {
	return g.Center.Add(g.Base.Scale(x)).Add(g.Up.Scale(y))
}

// Validate checks the geometry is usable.
//
// Rules:
//   - every value finite; Width, Height, Depth >= 0;
//   - a detector with non-zero extent needs non-zero Base and Up.
//
// The zero Geometry is valid ("geometry unknown").
func (g Geometry) Validate() error {
	for _, v := range []float64{g.Width, g.Height, g.Depth} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("size %g: %w", v, ErrBadGeometry)
		}
	}
	if !g.Center.IsFinite() || !g.Base.IsFinite() || !g.Up.IsFinite() {
		return fmt.Errorf("non-finite vector: %w", ErrBadGeometry)
	}
	if (g.Width > 0 || g.Height > 0) && (g.Base.Norm() == 0 || g.Up.Norm() == 0) {
		return fmt.Errorf("zero-length basis: %w", ErrBadGeometry)
	}

	return nil
}

// normalized returns a copy with unit Base and Up.
func (g Geometry) normalized() Geometry {
	g.Base = g.Base.Unit()
	g.Up = g.Up.Unit()

	return g
}

// GeometryFromAngles builds the geometry of a detector that faces the
// sample at the given distance (cm). angle is the scattering angle in the
// horizontal plane and elevation the angle above it, both in degrees.
// Base is horizontal and Up completes a right-handed frame whose normal
// Base×Up points away from the sample.
//
// Complexity: O(1).
func GeometryFromAngles(width, height, depth, distance, angle, elevation float64) (Geometry, error) {
	sa, ca := math.Sincos(angle * math.Pi / 180)
	se, ce := math.Sincos(elevation * math.Pi / 180)
	dir := geom.Vec3{ce * ca, ce * sa, se}
	base := geom.Vec3{-sa, ca, 0}
	up := dir.Cross(base).Unit()
	g := Geometry{
		Width:  width,
		Height: height,
		Depth:  depth,
		Center: dir.Scale(distance),
		Base:   base,
		Up:     up,
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}

	return g, nil
}
