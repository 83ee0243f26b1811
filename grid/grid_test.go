package grid_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/scdpeaks/geom"
	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//----------------------------------------------------------------------------//
// Flat backing
//----------------------------------------------------------------------------//

// flat232 builds a 2×2 grid with 3 channels whose buffer value equals its offset.
func flat232(t *testing.T) *grid.Flat {
	t.Helper()
	buf := make([]float64, 12)
	for i := range buf {
		buf[i] = float64(i)
	}
	f, err := grid.NewFlat(7, buf, 2, 2, 3, grid.Geometry{})
	require.NoError(t, err)

	return f
}

// TestFlat_Scenario covers the documented 2×2×3 example.
func TestFlat_Scenario(t *testing.T) {
	f := flat232(t)

	assert.True(t, math.IsNaN(f.Intensity(1, 1, 5)), "channel beyond count")
	assert.Equal(t, float64(2+3*(2-1)+3*2*(2-1)), f.Intensity(2, 2, 2))
	assert.Equal(t, 0.0, f.Intensity(1, 1, 0))
	assert.Equal(t, 7, f.ID())
	assert.Equal(t, 3, f.NumChannels(2, 1))
}

// TestFlat_ShortBufferRegression aims in-lattice addresses at offsets past
// the end of a short buffer: the offset itself must be checked.
func TestFlat_ShortBufferRegression(t *testing.T) {
	f, err := grid.NewFlat(1, []float64{1, 2, 3, 4, 5}, 2, 2, 3, grid.Geometry{})
	require.NoError(t, err)

	assert.Equal(t, 5.0, f.Intensity(1, 2, 1), "offset 4 is inside")
	assert.True(t, math.IsNaN(f.Intensity(1, 2, 2)), "offset 5 == len(buf)")
	assert.True(t, math.IsNaN(f.Intensity(2, 1, 0)), "offset 6 > len(buf)")
	assert.True(t, math.IsNaN(f.Intensity(2, 2, 2)), "offset 11 > len(buf)")
}

// TestFlat_NegativeCounts verifies negative dimensions collapse to zero.
func TestFlat_NegativeCounts(t *testing.T) {
	f, err := grid.NewFlat(1, []float64{1}, -2, 5, -1, grid.Geometry{})
	require.NoError(t, err)

	assert.Equal(t, 0, f.NumRows())
	assert.Equal(t, 0, f.NumCols(), "cols is 0 when rows is 0")
	assert.Equal(t, 0, f.NumChannels(1, 1))
	assert.True(t, math.IsNaN(f.Intensity(1, 1, 0)))
}

// TestLayout has dimensions but no storage.
func TestLayout(t *testing.T) {
	l, err := grid.NewLayout(3, 100, 120, grid.Geometry{})
	require.NoError(t, err)

	assert.Equal(t, 100, l.NumRows())
	assert.Equal(t, 120, l.NumCols())
	assert.Equal(t, 0, l.NumChannels(5, 5))
	assert.True(t, math.IsNaN(l.Intensity(5, 5, 0)))
}

//----------------------------------------------------------------------------//
// Nested backing
//----------------------------------------------------------------------------//

// TestNested_VaryingChannels uses per-cell channel counts and checks deep copy.
func TestNested_VaryingChannels(t *testing.T) {
	data := [][][]float64{
		{{1, 2, 3}, {4}},
		{{}, {5, 6}},
	}
	n, err := grid.NewNested(2, data, grid.Geometry{})
	require.NoError(t, err)

	assert.Equal(t, 2, n.NumRows())
	assert.Equal(t, 2, n.NumCols())
	assert.Equal(t, 3, n.NumChannels(1, 1))
	assert.Equal(t, 1, n.NumChannels(1, 2))
	assert.Equal(t, 0, n.NumChannels(2, 1))
	assert.Equal(t, 6.0, n.Intensity(2, 2, 1))
	assert.True(t, math.IsNaN(n.Intensity(1, 2, 1)))

	data[0][0][0] = 100 // caller mutation must not leak
	assert.Equal(t, 1.0, n.Intensity(1, 1, 0))
}

// TestNested_Ragged treats cells beyond a short row as empty.
func TestNested_Ragged(t *testing.T) {
	n, err := grid.NewNested(1, [][][]float64{{{1}, {2}}, {{3}}}, grid.Geometry{})
	require.NoError(t, err)

	assert.Equal(t, 0, n.NumChannels(2, 2))
	assert.True(t, math.IsNaN(n.Intensity(2, 2, 0)))
	assert.Equal(t, 3.0, n.Intensity(2, 1, 0))
}

// TestNested_Empty has no data at all.
func TestNested_Empty(t *testing.T) {
	n, err := grid.NewNested(1, nil, grid.Geometry{})
	require.NoError(t, err)

	assert.Equal(t, 0, n.NumRows())
	assert.Equal(t, 0, n.NumCols())
	assert.True(t, math.IsNaN(n.Intensity(1, 1, 0)))

	var missing *grid.Nested
	assert.True(t, math.IsNaN(missing.Intensity(1, 1, 0)), "nil backing storage")
	assert.Equal(t, -1, missing.ID())
}

//----------------------------------------------------------------------------//
// Out-of-range property over both backings
//----------------------------------------------------------------------------//

// TestIntensity_OutOfRange checks the NaN rule on every boundary for every backing.
func TestIntensity_OutOfRange(t *testing.T) {
	const R, C, N = 3, 4, 2
	nested := make([][][]float64, R)
	flatBuf := make([]float64, 0, R*C*N)
	for r := 0; r < R; r++ {
		nested[r] = make([][]float64, C)
		for c := 0; c < C; c++ {
			for ch := 0; ch < N; ch++ {
				v := float64(100*r + 10*c + ch)
				nested[r][c] = append(nested[r][c], v)
				flatBuf = append(flatBuf, v)
			}
		}
	}
	ng, err := grid.NewNested(1, nested, grid.Geometry{})
	require.NoError(t, err)
	fg, err := grid.NewFlat(1, flatBuf, R, C, N, grid.Geometry{})
	require.NoError(t, err)

	for _, g := range []grid.Grid{ng, fg} {
		for r := -1; r <= R+1; r++ {
			for c := -1; c <= C+1; c++ {
				for ch := -1; ch <= N+1; ch++ {
					got := g.Intensity(r, c, ch)
					outside := r < 1 || c < 1 || r > R || c > C || ch < 0 || ch >= g.NumChannels(r, c)
					if outside {
						assert.True(t, math.IsNaN(got), "(%d,%d,%d)", r, c, ch)
						continue
					}
					assert.Equal(t, float64(100*(r-1)+10*(c-1)+ch), got, "(%d,%d,%d)", r, c, ch)
				}
			}
		}
	}
}

//----------------------------------------------------------------------------//
// Geometry
//----------------------------------------------------------------------------//

// TestGeometry_Validate rejects malformed geometries.
func TestGeometry_Validate(t *testing.T) {
	cases := []struct {
		name string
		g    grid.Geometry
	}{
		{"NegativeWidth", grid.Geometry{Width: -1}},
		{"NaNDepth", grid.Geometry{Depth: math.NaN()}},
		{"InfCenter", grid.Geometry{Center: geom.Vec3{math.Inf(1), 0, 0}}},
		{"NoBasis", grid.Geometry{Width: 10, Height: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.g.Validate()
			if !errors.Is(err, grid.ErrBadGeometry) {
				t.Errorf("Validate(%+v) error = %v; want %v", tc.g, err, grid.ErrBadGeometry)
			}
			_, err = grid.NewFlat(1, nil, 1, 1, 1, tc.g)
			assert.ErrorIs(t, err, grid.ErrBadGeometry)
		})
	}
	assert.NoError(t, grid.Geometry{}.Validate())
}

// TestGeometryFromAngles places a detector at 90° and checks its frame.
func TestGeometryFromAngles(t *testing.T) {
	g, err := grid.GeometryFromAngles(15.88, 15.88, 0.2, 39.1, 90, 0)
	require.NoError(t, err)

	assert.InDelta(t, 39.1, g.Distance(), 1e-12)
	assert.InDelta(t, 0.0, g.Center[0], 1e-12)
	assert.InDelta(t, 39.1, g.Center[1], 1e-12)
	assert.InDelta(t, 0.0, g.Base.Dot(g.Up), 1e-12)
	assert.InDelta(t, 1.0, g.Normal().Dot(g.Center.Unit()), 1e-12)
}

// TestPosition maps the central pixel to the detector center and the
// last column half a width away.
func TestPosition(t *testing.T) {
	g, err := grid.GeometryFromAngles(10, 20, 0.2, 30, 0, 0)
	require.NoError(t, err)
	f, err := grid.NewLayout(1, 100, 100, g)
	require.NoError(t, err)

	c := grid.Position(f, 50.5, 50.5)
	assert.InDelta(t, 0.0, c.Sub(g.Center).Norm(), 1e-12)

	edge := grid.Position(f, 100.5, 50.5)
	assert.InDelta(t, 5.0, edge.Sub(g.Center).Norm(), 1e-12)

	assert.False(t, grid.Position(nil, 1, 1).IsFinite())
	assert.Equal(t, -1, grid.ID(nil))
}
