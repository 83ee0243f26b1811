package order_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/scdpeaks/geom"
	"github.com/katalvlaran/scdpeaks/grid"
	"github.com/katalvlaran/scdpeaks/order"
	"github.com/katalvlaran/scdpeaks/peak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detector(t *testing.T, id int, angle float64) grid.Grid {
	t.Helper()
	g, err := grid.GeometryFromAngles(15, 15, 0.2, 40, angle, 0)
	require.NoError(t, err)
	d, err := grid.NewLayout(id, 100, 100, g)
	require.NoError(t, err)

	return d
}

// hklPeak stamps a peak with seq as its identity tag.
func hklPeak(t *testing.T, run int, g grid.Grid, seq int, h, k, l float64) *peak.Peak {
	t.Helper()
	p, err := peak.NewBuilder(peak.Instrument{Run: run, Grid: g, L1: 940}).HKLInstance(h, k, l)
	require.NoError(t, err)
	p.SetSeqNum(seq)

	return p
}

func seqs(ps []*peak.Peak) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		if p == nil {
			out[i] = -1
			continue
		}
		out[i] = p.SeqNum()
	}

	return out
}

//----------------------------------------------------------------------------//
// FileOrder
//----------------------------------------------------------------------------//

// TestSortFileOrder checks key precedence, rounding, nil handling and that
// the input is left untouched.
func TestSortFileOrder(t *testing.T) {
	d1 := detector(t, 1, 90)
	d2 := detector(t, 2, -90)

	in := []*peak.Peak{
		hklPeak(t, 2, d1, 0, 0, 0, 0),
		nil,
		hklPeak(t, 1, d2, 1, -5, 0, 0),
		hklPeak(t, 1, d1, 2, 1, 2, 3),
		hklPeak(t, 1, d1, 3, 1, 1.6, 9),    // k rounds to 2, l decides
		hklPeak(t, 1, d1, 4, 0.6, 2.4, 3),  // same rounded key as seq 2
		hklPeak(t, 1, nil, 5, 9, 9, 9),     // no grid: detector -1
		hklPeak(t, 1, d1, 6, -0.4, 7, 7),   // h rounds to 0
		hklPeak(t, 1, d1, 7, 0.4, -7, 7),   // h rounds to 0, k smaller
	}
	before := seqs(in)

	out := order.SortFileOrder(in)

	assert.Equal(t, []int{5, 7, 6, 2, 4, 3, 1, 0, -1}, seqs(out))
	assert.Equal(t, before, seqs(in), "input slice must keep its order")
}

// TestFileOrder_Stable keeps equal keys in input order.
func TestFileOrder_Stable(t *testing.T) {
	d := detector(t, 3, 45)
	var in []*peak.Peak
	for i := 0; i < 20; i++ {
		in = append(in, hklPeak(t, 7, d, i, float64(i%2), 0, 0))
	}
	got := seqs(order.SortFileOrder(in))

	want := []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}
	assert.Equal(t, want, got)
}

// TestFileOrder_Antisymmetric checks sgn(cmp(a,b)) == -sgn(cmp(b,a)) and a
// non-decreasing result over random peaks.
func TestFileOrder_Antisymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	grids := []grid.Grid{nil, detector(t, 1, 90), detector(t, 2, 0)}

	var ps []*peak.Peak
	for i := 0; i < 200; i++ {
		ps = append(ps, hklPeak(t, rng.Intn(3), grids[rng.Intn(len(grids))], i,
			rng.Float64()*6-3, rng.Float64()*6-3, rng.Float64()*6-3))
	}
	for i := 0; i < len(ps); i++ {
		for j := 0; j < len(ps); j += 7 {
			assert.Equal(t, sign(order.FileOrder(ps[i], ps[j])), -sign(order.FileOrder(ps[j], ps[i])))
		}
	}

	sorted := order.SortFileOrder(ps)
	for i := 1; i < len(sorted); i++ {
		require.LessOrEqual(t, order.FileOrder(sorted[i-1], sorted[i]), 0, "at %d", i)
	}
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}

	return 0
}

//----------------------------------------------------------------------------//
// Radial
//----------------------------------------------------------------------------//

// TestSortRadial sorts by distance to a reference Q, undefined geometry last.
func TestSortRadial(t *testing.T) {
	b := peak.NewBuilder(peak.Instrument{Run: 1, Grid: detector(t, 4, 75), L1: 940})

	var in []*peak.Peak
	for i, col := range []float64{10, 30, 50, 70, 90} {
		p := b.PixelInstance(col, 50, 0, 3000, 3000)
		p.SetSeqNum(i)
		in = append(in, p)
	}
	orphan := &peak.Peak{}
	orphan.SetSeqNum(9)
	in = append([]*peak.Peak{nil, orphan}, in...)

	ref := in[2+3].QUnrotated() // column 70
	before := seqs(in)
	out := order.SortRadial(in, ref)

	got := seqs(out)
	assert.Equal(t, 3, got[0], "reference peak is nearest")
	assert.ElementsMatch(t, []int{2, 4}, got[1:3], "adjacent columns next")
	assert.Equal(t, []int{9, -1}, got[5:], "NaN distance then nil last")
	assert.Equal(t, before, seqs(in))

	cmpFn := order.Radial(ref)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, cmpFn(out[i-1], out[i]), 0, "comparator agrees with SortRadial at %d", i)
	}
}

// TestRadial_Stable keeps equidistant peaks in input order.
func TestRadial_Stable(t *testing.T) {
	b := peak.NewBuilder(peak.Instrument{Run: 1, Grid: detector(t, 4, 75), L1: 940})
	var in []*peak.Peak
	for i := 0; i < 6; i++ {
		p := b.PixelInstance(20, 20, 0, 2000, 2000)
		p.SetSeqNum(i)
		in = append(in, p)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, seqs(order.SortRadial(in, geom.Vec3{})))
}

// TestSortEmpty returns empty results for empty input.
func TestSortEmpty(t *testing.T) {
	assert.Empty(t, order.SortFileOrder(nil))
	assert.Empty(t, order.SortRadial([]*peak.Peak{}, geom.Vec3{}))
}
