// SPDX-License-Identifier: MIT

package order

import (
	"cmp"
	"math"
	"slices"

	"github.com/katalvlaran/scdpeaks/geom"
	"github.com/katalvlaran/scdpeaks/peak"
)

// Comparator is a three-way comparison over peaks.
type Comparator func(a, b *peak.Peak) int

// nilLast orders nil peaks after non-nil ones. ok is false when either side
// is nil, in which case c is the result.
func nilLast(a, b *peak.Peak) (c int, ok bool) {
	switch {
	case a == nil && b == nil:
		return 0, false
	case a == nil:
		return 1, false
	case b == nil:
		return -1, false
	}

	return 0, true
}

// FileOrder compares by run, detector ID (-1 without a grid), then by h, k
// and l each rounded half away from zero.
func FileOrder(a, b *peak.Peak) int {
	if c, ok := nilLast(a, b); !ok {
		return c
	}
	if c := cmp.Compare(a.Run(), b.Run()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.DetectorID(), b.DetectorID()); c != 0 {
		return c
	}
	ah, ak, al := a.HKL()
	bh, bk, bl := b.HKL()
	if c := cmp.Compare(math.Round(ah), math.Round(bh)); c != 0 {
		return c
	}
	if c := cmp.Compare(math.Round(ak), math.Round(bk)); c != 0 {
		return c
	}

	return cmp.Compare(math.Round(al), math.Round(bl))
}

// Radial returns a comparator by ascending squared distance of QUnrotated
// to ref. Peaks whose distance is undefined (no grid, NaN geometry) sort
// after every finite distance.
func Radial(ref geom.Vec3) Comparator {
	return func(a, b *peak.Peak) int {
		if c, ok := nilLast(a, b); !ok {
			return c
		}

		return compareDist(radialKey(a, ref), radialKey(b, ref))
	}
}

// radialKey is |QUnrotated - ref|², NaN when undefined.
func radialKey(p *peak.Peak, ref geom.Vec3) float64 {
	return p.QUnrotated().Dist2(ref)
}

// compareDist is cmp.Compare with NaN ordered last instead of first.
func compareDist(x, y float64) int {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xn && yn:
		return 0
	case xn:
		return 1
	case yn:
		return -1
	}

	return cmp.Compare(x, y)
}

// SortFileOrder returns a stably sorted copy of peaks in file order.
//
// Complexity: O(n log n) comparisons, O(n) extra memory.
func SortFileOrder(peaks []*peak.Peak) []*peak.Peak {
	out := slices.Clone(peaks)
	slices.SortStableFunc(out, FileOrder)

	return out
}

// SortRadial returns a stably sorted copy of peaks in radial order around
// ref.
//
// Implementation:
//   - Stage 1: compute each peak's distance once.
//   - Stage 2: stable-sort the (peak, distance) pairs.
//   - Stage 3: project the peaks back out.
//
// Complexity: O(n) geometry evaluations + O(n log n) comparisons.
func SortRadial(peaks []*peak.Peak, ref geom.Vec3) []*peak.Peak {
	type keyed struct {
		p *peak.Peak
		d float64
	}
	tmp := make([]keyed, len(peaks))
	for i, p := range peaks {
		tmp[i].p = p
		if p != nil {
			tmp[i].d = radialKey(p, ref)
		}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		if c, ok := nilLast(a.p, b.p); !ok {
			return c
		}

		return compareDist(a.d, b.d)
	})

	out := make([]*peak.Peak, len(tmp))
	for i := range tmp {
		out[i] = tmp[i].p
	}

	return out
}
