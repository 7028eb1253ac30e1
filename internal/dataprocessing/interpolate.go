package dataprocessing

import (
	"math"

	"sociallens/pkg/contracts/domain"
)

// FillGaps fills zero/missing values inside a single metric's history via
// linear interpolation between the nearest valid neighbors.
//
// A point is a gap when its value is not strictly positive. For each maximal
// run of gaps:
//
//   - both neighbors valid: linear fill, step k of m gets
//     prev + (next-prev)*k/(m+1), rounded down to a whole count
//   - only a left neighbor: flat-forward fill with the left value
//   - only a right neighbor: flat-backward fill with the right value
//   - neither: the run is left as-is and removed by the post-filter
//
// The output is re-filtered so that every surviving point has a valid date
// and a value > 0 — interpolation never manufactures a final zero or
// negative point. The input is not mutated.
func FillGaps(h domain.History) domain.History {
	if len(h) == 0 {
		return nil
	}

	filled := make(domain.History, len(h))
	copy(filled, h)

	for i := 0; i < len(filled); {
		if filled[i].Value > 0 {
			i++
			continue
		}

		// Maximal run of gaps [i, j).
		j := i
		for j < len(filled) && filled[j].Value <= 0 {
			j++
		}

		var prev, next float64
		hasPrev := i > 0 && filled[i-1].Value > 0
		hasNext := j < len(filled)
		if hasPrev {
			prev = filled[i-1].Value
		}
		if hasNext {
			next = filled[j].Value
		}

		m := j - i
		switch {
		case hasPrev && hasNext:
			for k := 1; k <= m; k++ {
				filled[i+k-1].Value = math.Floor(prev + (next-prev)*float64(k)/float64(m+1))
			}
		case hasPrev:
			for k := 0; k < m; k++ {
				filled[i+k].Value = prev
			}
		case hasNext:
			for k := 0; k < m; k++ {
				filled[i+k].Value = next
			}
		}

		i = j
	}

	out := make(domain.History, 0, len(filled))
	for _, p := range filled {
		if p.Value > 0 && IsValidDate(p.Date) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
