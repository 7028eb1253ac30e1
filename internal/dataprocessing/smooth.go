package dataprocessing

import (
	"time"

	"sociallens/pkg/contracts/domain"
)

// MovingAverage computes a calendar-windowed rolling mean for trendline
// overlays. For each point at date d the window is
// [d - windowDays/2, d + (windowDays - windowDays/2)) in whole days,
// closed at the lower bound and open at the upper, so it spans exactly
// windowDays of calendar coverage. The smoothed value is the mean of every
// series point falling inside it. The window is keyed by calendar time, not
// sample index, so irregular scrape spacing does not bias the trend.
//
// windowDays floors at 1; with windowDays == 1 the window is [d, d+1) and
// the series round-trips unchanged on daily-or-sparser data. The input is
// not mutated.
func MovingAverage(series domain.History, windowDays int) domain.History {
	if len(series) == 0 {
		return nil
	}
	if windowDays < 1 {
		windowDays = 1
	}

	half := windowDays / 2
	smoothed := make(domain.History, len(series))

	for i, p := range series {
		lo := p.Date.AddDate(0, 0, -half)
		hi := p.Date.AddDate(0, 0, windowDays-half)

		var sum float64
		var n int
		for _, q := range series {
			if inWindow(q.Date, lo, hi) {
				sum += q.Value
				n++
			}
		}

		value := p.Value // the point itself always qualifies, but stay safe
		if n > 0 {
			value = sum / float64(n)
		}
		smoothed[i] = domain.TimePoint{Date: p.Date, Value: value}
	}

	return smoothed
}

// inWindow reports lo <= t < hi.
func inWindow(t, lo, hi time.Time) bool {
	return !t.Before(lo) && t.Before(hi)
}
