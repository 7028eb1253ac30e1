package dataprocessing

import "sort"

// Axis-choice thresholds: a metric goes logarithmic when the spread between
// extremes is severe, or when the distribution is so right-skewed that the
// bulk of points would be crushed against the floor of a linear axis.
const (
	logMaxMinRatio    = 100
	logMaxMedianRatio = 10
)

// ShouldUseLogScale decides whether a metric series is better displayed on a
// logarithmic axis. Only strictly positive values participate (log axes
// cannot place zeros); with none, the answer is linear.
func ShouldUseLogScale(values []float64) bool {
	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return false
	}

	sort.Float64s(positive)
	min := positive[0]
	max := positive[len(positive)-1]
	median := positive[len(positive)/2]

	return max/min > logMaxMinRatio || max/median > logMaxMedianRatio
}
