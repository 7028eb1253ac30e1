package dataprocessing

import (
	"time"

	"sociallens/pkg/contracts/domain"
)

// FilterByTimeRange keeps the posts whose date falls inside the trailing
// window. RangeAll is a passthrough. The function is total: it never errors
// and never mutates its input.
func FilterByTimeRange(posts []domain.Post, tr domain.TimeRange) []domain.Post {
	if tr == domain.RangeAll {
		return posts
	}

	cutoff := time.Now().AddDate(0, 0, -tr.Days())
	filtered := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if !p.Date.Before(cutoff) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
