package dataprocessing

import (
	"sort"
	"time"

	"sociallens/pkg/contracts/domain"
)

// velocityWindow is how many of the most recent posts feed the
// views-per-second statistic.
const velocityWindow = 100

// Aggregate merges every account's snapshot into one combined snapshot.
//
// Scalars sum arithmetically. The combined histories follow the
// full-coverage rule: a timestamp appears in the combined series only when
// every account contributed a point at exactly that timestamp, so partial
// scrapes can never silently understate the total. Timestamps missing from
// any account are omitted, not approximated.
//
// TotalViews is an all-time figure computed before any range filtering of
// the per-account post lists.
func Aggregate(accounts []*domain.AccountSnapshot) *domain.AggregateSnapshot {
	if len(accounts) == 0 {
		return nil
	}

	agg := &domain.AggregateSnapshot{AccountCount: len(accounts)}
	agg.Platform = accounts[0].Platform
	agg.Account = "all"

	followersSeries := make([]domain.History, 0, len(accounts))
	likesSeries := make([]domain.History, 0, len(accounts))

	for _, acct := range accounts {
		agg.Followers += acct.Followers
		agg.TotalLikes += acct.TotalLikes
		agg.PostsScraped += acct.PostsScraped
		agg.Videos = append(agg.Videos, acct.Videos...)
		followersSeries = append(followersSeries, acct.FollowersHistory)
		likesSeries = append(likesSeries, acct.TotalLikesHistory)
	}

	sort.Slice(agg.Videos, func(i, j int) bool {
		return agg.Videos[i].Date.Before(agg.Videos[j].Date)
	})

	agg.FollowersHistory = combineHistories(followersSeries)
	agg.TotalLikesHistory = combineHistories(likesSeries)

	for _, v := range agg.Videos {
		agg.TotalViews += v.Views
	}
	agg.ViewsPerSecond = viewsPerSecond(agg.Videos)

	return agg
}

// combineHistories merges per-account series under the full-coverage rule:
// points are grouped by exact timestamp and a combined point is emitted only
// when all n accounts reported at that timestamp, with the summed value.
func combineHistories(series []domain.History) domain.History {
	type bucket struct {
		date  time.Time
		sum   float64
		count int
	}

	buckets := make(map[string]*bucket)
	for _, h := range series {
		for _, p := range h {
			key := p.Date.UTC().Format(time.RFC3339)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{date: p.Date}
				buckets[key] = b
			}
			b.sum += p.Value
			b.count++
		}
	}

	var combined domain.History
	for _, b := range buckets {
		if b.count == len(series) {
			combined = append(combined, domain.TimePoint{Date: b.date, Value: b.sum})
		}
	}

	combined.Sort()
	return combined
}

// viewsPerSecond derives the posting-velocity statistic from the most recent
// posts: the summed views of up to velocityWindow newest posts divided by
// the elapsed seconds between the oldest and newest of them. Fewer than two
// posts, or a non-positive elapsed span, yield 0.
func viewsPerSecond(sorted []domain.Post) float64 {
	if len(sorted) < 2 {
		return 0
	}

	recent := sorted
	if len(recent) > velocityWindow {
		recent = recent[len(recent)-velocityWindow:]
	}

	elapsed := recent[len(recent)-1].Date.Sub(recent[0].Date).Seconds()
	if elapsed <= 0 {
		return 0
	}

	var views int64
	for _, p := range recent {
		views += p.Views
	}
	return float64(views) / elapsed
}
