package domain

import (
	"sort"
	"time"
)

// Platform selects the row-naming grammar a scraper used when writing an
// account sheet.
type Platform string

const (
	// PlatformTikTok sheets carry post_<id>_<Metric> rows with capitalized
	// metric names and an explicit total_likes row.
	PlatformTikTok Platform = "tiktok"
	// PlatformInstagram sheets carry reel_<id>_<metric> rows with lowercase
	// metric names and no total_likes row.
	PlatformInstagram Platform = "instagram"
)

// IsValid reports whether the platform is one of the supported grammars.
func (p Platform) IsValid() bool {
	return p == PlatformTikTok || p == PlatformInstagram
}

// TimeRange restricts a post list to a trailing window of calendar days.
type TimeRange int

const (
	// Range30 keeps the trailing 30 days
	Range30 TimeRange = 30
	// Range180 keeps the trailing 180 days
	Range180 TimeRange = 180
	// Range365 keeps the trailing 365 days
	Range365 TimeRange = 365
	// RangeAll keeps everything
	RangeAll TimeRange = -1
)

// String returns the wire representation used by the API query parameters.
func (tr TimeRange) String() string {
	switch tr {
	case Range30:
		return "30"
	case Range180:
		return "180"
	case Range365:
		return "365"
	case RangeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Days returns the window length in days. RangeAll has no window.
func (tr TimeRange) Days() int {
	return int(tr)
}

// IsValid reports whether the range is one of the supported windows.
func (tr TimeRange) IsValid() bool {
	switch tr {
	case Range30, Range180, Range365, RangeAll:
		return true
	}
	return false
}

// TimePoint is a single scraped value of a scalar metric.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// History is an ordered-by-date sequence of TimePoints for one metric of one
// entity. After interpolation every value is strictly positive and every date
// has passed validation; the first element is the earliest.
type History []TimePoint

// Sort orders the history ascending by date, in place.
func (h History) Sort() {
	sort.Slice(h, func(i, j int) bool {
		return h[i].Date.Before(h[j].Date)
	})
}

// Dedup returns the history with duplicate timestamps collapsed, keeping the
// last occurrence. The receiver must already be sorted.
func (h History) Dedup() History {
	if len(h) < 2 {
		return h
	}
	out := make(History, 0, len(h))
	for i, p := range h {
		if i+1 < len(h) && h[i+1].Date.Equal(p.Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Values returns the raw value column, preserving order.
func (h History) Values() []float64 {
	vals := make([]float64, len(h))
	for i, p := range h {
		vals[i] = p.Value
	}
	return vals
}

// Last returns the most recent point, or a zero TimePoint for an empty
// history.
func (h History) Last() TimePoint {
	if len(h) == 0 {
		return TimePoint{}
	}
	return h[len(h)-1]
}

// Post is one tracked content item (a TikTok post or an Instagram reel),
// keyed by the opaque per-platform id embedded in its row names. Numeric
// fields default to zero when the scraper never captured them.
type Post struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	Shares     int64     `json:"shares"`
	Engagement float64   `json:"engagement"`
}

// AccountSnapshot is the cleaned, gap-filled view of a single account,
// derived fresh on every selection. It is the unit of input to cross-account
// aggregation and is read-only downstream.
type AccountSnapshot struct {
	Account           string   `json:"account"`
	Platform          Platform `json:"platform"`
	Followers         int64    `json:"followers"`
	TotalLikes        int64    `json:"total_likes"`
	PostsScraped      int      `json:"posts_scraped"`
	Videos            []Post   `json:"videos"`
	FollowersHistory  History  `json:"followers_history"`
	TotalLikesHistory History  `json:"total_likes_history"`
}

// AggregateSnapshot is AccountSnapshot-shaped totals across every account of
// a platform, plus the derived velocity statistics.
type AggregateSnapshot struct {
	AccountSnapshot
	TotalViews     int64   `json:"total_views"`
	ViewsPerSecond float64 `json:"views_per_second"`
	AccountCount   int     `json:"account_count"`
}

// Workbook is the shape the core consumes from a workbook source: one sheet
// per tracked account, each sheet a row-major grid with scrape timestamps in
// row 0 and metric names in column 0.
type Workbook struct {
	SheetNames []string              `json:"sheet_names"`
	Sheets     map[string][][]string `json:"sheets"`
}

// Sheet returns the grid for the named sheet, or nil when absent.
func (w *Workbook) Sheet(name string) [][]string {
	if w == nil {
		return nil
	}
	return w.Sheets[name]
}

// IsEmpty reports whether the workbook carries no sheets at all.
func (w *Workbook) IsEmpty() bool {
	return w == nil || len(w.SheetNames) == 0
}
