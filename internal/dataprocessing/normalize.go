package dataprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"sociallens/pkg/contracts/domain"
)

const (
	followersRow  = "followers"
	totalLikesRow = "total_likes"
)

// grammar describes one platform's row-naming convention. Keeping the two
// scrapers' conventions in a table, instead of two normalizer code paths,
// is what keeps them from drifting apart.
type grammar struct {
	prefix     string // per-post row prefix, including the underscore
	dateAttr   string // attribute that makes a post record materialize
	views      string
	likes      string
	comments   string
	shares     string // empty when the platform never reports shares
	engagement string
	// derivedTotalLikes platforms have no total_likes row; the history is
	// reconstructed by summing per-post likes columns per timestamp.
	derivedTotalLikes bool
}

var grammars = map[domain.Platform]grammar{
	domain.PlatformTikTok: {
		prefix:     "post_",
		dateAttr:   "Date",
		views:      "Views",
		likes:      "Likes",
		comments:   "Comments",
		shares:     "Shares",
		engagement: "EngagementRate",
	},
	domain.PlatformInstagram: {
		prefix:            "reel_",
		dateAttr:          "date",
		views:             "views",
		likes:             "likes",
		comments:          "comments",
		engagement:        "engagement",
		derivedTotalLikes: true,
	},
}

// NormalizeAccount assembles one account's cleaned snapshot from a parsed
// sheet: gap-filled followers and total-likes histories plus the post list,
// according to the platform's row grammar. Rows whose names match no known
// metric are ignored silently (forward compatibility with newer scrapers).
func NormalizeAccount(sheet *RawSheet, account string, platform domain.Platform) (*domain.AccountSnapshot, error) {
	g, ok := grammars[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}

	snap := &domain.AccountSnapshot{
		Account:  account,
		Platform: platform,
	}

	snap.FollowersHistory = FillGaps(buildHistory(sheet, followersRow))

	if g.derivedTotalLikes {
		snap.TotalLikesHistory = FillGaps(deriveTotalLikes(sheet, g))
	} else {
		snap.TotalLikesHistory = FillGaps(buildHistory(sheet, totalLikesRow))
	}

	snap.Followers = int64(snap.FollowersHistory.Last().Value)
	snap.TotalLikes = int64(snap.TotalLikesHistory.Last().Value)

	snap.Videos, snap.PostsScraped = collectPosts(sheet, g)

	return snap, nil
}

// buildHistory pairs one scalar row's cells with the timestamp header,
// keeping only points whose timestamp passes validation. Cells that do not
// parse as numbers contribute a zero value (a gap for the interpolator).
func buildHistory(sheet *RawSheet, rowName string) domain.History {
	cells, ok := sheet.Rows[rowName]
	if !ok {
		return nil
	}

	var h domain.History
	for i, ts := range sheet.Timestamps {
		date, ok := ParseCellDate(ts)
		if !ok {
			continue
		}
		h = append(h, domain.TimePoint{Date: date, Value: parseFloat(cells[i])})
	}

	h.Sort()
	return h.Dedup()
}

// deriveTotalLikes reconstructs the total-likes history for platforms whose
// scraper writes no total_likes row, by summing every post's likes cell per
// snapshot column.
func deriveTotalLikes(sheet *RawSheet, g grammar) domain.History {
	sums := make([]float64, len(sheet.Timestamps))
	for _, name := range sheet.RowNames {
		_, attr, ok := splitPostRow(name, g.prefix)
		if !ok || attr != g.likes {
			continue
		}
		for i, cell := range sheet.Rows[name] {
			sums[i] += parseFloat(cell)
		}
	}

	var h domain.History
	for i, ts := range sheet.Timestamps {
		date, ok := ParseCellDate(ts)
		if !ok {
			continue
		}
		h = append(h, domain.TimePoint{Date: date, Value: sums[i]})
	}

	h.Sort()
	return h.Dedup()
}

// collectPosts gathers per-post attributes by id and materializes the post
// records. For every (id, attribute) pair the latest non-empty cell wins.
//
// The returned count is the number of distinct ids observed for the
// date-bearing attribute, which can exceed the number of materialized posts:
// an id whose date cell never passes validation yields no record but was
// still scraped.
func collectPosts(sheet *RawSheet, g grammar) ([]domain.Post, int) {
	attrs := make(map[string]map[string]string)
	var idOrder []string

	for _, name := range sheet.RowNames {
		id, attr, ok := splitPostRow(name, g.prefix)
		if !ok {
			continue
		}
		if _, seen := attrs[id]; !seen {
			attrs[id] = make(map[string]string)
			idOrder = append(idOrder, id)
		}
		if v := latestCell(sheet.Rows[name]); v != "" {
			attrs[id][attr] = v
		}
	}

	var posts []domain.Post
	scraped := 0
	for _, id := range idOrder {
		a := attrs[id]
		dateCell, ok := a[g.dateAttr]
		if !ok {
			continue
		}
		scraped++

		date, ok := ParseCellDate(dateCell)
		if !ok {
			continue
		}

		post := domain.Post{
			ID:         id,
			Date:       date,
			Views:      parseCount(a[g.views]),
			Likes:      parseCount(a[g.likes]),
			Comments:   parseCount(a[g.comments]),
			Engagement: parseFloat(a[g.engagement]),
		}
		if g.shares != "" {
			post.Shares = parseCount(a[g.shares])
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.Before(posts[j].Date)
	})

	return posts, scraped
}

// splitPostRow decomposes <prefix><id>_<attribute>. The id is the middle
// underscore-joined segment: ids themselves may contain underscores, so the
// attribute is always the trailing segment.
func splitPostRow(name, prefix string) (id, attr string, ok bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", "", false
	}
	rest := name[len(prefix):]
	cut := strings.LastIndex(rest, "_")
	if cut <= 0 || cut == len(rest)-1 {
		return "", "", false
	}
	return rest[:cut], rest[cut+1:], true
}

// parseFloat reads a numeric cell, tolerating thousands separators and
// whitespace. Non-numeric cells degrade to 0, never to an error.
func parseFloat(cell string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount reads an integral metric cell, degrading to 0 on failure.
// Scrapers occasionally write counts with a decimal part; those truncate.
func parseCount(cell string) int64 {
	return int64(parseFloat(cell))
}
