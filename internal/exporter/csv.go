// Package exporter writes snapshot series to CSV for spreadsheet
// follow-up analysis.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"sociallens/pkg/contracts/domain"
)

// dateLayout matches the timestamp format the scrapers write, so exported
// files line up with the raw workbook.
const dateLayout = "2006-01-02 15:04:05"

// WriteHistory writes one metric history as date,value rows.
func WriteHistory(w io.Writer, metric string, h domain.History) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", metric}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range h {
		record := []string{
			p.Date.Format(dateLayout),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePosts writes the post list with one row per post, newest last.
func WritePosts(w io.Writer, posts []domain.Post) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "date", "views", "likes", "comments", "shares", "engagement"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range posts {
		record := []string{
			p.ID,
			p.Date.Format(dateLayout),
			strconv.FormatInt(p.Views, 10),
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Comments, 10),
			strconv.FormatInt(p.Shares, 10),
			strconv.FormatFloat(p.Engagement, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSnapshot writes the scalar summary plus both histories of one
// account snapshot. Sections are separated by a blank row.
func WriteSnapshot(w io.Writer, snap *domain.AccountSnapshot) error {
	cw := csv.NewWriter(w)

	summary := [][]string{
		{"account", snap.Account},
		{"platform", string(snap.Platform)},
		{"followers", strconv.FormatInt(snap.Followers, 10)},
		{"total_likes", strconv.FormatInt(snap.TotalLikes, 10)},
		{"posts_scraped", strconv.Itoa(snap.PostsScraped)},
		{"exported_at", time.Now().UTC().Format(dateLayout)},
	}
	for _, record := range summary {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	for _, section := range []struct {
		metric  string
		history domain.History
	}{
		{"followers", snap.FollowersHistory},
		{"total_likes", snap.TotalLikesHistory},
	} {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := WriteHistory(w, section.metric, section.history); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return WritePosts(w, snap.Videos)
}
