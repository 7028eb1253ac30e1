package dataprocessing

import (
	"strconv"
	"strings"
	"time"
)

// MinValidYear is the earliest year a scrape timestamp can carry. The
// trackers did not exist before 2020, so anything earlier is a corrupted
// cell (typically a text cell misread as an epoch-zero date).
const MinValidYear = 2020

// cellDateLayouts are the timestamp formats the scrapers write, most common
// first.
var cellDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// excelEpoch is day zero of the 1900 date system used by xlsx serials.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// IsValidDate is the single gate against corrupted spreadsheet timestamps.
// It must be applied everywhere a date is derived from a cell: a timestamp
// is usable iff it parsed, is non-zero, and its year falls within
// [2020, current year + 1]. Points failing this are discarded, never
// repaired.
func IsValidDate(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	year := t.Year()
	return year >= MinValidYear && year <= time.Now().Year()+1
}

// ParseCellDate parses a raw cell into a timestamp and reports whether the
// result passed validation. Known text layouts are tried first; a bare
// number is treated as an xlsx serial (spreadsheet exports sometimes coerce
// the scrapers' text timestamps). Unparseable or out-of-range cells yield
// ok == false.
func ParseCellDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if IsValidDate(t) {
				return t, true
			}
			return time.Time{}, false
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		if IsValidDate(t) {
			return t, true
		}
	}

	return time.Time{}, false
}
