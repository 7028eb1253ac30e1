package dataprocessing

import (
	"errors"
	"strings"
)

// ErrEmptySheet is returned when a sheet carries no usable snapshot data.
// Callers surface it as an explicit "no data" result, never as a crash.
var ErrEmptySheet = errors.New("sheet contains no snapshot data")

// RawSheet is the parsed form of one account sheet: each metric row name
// mapped to its raw cell values, aligned index-for-index with Timestamps.
type RawSheet struct {
	// Timestamps holds the header cells (scrape timestamps) in column order.
	Timestamps []string
	// Rows maps a metric row name to its value cells. Every slice has
	// exactly len(Timestamps) entries.
	Rows map[string][]string
	// RowNames preserves the sheet's row order for deterministic scans.
	RowNames []string
}

// ParseSheet converts a row-major snapshot grid into per-metric raw series.
//
// No validation happens here: cells pass through untouched and unknown row
// names are carried along for the normalizer to ignore. Ragged rows are
// padded with empty cells (or clipped) so that every row lines up with the
// timestamp header.
func ParseSheet(grid [][]string) (*RawSheet, error) {
	if len(grid) < 2 || len(grid[0]) < 2 {
		return nil, ErrEmptySheet
	}

	header := grid[0][1:]
	sheet := &RawSheet{
		Timestamps: header,
		Rows:       make(map[string][]string, len(grid)-1),
	}

	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		cells := make([]string, len(header))
		copy(cells, row[1:])

		// Duplicate row names should not happen, but if a scraper wrote one
		// the later row wins, matching the sheet's visual order.
		if _, seen := sheet.Rows[name]; !seen {
			sheet.RowNames = append(sheet.RowNames, name)
		}
		sheet.Rows[name] = cells
	}

	if len(sheet.Rows) == 0 {
		return nil, ErrEmptySheet
	}

	return sheet, nil
}

// latestCell returns the right-most non-empty cell of a row, or "" when the
// row is entirely blank.
//
// This is the "last non-empty cell wins" rule: when a metric has been
// re-scraped across several snapshot columns, the most recent non-blank
// measurement is authoritative and earlier columns never overwrite it.
func latestCell(cells []string) string {
	for i := len(cells) - 1; i >= 0; i-- {
		if v := strings.TrimSpace(cells[i]); v != "" {
			return v
		}
	}
	return ""
}
