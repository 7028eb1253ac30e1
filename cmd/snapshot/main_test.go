package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTrackerWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "creator_one"))

	rows := [][]interface{}{
		{"", "2024-01-01 10:00:00", "2024-01-03 10:00:00"},
		{"followers", 1000, 1200},
		{"total_likes", 5000, 6000},
		{"post_a1_Date", "2024-01-01 09:00:00", ""},
		{"post_a1_Views", 100, 150},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("creator_one", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testRunLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_SingleAccount(t *testing.T) {
	path := writeTrackerWorkbook(t)

	var out bytes.Buffer
	err := run(context.Background(), testRunLogger(), options{
		kind:         "excel",
		source:       path,
		platform:     "tiktok",
		account:      "creator_one",
		timeRange:    "all",
		smoothWindow: 7,
	}, &out)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	account, ok := result["account"].(map[string]interface{})
	require.True(t, ok, "output: %s", out.String())
	assert.Equal(t, float64(1200), account["followers"])
}

func TestRun_CSVFormat(t *testing.T) {
	path := writeTrackerWorkbook(t)

	var out bytes.Buffer
	err := run(context.Background(), testRunLogger(), options{
		kind:         "excel",
		source:       path,
		platform:     "tiktok",
		account:      "creator_one",
		timeRange:    "all",
		smoothWindow: 7,
		format:       "csv",
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "account,creator_one")
	assert.Contains(t, out.String(), "date,followers")
}

func TestRun_ListAccounts(t *testing.T) {
	path := writeTrackerWorkbook(t)

	var out bytes.Buffer
	err := run(context.Background(), testRunLogger(), options{
		kind:         "excel",
		source:       path,
		platform:     "tiktok",
		listAccounts: true,
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "creator_one")
}

func TestRun_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{name: "unknown platform", opts: options{kind: "excel", platform: "youtube"}},
		{name: "unknown range", opts: options{kind: "excel", platform: "tiktok", timeRange: "90"}},
		{name: "unknown kind", opts: options{kind: "ftp", platform: "tiktok", timeRange: "all"}},
		{name: "sheets without key", opts: options{kind: "sheets", platform: "tiktok", timeRange: "all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), testRunLogger(), tt.opts, io.Discard)
			assert.Error(t, err)
		})
	}
}
