package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sociallens/pkg/contracts/domain"
)

func TestFilterByTimeRange(t *testing.T) {
	now := time.Now()
	posts := []domain.Post{
		{ID: "old", Date: now.AddDate(0, 0, -400)},
		{ID: "halfyear", Date: now.AddDate(0, 0, -170)},
		{ID: "recent", Date: now.AddDate(0, 0, -10)},
		{ID: "today", Date: now},
	}

	tests := []struct {
		name    string
		tr      domain.TimeRange
		wantIDs []string
	}{
		{name: "trailing 30 days", tr: domain.Range30, wantIDs: []string{"recent", "today"}},
		{name: "trailing 180 days", tr: domain.Range180, wantIDs: []string{"halfyear", "recent", "today"}},
		{name: "trailing 365 days", tr: domain.Range365, wantIDs: []string{"halfyear", "recent", "today"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByTimeRange(posts, tt.tr)
			ids := make([]string, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterByTimeRange_AllIsIdentity(t *testing.T) {
	posts := []domain.Post{
		{ID: "ancient", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", Date: time.Now()},
	}

	got := FilterByTimeRange(posts, domain.RangeAll)
	require.Len(t, got, 2)
	assert.Equal(t, posts, got)
}

func TestFilterByTimeRange_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterByTimeRange(nil, domain.Range30))
}
