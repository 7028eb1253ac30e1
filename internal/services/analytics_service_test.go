package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sociallens/internal/config"
	"sociallens/pkg/contracts/domain"
)

type fakeSource struct {
	wb       *domain.Workbook
	err      error
	fetched  int
	sourceID string

	hadDeadline bool
}

func (f *fakeSource) Fetch(ctx context.Context, sourceID string) (*domain.Workbook, error) {
	f.fetched++
	f.sourceID = sourceID
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.wb, nil
}

type fakeListener struct {
	platforms []domain.Platform
	accounts  []string
}

func (f *fakeListener) SnapshotRefreshed(platform domain.Platform, account string) {
	f.platforms = append(f.platforms, platform)
	f.accounts = append(f.accounts, account)
}

func testConfig() *config.Config {
	return &config.Config{
		Workbook:  config.WorkbookConfig{SourceID: "tracker.xlsx"},
		Analytics: config.AnalyticsConfig{SmoothingWindowDays: 7},
	}
}

func tiktokGrid() [][]string {
	return [][]string{
		{"", "2024-01-01 10:00:00", "2024-01-03 10:00:00"},
		{"followers", "1000", "1200"},
		{"total_likes", "5000", "6000"},
		{"post_a1_Date", "2024-01-01 09:00:00", ""},
		{"post_a1_Views", "100", "150"},
		{"post_a1_Likes", "10", "15"},
	}
}

func newTestService(wb *domain.Workbook) (*AnalyticsService, *fakeSource) {
	src := &fakeSource{wb: wb}
	return NewAnalyticsService(src, testConfig(), nil), src
}

func TestAccounts(t *testing.T) {
	svc, src := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one", "creator_two"},
		Sheets: map[string][][]string{
			"creator_one": tiktokGrid(),
			"creator_two": tiktokGrid(),
		},
	})

	names, err := svc.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"creator_one", "creator_two"}, names)
	assert.Equal(t, "tracker.xlsx", src.sourceID)
}

func TestAccounts_EmptyWorkbook(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{})

	_, err := svc.Accounts(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSnapshot_SingleAccount(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": tiktokGrid()},
	})

	listener := &fakeListener{}
	svc.SetRefreshListener(listener)

	res, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "creator_one",
		Range:    domain.RangeAll,
	})
	require.NoError(t, err)

	require.NotNil(t, res.Account)
	assert.Nil(t, res.Aggregate)

	snap := res.Account
	assert.Equal(t, "creator_one", snap.Account)
	assert.Equal(t, int64(1200), snap.Followers)
	assert.Equal(t, int64(6000), snap.TotalLikes)
	require.Len(t, snap.Videos, 1)
	assert.Equal(t, "a1", snap.Videos[0].ID)
	assert.Equal(t, int64(150), snap.Videos[0].Views)
	require.Len(t, snap.FollowersHistory, 2)
	assert.Equal(t, float64(1000), snap.FollowersHistory[0].Value)
	assert.Equal(t, float64(1200), snap.FollowersHistory[1].Value)

	assert.Equal(t, []string{"creator_one"}, listener.accounts)
	assert.Equal(t, []domain.Platform{domain.PlatformTikTok}, listener.platforms)
}

func TestSnapshot_AccountNotFound(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": tiktokGrid()},
	})

	_, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "nobody",
		Range:    domain.RangeAll,
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSnapshot_EmptySheetIsNoData(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": {}},
	})

	_, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "creator_one",
		Range:    domain.RangeAll,
	})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSnapshot_FetchTimeoutApplied(t *testing.T) {
	src := &fakeSource{wb: &domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": tiktokGrid()},
	}}

	cfg := testConfig()
	cfg.Workbook.FetchTimeout = time.Minute
	svc := NewAnalyticsService(src, cfg, nil)

	_, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "creator_one",
		Range:    domain.RangeAll,
	})
	require.NoError(t, err)
	assert.True(t, src.hadDeadline, "fetch context should carry the configured deadline")
}

func TestAccounts_NoTimeoutWithoutConfig(t *testing.T) {
	svc, src := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": tiktokGrid()},
	})

	_, err := svc.Accounts(context.Background())
	require.NoError(t, err)
	assert.False(t, src.hadDeadline)
}

func TestSnapshot_FetchErrorWrapped(t *testing.T) {
	sentinel := errors.New("network down")
	src := &fakeSource{err: sentinel}
	svc := NewAnalyticsService(src, testConfig(), nil)

	_, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "creator_one",
		Range:    domain.RangeAll,
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestSnapshot_TimeRangeTrimsPosts(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": tiktokGrid()},
	})

	res, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "creator_one",
		Range:    domain.Range30,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Account.Videos)
	assert.Equal(t, 1, res.Account.PostsScraped)
}

func TestSnapshot_Aggregate(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one", "creator_two", "broken"},
		Sheets: map[string][][]string{
			"creator_one": tiktokGrid(),
			"creator_two": tiktokGrid(),
			"broken":      {},
		},
	})

	res, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  AllAccounts,
		Range:    domain.RangeAll,
	})
	require.NoError(t, err)

	require.NotNil(t, res.Aggregate)
	assert.Nil(t, res.Account)

	agg := res.Aggregate
	assert.Equal(t, AllAccounts, agg.Account)
	assert.Equal(t, 2, agg.AccountCount)
	assert.Equal(t, int64(2400), agg.Followers)
	assert.Equal(t, int64(12000), agg.TotalLikes)
	assert.Equal(t, int64(300), agg.TotalViews)
	assert.Len(t, agg.Videos, 2)

	require.Len(t, agg.FollowersHistory, 2)
	assert.Equal(t, float64(2000), agg.FollowersHistory[0].Value)
	assert.Equal(t, float64(2400), agg.FollowersHistory[1].Value)
}

func TestSnapshot_AggregateAllEmpty(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"a", "b"},
		Sheets:     map[string][][]string{"a": {}, "b": {}},
	})

	_, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  AllAccounts,
		Range:    domain.RangeAll,
	})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSnapshot_Hints(t *testing.T) {
	grid := [][]string{
		{"", "2024-01-01 10:00:00", "2024-03-01 10:00:00"},
		{"followers", "10", "5000"},
		{"total_likes", "100", "120"},
	}
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": grid},
	})

	res, err := svc.Snapshot(context.Background(), Selection{
		Platform: domain.PlatformTikTok,
		Account:  "creator_one",
		Range:    domain.RangeAll,
	})
	require.NoError(t, err)

	assert.True(t, res.Hints.FollowersLogScale, "10 vs 5000 spans the ratio threshold")
	assert.False(t, res.Hints.TotalLikesLogScale)
	assert.Equal(t, 7, res.Hints.SmoothWindowDays)
	assert.Len(t, res.Hints.SmoothedFollowers, 2)
}

func TestSnapshot_SmoothWindowOverride(t *testing.T) {
	svc, _ := newTestService(&domain.Workbook{
		SheetNames: []string{"creator_one"},
		Sheets:     map[string][][]string{"creator_one": tiktokGrid()},
	})

	res, err := svc.Snapshot(context.Background(), Selection{
		Platform:         domain.PlatformTikTok,
		Account:          "creator_one",
		Range:            domain.RangeAll,
		SmoothWindowDays: 31,
	})
	require.NoError(t, err)
	assert.Equal(t, 31, res.Hints.SmoothWindowDays)
}
