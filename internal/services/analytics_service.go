// Package services orchestrates workbook retrieval and the dataprocessing
// pipeline into the snapshots the transport layer serves.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sociallens/internal/config"
	"sociallens/internal/dataprocessing"
	"sociallens/internal/workbook"
	"sociallens/pkg/contracts/domain"
)

// AllAccounts selects the cross-account aggregate instead of a single
// sheet.
const AllAccounts = "all"

// Selection carries one user selection: which platform grammar to apply,
// which account (or the aggregate), the trailing time range for the post
// list, and the trendline window.
type Selection struct {
	Platform domain.Platform
	Account  string
	Range    domain.TimeRange
	// SmoothWindowDays overrides the configured trendline window when
	// positive.
	SmoothWindowDays int
}

// ChartHints are the presentation decisions the core makes for the
// rendering collaborator: axis scale per series and the smoothed trendline
// overlay for the followers history.
type ChartHints struct {
	FollowersLogScale  bool           `json:"followers_log_scale"`
	TotalLikesLogScale bool           `json:"total_likes_log_scale"`
	ViewsLogScale      bool           `json:"views_log_scale"`
	SmoothedFollowers  domain.History `json:"smoothed_followers,omitempty"`
	SmoothWindowDays   int            `json:"smooth_window_days"`
}

// SnapshotResult is the unit of output for one selection: exactly one of
// Account or Aggregate is set.
type SnapshotResult struct {
	Account   *domain.AccountSnapshot   `json:"account,omitempty"`
	Aggregate *domain.AggregateSnapshot `json:"aggregate,omitempty"`
	Hints     ChartHints                `json:"hints"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// RefreshListener is notified whenever a selection has been recomputed.
// The websocket hub implements it to push live updates to dashboards.
type RefreshListener interface {
	SnapshotRefreshed(platform domain.Platform, account string)
}

// AnalyticsService derives account and aggregate snapshots from the raw
// workbook. Every call recomputes from a fresh fetch: nothing is cached or
// mutated in place, so identical inputs always produce identical output.
type AnalyticsService struct {
	source   workbook.Source
	cfg      *config.Config
	logger   *slog.Logger
	listener RefreshListener
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(source workbook.Source, cfg *config.Config, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		source: source,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "analytics_service")),
	}
}

// SetRefreshListener registers the live-update listener. Passing nil
// disables notifications.
func (s *AnalyticsService) SetRefreshListener(l RefreshListener) {
	s.listener = l
}

// Accounts returns the tracked account names, one per workbook sheet.
func (s *AnalyticsService) Accounts(ctx context.Context) ([]string, error) {
	wb, err := s.fetchWorkbook(ctx)
	if err != nil {
		return nil, err
	}
	return wb.SheetNames, nil
}

// fetchWorkbook retrieves the workbook under the configured fetch timeout.
// The deadline covers only the fetch; processing of the in-memory workbook
// continues on the caller's context.
func (s *AnalyticsService) fetchWorkbook(ctx context.Context) (*domain.Workbook, error) {
	if timeout := s.cfg.Workbook.FetchTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	wb, err := s.source.Fetch(ctx, s.cfg.Workbook.SourceID)
	if err != nil {
		return nil, fmt.Errorf("fetch workbook: %w", err)
	}
	if wb.IsEmpty() {
		return nil, ErrNoData
	}
	return wb, nil
}

// Snapshot computes the snapshot for one selection. Account == AllAccounts
// yields the cross-account aggregate; anything else must name a sheet.
func (s *AnalyticsService) Snapshot(ctx context.Context, sel Selection) (*SnapshotResult, error) {
	started := time.Now()

	wb, err := s.fetchWorkbook(ctx)
	if err != nil {
		return nil, err
	}

	result := &SnapshotResult{FetchedAt: started}

	if sel.Account == AllAccounts {
		agg, err := s.aggregateSnapshot(ctx, wb, sel)
		if err != nil {
			return nil, err
		}
		result.Aggregate = agg
		result.Hints = s.hints(agg.FollowersHistory, agg.TotalLikesHistory, agg.Videos, sel)
	} else {
		snap, err := s.accountSnapshot(ctx, wb, sel)
		if err != nil {
			return nil, err
		}
		result.Account = snap
		result.Hints = s.hints(snap.FollowersHistory, snap.TotalLikesHistory, snap.Videos, sel)
	}

	s.logger.InfoContext(ctx, "snapshot computed",
		slog.String("platform", string(sel.Platform)),
		slog.String("account", sel.Account),
		slog.String("range", sel.Range.String()),
		slog.Duration("elapsed", time.Since(started)),
	)

	if s.listener != nil {
		s.listener.SnapshotRefreshed(sel.Platform, sel.Account)
	}

	return result, nil
}

// accountSnapshot derives one account's cleaned snapshot with the selected
// time range applied to its post list.
func (s *AnalyticsService) accountSnapshot(ctx context.Context, wb *domain.Workbook, sel Selection) (*domain.AccountSnapshot, error) {
	grid := wb.Sheet(sel.Account)
	if grid == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, sel.Account)
	}

	sheet, err := dataprocessing.ParseSheet(grid)
	if err != nil {
		return nil, ErrNoData
	}

	snap, err := dataprocessing.NormalizeAccount(sheet, sel.Account, sel.Platform)
	if err != nil {
		return nil, err
	}

	snap.Videos = dataprocessing.FilterByTimeRange(snap.Videos, sel.Range)
	return snap, nil
}

// aggregateSnapshot normalizes every account sheet and merges them.
// Accounts with empty or unparseable sheets are skipped, not fatal: the
// aggregate simply covers fewer accounts. The all-time view total is
// computed inside the merge, before the time range trims the combined post
// list.
func (s *AnalyticsService) aggregateSnapshot(ctx context.Context, wb *domain.Workbook, sel Selection) (*domain.AggregateSnapshot, error) {
	accounts := make([]*domain.AccountSnapshot, 0, len(wb.SheetNames))

	for _, name := range wb.SheetNames {
		sheet, err := dataprocessing.ParseSheet(wb.Sheet(name))
		if err != nil {
			s.logger.WarnContext(ctx, "skipping empty account sheet",
				slog.String("account", name))
			continue
		}

		snap, err := dataprocessing.NormalizeAccount(sheet, name, sel.Platform)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, snap)
	}

	agg := dataprocessing.Aggregate(accounts)
	if agg == nil {
		return nil, ErrNoData
	}

	agg.Videos = dataprocessing.FilterByTimeRange(agg.Videos, sel.Range)
	return agg, nil
}

// hints derives the presentation decisions for the selection's series.
func (s *AnalyticsService) hints(followers, likes domain.History, videos []domain.Post, sel Selection) ChartHints {
	window := sel.SmoothWindowDays
	if window < 1 {
		window = s.cfg.Analytics.SmoothingWindowDays
	}

	views := make([]float64, len(videos))
	for i, v := range videos {
		views[i] = float64(v.Views)
	}

	return ChartHints{
		FollowersLogScale:  dataprocessing.ShouldUseLogScale(followers.Values()),
		TotalLikesLogScale: dataprocessing.ShouldUseLogScale(likes.Values()),
		ViewsLogScale:      dataprocessing.ShouldUseLogScale(views),
		SmoothedFollowers:  dataprocessing.MovingAverage(followers, window),
		SmoothWindowDays:   window,
	}
}
