// Command snapshot computes one analytics snapshot from a workbook and
// prints it as JSON. It runs the same pipeline as the server, which makes
// it handy for cron jobs and for inspecting scraper output.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"sociallens/internal/config"
	"sociallens/internal/exporter"
	"sociallens/internal/services"
	"sociallens/internal/workbook"
	"sociallens/pkg/contracts/domain"
)

func main() {
	kind := flag.String("kind", "excel", "workbook source kind: excel or sheets")
	source := flag.String("source", "tiktok_analytics_tracker.xlsx", "xlsx path (excel) or spreadsheet id (sheets)")
	apiKey := flag.String("api-key", os.Getenv("SOCIALLENS_WORKBOOK_API_KEY"), "Google Sheets API key (sheets kind)")
	platform := flag.String("platform", "tiktok", "platform grammar: tiktok or instagram")
	account := flag.String("account", services.AllAccounts, "account name, or \"all\" for the aggregate")
	timeRange := flag.String("range", "all", "post window: 30, 180, 365, or all")
	smoothWindow := flag.Int("smooth-window", 7, "trendline window in days")
	listAccounts := flag.Bool("accounts", false, "list account names and exit")
	format := flag.String("format", "json", "output format: json or csv")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, logger, options{
		kind:         *kind,
		source:       *source,
		apiKey:       *apiKey,
		platform:     *platform,
		account:      *account,
		timeRange:    *timeRange,
		smoothWindow: *smoothWindow,
		listAccounts: *listAccounts,
		format:       *format,
		pretty:       *pretty,
	}, os.Stdout); err != nil {
		logger.Error("snapshot failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type options struct {
	kind         string
	source       string
	apiKey       string
	platform     string
	account      string
	timeRange    string
	smoothWindow int
	listAccounts bool
	format       string
	pretty       bool
}

func run(ctx context.Context, logger *slog.Logger, opts options, out io.Writer) error {
	p := domain.Platform(opts.platform)
	if !p.IsValid() {
		return fmt.Errorf("unknown platform: %s", opts.platform)
	}

	tr, err := parseTimeRange(opts.timeRange)
	if err != nil {
		return err
	}

	src, err := newSource(ctx, opts, logger)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Workbook:  config.WorkbookConfig{Kind: opts.kind, SourceID: opts.source, APIKey: opts.apiKey},
		Analytics: config.AnalyticsConfig{SmoothingWindowDays: opts.smoothWindow},
	}
	service := services.NewAnalyticsService(src, cfg, logger)

	if opts.listAccounts {
		names, err := service.Accounts(ctx)
		if err != nil {
			return err
		}
		return encodeJSON(out, map[string][]string{"accounts": names}, opts.pretty)
	}

	result, err := service.Snapshot(ctx, services.Selection{
		Platform: p,
		Account:  opts.account,
		Range:    tr,
	})
	if err != nil {
		return err
	}

	switch opts.format {
	case "", "json":
		return encodeJSON(out, result, opts.pretty)
	case "csv":
		snap := result.Account
		if snap == nil {
			snap = &result.Aggregate.AccountSnapshot
		}
		return exporter.WriteSnapshot(out, snap)
	default:
		return fmt.Errorf("unknown format: %s (want json or csv)", opts.format)
	}
}

func encodeJSON(out io.Writer, payload interface{}, pretty bool) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}

func newSource(ctx context.Context, opts options, logger *slog.Logger) (workbook.Source, error) {
	switch opts.kind {
	case "excel":
		return workbook.NewExcelSource(logger), nil
	case "sheets":
		if opts.apiKey == "" {
			return nil, fmt.Errorf("sheets kind requires -api-key")
		}
		return workbook.NewSheetsSource(ctx, opts.apiKey, 1, 5, logger)
	default:
		return nil, fmt.Errorf("unknown workbook kind: %s", opts.kind)
	}
}

func parseTimeRange(raw string) (domain.TimeRange, error) {
	switch raw {
	case "30":
		return domain.Range30, nil
	case "180":
		return domain.Range180, nil
	case "365":
		return domain.Range365, nil
	case "all", "":
		return domain.RangeAll, nil
	default:
		return 0, fmt.Errorf("unknown range: %s (want 30, 180, 365, or all)", raw)
	}
}
