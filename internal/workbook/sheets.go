package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sociallens/pkg/contracts/domain"
)

// SheetsSource fetches the analytics workbook from Google Sheets, where the
// auto-scraper publishes it. The source id is the spreadsheet id.
type SheetsSource struct {
	service *sheets.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSheetsSource builds a Sheets-backed source authorized by API key. The
// rate limiter keeps concurrent per-sheet reads inside the Sheets API
// read quota.
func NewSheetsSource(ctx context.Context, apiKey string, rps float64, burst int, logger *slog.Logger) (*SheetsSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	service, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}

	return &SheetsSource{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger.With(slog.String("component", "workbook_sheets")),
	}, nil
}

// Fetch lists the spreadsheet's sheets and pulls every grid concurrently.
// Sheet order is preserved so account listings stay stable across fetches.
func (s *SheetsSource) Fetch(ctx context.Context, sourceID string) (*domain.Workbook, error) {
	meta, err := s.service.Spreadsheets.Get(sourceID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", sourceID, err)
	}

	names := make([]string, 0, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title != "" {
			names = append(names, sh.Properties.Title)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoSheets
	}

	grids := make([][][]string, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}

			resp, err := s.service.Spreadsheets.Values.Get(sourceID, name).Context(gctx).Do()
			if err != nil {
				return fmt.Errorf("get sheet %q: %w", name, err)
			}

			grid := make([][]string, len(resp.Values))
			for r, row := range resp.Values {
				cells := make([]string, len(row))
				for c, cell := range row {
					cells[c] = cellString(cell)
				}
				grid[r] = cells
			}

			mu.Lock()
			grids[i] = grid
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	wb := &domain.Workbook{
		SheetNames: names,
		Sheets:     make(map[string][][]string, len(names)),
	}
	for i, name := range names {
		wb.Sheets[name] = grids[i]
	}

	s.logger.InfoContext(ctx, "workbook fetched",
		slog.String("spreadsheet_id", sourceID),
		slog.Int("sheets", len(names)),
	)

	return wb, nil
}

// cellString renders one API cell value the way the parser expects: numbers
// without exponent notation, everything else verbatim.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
