package workbook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"sociallens/pkg/contracts/domain"
)

// ExcelSource reads the xlsx workbook the scrapers maintain on disk
// (one sheet per tracked account). The source id is the file path.
type ExcelSource struct {
	logger *slog.Logger
}

// NewExcelSource creates an Excel-backed workbook source.
func NewExcelSource(logger *slog.Logger) *ExcelSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelSource{
		logger: logger.With(slog.String("component", "workbook_excel")),
	}
}

// Fetch opens the workbook file and materializes every sheet grid.
// Individual unreadable sheets are skipped with a warning; the fetch only
// fails when the file itself cannot be opened or nothing survives.
func (s *ExcelSource) Fetch(ctx context.Context, sourceID string) (*domain.Workbook, error) {
	f, err := excelize.OpenFile(sourceID)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", sourceID, err)
	}
	defer f.Close()

	wb := &domain.Workbook{Sheets: make(map[string][][]string)}

	for _, name := range f.GetSheetList() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rows, err := f.GetRows(name)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable sheet",
				slog.String("sheet", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = rows
	}

	if wb.IsEmpty() {
		return nil, ErrNoSheets
	}

	s.logger.InfoContext(ctx, "workbook loaded",
		slog.String("file", sourceID),
		slog.Int("sheets", len(wb.SheetNames)),
	)

	return wb, nil
}
