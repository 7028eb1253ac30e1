// Package workbook retrieves raw analytics workbooks from their storage
// backends. The core never fetches data itself; it consumes the Workbook
// shape these sources produce.
package workbook

import (
	"context"
	"errors"

	"sociallens/pkg/contracts/domain"
)

// ErrNoSheets is returned when a workbook was reachable but carries no
// account sheets.
var ErrNoSheets = errors.New("workbook contains no sheets")

// Source retrieves a complete workbook by source id. Implementations own
// their transport, timeout, and retry policy; the returned workbook is an
// in-memory snapshot the caller may process without further I/O.
type Source interface {
	Fetch(ctx context.Context, sourceID string) (*domain.Workbook, error)
}
