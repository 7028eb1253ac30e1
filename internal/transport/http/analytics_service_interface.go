package http

import (
	"context"

	"sociallens/internal/services"
)

// AnalyticsService is the service surface the handlers need. The concrete
// implementation lives in internal/services; tests substitute mocks.
type AnalyticsService interface {
	Accounts(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context, sel services.Selection) (*services.SnapshotResult, error)
}
