package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "sociallens/internal/errors"
	"sociallens/internal/services"
	"sociallens/pkg/contracts/domain"
)

// AnalyticsHandler serves the account listing and snapshot endpoints.
type AnalyticsHandler struct {
	service      AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(service AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/accounts", h.GetAccounts)
	r.Get("/snapshot", h.GetSnapshot)

	return r
}

// accountsResponse lists the tracked accounts plus the aggregate selector.
type accountsResponse struct {
	Accounts []string `json:"accounts"`
	All      string   `json:"all"`
}

// GetAccounts handles GET /api/analytics/accounts.
func (h *AnalyticsHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Accounts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, accountsResponse{
		Accounts: names,
		All:      services.AllAccounts,
	})
}

// snapshotQuery is the validated form of the snapshot query string.
type snapshotQuery struct {
	Platform         string `validate:"required,oneof=tiktok instagram"`
	Account          string `validate:"required,max=100"`
	Range            string `validate:"oneof=30 180 365 all"`
	SmoothWindowDays int    `validate:"omitempty,min=1,max=365"`
}

// GetSnapshot handles GET /api/analytics/snapshot.
//
// Query parameters: platform (required), account (default "all"),
// range (30|180|365|all, default "all"), smooth_window (days, optional).
func (h *AnalyticsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	q := snapshotQuery{
		Platform: r.URL.Query().Get("platform"),
		Account:  r.URL.Query().Get("account"),
		Range:    r.URL.Query().Get("range"),
	}
	if q.Account == "" {
		q.Account = services.AllAccounts
	}
	if q.Range == "" {
		q.Range = "all"
	}
	if raw := r.URL.Query().Get("smooth_window"); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("smooth_window", "must be an integer number of days"))
			return
		}
		q.SmoothWindowDays = window
	}

	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	sel := services.Selection{
		Platform:         domain.Platform(q.Platform),
		Account:          q.Account,
		Range:            parseTimeRange(q.Range),
		SmoothWindowDays: q.SmoothWindowDays,
	}

	result, err := h.service.Snapshot(r.Context(), sel)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// handleServiceError maps service sentinels onto the API error vocabulary
// before delegating to the shared RFC 7807 handler.
func (h *AnalyticsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.errorHandler.HandleError(w, r, err)
	case errors.Is(err, services.ErrAccountNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrAccountNotFound)
	case errors.Is(err, services.ErrNoData):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoData)
	case strings.Contains(err.Error(), "fetch workbook"):
		h.errorHandler.HandleError(w, r, apierrors.ErrWorkbookFetch)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// validationError flattens validator output into the field-level API error.
func validationError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return apierrors.ErrValidation(strings.ToLower(first.Field()), "failed "+first.Tag()+" validation")
	}
	return apierrors.InvalidRequestWithError(err)
}

// parseTimeRange maps the query value onto the domain range. The value is
// validated before this runs, so unknown inputs fall back to all-time.
func parseTimeRange(raw string) domain.TimeRange {
	switch raw {
	case "30":
		return domain.Range30
	case "180":
		return domain.Range180
	case "365":
		return domain.Range365
	default:
		return domain.RangeAll
	}
}
