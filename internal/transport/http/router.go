package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sociallens/internal/config"
	apierrors "sociallens/internal/errors"
	custommw "sociallens/internal/middleware"
	"sociallens/internal/websocket"
)

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	Config  *config.Config
	Service AnalyticsService
	Hub     *websocket.Hub
	Logger  *slog.Logger
	Version string
}

// NewRouter assembles the middleware chain and mounts every endpoint.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errorHandler := apierrors.NewErrorHandler(logger, deps.Config.Logging.Development)
	metrics := custommw.NewMetrics()
	rateLimiter := custommw.NewRateLimiter(
		deps.Config.Server.RateLimitRPS,
		deps.Config.Server.RateLimitBurst,
		logger,
	)

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	r.Use(metrics.Handler)
	r.Use(rateLimiter.Handler)
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.CORS(custommw.CORSConfig{Logger: logger}))
	r.Use(custommw.Compress(5))
	r.Use(custommw.StripSlashes)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	analytics := NewAnalyticsHandler(deps.Service, logger, errorHandler)
	health := NewHealthHandler(deps.Version, logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/analytics", analytics.Routes())

		r.Route("/health", func(r chi.Router) {
			r.Get("/", health.HealthCheck)
			r.Get("/live", health.LivenessCheck)
			r.Get("/ready", health.ReadinessCheck)
		})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Exporter())

	if deps.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	return r
}
