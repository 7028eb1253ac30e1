// Package app wires configuration, the workbook source, the analytics
// service, and the HTTP server into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sociallens/internal/config"
	"sociallens/internal/services"
	handlers "sociallens/internal/transport/http"
	ws "sociallens/internal/websocket"
	"sociallens/internal/workbook"
)

// Version is stamped by the build; the default marks local builds.
var Version = "dev"

// Application is the main application container.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Hub     *ws.Hub
	Service *services.AnalyticsService
	Server  *http.Server
}

// NewApplication loads configuration and builds the dependency graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("workbook_kind", cfg.Workbook.Kind),
		slog.String("workbook_source", cfg.Workbook.SourceID))

	source, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(logger)

	service := services.NewAnalyticsService(source, cfg, logger)
	service.SetRefreshListener(hub)

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:  cfg,
		Service: service,
		Hub:     hub,
		Logger:  logger,
		Version: Version,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:  cfg,
		Logger:  logger,
		Hub:     hub,
		Service: service,
		Server:  server,
	}, nil
}

// newSource builds the workbook source the configuration selects.
func newSource(cfg *config.Config, logger *slog.Logger) (workbook.Source, error) {
	switch cfg.Workbook.Kind {
	case "sheets":
		source, err := workbook.NewSheetsSource(
			context.Background(),
			cfg.Workbook.APIKey,
			cfg.Workbook.RateLimitRPS,
			cfg.Workbook.RateLimitBurst,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("create sheets source: %w", err)
		}
		return source, nil
	case "excel":
		return workbook.NewExcelSource(logger), nil
	default:
		return nil, fmt.Errorf("unknown workbook kind: %s", cfg.Workbook.Kind)
	}
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	go a.Hub.Run()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.Hub.Shutdown()
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Hub.Shutdown()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.Logger.Info("application stopped")
	return nil
}
