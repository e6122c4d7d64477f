// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/api"
	"github.com/JakeFAU/resume-link-scraper/internal/clock/system"
	"github.com/JakeFAU/resume-link-scraper/internal/config"
	"github.com/JakeFAU/resume-link-scraper/internal/extract"
	"github.com/JakeFAU/resume-link-scraper/internal/fetcher"
	collyfetcher "github.com/JakeFAU/resume-link-scraper/internal/fetcher/colly"
	"github.com/JakeFAU/resume-link-scraper/internal/id/uuid"
	"github.com/JakeFAU/resume-link-scraper/internal/linkextract"
	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
	"github.com/JakeFAU/resume-link-scraper/internal/normalize"
	"github.com/JakeFAU/resume-link-scraper/internal/pipeline"
	"github.com/JakeFAU/resume-link-scraper/internal/policy/ratelimit"
)

// App holds the shared, long-lived services for the application. It is
// built once at startup; the limiter and transport inside it are shared by
// every scrape run the process performs.
type App struct {
	cfg         config.Config
	logger      *zap.Logger
	transport   *collyfetcher.Fetcher
	limiter     *ratelimit.Limiter
	coordinator *pipeline.Coordinator
	service     *pipeline.Service
	server      *api.Server
}

// New wires every component from configuration.
func New(cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	limiter := ratelimit.New(ratelimit.Config{
		MaxConcurrency:    cfg.Fetch.MaxConcurrency,
		Delay:             cfg.Fetch.Delay(),
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
	})
	transport := collyfetcher.New(collyfetcher.Config{
		UserAgent:      cfg.Fetch.UserAgent,
		RequestTimeout: cfg.Fetch.RequestTimeout(),
		ConnectTimeout: cfg.Fetch.ConnectTimeout(),
		MaxRedirects:   cfg.Fetch.MaxRedirects,
		MaxBodyBytes:   cfg.Fetch.MaxPageBytes,
	}, logger)
	ids := uuid.New()

	coordinator := pipeline.NewCoordinator(
		fetcher.NewLimited(transport, limiter),
		extract.NewDefaultChain(cfg.Extract.MinTextLength, logger),
		cfg.Fetch.MaxConcurrency,
		system.New(),
		ids,
		logger,
	)
	service := pipeline.NewService(
		normalize.New(cfg.Limits.MaxURLs, logger),
		linkextract.New(logger),
		coordinator,
		cfg.Limits.MaxDocumentBytes,
		logger,
	)

	logger.Info("application services initialized",
		zap.Int("max_concurrency", cfg.Fetch.MaxConcurrency),
		zap.Duration("delay", cfg.Fetch.Delay()),
		zap.Duration("timeout", cfg.Fetch.RequestTimeout()),
		zap.Int("max_urls", cfg.Limits.MaxURLs),
	)

	return &App{
		cfg:         cfg,
		logger:      logger,
		transport:   transport,
		limiter:     limiter,
		coordinator: coordinator,
		service:     service,
		server:      api.NewServer(service, ids, logger),
	}
}

// Config returns the configuration the app was built from.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Service returns the scrape service.
func (a *App) Service() *pipeline.Service { return a.service }

// Coordinator returns the pipeline coordinator.
func (a *App) Coordinator() *pipeline.Coordinator { return a.coordinator }

// Server returns the HTTP API server.
func (a *App) Server() *api.Server { return a.server }

// Close releases pooled connections and flushes the logger.
func (a *App) Close() {
	a.logger.Info("shutting down application services")
	a.transport.Close()
	// Sync fails on terminals for stdout/stderr; nothing useful to do about it.
	_ = a.logger.Sync()
}
