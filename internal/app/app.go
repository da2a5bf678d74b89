// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/agent"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/browser"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/config"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/extract"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/match"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/oracle"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/orchestrate"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/pipeline"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/plan"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/rank"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/ratelimit"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/selector"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config   *config.Config
	Logger   *zerolog.Logger
	Registry *sites.Registry
	Cache    *selector.Cache
	Engine   *browser.Engine
	Oracle   *oracle.Client
	Pipeline *pipeline.Pipeline

	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// The browser itself starts lazily on the first page fetch, so commands
// that never scrape (sites, auth) pay no Chrome startup cost. A missing
// oracle credential degrades every external capability to its
// deterministic fallback instead of failing startup.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := newLogger(cfg)

	registry, err := sites.Load(cfg.SitesDir)
	if err != nil {
		return nil, fmt.Errorf("site registry: %w", err)
	}
	logger.Debug().Int("sites", len(registry.Enabled())).Str("dir", cfg.SitesDir).Msg("site registry loaded")

	var oracleClient *oracle.Client
	if cfg.OracleEnabled {
		oracleClient, err = oracle.NewClient(oracle.Config{
			BaseURL: cfg.OracleBaseURL,
			Model:   cfg.OracleModel,
		}, logger)
		if err != nil {
			logger.Warn().Msg("oracle not configured, running with deterministic fallbacks only")
			oracleClient = nil
		}
	}

	selCache := selector.NewCache()
	var discoverer selector.Discoverer
	if oracleClient != nil {
		discoverer = oracleClient
	}
	resolver := selector.New(selCache, discoverer)

	engine := browser.NewEngine(browser.Options{
		Headless:   cfg.Headless,
		UserAgent:  cfg.UserAgent,
		Proxy:      cfg.Proxy,
		ChromePath: cfg.ChromePath,
	})
	limiter := ratelimit.NewPerHost(cfg.RateLimitRPS, cfg.RateLimitBurst)
	fetcher := agent.NewChromeFetcher(engine, limiter, logger)
	snapshots := agent.NewSnapshotStore(cfg.SnapshotDir, logger)
	siteAgent := agent.New(fetcher, resolver, snapshots, logger)

	orchestrator := orchestrate.New(siteAgent, cfg.Concurrency, cfg.SiteTimeout, logger)

	var enricher extract.Enricher
	if oracleClient != nil {
		enricher = oracleClient
	}
	extractor := extract.New(registry, enricher, logger)

	var scorer match.SemanticScorer
	if oracleClient != nil {
		scorer = oracleClient
	}
	matcher := match.New(match.Config{
		MinScore:     cfg.MinMatchScore,
		EscalateLow:  cfg.EscalateLow,
		EscalateHigh: cfg.EscalateHigh,
	}, scorer, logger)

	ranker := rank.New(registry, logger)

	var parser plan.QueryParser
	if oracleClient != nil {
		parser = oracleClient
	}
	planner := plan.New(registry, parser, logger)

	var explainer pipeline.Explainer
	if oracleClient != nil {
		explainer = oracleClient
	}
	pipe := pipeline.New(planner, orchestrator, extractor, matcher, ranker, explainer, logger)

	app := &Application{
		Config:    cfg,
		Logger:    &logger,
		Registry:  registry,
		Cache:     selCache,
		Engine:    engine,
		Oracle:    oracleClient,
		Pipeline:  pipe,
		startTime: time.Now(),
	}
	logger.Debug().Msg("application initialized")
	return app, nil
}

// Close gracefully shuts down the application. The browser is the only
// resource that outlives a run.
func (a *Application) Close(ctx context.Context) error {
	if a.Engine != nil {
		a.Engine.Stop()
	}
	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "info":
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	return log.Output(logWriter).With().Timestamp().Logger()
}
