// Package app wires configuration, clients, services, and background jobs
// into one shared core used by cmd/fundagent-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/fundagent/internal/clients/gemini"
	"github.com/bobmcallan/fundagent/internal/clients/yahoo"
	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/interfaces"
	"github.com/bobmcallan/fundagent/internal/services/analysis"
	"github.com/bobmcallan/fundagent/internal/services/marketdata"
	"github.com/bobmcallan/fundagent/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Cache           interfaces.CacheStore
	MarketClient    interfaces.MarketDataClient
	ReasoningClient interfaces.ReasoningClient
	MarketService   interfaces.MarketDataService
	AnalysisService interfaces.AnalysisService
	StartupTime     time.Time

	sweeper *cron.Cron
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: provided path, FUNDAGENT_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("FUNDAGENT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "fundagent.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/fundagent.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative cache path to binary directory
	if config.Cache.Path != "" && !filepath.IsAbs(config.Cache.Path) {
		config.Cache.Path = filepath.Join(binDir, config.Cache.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	cache, err := storage.NewFileStore(config.Cache.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache store: %w", err)
	}

	marketClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	var reasoningClient interfaces.ReasoningClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client, analyses will use the rule-based fallback")
		} else {
			reasoningClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured, analyses will use the rule-based fallback")
	}

	marketService := marketdata.NewService(marketClient, cache, config.Cache.GetTTL(), logger)
	analysisService := analysis.NewService(marketService, reasoningClient, cache, config.Cache.GetTTL(),
		analysis.WithReasoningTimeout(config.Clients.Gemini.GetTimeout()),
		analysis.WithLogger(logger),
	)

	a := &App{
		Config:          config,
		Logger:          logger,
		Cache:           cache,
		MarketClient:    marketClient,
		ReasoningClient: reasoningClient,
		MarketService:   marketService,
		AnalysisService: analysisService,
		StartupTime:     startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartCacheSweeper schedules periodic pruning of expired cache entries.
func (a *App) StartCacheSweeper() error {
	schedule := a.Config.Cache.SweepSchedule
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := a.Cache.SweepExpired(ctx, a.Config.Cache.GetTTL())
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Cache sweep failed")
			return
		}
		a.Logger.Debug().Int("removed", removed).Msg("Cache sweep finished")
	})
	if err != nil {
		return fmt.Errorf("invalid cache sweep schedule %q: %w", schedule, err)
	}

	c.Start()
	a.sweeper = c
	a.Logger.Info().Str("schedule", schedule).Msg("Cache sweeper started")
	return nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.sweeper != nil {
		a.sweeper.Stop()
		a.sweeper = nil
	}
	if a.Cache != nil {
		a.Cache.Close()
		a.Cache = nil
	}
}
