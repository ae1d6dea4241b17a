// Package app wires configuration, clients and services into one shared core
// used by cmd/drip-server.
package app

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tomblance/drip/internal/clients/gemini"
	"github.com/tomblance/drip/internal/clients/relay"
	"github.com/tomblance/drip/internal/clients/yahoo"
	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
	"github.com/tomblance/drip/internal/services/analysis"
	"github.com/tomblance/drip/internal/services/report"
	"github.com/tomblance/drip/internal/storage/cache"
)

// App holds all initialized clients and services.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Cache       interfaces.Cache
	Fetcher     interfaces.RelayFetcher
	Quotes      interfaces.QuoteClient
	Gemini      interfaces.GenAIClient
	Analysis    interfaces.AnalysisService
	Report      interfaces.ReportService
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, the cache, the relay chain and all
// services. configPath may be empty, in which case DRIP_CONFIG, then a
// drip.toml beside the binary, then config/drip.toml are tried.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("DRIP_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "drip.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/drip.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	responseCache, err := cache.New(logger, &config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	fetcher := relay.NewFetcher(buildRelayChain(config),
		relay.WithLogger(logger),
		relay.WithMaxAttempts(config.Relays.MaxAttempts),
		relay.WithCourtesyDelay(config.Relays.GetCourtesyDelay()),
	)

	quotes := yahoo.NewClient(fetcher,
		yahoo.WithLogger(logger),
		yahoo.WithCache(responseCache),
		yahoo.WithBaseURL(config.Upstream.QuoteBaseURL),
		yahoo.WithSummaryBaseURL(config.Upstream.SummaryBaseURL),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Cache:       responseCache,
		Fetcher:     fetcher,
		Quotes:      quotes,
		Analysis:    analysis.NewService(quotes, logger),
		StartupTime: time.Now(),
	}

	if config.Clients.Gemini.APIKey != "" {
		genaiClient, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - report analysis disabled")
		} else {
			a.Gemini = genaiClient
			a.Report = report.NewService(genaiClient, logger)
		}
	} else {
		logger.Info().Msg("No Gemini API key configured - report analysis disabled")
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("cache", config.Cache.Backend).
		Int("relays", len(buildRelayChain(config))).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}

// buildRelayChain orders the configured relays: the first-party relay, when
// set, always leads the chain.
func buildRelayChain(config *common.Config) []relay.Relay {
	var relays []relay.Relay
	if config.Relays.FirstParty != "" {
		relays = append(relays, relay.Relay{
			Name:       "first-party",
			Format:     config.Relays.FirstParty,
			FirstParty: true,
		})
	}
	for _, format := range config.Relays.Public {
		relays = append(relays, relay.Relay{
			Name:   relayName(format),
			Format: format,
		})
	}
	return relays
}

// relayName derives a stable identifier from a relay URL template.
func relayName(format string) string {
	u, err := url.Parse(fmt.Sprintf(format, ""))
	if err != nil || u.Host == "" {
		return format
	}
	return u.Host
}
