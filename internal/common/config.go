// Package common provides shared utilities for drip
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for drip
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Upstream    UpstreamConfig `toml:"upstream"`
	Relays      RelayConfig    `toml:"relays"`
	Cache       CacheConfig    `toml:"cache"`
	Clients     ClientsConfig  `toml:"clients"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// UpstreamConfig holds the quote API base URLs. The chart/search/summary
// paths are fixed by the upstream; only the hosts are configurable so tests
// can point them at a local server.
type UpstreamConfig struct {
	QuoteBaseURL   string `toml:"quote_base_url"`
	SummaryBaseURL string `toml:"summary_base_url"`
}

// RelayConfig holds the relay chain configuration for the proxy fetcher.
type RelayConfig struct {
	// FirstParty is the caller-controlled relay. Empty disables it and the
	// chain starts at the public relays.
	FirstParty string `toml:"first_party"`
	// Public relays accept a target URL as a query parameter. The %s
	// placeholder receives the URL-encoded target.
	Public []string `toml:"public"`
	// MaxAttempts bounds retries against the first-party relay on 429/401.
	MaxAttempts int `toml:"max_attempts"`
	// CourtesyDelay is the pause before each public relay attempt.
	CourtesyDelay string `toml:"courtesy_delay"`
}

// GetCourtesyDelay parses and returns the courtesy delay duration.
func (c *RelayConfig) GetCourtesyDelay() time.Duration {
	d, err := time.ParseDuration(c.CourtesyDelay)
	if err != nil {
		return 1 * time.Second
	}
	return d
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	// Backend selects the cache implementation: "memory", "file" or "redis".
	Backend string `toml:"backend"`
	Path    string `toml:"path"`  // file backend
	Redis   string `toml:"redis"` // redis backend address, host:port
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration for the report analyser
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Upstream: UpstreamConfig{
			QuoteBaseURL:   "https://query2.finance.yahoo.com",
			SummaryBaseURL: "https://query2.finance.yahoo.com",
		},
		Relays: RelayConfig{
			Public: []string{
				"https://api.allorigins.win/raw?url=%s",
				"https://corsproxy.io/?%s",
				"https://api.codetabs.com/v1/proxy?quest=%s",
			},
			MaxAttempts:   3,
			CourtesyDelay: "1s",
		},
		Cache: CacheConfig{
			Backend: "memory",
			Path:    "data/cache",
			Redis:   "localhost:6379",
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model: "gemini-3-flash-preview",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DRIP_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("DRIP_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("DRIP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("DRIP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if relay := os.Getenv("DRIP_FIRST_PARTY_RELAY"); relay != "" {
		config.Relays.FirstParty = relay
	}

	if backend := os.Getenv("DRIP_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}

	if addr := os.Getenv("DRIP_REDIS_ADDR"); addr != "" {
		config.Cache.Redis = addr
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
