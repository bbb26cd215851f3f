// Package common provides shared utilities for tickerboard
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultSymbols is the ticker list shown when the config names none.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "PYPL", "TSLA", "JPM", "NVDA", "NFLX", "DIS"}

// Config holds all configuration for tickerboard
type Config struct {
	Environment string          `toml:"environment"`
	Symbols     []string        `toml:"symbols"`
	Server      ServerConfig    `toml:"server"`
	API         APIConfig       `toml:"api"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// APIConfig holds the remote stock data API configuration.
type APIConfig struct {
	Enabled        bool   `toml:"enabled"` // false serves mock data without probing
	BaseURL        string `toml:"base_url"`
	RateLimit      int    `toml:"rate_limit"`
	ProbeTimeout   string `toml:"probe_timeout"`
	FetchTimeout   string `toml:"fetch_timeout"`
	MaxRetries     int    `toml:"max_retries"`
	RetryBackoff   string `toml:"retry_backoff"`
	HealthTTL      string `toml:"health_ttl"`
	HealthInterval string `toml:"health_interval"` // background probe cadence, "0" disables
	WarmCache      bool   `toml:"warm_cache"`
}

// GetProbeTimeout parses and returns the per-endpoint probe timeout
func (c *APIConfig) GetProbeTimeout() time.Duration {
	return parseDurationOr(c.ProbeTimeout, 5*time.Second)
}

// GetFetchTimeout parses and returns the per-attempt fetch timeout
func (c *APIConfig) GetFetchTimeout() time.Duration {
	return parseDurationOr(c.FetchTimeout, 10*time.Second)
}

// GetRetryBackoff parses and returns the linear backoff step between attempts
func (c *APIConfig) GetRetryBackoff() time.Duration {
	return parseDurationOr(c.RetryBackoff, time.Second)
}

// GetHealthTTL parses and returns how long a probe result stays cached
func (c *APIConfig) GetHealthTTL() time.Duration {
	return parseDurationOr(c.HealthTTL, FreshnessHealthProbe)
}

// GetHealthInterval returns the background probe cadence. Zero means disabled.
func (c *APIConfig) GetHealthInterval() time.Duration {
	if strings.TrimSpace(c.HealthInterval) == "0" {
		return 0
	}
	return parseDurationOr(c.HealthInterval, 0)
}

// DashboardConfig holds presentation settings for the dashboard page.
type DashboardConfig struct {
	Title        string `toml:"title"`
	DefaultTheme string `toml:"default_theme"`
	ChartWidth   int    `toml:"chart_width"`
	ChartHeight  int    `toml:"chart_height"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Symbols:     append([]string(nil), DefaultSymbols...),
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		API: APIConfig{
			Enabled:        true,
			BaseURL:        "https://stock-market-cpi-k9vl.onrender.com/api",
			RateLimit:      5,
			ProbeTimeout:   "5s",
			FetchTimeout:   "10s",
			MaxRetries:     2,
			RetryBackoff:   "1s",
			HealthTTL:      "30s",
			HealthInterval: "0",
			WarmCache:      true,
		},
		Dashboard: DashboardConfig{
			Title:        "Stock Dashboard",
			DefaultTheme: "light",
			ChartWidth:   900,
			ChartHeight:  400,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
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
	normalizeSymbols(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TICKERBOARD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TICKERBOARD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TICKERBOARD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TICKERBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("TICKERBOARD_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if url := os.Getenv("TICKERBOARD_API_BASE_URL"); url != "" {
		config.API.BaseURL = url
	}

	if v := os.Getenv("TICKERBOARD_API_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.API.Enabled = b
		}
	}

	if v := os.Getenv("TICKERBOARD_HEALTH_INTERVAL"); v != "" {
		config.API.HealthInterval = v
	}

	if v := os.Getenv("TICKERBOARD_SYMBOLS"); v != "" {
		config.Symbols = strings.Split(v, ",")
	}
}

// normalizeSymbols upper-cases and de-duplicates the symbol list, restoring defaults when empty.
func normalizeSymbols(config *Config) {
	seen := make(map[string]bool, len(config.Symbols))
	out := make([]string, 0, len(config.Symbols))
	for _, s := range config.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		out = append(out, DefaultSymbols...)
	}
	config.Symbols = out
}

// IsProduction returns true when the environment is production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
