// Package common provides shared configuration and logging for kabuto
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for kabuto
type Config struct {
	Environment    string          `toml:"environment"`
	PopularSymbols []string        `toml:"popular_symbols"`
	Server         ServerConfig    `toml:"server"`
	Clients        ClientsConfig   `toml:"clients"`
	Cache          CacheConfig     `toml:"cache"`
	RateLimit      RateLimitConfig `toml:"rate_limit"`
	Fallback       FallbackConfig  `toml:"fallback"`
	Logging        LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo   YahooConfig   `toml:"yahoo"`
	JQuants JQuantsConfig `toml:"jquants"`
}

// YahooConfig holds configuration for the public quote API
type YahooConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// JQuantsConfig holds configuration for the J-Quants API
type JQuantsConfig struct {
	BaseURL      string `toml:"base_url"`
	RefreshToken string `toml:"refresh_token"`
	Timeout      string `toml:"timeout"`
	MaxPages     int    `toml:"max_pages"`
}

// GetTimeout parses and returns the timeout duration
func (c *JQuantsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// CacheConfig holds TTLs for the three caches.
// Quote entries are per symbol; the directory and ranking caches hold
// whole snapshots replaced on expiry.
type CacheConfig struct {
	QuoteTTL     string `toml:"quote_ttl"`
	DirectoryTTL string `toml:"directory_ttl"`
	RankingTTL   string `toml:"ranking_ttl"`
}

// GetQuoteTTL parses and returns the quote cache TTL
func (c *CacheConfig) GetQuoteTTL() time.Duration {
	d, err := time.ParseDuration(c.QuoteTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetDirectoryTTL parses and returns the listed directory snapshot TTL
func (c *CacheConfig) GetDirectoryTTL() time.Duration {
	d, err := time.ParseDuration(c.DirectoryTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetRankingTTL parses and returns the ranking snapshot TTL
func (c *CacheConfig) GetRankingTTL() time.Duration {
	d, err := time.ParseDuration(c.RankingTTL)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// RateLimitConfig holds the outbound request pacing configuration
type RateLimitConfig struct {
	MinInterval string `toml:"min_interval"`
}

// GetMinInterval parses and returns the minimum interval between
// primary-provider requests
func (c *RateLimitConfig) GetMinInterval() time.Duration {
	d, err := time.ParseDuration(c.MinInterval)
	if err != nil {
		return time.Second
	}
	return d
}

// FallbackConfig holds the static last-known quote table used when every
// live provider fails
type FallbackConfig struct {
	Quotes []FallbackQuote `toml:"quotes"`
}

// FallbackQuote is one static last-known quote
type FallbackQuote struct {
	Symbol    string  `toml:"symbol"`
	Name      string  `toml:"name"`
	Price     float64 `toml:"price"`
	Change    float64 `toml:"change"`
	ChangePct float64 `toml:"change_pct"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		PopularSymbols: []string{
			"7203", "6758", "9984", "9434", "6861",
			"9983", "8035", "4063", "8267", "4503",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL: "https://query1.finance.yahoo.com",
				Timeout: "15s",
			},
			JQuants: JQuantsConfig{
				BaseURL:  "https://api.jquants.com/v1",
				Timeout:  "30s",
				MaxPages: 50,
			},
		},
		Cache: CacheConfig{
			QuoteTTL:     "5m",
			DirectoryTTL: "24h",
			RankingTTL:   "30m",
		},
		RateLimit: RateLimitConfig{
			MinInterval: "1s",
		},
		Fallback: FallbackConfig{
			Quotes: defaultFallbackQuotes(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultFallbackQuotes returns last-known values for a handful of
// well-known TSE names. Operators can replace the table via [[fallback.quotes]].
func defaultFallbackQuotes() []FallbackQuote {
	return []FallbackQuote{
		{Symbol: "7203", Name: "トヨタ自動車", Price: 2850.0, Change: 25.0, ChangePct: 0.88},
		{Symbol: "6758", Name: "ソニーグループ", Price: 3150.0, Change: -15.0, ChangePct: -0.47},
		{Symbol: "9984", Name: "ソフトバンクグループ", Price: 8500.0, Change: 120.0, ChangePct: 1.43},
		{Symbol: "9434", Name: "ソフトバンク", Price: 1850.0, Change: 8.0, ChangePct: 0.43},
		{Symbol: "6861", Name: "キーエンス", Price: 65000.0, Change: 500.0, ChangePct: 0.78},
		{Symbol: "9983", Name: "ファーストリテイリング", Price: 45000.0, Change: -200.0, ChangePct: -0.44},
		{Symbol: "8035", Name: "東京エレクトロン", Price: 28000.0, Change: 350.0, ChangePct: 1.27},
		{Symbol: "4063", Name: "信越化学工業", Price: 5800.0, Change: 45.0, ChangePct: 0.78},
		{Symbol: "8267", Name: "イオン", Price: 3200.0, Change: -10.0, ChangePct: -0.31},
		{Symbol: "4503", Name: "アステラス製薬", Price: 1750.0, Change: 12.0, ChangePct: 0.69},
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
	if env := os.Getenv("KABUTO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("KABUTO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("KABUTO_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("KABUTO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// The J-Quants refresh secret is the one credential this layer holds;
	// both the namespaced and the provider-conventional variable work.
	for _, name := range []string{"KABUTO_JQUANTS_REFRESH_TOKEN", "JQUANTS_REFRESH_TOKEN"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.JQuants.RefreshToken = v
			break
		}
	}

	if v := os.Getenv("KABUTO_MIN_REQUEST_INTERVAL"); v != "" {
		config.RateLimit.MinInterval = v
	}

	if v := os.Getenv("KABUTO_QUOTE_TTL"); v != "" {
		config.Cache.QuoteTTL = v
	}

	if v := os.Getenv("KABUTO_POPULAR_SYMBOLS"); v != "" {
		parts := strings.Split(v, ",")
		symbols := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) > 0 {
			config.PopularSymbols = symbols
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
