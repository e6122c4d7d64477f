// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgent identifies the scraper while still looking like a browser to picky hosts.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0 Safari/537.36 ResumeLinkScraper/1.0"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Extract ExtractConfig `mapstructure:"extract"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownSeconds int `mapstructure:"shutdown_seconds"`
}

// FetchConfig governs the shared fetch transport, the slot semaphore and pacing.
type FetchConfig struct {
	UserAgent             string  `mapstructure:"user_agent"`
	TimeoutSeconds        float64 `mapstructure:"timeout_seconds"`
	ConnectTimeoutSeconds float64 `mapstructure:"connect_timeout_seconds"`
	MaxConcurrency        int     `mapstructure:"max_concurrency"`
	DelaySeconds          float64 `mapstructure:"delay_seconds"`
	RequestsPerSecond     float64 `mapstructure:"requests_per_second"`
	MaxRedirects          int     `mapstructure:"max_redirects"`
	MaxPageBytes          int     `mapstructure:"max_page_bytes"`
}

// LimitsConfig bounds the size of a single scrape run.
type LimitsConfig struct {
	MaxURLs          int   `mapstructure:"max_urls"`
	MaxDocumentBytes int64 `mapstructure:"max_document_bytes"`
}

// ExtractConfig tunes the content extraction chain.
type ExtractConfig struct {
	MinTextLength int `mapstructure:"min_text_length"`
}

// LoggingConfig toggles zap development features and the optional rotating file sink.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	// PORT is what most container platforms inject.
	if err := v.BindEnv("server.port", "SCRAPER_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.shutdown_seconds", 10)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.timeout_seconds", 12)
	v.SetDefault("fetch.connect_timeout_seconds", 5)
	v.SetDefault("fetch.max_concurrency", 6)
	v.SetDefault("fetch.delay_seconds", 0.15)
	v.SetDefault("fetch.requests_per_second", 0)
	v.SetDefault("fetch.max_redirects", 5)
	v.SetDefault("fetch.max_page_bytes", 5<<20)
	v.SetDefault("limits.max_urls", 40)
	v.SetDefault("limits.max_document_bytes", 10<<20)
	v.SetDefault("extract.min_text_length", 80)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent must be set")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.ConnectTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.connect_timeout_seconds must be > 0")
	}
	if c.Fetch.ConnectTimeoutSeconds > c.Fetch.TimeoutSeconds {
		return fmt.Errorf("fetch.connect_timeout_seconds must not exceed fetch.timeout_seconds")
	}
	if c.Fetch.MaxConcurrency < 1 {
		return fmt.Errorf("fetch.max_concurrency must be >= 1")
	}
	if c.Fetch.DelaySeconds < 0 {
		return fmt.Errorf("fetch.delay_seconds must be >= 0")
	}
	if c.Fetch.RequestsPerSecond < 0 {
		return fmt.Errorf("fetch.requests_per_second must be >= 0")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must be >= 0")
	}
	if c.Fetch.MaxPageBytes <= 0 {
		return fmt.Errorf("fetch.max_page_bytes must be > 0")
	}
	if c.Limits.MaxURLs < 1 {
		return fmt.Errorf("limits.max_urls must be >= 1")
	}
	if c.Limits.MaxDocumentBytes <= 0 {
		return fmt.Errorf("limits.max_document_bytes must be > 0")
	}
	if c.Extract.MinTextLength < 0 {
		return fmt.Errorf("extract.min_text_length must be >= 0")
	}
	return nil
}

// RequestTimeout is the overall budget for a single fetch.
func (c FetchConfig) RequestTimeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// ConnectTimeout is the budget for establishing a connection, TLS included.
func (c FetchConfig) ConnectTimeout() time.Duration {
	return seconds(c.ConnectTimeoutSeconds)
}

// Delay is the pacing delay observed before a fetch slot is released.
func (c FetchConfig) Delay() time.Duration {
	return seconds(c.DelaySeconds)
}

// ShutdownTimeout bounds graceful server shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownSeconds) * time.Second
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
