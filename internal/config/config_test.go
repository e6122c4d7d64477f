package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fetch.MaxConcurrency != 6 {
		t.Fatalf("expected concurrency 6, got %d", cfg.Fetch.MaxConcurrency)
	}
	if cfg.Limits.MaxURLs != 40 {
		t.Fatalf("expected max urls 40, got %d", cfg.Limits.MaxURLs)
	}
	if got := cfg.Fetch.Delay(); got != 150*time.Millisecond {
		t.Fatalf("expected 150ms delay, got %v", got)
	}
	if got := cfg.Fetch.RequestTimeout(); got != 12*time.Second {
		t.Fatalf("expected 12s timeout, got %v", got)
	}
	if cfg.Fetch.UserAgent != DefaultUserAgent {
		t.Fatalf("unexpected user agent %q", cfg.Fetch.UserAgent)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
fetch:
  user_agent: real-agent
  timeout_seconds: 20
  connect_timeout_seconds: 2.5
  max_concurrency: 3
  delay_seconds: 0.5
  max_redirects: 2
limits:
  max_urls: 10
  max_document_bytes: 1024
extract:
  min_text_length: 25
logging:
  development: false
  level: debug
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.UserAgent != "real-agent" || cfg.Fetch.MaxConcurrency != 3 {
		t.Fatalf("expected fetch overrides to apply: %+v", cfg.Fetch)
	}
	if got := cfg.Fetch.ConnectTimeout(); got != 2500*time.Millisecond {
		t.Fatalf("expected connect timeout 2.5s, got %v", got)
	}
	if cfg.Limits.MaxURLs != 10 || cfg.Limits.MaxDocumentBytes != 1024 {
		t.Fatalf("expected limit overrides to apply: %+v", cfg.Limits)
	}
	if cfg.Extract.MinTextLength != 25 {
		t.Fatalf("expected min text length 25, got %d", cfg.Extract.MinTextLength)
	}
	if cfg.Logging.Development || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging overrides to apply: %+v", cfg.Logging)
	}
	// untouched keys keep their defaults
	if cfg.Fetch.MaxPageBytes != 5<<20 {
		t.Fatalf("expected default page cap, got %d", cfg.Fetch.MaxPageBytes)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_FETCH_MAX_CONCURRENCY", "2")
	t.Setenv("SCRAPER_LIMITS_MAX_URLS", "5")
	t.Setenv("PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Fetch.MaxConcurrency != 2 {
		t.Fatalf("expected concurrency 2, got %d", cfg.Fetch.MaxConcurrency)
	}
	if cfg.Limits.MaxURLs != 5 {
		t.Fatalf("expected max urls 5, got %d", cfg.Limits.MaxURLs)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("expected port 7070, got %d", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read config error, got %v", err)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server: ServerConfig{Port: 8080},
		Fetch: FetchConfig{
			UserAgent:             "agent",
			TimeoutSeconds:        10,
			ConnectTimeoutSeconds: 2,
			MaxConcurrency:        1,
			MaxPageBytes:          1024,
		},
		Limits: LimitsConfig{MaxURLs: 1, MaxDocumentBytes: 1024},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 0 }, want: "server.port"},
		{name: "missing user agent", mutate: func(c *Config) { c.Fetch.UserAgent = "" }, want: "fetch.user_agent"},
		{name: "invalid timeout", mutate: func(c *Config) { c.Fetch.TimeoutSeconds = 0 }, want: "fetch.timeout_seconds"},
		{name: "connect exceeds overall", mutate: func(c *Config) { c.Fetch.ConnectTimeoutSeconds = 11 }, want: "fetch.connect_timeout_seconds"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Fetch.MaxConcurrency = 0 }, want: "fetch.max_concurrency"},
		{name: "negative delay", mutate: func(c *Config) { c.Fetch.DelaySeconds = -1 }, want: "fetch.delay_seconds"},
		{name: "negative rate", mutate: func(c *Config) { c.Fetch.RequestsPerSecond = -1 }, want: "fetch.requests_per_second"},
		{name: "zero max urls", mutate: func(c *Config) { c.Limits.MaxURLs = 0 }, want: "limits.max_urls"},
		{name: "zero document cap", mutate: func(c *Config) { c.Limits.MaxDocumentBytes = 0 }, want: "limits.max_document_bytes"},
		{name: "negative min length", mutate: func(c *Config) { c.Extract.MinTextLength = -1 }, want: "extract.min_text_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
