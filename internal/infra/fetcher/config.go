package fetcher

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ContentFetchConfig controls full-text enhancement of truncated articles.
type ContentFetchConfig struct {
	// Enabled turns enhancement on. Default: false
	Enabled bool `env:"ENABLED"`

	// Threshold is the body length (in characters) below which the full
	// article is fetched. Bodies carrying a "[+N chars]" marker are always
	// fetched. Default: 1500
	Threshold int `env:"THRESHOLD"`

	// Timeout bounds a single page request. Default: 10s
	Timeout time.Duration `env:"TIMEOUT"`

	// Parallelism is the maximum number of concurrent page fetches. Default: 5
	Parallelism int `env:"PARALLELISM"`

	// MaxBodySize is the maximum page size in bytes, enforced while reading.
	// Default: 10MB
	MaxBodySize int64 `env:"MAX_BODY_SIZE"`

	// MaxRedirects is the maximum number of redirects followed; every
	// target is validated like the original URL. Default: 5
	MaxRedirects int `env:"MAX_REDIRECTS"`

	// DenyPrivateIPs rejects URLs resolving to private addresses. Default: true
	DenyPrivateIPs bool `env:"DENY_PRIVATE_IPS"`
}

// DefaultConfig returns the default configuration for content fetching.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        false,
		Threshold:      1500,
		Timeout:        10 * time.Second,
		Parallelism:    5,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}
	const minBodySize, maxBodySize = int64(1024), int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv overlays CONTENT_FETCH_* variables on the defaults and
// validates the result.
//
// Environment variables:
//   - CONTENT_FETCH_ENABLED: "true" or "false" (default: false)
//   - CONTENT_FETCH_THRESHOLD: integer (default: 1500)
//   - CONTENT_FETCH_TIMEOUT: duration string, e.g., "10s" (default: 10s)
//   - CONTENT_FETCH_PARALLELISM: integer (default: 5)
//   - CONTENT_FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CONTENT_FETCH_"}); err != nil {
		return cfg, fmt.Errorf("parse CONTENT_FETCH_* variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
