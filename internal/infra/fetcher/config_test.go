package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1500, cfg.Threshold)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.Parallelism)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.True(t, cfg.DenyPrivateIPs)
	assert.NoError(t, cfg.Validate())
}

func TestContentFetchConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContentFetchConfig)
		wantErr string
	}{
		{name: "negative threshold", mutate: func(c *ContentFetchConfig) { c.Threshold = -1 }, wantErr: "threshold"},
		{name: "zero timeout", mutate: func(c *ContentFetchConfig) { c.Timeout = 0 }, wantErr: "timeout"},
		{name: "zero parallelism", mutate: func(c *ContentFetchConfig) { c.Parallelism = 0 }, wantErr: "parallelism"},
		{name: "parallelism too high", mutate: func(c *ContentFetchConfig) { c.Parallelism = 51 }, wantErr: "parallelism"},
		{name: "body too small", mutate: func(c *ContentFetchConfig) { c.MaxBodySize = 10 }, wantErr: "max body size"},
		{name: "too many redirects", mutate: func(c *ContentFetchConfig) { c.MaxRedirects = 11 }, wantErr: "max redirects"},
		{name: "zero threshold allowed", mutate: func(c *ContentFetchConfig) { c.Threshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_FETCH_ENABLED", "true")
	t.Setenv("CONTENT_FETCH_THRESHOLD", "800")
	t.Setenv("CONTENT_FETCH_TIMEOUT", "3s")
	t.Setenv("CONTENT_FETCH_PARALLELISM", "2")
	t.Setenv("CONTENT_FETCH_DENY_PRIVATE_IPS", "false")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 800, cfg.Threshold)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.False(t, cfg.DenyPrivateIPs)
	assert.Equal(t, 5, cfg.MaxRedirects)
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	t.Run("unparseable", func(t *testing.T) {
		t.Setenv("CONTENT_FETCH_TIMEOUT", "soon")
		_, err := LoadConfigFromEnv()
		assert.Error(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("CONTENT_FETCH_PARALLELISM", "100")
		_, err := LoadConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}
