package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewsConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewsConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*NewsConfig) {}},
		{name: "unknown source", mutate: func(c *NewsConfig) { c.Source = "twitter" }, wantErr: "NEWS_SOURCE"},
		{name: "zero timeout", mutate: func(c *NewsConfig) { c.Timeout = 0 }, wantErr: "NEWS_TIMEOUT"},
		{
			name:    "unknown feed category",
			mutate:  func(c *NewsConfig) { c.Feeds["weather"] = []string{"https://example.com/rss"} },
			wantErr: "unknown category",
		},
		{
			name:    "bad feed url",
			mutate:  func(c *NewsConfig) { c.Feeds["general"] = []string{"not a url"} },
			wantErr: "feeds.general",
		},
		{
			name: "rss without feeds",
			mutate: func(c *NewsConfig) {
				c.Source = SourceRSS
				c.Feeds = nil
			},
			wantErr: "feeds are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultNewsConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSessionConfig_Validate(t *testing.T) {
	cfg := defaultSessionConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Language = "xx"
	cfg.Category = "weather"
	cfg.Count = 2
	err := cfg.Validate()
	assert.ErrorContains(t, err, "NEWSHUB_LANGUAGE")
	assert.ErrorContains(t, err, "NEWSHUB_CATEGORY")
	assert.ErrorContains(t, err, "NEWSHUB_ARTICLE_COUNT")
}
