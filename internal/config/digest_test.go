package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestConfig_Validate(t *testing.T) {
	cfg := defaultDigestConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Languages = nil
	assert.ErrorContains(t, cfg.Validate(), "cannot be empty")

	cfg.Languages = []string{"en", "klingon"}
	assert.ErrorContains(t, cfg.Validate(), "DIGEST_LANGUAGES")

	cfg = defaultDigestConfig()
	cfg.Count = 11
	assert.ErrorContains(t, cfg.Validate(), "DIGEST_ARTICLE_COUNT")
}

func TestNotifyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NotifyConfig)
		wantErr string
	}{
		{name: "all disabled", mutate: func(*NotifyConfig) {}},
		{
			name: "disabled channel ignores bad url",
			mutate: func(c *NotifyConfig) {
				c.Discord.WebhookURL = "http://evil.example"
			},
		},
		{
			name: "valid discord",
			mutate: func(c *NotifyConfig) {
				c.Discord.Enabled = true
				c.Discord.WebhookURL = "https://discord.com/api/webhooks/1/abc"
			},
		},
		{
			name: "discord over http",
			mutate: func(c *NotifyConfig) {
				c.Discord.Enabled = true
				c.Discord.WebhookURL = "http://discord.com/api/webhooks/1/abc"
			},
			wantErr: "HTTPS",
		},
		{
			name: "slack wrong host",
			mutate: func(c *NotifyConfig) {
				c.Slack.Enabled = true
				c.Slack.WebhookURL = "https://hooks.example.com/services/T/B/X"
			},
			wantErr: "invalid webhook host",
		},
		{
			name: "slack wrong path",
			mutate: func(c *NotifyConfig) {
				c.Slack.Enabled = true
				c.Slack.WebhookURL = "https://hooks.slack.com/other"
			},
			wantErr: "invalid webhook path",
		},
		{
			name:    "telegram without token",
			mutate:  func(c *NotifyConfig) { c.Telegram.Enabled = true; c.Telegram.ChatID = 42 },
			wantErr: "TELEGRAM_BOT_TOKEN",
		},
		{
			name:    "telegram without chat",
			mutate:  func(c *NotifyConfig) { c.Telegram.Enabled = true; c.Telegram.Token = "123:abc" },
			wantErr: "TELEGRAM_CHAT_ID",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *NotifyConfig) { c.Slack.Timeout = 0 },
			wantErr: "SLACK_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultNotifyConfig()
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

func TestNotifyConfig_AnyEnabled(t *testing.T) {
	cfg := defaultNotifyConfig()
	assert.False(t, cfg.AnyEnabled())

	cfg.Telegram.Enabled = true
	assert.True(t, cfg.AnyEnabled())
}
