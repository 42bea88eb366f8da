package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newshub/internal/config"
	"newshub/internal/infra/notifier"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildChannels_AllDisabled(t *testing.T) {
	channels := buildChannels(config.NotifyConfig{}, discardLogger())

	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
		assert.False(t, ch.IsEnabled())
		assert.IsType(t, &notifier.NoOpNotifier{}, ch)
	}
	assert.Equal(t, []string{"discord", "slack", "telegram"}, names)
}

func TestBuildChannels_Enabled(t *testing.T) {
	cfg := config.NotifyConfig{
		Discord: config.WebhookConfig{Enabled: true, WebhookURL: "https://discord.com/api/webhooks/1/x", Timeout: time.Second},
		Slack:   config.WebhookConfig{Enabled: true, WebhookURL: "https://hooks.slack.com/services/T/B/x", Timeout: time.Second},
		Telegram: config.TelegramConfig{
			Enabled: true, Token: "123456:test-token", ChatID: 42, Timeout: time.Second,
		},
	}

	channels := buildChannels(cfg, discardLogger())

	assert.Len(t, channels, 3)
	assert.IsType(t, &notifier.DiscordNotifier{}, channels[0])
	assert.IsType(t, &notifier.SlackNotifier{}, channels[1])
	assert.IsType(t, &notifier.TelegramNotifier{}, channels[2])
	for _, ch := range channels {
		assert.True(t, ch.IsEnabled(), ch.Name())
	}
}

func TestCronLog(t *testing.T) {
	var buf bytes.Buffer
	l := cronLog{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.Info("skip", "now", "12:00")
	l.Error(errors.New("boom"), "panic", "job", 1)

	out := buf.String()
	assert.Contains(t, out, "msg=\"cron: skip\" now=12:00")
	assert.Contains(t, out, "msg=\"cron: panic\" job=1 error=boom")
}
