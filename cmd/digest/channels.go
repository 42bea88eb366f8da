package main

import (
	"log/slog"

	"newshub/internal/config"
	"newshub/internal/infra/notifier"
	"newshub/internal/usecase/notify"
)

// buildChannels creates one channel per destination. Disabled destinations,
// and a Telegram bot that cannot be created, become no-op channels.
func buildChannels(cfg config.NotifyConfig, logger *slog.Logger) []notify.Channel {
	channels := make([]notify.Channel, 0, 3)

	if cfg.Discord.Enabled {
		channels = append(channels, notifier.NewDiscordNotifier(notifier.WebhookConfig{
			Enabled:    true,
			WebhookURL: cfg.Discord.WebhookURL,
			Timeout:    cfg.Discord.Timeout,
		}, logger))
	} else {
		channels = append(channels, notifier.NewNoOpNotifier("discord"))
	}

	if cfg.Slack.Enabled {
		channels = append(channels, notifier.NewSlackNotifier(notifier.WebhookConfig{
			Enabled:    true,
			WebhookURL: cfg.Slack.WebhookURL,
			Timeout:    cfg.Slack.Timeout,
		}, logger))
	} else {
		channels = append(channels, notifier.NewNoOpNotifier("slack"))
	}

	channels = append(channels, telegramChannel(cfg.Telegram, logger))

	for _, ch := range channels {
		logger.Info("notification channel configured",
			slog.String("channel", ch.Name()),
			slog.Bool("enabled", ch.IsEnabled()))
	}
	return channels
}

func telegramChannel(cfg config.TelegramConfig, logger *slog.Logger) notify.Channel {
	if !cfg.Enabled {
		return notifier.NewNoOpNotifier("telegram")
	}
	n, err := notifier.NewTelegramNotifier(notifier.TelegramConfig{
		Enabled: true,
		Token:   cfg.Token,
		ChatID:  cfg.ChatID,
		Timeout: cfg.Timeout,
	}, logger)
	if err != nil {
		logger.Error("telegram disabled", slog.Any("error", err))
		return notifier.NewNoOpNotifier("telegram")
	}
	return n
}
