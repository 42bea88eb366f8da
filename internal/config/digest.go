package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"newshub/internal/domain/entity"
	cfgvalidate "newshub/internal/pkg/config"
)

// DigestConfig describes what one digest run publishes.
// Scheduling lives in the worker configuration.
type DigestConfig struct {
	// Languages are the target languages each article is processed into.
	// Default: ["en"]
	Languages []string `env:"DIGEST_LANGUAGES" envSeparator:"," yaml:"languages"`

	// Category is the headline category. Default: "general"
	Category string `env:"DIGEST_CATEGORY" yaml:"category"`

	// Count is the number of articles per run (3-10). Default: 5
	Count int `env:"DIGEST_ARTICLE_COUNT" yaml:"count"`
}

func defaultDigestConfig() DigestConfig {
	return DigestConfig{
		Languages: []string{string(entity.English)},
		Category:  entity.DefaultCategory,
		Count:     entity.DefaultArticleCount,
	}
}

// Validate checks configuration correctness.
func (c *DigestConfig) Validate() error {
	var errs []error
	if len(c.Languages) == 0 {
		errs = append(errs, fmt.Errorf("DIGEST_LANGUAGES cannot be empty"))
	}
	for _, code := range c.Languages {
		if _, err := entity.ParseLanguage(code); err != nil {
			errs = append(errs, fmt.Errorf("DIGEST_LANGUAGES: %w", err))
		}
	}
	if !entity.IsCategory(c.Category) {
		errs = append(errs, fmt.Errorf("DIGEST_CATEGORY: unknown category %q", c.Category))
	}
	if err := cfgvalidate.ValidateIntRange(c.Count, entity.MinArticleCount, entity.MaxArticleCount); err != nil {
		errs = append(errs, fmt.Errorf("DIGEST_ARTICLE_COUNT: %w", err))
	}
	return errors.Join(errs...)
}

// TargetLanguages returns the parsed digest languages.
// Call it after Validate; unparseable codes are skipped.
func (c *DigestConfig) TargetLanguages() []entity.Language {
	langs := make([]entity.Language, 0, len(c.Languages))
	for _, code := range c.Languages {
		if lang, err := entity.ParseLanguage(code); err == nil {
			langs = append(langs, lang)
		}
	}
	return langs
}

// WebhookConfig configures one webhook channel.
type WebhookConfig struct {
	Enabled    bool          `env:"ENABLED" yaml:"enabled"`
	WebhookURL string        `env:"WEBHOOK_URL" yaml:"-"`
	Timeout    time.Duration `env:"TIMEOUT" yaml:"timeout"`
}

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled bool          `env:"ENABLED" yaml:"enabled"`
	Token   string        `env:"BOT_TOKEN" yaml:"-"`
	ChatID  int64         `env:"CHAT_ID" yaml:"chat_id"`
	Timeout time.Duration `env:"TIMEOUT" yaml:"timeout"`
}

// NotifyConfig holds the digest delivery channels.
type NotifyConfig struct {
	Discord  WebhookConfig  `envPrefix:"DISCORD_" yaml:"discord"`
	Slack    WebhookConfig  `envPrefix:"SLACK_" yaml:"slack"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_" yaml:"telegram"`
}

func defaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Discord:  WebhookConfig{Timeout: 30 * time.Second},
		Slack:    WebhookConfig{Timeout: 30 * time.Second},
		Telegram: TelegramConfig{Timeout: 30 * time.Second},
	}
}

// Validate checks the enabled channels only.
func (c *NotifyConfig) Validate() error {
	var errs []error
	if c.Discord.Enabled {
		if err := validateWebhookURL(c.Discord.WebhookURL, "discord.com", "/api/webhooks/"); err != nil {
			errs = append(errs, fmt.Errorf("DISCORD_WEBHOOK_URL: %w", err))
		}
	}
	if c.Slack.Enabled {
		if err := validateWebhookURL(c.Slack.WebhookURL, "hooks.slack.com", "/services/"); err != nil {
			errs = append(errs, fmt.Errorf("SLACK_WEBHOOK_URL: %w", err))
		}
	}
	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			errs = append(errs, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when Telegram is enabled"))
		}
		if c.Telegram.ChatID == 0 {
			errs = append(errs, fmt.Errorf("TELEGRAM_CHAT_ID is required when Telegram is enabled"))
		}
	}
	for name, timeout := range map[string]time.Duration{
		"DISCORD_TIMEOUT":  c.Discord.Timeout,
		"SLACK_TIMEOUT":    c.Slack.Timeout,
		"TELEGRAM_TIMEOUT": c.Telegram.Timeout,
	} {
		if err := cfgvalidate.ValidatePositiveDuration(timeout); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// AnyEnabled reports whether at least one channel is enabled.
func (c *NotifyConfig) AnyEnabled() bool {
	return c.Discord.Enabled || c.Slack.Enabled || c.Telegram.Enabled
}

func validateWebhookURL(raw, host, pathPrefix string) error {
	if raw == "" {
		return fmt.Errorf("webhook URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL format: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use HTTPS")
	}
	if u.Host != host {
		return fmt.Errorf("invalid webhook host %q", u.Host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		return fmt.Errorf("invalid webhook path %q", u.Path)
	}
	return nil
}
