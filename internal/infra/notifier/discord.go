package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"newshub/internal/domain/entity"
)

// WebhookConfig configures a webhook-based channel.
type WebhookConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// DiscordNotifier posts digest items as Discord embeds.
type DiscordNotifier struct {
	config     WebhookConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	sleep      sleepFunc
}

// NewDiscordNotifier creates a notifier limited to 0.5 req/s with a burst of
// 3, matching Discord's 30 requests per minute webhook limit.
func NewDiscordNotifier(config WebhookConfig, logger *slog.Logger) *DiscordNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordNotifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    discordLimit(),
		logger:     logger,
		sleep:      sleepContext,
	}
}

// DiscordWebhookPayload is the JSON body of a Discord webhook call.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one rich embed.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp,omitempty"`
	Image       *DiscordEmbedImage `json:"image,omitempty"`
}

// DiscordEmbedFooter is the footer line of an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordEmbedImage is the large image of an embed.
type DiscordEmbedImage struct {
	URL string `json:"url"`
}

// DiscordErrorResponse is the body Discord returns on errors.
type DiscordErrorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"` // seconds
}

const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096

	// #5865F2
	discordBlueColor = 5793266
)

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) IsEnabled() bool { return d.config.Enabled }

func (d *DiscordNotifier) buildEmbedPayload(item entity.DigestItem) DiscordWebhookPayload {
	embed := DiscordEmbed{
		Title:       truncate(item.Processed.Title, maxTitleLength),
		Description: truncate(item.Processed.Summary, maxDescriptionLength),
		URL:         item.Article.URL,
		Color:       discordBlueColor,
		Footer:      DiscordEmbedFooter{Text: item.Attribution()},
	}
	if published, ok := item.Article.PublishedTime(); ok {
		embed.Timestamp = published.Format(time.RFC3339)
	}
	if item.Article.ImageURL != "" {
		embed.Image = &DiscordEmbedImage{URL: item.Article.ImageURL}
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// extractRetryAfter prefers the JSON retry_after, then the Retry-After
// header, then a 5 second default.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var discordErr DiscordErrorResponse
	if err := json.Unmarshal(body, &discordErr); err == nil && discordErr.RetryAfter > 0 {
		return time.Duration(discordErr.RetryAfter * float64(time.Second))
	}
	if d, ok := retryAfterHeader(resp); ok {
		return d
	}
	return defaultRetryAfter
}

func (d *DiscordNotifier) sendWebhookRequest(ctx context.Context, item entity.DigestItem) error {
	return postJSON(ctx, d.httpClient, d.config.WebhookURL, "Discord", d.buildEmbedPayload(item), extractRetryAfter)
}

// Send posts item after waiting for the rate limiter. Server errors are
// retried once after 5s; 429s wait for Discord's retry_after.
func (d *DiscordNotifier) Send(ctx context.Context, item entity.DigestItem) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	policy := deliveryPolicy{channel: d.Name(), maxAttempts: 2, baseDelay: 5 * time.Second}
	return deliver(ctx, d.logger, policy, d.sleep, item, func(ctx context.Context) error {
		return d.sendWebhookRequest(ctx, item)
	})
}
