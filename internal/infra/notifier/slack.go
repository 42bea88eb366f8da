package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"newshub/internal/domain/entity"
)

// SlackNotifier posts digest items to a Slack Incoming Webhook using Block Kit.
type SlackNotifier struct {
	config     WebhookConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	sleep      sleepFunc
}

// NewSlackNotifier creates a notifier limited to one message per second.
func NewSlackNotifier(config WebhookConfig, logger *slog.Logger) *SlackNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackNotifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    slackLimit(),
		logger:     logger,
		sleep:      sleepContext,
	}
}

// SlackWebhookPayload is the JSON body of a Slack webhook call.
type SlackWebhookPayload struct {
	Text   string       `json:"text"` // notification fallback
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a Block Kit text object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxContextTextLength = 2000
	maxFallbackLength    = 150
)

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) IsEnabled() bool { return s.config.Enabled }

func (s *SlackNotifier) buildBlockKitPayload(item entity.DigestItem) SlackWebhookPayload {
	title := slackEscaper.Replace(item.Processed.Title)
	heading := "*" + title + "*"
	if item.Article.URL != "" {
		heading = fmt.Sprintf("*<%s|%s>*", item.Article.URL, title)
	}
	section := truncate(heading+"\n\n"+slackEscaper.Replace(item.Processed.Summary), maxSectionTextLength)

	footer := slackEscaper.Replace(item.Attribution())
	if published := item.Article.PublishedDate(); published != "" {
		footer += " • " + published
	}

	return SlackWebhookPayload{
		Text: truncate(item.Processed.Title+" - "+item.Attribution(), maxFallbackLength),
		Blocks: []SlackBlock{
			{Type: "section", Text: &SlackTextObject{Type: "mrkdwn", Text: section}},
			{Type: "context", Elements: []SlackTextObject{{Type: "mrkdwn", Text: truncate(footer, maxContextTextLength)}}},
		},
	}
}

func slackRetryAfter(resp *http.Response, _ []byte) time.Duration {
	if d, ok := retryAfterHeader(resp); ok {
		return d
	}
	return defaultRetryAfter
}

func (s *SlackNotifier) sendWebhookRequest(ctx context.Context, item entity.DigestItem) error {
	return postJSON(ctx, s.httpClient, s.config.WebhookURL, "Slack", s.buildBlockKitPayload(item), slackRetryAfter)
}

// Send posts item after waiting for the rate limiter, with the same retry
// policy as Discord.
func (s *SlackNotifier) Send(ctx context.Context, item entity.DigestItem) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	policy := deliveryPolicy{channel: s.Name(), maxAttempts: 2, baseDelay: 5 * time.Second}
	return deliver(ctx, s.logger, policy, s.sleep, item, func(ctx context.Context) error {
		return s.sendWebhookRequest(ctx, item)
	})
}
