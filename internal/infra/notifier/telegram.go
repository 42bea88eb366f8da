package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"newshub/internal/domain/entity"
)

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled bool
	Token   string
	ChatID  int64
	Timeout time.Duration

	// ServerURL overrides https://api.telegram.org.
	ServerURL string
}

const maxTelegramMessageLength = 4096

// TelegramNotifier sends digest items as HTML messages to one chat.
type TelegramNotifier struct {
	config  TelegramConfig
	bot     *bot.Bot
	limiter *rate.Limiter
	logger  *slog.Logger
	sleep   sleepFunc
}

// NewTelegramNotifier creates a notifier limited to one message per second.
// The bot token is not verified until the first send.
func NewTelegramNotifier(config TelegramConfig, logger *slog.Logger) (*TelegramNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(config.Timeout, &http.Client{Timeout: config.Timeout}),
	}
	if config.ServerURL != "" {
		opts = append(opts, bot.WithServerURL(config.ServerURL))
	}
	b, err := bot.New(config.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		config:  config,
		bot:     b,
		limiter: telegramLimit(),
		logger:  logger,
		sleep:   sleepContext,
	}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) IsEnabled() bool { return t.config.Enabled }

func buildTelegramMessage(item entity.DigestItem) string {
	title := "<b>" + html.EscapeString(item.Processed.Title) + "</b>"
	if item.Article.URL != "" {
		title = fmt.Sprintf(`<b><a href="%s">%s</a></b>`,
			html.EscapeString(item.Article.URL), html.EscapeString(item.Processed.Title))
	}
	footer := "<i>" + html.EscapeString(item.Attribution()) + "</i>"

	// Only the summary is cut so the markup stays balanced.
	budget := maxTelegramMessageLength - len([]rune(title)) - len([]rune(footer)) - 4
	summary := html.EscapeString(truncate(item.Processed.Summary, max(budget, 0)))
	return title + "\n\n" + summary + "\n\n" + footer
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, item entity.DigestItem) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.config.ChatID,
		Text:      buildTelegramMessage(item),
		ParseMode: models.ParseModeHTML,
	})
	return classifyTelegramError(err)
}

// classifyTelegramError maps bot API errors onto the shared error types so
// the delivery loop treats all channels alike.
func classifyTelegramError(err error) error {
	if err == nil {
		return nil
	}
	var tooMany *bot.TooManyRequestsError
	if errors.As(err, &tooMany) {
		retryAfter := time.Duration(tooMany.RetryAfter) * time.Second
		if retryAfter <= 0 {
			retryAfter = defaultRetryAfter
		}
		return &RateLimitError{Message: "Telegram rate limit exceeded", RetryAfter: retryAfter}
	}
	for _, clientErr := range []struct {
		target error
		status int
	}{
		{bot.ErrorBadRequest, http.StatusBadRequest},
		{bot.ErrorUnauthorized, http.StatusUnauthorized},
		{bot.ErrorForbidden, http.StatusForbidden},
		{bot.ErrorNotFound, http.StatusNotFound},
	} {
		if errors.Is(err, clientErr.target) {
			return &ClientError{StatusCode: clientErr.status, Message: "Telegram API client error: " + err.Error()}
		}
	}
	return err
}

// Send delivers item after waiting for the rate limiter. Network and server
// errors are retried once after 5s.
func (t *TelegramNotifier) Send(ctx context.Context, item entity.DigestItem) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	policy := deliveryPolicy{channel: t.Name(), maxAttempts: 2, baseDelay: 5 * time.Second}
	return deliver(ctx, t.logger, policy, t.sleep, item, func(ctx context.Context) error {
		return t.sendMessage(ctx, item)
	})
}
