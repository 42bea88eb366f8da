package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/logging"
	"newshub/internal/utils/text"
)

// RateLimitError is a 429 from the chat service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a non-retryable 4xx.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError is a retryable 5xx.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

const defaultRetryAfter = 5 * time.Second

func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError reports whether a failed send is worth repeating.
// Server and network errors are, client timeouts included; client errors
// and rate limits (handled separately) are not. Whether the caller gave up
// is decided by deliver from its own context.
func isRetryableError(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rateLimitErr *RateLimitError
	return !errors.As(err, &rateLimitErr)
}

// truncate shortens s to maxRunes including the trailing ellipsis.
func truncate(s string, maxRunes int) string {
	if text.CountRunes(s) <= maxRunes {
		return s
	}
	return text.TruncateWithEllipsis(s, maxRunes-len(text.Ellipsis))
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type deliveryPolicy struct {
	channel     string
	maxAttempts int
	baseDelay   time.Duration
}

// deliver runs send until it succeeds or the policy gives up. Rate limits
// wait for the server-provided delay; server errors back off linearly.
func deliver(ctx context.Context, logger *slog.Logger, p deliveryPolicy, sleep sleepFunc,
	item entity.DigestItem, send func(context.Context) error) error {
	log := logging.WithRequestID(ctx, logger).With(
		slog.String("channel", p.channel),
		slog.String("article_id", item.Article.ID),
		slog.String("language", item.Language.String()))

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := send(ctx)
		if err == nil {
			log.Info("notification delivered", slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return fmt.Errorf("%s notification aborted (%w): %w", p.channel, ctx.Err(), err)
		}

		if rateLimitErr, ok := is429Error(err); ok {
			log.Warn("rate limit hit, backing off",
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))
			if err := sleep(ctx, rateLimitErr.RetryAfter); err != nil {
				return fmt.Errorf("context canceled during rate limit backoff: %w", err)
			}
			continue
		}

		if !isRetryableError(err) {
			log.Error("notification failed with non-retryable error",
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < p.maxAttempts {
			delay := p.baseDelay * time.Duration(attempt)
			log.Warn("notification failed, retrying",
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			if err := sleep(ctx, delay); err != nil {
				return fmt.Errorf("context canceled during retry backoff: %w", err)
			}
		}
	}

	log.Error("notification failed after all retries",
		slog.Any("error", lastErr),
		slog.Int("max_attempts", p.maxAttempts))
	return fmt.Errorf("%s notification failed after %d attempts: %w", p.channel, p.maxAttempts, lastErr)
}

// postJSON posts payload to a webhook and classifies the response.
// retryAfter extracts the back-off delay from a 429 response.
func postJSON(ctx context.Context, client *http.Client, url, service string, payload any,
	retryAfter func(*http.Response, []byte) time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    service + " rate limit exceeded",
			RetryAfter: retryAfter(resp, respBody),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API client error: %s", service, string(respBody)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API server error: %s", service, string(respBody)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
}

// retryAfterHeader reads a Retry-After header in seconds.
func retryAfterHeader(resp *http.Response) (time.Duration, bool) {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second, true
		}
	}
	return 0, false
}
