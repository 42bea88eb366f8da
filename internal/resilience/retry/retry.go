// Package retry re-runs failed calls with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
)

// Config is a backoff policy. MaxAttempts counts the first call.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// JitterFraction adds up to this fraction of each delay at random (0 to 1).
	JitterFraction float64

	// Retryable decides whether an error earns another attempt.
	// Nil means IsRetryable.
	Retryable func(error) bool

	// Sleep waits between attempts. Nil means a timer that honours ctx.
	Sleep func(ctx context.Context, d time.Duration) error
}

// FeedFetchConfig retries RSS feeds hard; feed hosts drop connections often.
func FeedFetchConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// InferenceConfig is the hosted model policy: three attempts, waiting 4s
// then 8s (capped at 10s), no jitter. Every failure is retried except
// cancellation, a rejecting circuit breaker and Permanent errors.
func InferenceConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 4 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		Retryable:    IsTransient,
	}
}

// AIAPIConfig retries paid LLM calls moderately.
func AIAPIConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// WithBackoff calls fn until it succeeds, returns a non-retryable error or
// runs out of attempts. The last error is wrapped in the exhausted case.
// Retrying stops as soon as ctx is done; a deadline inside the error chain
// with ctx still live is an ordinary failure, such as an HTTP client timeout.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(err, ctxErr) {
				return err
			}
			return fmt.Errorf("retry aborted (%w): %w", ctxErr, err)
		}
		if !retryable(err) {
			slog.Warn("non-retryable error, giving up",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		wait := addJitter(delay, cfg.JitterFraction)
		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))
		if serr := sleep(ctx, wait); serr != nil {
			return fmt.Errorf("retry aborted: %w", serr)
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable accepts network timeouts, refused or reset connections and
// HTTP 408, 429 and 5xx responses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	switch code := httpErr.StatusCode; {
	case code >= 500 && code < 600:
		return true
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// IsTransient accepts every error except circuit breaker rejections and
// Permanent errors. Context errors count as transient here: only the
// caller's own context, checked by WithBackoff, ends the retries.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var perm *PermanentError
	return !errors.As(err, &perm)
}

// PermanentError marks an error IsTransient rejects.
type PermanentError struct {
	Err error
}

// Permanent wraps err so it is not retried. Permanent(nil) is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// HTTPError carries a non-2xx status from an upstream API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- jitter does not need a secure source.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
