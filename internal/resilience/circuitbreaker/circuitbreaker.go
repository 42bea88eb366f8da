// Package circuitbreaker guards calls to external services with
// github.com/sony/gobreaker so a failing dependency is skipped for a while
// instead of being retried on every request.
package circuitbreaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"newshub/internal/observability/metrics"
)

// Config describes when a breaker trips and how it recovers.
type Config struct {
	Name string

	// MaxRequests is the number of trial requests let through while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts; Timeout is the open period.
	Interval time.Duration
	Timeout  time.Duration

	// The circuit trips once at least MinRequests were seen and the failure
	// ratio reaches FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32
}

// LocalModelConfig trips early: a local model failure usually means the
// server is down.
func LocalModelConfig() Config {
	return Config{
		Name:             "local-model",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      3,
	}
}

// FeedFetchConfig tolerates flaky feed hosts: the circuit opens only when
// most of a larger sample fails.
func FeedFetchConfig() Config {
	return Config{
		Name:             "feed-fetch",
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          2 * time.Minute,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

func ClaudeAPIConfig() Config { return llmConfig("claude-api") }

func OpenAIAPIConfig() Config { return llmConfig("openai-api") }

func llmConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// WebScraperConfig guards full-text page fetches. Sites that block scraping
// stay blocked, so the open period is long.
func WebScraperConfig() Config {
	return Config{
		Name:             "web-scraper",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          time.Hour,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker is a named gobreaker that logs and exports state changes.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			metrics.RecordCircuitState(name, int(to))
		},
	}
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings), name: cfg.Name}
}

// Run executes fn through cb and returns its typed result.
// Rejections are wrapped with the circuit name and still match
// gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("circuit %s: %w", cb.name, err)
		}
		return zero, err
	}
	v, _ := result.(T)
	return v, nil
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}
