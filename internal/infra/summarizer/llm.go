package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"newshub/internal/observability/metrics"
	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
	"newshub/internal/utils/text"
)

// maxPromptChars bounds the article text placed in a prompt.
const maxPromptChars = 10000

// LLMConfig configures a chat model summarizer.
type LLMConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// BaseURL overrides the provider endpoint. Empty means the SDK default.
	BaseURL string
	// Retry governs each request. Zero means retry.AIAPIConfig().
	Retry retry.Config
}

func (c LLMConfig) withDefaults() LLMConfig {
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		sleep := c.Retry.Sleep
		c.Retry = retry.AIAPIConfig()
		c.Retry.Sleep = sleep
	}
	return c
}

// chatSummarizer holds what Claude and OpenAI share: the prompt, retry
// around the circuit breaker, and metrics.
type chatSummarizer struct {
	service         string
	config          LLMConfig
	complete        func(ctx context.Context, prompt string) (string, error)
	circuitBreaker  *circuitbreaker.CircuitBreaker
	metricsRecorder SummaryMetricsRecorder
}

func (s *chatSummarizer) summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	if tooShort(input) {
		metrics.RecordSummary(outcomeShort)
		return input, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	requestID := uuid.New().String()
	prompt := buildPrompt(input, maxLength, minLength)
	start := time.Now()

	slog.InfoContext(ctx, "Starting summarization",
		slog.String("request_id", requestID),
		slog.String("service", s.service),
		slog.Int("input_length", text.CountRunes(input)),
		slog.Int("max_length", maxLength))

	var summary string
	err := retry.WithBackoff(ctx, s.config.Retry, func() error {
		out, err := circuitbreaker.Run(s.circuitBreaker, func() (string, error) {
			return s.complete(ctx, prompt)
		})
		if err != nil {
			return err
		}
		summary = strings.TrimSpace(out)
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		metrics.RecordSummary(outcomeFailed)
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("request_id", requestID),
			slog.String("service", s.service),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return degrade(input, maxLength, fmt.Errorf("%s: %w", s.service, err))
	}

	summaryLength := text.CountRunes(summary)
	recordResult(s.metricsRecorder, summaryLength, maxLength, duration)
	metrics.RecordSummary(outcomeOK)

	slog.InfoContext(ctx, "Summarization completed",
		slog.String("request_id", requestID),
		slog.String("service", s.service),
		slog.Int("summary_length", summaryLength),
		slog.Bool("within_limit", summaryLength <= maxLength),
		slog.Duration("duration", duration))

	return text.Clamp(summary, maxLength), nil
}

// buildPrompt asks for a summary between minLength and maxLength characters
// in the language of the article.
func buildPrompt(input string, maxLength, minLength int) string {
	if text.CountRunes(input) > maxPromptChars {
		input = text.Truncate(input, maxPromptChars)
	}
	return fmt.Sprintf("Summarize the following news article in %d to %d characters, "+
		"in the same language as the article. Reply with the summary only.\n\n%s",
		minLength, maxLength, input)
}
