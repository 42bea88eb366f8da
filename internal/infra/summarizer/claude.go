package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude summarizes with Anthropic's Messages API.
type Claude struct {
	client anthropic.Client
	chat   chatSummarizer
}

// NewClaude creates a Claude summarizer.
func NewClaude(cfg LLMConfig) *Claude {
	cfg = cfg.withDefaults()
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	c := &Claude{client: anthropic.NewClient(opts...)}
	c.chat = chatSummarizer{
		service:         "claude-api",
		config:          cfg,
		complete:        c.complete,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}

	slog.Info("Initialized Claude summarizer", slog.String("model", cfg.Model))
	return c
}

// Summarize implements Summarizer.
func (c *Claude) Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	return c.chat.summarize(ctx, input, maxLength, minLength)
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.chat.config.Model),
		MaxTokens: int64(c.chat.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w",
				&retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", errors.New("claude api returned empty response")
	}
	block, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok || block.Text == "" {
		return "", errors.New("claude api returned unexpected response type")
	}
	return block.Text, nil
}
