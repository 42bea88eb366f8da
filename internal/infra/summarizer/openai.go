package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI summarizes with the chat completions API.
type OpenAI struct {
	client *openai.Client
	chat   chatSummarizer
}

// NewOpenAI creates an OpenAI summarizer.
func NewOpenAI(cfg LLMConfig) *OpenAI {
	cfg = cfg.withDefaults()
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	o := &OpenAI{client: openai.NewClientWithConfig(clientCfg)}
	o.chat = chatSummarizer{
		service:         "openai-api",
		config:          cfg,
		complete:        o.complete,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}

	slog.Info("Initialized OpenAI summarizer", slog.String("model", cfg.Model))
	return o
}

// Summarize implements Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	return o.chat.summarize(ctx, input, maxLength, minLength)
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.chat.config.Model,
		MaxTokens: o.chat.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", statusError(err))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// statusError turns SDK errors carrying an HTTP status into *retry.HTTPError
// so the retry policy can judge them.
func statusError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return err
}
