// Package huggingface is a client for the hosted model inference API.
// Every call is a single POST of {"inputs": text} to {base}/{model};
// retry policy belongs to the callers.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/resilience/retry"
	"newshub/internal/utils/text"
)

const (
	backendName = "huggingface"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20
	// maxErrorSnippet bounds the body excerpt kept in error messages.
	maxErrorSnippet = 200
)

// Config holds the endpoint settings.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Output is one element of an inference response. Which field is set
// depends on the model's pipeline.
type Output struct {
	SummaryText     string `json:"summary_text"`
	TranslationText string `json:"translation_text"`
	GeneratedText   string `json:"generated_text"`
}

// Response is a decoded inference response.
type Response struct {
	// List reports whether the endpoint answered with a JSON array.
	List    bool
	Outputs []Output
}

// First returns the first output, if any.
func (r *Response) First() (Output, bool) {
	if r == nil || len(r.Outputs) == 0 {
		return Output{}, false
	}
	return r.Outputs[0], true
}

// Client calls hosted models. It is safe for concurrent use.
type Client struct {
	config     Config
	task       string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient returns a client for one task ("translation", "summarization"),
// used as the metrics label.
func NewClient(cfg Config, task string, opts ...Option) *Client {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		config:     cfg,
		task:       task,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.config.APIKey != ""
}

// Infer sends input to model once. Failures are *entity.TransientRequestError
// for transport errors and non-2xx responses; a missing key is reported as
// entity.ErrMissingCredential and marked permanent. Every call reaches
// the endpoint; nothing short-circuits repeated failures.
func (c *Client) Infer(ctx context.Context, model, input string) (*Response, error) {
	if !c.HasCredential() {
		return nil, retry.Permanent(fmt.Errorf("%w: inference API key not set", entity.ErrMissingCredential))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	return c.doInfer(ctx, model, input)
}

func (c *Client) doInfer(ctx context.Context, model, input string) (resp *Response, err error) {
	requestID := uuid.New().String()
	start := time.Now()
	logger := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("model", model),
		slog.String("task", c.task))

	defer func() {
		duration := time.Since(start)
		metrics.RecordInference(backendName, c.task, err == nil, duration)
		if err != nil {
			logger.WarnContext(ctx, "inference request failed",
				slog.Duration("duration", duration),
				slog.Any("error", err))
			return
		}
		logger.DebugContext(ctx, "inference request completed",
			slog.Duration("duration", duration),
			slog.Int("outputs", len(resp.Outputs)))
	}()

	payload, err := json.Marshal(map[string]string{"inputs": input})
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("marshal inference payload: %w", err))
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create inference request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &entity.TransientRequestError{Message: err.Error(), Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &entity.TransientRequestError{StatusCode: httpResp.StatusCode, Message: "read response body", Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &entity.TransientRequestError{
			StatusCode: httpResp.StatusCode,
			Message:    snippet(body),
		}
	}

	return decodeResponse(body)
}

// decodeResponse accepts either a list of outputs or a single output object.
func decodeResponse(body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode inference response: empty body")
	}

	switch trimmed[0] {
	case '[':
		var outputs []Output
		if err := json.Unmarshal(trimmed, &outputs); err != nil {
			return nil, fmt.Errorf("decode inference response: %w", err)
		}
		return &Response{List: true, Outputs: outputs}, nil
	case '{':
		var output Output
		if err := json.Unmarshal(trimmed, &output); err != nil {
			return nil, fmt.Errorf("decode inference response: %w", err)
		}
		return &Response{Outputs: []Output{output}}, nil
	default:
		return nil, fmt.Errorf("decode inference response: unexpected payload %q", snippet(trimmed))
	}
}

func snippet(body []byte) string {
	return text.Truncate(strings.TrimSpace(string(body)), maxErrorSnippet)
}
