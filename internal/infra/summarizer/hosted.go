package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/huggingface"
	"newshub/internal/observability/metrics"
	"newshub/internal/resilience/retry"
	"newshub/internal/utils/text"
)

// minChunkSummaryChars is the length a chunk summary must exceed to be kept.
const minChunkSummaryChars = 20

// Inferer sends one request to a hosted model.
type Inferer interface {
	HasCredential() bool
	Infer(ctx context.Context, model, input string) (*huggingface.Response, error)
}

// HostedConfig configures the hosted pipeline.
type HostedConfig struct {
	Model string
	// Retry governs each chunk request. Zero means retry.InferenceConfig().
	Retry retry.Config
}

// Hosted summarizes long text chunk by chunk with a hosted model.
type Hosted struct {
	client          Inferer
	config          HostedConfig
	metricsRecorder SummaryMetricsRecorder
	logger          *slog.Logger
}

// NewHosted creates a hosted summarizer.
func NewHosted(client Inferer, cfg HostedConfig, logger *slog.Logger) *Hosted {
	if cfg.Model == "" {
		cfg.Model = "facebook/bart-large-cnn"
	}
	if cfg.Retry.MaxAttempts == 0 {
		sleep := cfg.Retry.Sleep
		cfg.Retry = retry.InferenceConfig()
		cfg.Retry.Sleep = sleep
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hosted{
		client:          client,
		config:          cfg,
		metricsRecorder: NewPrometheusSummaryMetrics(),
		logger:          logger,
	}
}

// Summarize summarizes up to the first five chunks of input and joins the
// results. Chunks whose request fails, or whose summary is too short, are
// left out.
func (h *Hosted) Summarize(ctx context.Context, input string, maxLength, _ int) (string, error) {
	if tooShort(input) {
		metrics.RecordSummary(outcomeShort)
		return input, nil
	}
	if !h.client.HasCredential() {
		metrics.RecordSummary(outcomeUnavailable)
		return text.TruncateWithEllipsis(input, maxLength),
			fmt.Errorf("%w: inference API key not set", entity.ErrMissingCredential)
	}

	start := time.Now()
	chunks := splitChunks(input)
	summaries := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		summary, err := h.summarizeChunk(ctx, chunk)
		if err != nil {
			metrics.RecordSummaryChunk("failed")
			h.logger.WarnContext(ctx, "chunk summarization failed",
				slog.String("model", h.config.Model),
				slog.Int("chunk", i),
				slog.Any("error", err))
			continue
		}
		if text.CountRunes(summary) <= minChunkSummaryChars {
			metrics.RecordSummaryChunk("discarded")
			continue
		}
		metrics.RecordSummaryChunk("kept")
		summaries = append(summaries, summary)
	}

	if err := ctx.Err(); err != nil {
		metrics.RecordSummary(outcomeFailed)
		return degrade(input, maxLength, err)
	}
	if len(summaries) == 0 {
		metrics.RecordSummary(outcomeFailed)
		return degrade(input, maxLength, errors.New("no chunk produced a usable summary"))
	}

	combined := strings.Join(summaries, " ")
	recordResult(h.metricsRecorder, text.CountRunes(combined), maxLength, time.Since(start))
	metrics.RecordSummary(outcomeOK)

	h.logger.DebugContext(ctx, "summarization completed",
		slog.String("model", h.config.Model),
		slog.Int("chunks", len(chunks)),
		slog.Int("kept", len(summaries)),
		slog.Duration("duration", time.Since(start)))

	return text.Clamp(combined, maxLength), nil
}

func (h *Hosted) summarizeChunk(ctx context.Context, chunk string) (string, error) {
	var summary string
	err := retry.WithBackoff(ctx, h.config.Retry, func() error {
		resp, err := h.client.Infer(ctx, h.config.Model, chunk)
		if err != nil {
			return err
		}
		first, _ := resp.First()
		summary = first.SummaryText
		return nil
	})
	return summary, err
}
