package summarizer

import (
	"context"
	"log/slog"
	"time"

	"newshub/internal/infra/localmodel"
	"newshub/internal/observability/metrics"
	"newshub/internal/utils/text"
)

// Generation settings for the local summarization model.
const (
	localMaxInputTokens    = 1024
	localNumBeams          = 4
	localLengthPenalty     = 2.0
	localNoRepeatNgramSize = 3
)

// Generator runs one generation on the local model server.
type Generator interface {
	Generate(ctx context.Context, req localmodel.GenerateRequest) (string, error)
}

// Local summarizes in a single generation on the local model server.
// Input beyond the model's token budget is cut by the server.
type Local struct {
	gen             Generator
	model           string
	metricsRecorder SummaryMetricsRecorder
	logger          *slog.Logger
}

// NewLocal creates a local summarizer for model, which must already be loaded.
func NewLocal(gen Generator, model string, logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{
		gen:             gen,
		model:           model,
		metricsRecorder: NewPrometheusSummaryMetrics(),
		logger:          logger,
	}
}

// Summarize implements Summarizer.
func (l *Local) Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	if tooShort(input) {
		metrics.RecordSummary(outcomeShort)
		return input, nil
	}

	start := time.Now()
	summary, err := l.gen.Generate(ctx, localmodel.GenerateRequest{
		Task:              "summarization",
		Model:             l.model,
		Text:              input,
		MaxInputTokens:    localMaxInputTokens,
		MaxLength:         maxLength,
		MinLength:         minLength,
		NumBeams:          localNumBeams,
		LengthPenalty:     localLengthPenalty,
		NoRepeatNgramSize: localNoRepeatNgramSize,
		EarlyStopping:     true,
	})
	if err != nil {
		metrics.RecordSummary(outcomeFailed)
		l.logger.ErrorContext(ctx, "local summarization failed",
			slog.String("model", l.model),
			slog.Any("error", err))
		return degrade(input, maxLength, err)
	}

	recordResult(l.metricsRecorder, text.CountRunes(summary), maxLength, time.Since(start))
	metrics.RecordSummary(outcomeOK)
	return summary, nil
}
