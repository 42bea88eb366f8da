package translator

import (
	"context"
	"fmt"
	"log/slog"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/localmodel"
	"newshub/internal/observability/metrics"
	"newshub/internal/utils/text"
)

// Generation settings for the local multilingual model.
const (
	localMaxInputTokens    = 512
	localNumBeams          = 4
	localNoRepeatNgramSize = 3
)

// Generator runs one generation on the local model server.
type Generator interface {
	Generate(ctx context.Context, req localmodel.GenerateRequest) (string, error)
}

// LocalConfig configures the local pipeline.
type LocalConfig struct {
	Model         string
	MaxInputChars int
	MaxLength     int
}

// Local translates with a model served by the local model server.
// The model must have been loaded before the first call.
type Local struct {
	gen    Generator
	config LocalConfig
	logger *slog.Logger
}

// NewLocal creates a local translator.
func NewLocal(gen Generator, cfg LocalConfig, logger *slog.Logger) *Local {
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 1000
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{gen: gen, config: cfg, logger: logger}
}

// Translate translates input from src to tgt.
func (l *Local) Translate(ctx context.Context, input string, src, tgt entity.Language) (string, error) {
	if src == tgt {
		metrics.RecordTranslation(outcomeIdentity)
		return input, nil
	}

	out, err := l.gen.Generate(ctx, localmodel.GenerateRequest{
		Task:              "translation",
		Model:             l.config.Model,
		Text:              text.Truncate(input, l.config.MaxInputChars),
		SourceLang:        src.LocaleTag(),
		TargetLang:        tgt.LocaleTag(),
		MaxInputTokens:    localMaxInputTokens,
		MaxLength:         l.config.MaxLength,
		NumBeams:          localNumBeams,
		NoRepeatNgramSize: localNoRepeatNgramSize,
		EarlyStopping:     true,
	})
	if err != nil {
		metrics.RecordTranslation(outcomeFailed)
		l.logger.ErrorContext(ctx, "local translation failed",
			slog.String("model", l.config.Model),
			slog.String("source", src.String()),
			slog.String("target", tgt.String()),
			slog.Any("error", err))
		return failedPlaceholder(input, err), fmt.Errorf("%w: %w", entity.ErrTranslationFailed, err)
	}

	metrics.RecordTranslation(outcomeLocal)
	return out, nil
}
