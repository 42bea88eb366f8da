package translator

import (
	"context"
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

// Inferer sends one request to a hosted model.
type Inferer interface {
	HasCredential() bool
	Infer(ctx context.Context, model, input string) (*huggingface.Response, error)
}

// HostedConfig configures the hosted pipeline.
type HostedConfig struct {
	// PrimaryModel is a template; {src} and {tgt} are replaced by the
	// hyphenated locale tags of the language pair.
	PrimaryModel string
	// FallbackModel is the multilingual model tried once after the primary fails.
	FallbackModel string
	// MaxInputChars caps the text sent to either model.
	MaxInputChars int
	// Retry governs the primary model. Zero means retry.InferenceConfig().
	Retry retry.Config
}

// DefaultHostedConfig returns the stock model pair.
func DefaultHostedConfig() HostedConfig {
	return HostedConfig{
		PrimaryModel:  "Helsinki-NLP/opus-mt-{src}-{tgt}",
		FallbackModel: "facebook/mbart-large-50-many-to-many-mmt",
		MaxInputChars: 1000,
		Retry:         retry.InferenceConfig(),
	}
}

// Hosted translates with a per-pair model and falls back to a multilingual one.
type Hosted struct {
	client Inferer
	config HostedConfig
	logger *slog.Logger
}

// NewHosted creates a hosted translator.
func NewHosted(client Inferer, cfg HostedConfig, logger *slog.Logger) *Hosted {
	defaults := DefaultHostedConfig()
	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = defaults.PrimaryModel
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = defaults.FallbackModel
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = defaults.MaxInputChars
	}
	if cfg.Retry.MaxAttempts == 0 {
		sleep := cfg.Retry.Sleep
		cfg.Retry = defaults.Retry
		cfg.Retry.Sleep = sleep
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hosted{client: client, config: cfg, logger: logger}
}

// Translate translates input from src to tgt.
func (h *Hosted) Translate(ctx context.Context, input string, src, tgt entity.Language) (string, error) {
	if src == tgt {
		metrics.RecordTranslation(outcomeIdentity)
		return input, nil
	}
	if !h.client.HasCredential() {
		metrics.RecordTranslation(outcomeUnavailable)
		return unavailablePlaceholder(input), fmt.Errorf("%w: inference API key not set", entity.ErrMissingCredential)
	}

	start := time.Now()
	capped := text.Truncate(input, h.config.MaxInputChars)

	model := h.PrimaryModel(src, tgt)
	out, err := h.translatePrimary(ctx, model, capped)
	if err == nil {
		metrics.RecordTranslation(outcomePrimary)
		h.logger.DebugContext(ctx, "translation completed",
			slog.String("model", model),
			slog.String("source", src.String()),
			slog.String("target", tgt.String()),
			slog.Duration("duration", time.Since(start)))
		return out, nil
	}

	if ctx.Err() != nil {
		metrics.RecordTranslation(outcomeFailed)
		return failedPlaceholder(input, ctx.Err()), fmt.Errorf("%w: %w", entity.ErrTranslationFailed, ctx.Err())
	}

	h.logger.WarnContext(ctx, "primary translation model failed, trying fallback",
		slog.String("model", model),
		slog.String("fallback", h.config.FallbackModel),
		slog.Any("error", err))

	out, fbErr := h.translateFallback(ctx, capped, src, tgt)
	if fbErr == nil {
		metrics.RecordTranslation(outcomeFallback)
		return out, nil
	}

	metrics.RecordTranslation(outcomeFailed)
	h.logger.ErrorContext(ctx, "translation failed",
		slog.String("source", src.String()),
		slog.String("target", tgt.String()),
		slog.Any("primary_error", err),
		slog.Any("fallback_error", fbErr))
	return failedPlaceholder(input, fbErr), fmt.Errorf("%w: %w", entity.ErrTranslationFailed, fbErr)
}

// PrimaryModel returns the per-pair model name, e.g.
// "Helsinki-NLP/opus-mt-en-XX-hi-IN" for English to Hindi.
func (h *Hosted) PrimaryModel(src, tgt entity.Language) string {
	return strings.NewReplacer(
		"{src}", hyphenated(src),
		"{tgt}", hyphenated(tgt),
	).Replace(h.config.PrimaryModel)
}

func (h *Hosted) translatePrimary(ctx context.Context, model, input string) (string, error) {
	var out string
	err := retry.WithBackoff(ctx, h.config.Retry, func() error {
		resp, err := h.client.Infer(ctx, model, input)
		if err != nil {
			return err
		}

		first, _ := resp.First()
		if resp.List {
			out = first.TranslationText
		} else {
			out = first.GeneratedText
		}
		if out == "" {
			return retry.Permanent(fmt.Errorf("%w: model %s", entity.ErrEmptyResult, model))
		}
		return nil
	})
	return out, err
}

func (h *Hosted) translateFallback(ctx context.Context, input string, src, tgt entity.Language) (string, error) {
	model := h.config.FallbackModel
	resp, err := h.client.Infer(ctx, model, src.LocaleTag()+" "+input)
	if err != nil {
		return "", err
	}
	if !resp.List {
		return "", fmt.Errorf("%s returned an unexpected response shape", model)
	}

	first, _ := resp.First()
	out := strings.TrimSpace(strings.ReplaceAll(first.GeneratedText, tgt.LocaleTag(), ""))
	if out == "" {
		return "", fmt.Errorf("%w: model %s", entity.ErrEmptyResult, model)
	}
	return out, nil
}

func hyphenated(lang entity.Language) string {
	return strings.ReplaceAll(lang.LocaleTag(), "_", "-")
}

