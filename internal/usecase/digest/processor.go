// Package digest turns fetched articles into processed articles and
// publishes them on a schedule.
//
// The Processor is shared by the interactive reader and the digest worker.
// For every (article, target language) pair it resolves the source language
// of the title first, then translates the title and the body and finally
// summarizes. Pipeline failures never abort processing: the result always
// carries displayable text and the returned error describes what degraded.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/logging"
	"newshub/internal/observability/metrics"
	"newshub/internal/observability/tracing"
)

// ErrDegraded marks a processed article built from placeholder or fallback text.
var ErrDegraded = errors.New("article processing degraded")

// Detector resolves the language of a piece of text.
type Detector interface {
	Detect(text string) entity.Language
}

// Translator translates text. On failure it still returns displayable text.
type Translator interface {
	Translate(ctx context.Context, text string, src, tgt entity.Language) (string, error)
}

// Summarizer summarizes text. On failure it still returns displayable text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// SummaryMode selects which body the summary is produced from.
type SummaryMode string

const (
	// SummarizeTranslated summarizes the translated body.
	SummarizeTranslated SummaryMode = "translated"
	// SummarizeSource summarizes the source body and translates the summary.
	SummarizeSource SummaryMode = "source"
)

// Options bound the summaries produced by a Processor.
type Options struct {
	MaxLength int
	MinLength int
	Mode      SummaryMode
}

// DefaultOptions returns the 300/80 summary bounds in translated mode.
func DefaultOptions() Options {
	return Options{MaxLength: 300, MinLength: 80, Mode: SummarizeTranslated}
}

// Processor runs detection, translation and summarization for one article.
type Processor struct {
	detector   Detector
	translator Translator
	summarizer Summarizer
	opts       Options
	logger     *slog.Logger
}

// NewProcessor creates a Processor. Zero option fields take their defaults.
func NewProcessor(detector Detector, translator Translator, summarizer Summarizer, opts Options, logger *slog.Logger) *Processor {
	defaults := DefaultOptions()
	if opts.MaxLength <= 0 {
		opts.MaxLength = defaults.MaxLength
	}
	if opts.MinLength <= 0 || opts.MinLength >= opts.MaxLength {
		opts.MinLength = min(defaults.MinLength, opts.MaxLength/2)
	}
	if opts.Mode != SummarizeSource {
		opts.Mode = SummarizeTranslated
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		detector:   detector,
		translator: translator,
		summarizer: summarizer,
		opts:       opts,
		logger:     logger,
	}
}

// Process builds the processed article for target.
//
// The result is always populated. A non-nil error wraps ErrDegraded together
// with the failures of the individual steps, or is the context error when
// ctx ended before processing finished.
func (p *Processor) Process(ctx context.Context, article entity.Article, target entity.Language) (entity.ProcessedArticle, error) {
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.ContextWithRequestID(ctx, logging.NewRequestID())
	}
	logger := logging.WithRequestID(ctx, p.logger).With(
		slog.String("article_id", article.ID),
		slog.String("target_lang", target.String()))

	ctx, span := tracing.StartSpan(ctx, "digest.process",
		attribute.String("article.id", article.ID),
		attribute.String("article.source", article.Source),
		attribute.String("language.target", target.String()))
	defer span.End()

	start := time.Now()

	// The title language must be resolved before anything else is produced.
	source := p.detect(ctx, article.Title)
	span.SetAttributes(attribute.String("language.source", source.String()))

	result := entity.ProcessedArticle{SourceLang: source}
	var errs []error

	title, err := p.translate(ctx, "title", article.Title, source, target)
	result.Title = title
	if err != nil {
		errs = append(errs, fmt.Errorf("title: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return p.abort(span, logger, result, article, err)
	}

	body := article.Body()
	content, bodyErr := p.translate(ctx, "body", body, source, target)
	result.Content = content
	if bodyErr != nil {
		errs = append(errs, fmt.Errorf("body: %w", bodyErr))
	}
	if err := ctx.Err(); err != nil {
		return p.abort(span, logger, result, article, err)
	}

	summary, err := p.summary(ctx, body, content, bodyErr != nil, source, target)
	result.Summary = summary
	if err != nil {
		errs = append(errs, err)
	}
	if err := ctx.Err(); err != nil {
		return p.abort(span, logger, result, article, err)
	}

	degraded := len(errs) > 0
	metrics.RecordArticleProcessed(target.String(), degraded, time.Since(start))

	if !degraded {
		logger.Debug("article processed",
			slog.String("source_lang", source.String()),
			slog.Duration("duration", time.Since(start)))
		return result, nil
	}

	err = fmt.Errorf("%w: %w", ErrDegraded, errors.Join(errs...))
	tracing.RecordError(span, err)
	logger.Warn("article processed with degraded output",
		slog.String("source_lang", source.String()),
		slog.Duration("duration", time.Since(start)),
		slog.Any("error", err))
	return result, err
}

func (p *Processor) detect(ctx context.Context, title string) entity.Language {
	_, span := tracing.StartSpan(ctx, "digest.detect")
	defer span.End()

	lang := p.detector.Detect(title)
	span.SetAttributes(attribute.String("language.detected", lang.String()))
	return lang
}

func (p *Processor) translate(ctx context.Context, field, text string, src, tgt entity.Language) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "digest.translate",
		attribute.String("translate.field", field),
		attribute.Int("translate.input_length", len(text)))
	defer span.End()

	out, err := p.translator.Translate(ctx, text, src, tgt)
	tracing.RecordError(span, err)
	return out, err
}

// summary follows the configured mode. When source and target match, both
// modes summarize the source body. A failed body translation is never
// summarized: translated mode then summarizes the source body and leaves
// the summary in the source language.
func (p *Processor) summary(ctx context.Context, body, translated string, translateFailed bool, src, tgt entity.Language) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "digest.summarize",
		attribute.String("summary.mode", string(p.opts.Mode)),
		attribute.Bool("summary.translation_failed", translateFailed))
	defer span.End()

	input := translated
	if src == tgt || p.opts.Mode == SummarizeSource || translateFailed {
		input = body
	}

	summary, err := p.summarizer.Summarize(ctx, input, p.opts.MaxLength, p.opts.MinLength)
	if err != nil {
		err = fmt.Errorf("summary: %w", err)
		tracing.RecordError(span, err)
	}
	if p.opts.Mode != SummarizeSource || src == tgt || ctx.Err() != nil {
		return summary, err
	}

	translatedSummary, terr := p.translator.Translate(ctx, summary, src, tgt)
	if terr != nil {
		terr = fmt.Errorf("summary translation: %w", terr)
		tracing.RecordError(span, terr)
	}
	return translatedSummary, errors.Join(err, terr)
}

// abort returns what was produced so far, padded with the source text.
func (p *Processor) abort(span trace.Span, logger *slog.Logger, result entity.ProcessedArticle, article entity.Article, err error) (entity.ProcessedArticle, error) {
	tracing.RecordError(span, err)
	if result.Title == "" {
		result.Title = article.Title
	}
	if result.Content == "" {
		result.Content = article.Body()
	}
	logger.Info("article processing cancelled", slog.Any("error", err))
	return result, err
}
