package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/logging"
	"newshub/internal/observability/tracing"
)

// Run statuses reported to RunRecorder.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

// Item results reported to RunRecorder.
const (
	ItemDelivered = "delivered"
	ItemDegraded  = "degraded"
	ItemFailed    = "failed"
)

// HeadlineSource returns the articles of one digest run.
type HeadlineSource interface {
	Headlines(ctx context.Context, category string, count int) ([]entity.Article, error)
}

// ArticleProcessor produces the processed article for one target language.
type ArticleProcessor interface {
	Process(ctx context.Context, article entity.Article, target entity.Language) (entity.ProcessedArticle, error)
}

// Dispatcher delivers one digest item to every enabled channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, item entity.DigestItem) error
}

// RunRecorder receives run and item outcomes.
type RunRecorder interface {
	RecordRun(status string, seconds float64)
	RecordItem(language, result string)
}

// RunnerConfig describes one digest run.
type RunnerConfig struct {
	Category  string
	Count     int
	Languages []entity.Language
	// Timeout bounds a whole run. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// RunStats summarizes a finished run.
type RunStats struct {
	Articles  int
	Delivered int
	Degraded  int
	Failed    int
	Duration  time.Duration
}

// Status classifies the run from its counters.
func (s RunStats) Status() string {
	switch {
	case s.Failed == 0 && s.Degraded == 0:
		return StatusSuccess
	case s.Delivered > 0:
		return StatusPartial
	default:
		return StatusFailure
	}
}

// Runner executes digest runs: fetch headlines, process each article for
// every target language and dispatch the results.
type Runner struct {
	news      HeadlineSource
	processor ArticleProcessor
	notifier  Dispatcher
	recorder  RunRecorder
	cfg       RunnerConfig
	logger    *slog.Logger
}

// NewRunner creates a Runner. recorder may be nil.
func NewRunner(news HeadlineSource, processor ArticleProcessor, notifier Dispatcher, recorder RunRecorder, cfg RunnerConfig, logger *slog.Logger) *Runner {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []entity.Language{entity.English}
	}
	if cfg.Category == "" {
		cfg.Category = entity.DefaultCategory
	}
	if cfg.Count == 0 {
		cfg.Count = entity.DefaultArticleCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		news:      news,
		processor: processor,
		notifier:  notifier,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run performs one digest run. Degraded articles are not delivered; their
// placeholder text is not worth publishing. The returned error is non-nil
// when headlines could not be fetched or the run was cut short by ctx.
func (r *Runner) Run(ctx context.Context) (stats RunStats, err error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	ctx = logging.ContextWithRequestID(ctx, logging.NewRequestID())
	logger := logging.WithRequestID(ctx, r.logger)

	ctx, span := tracing.StartSpan(ctx, "digest.run",
		attribute.String("digest.category", r.cfg.Category),
		attribute.Int("digest.count", r.cfg.Count),
		attribute.Int("digest.languages", len(r.cfg.Languages)))
	defer span.End()

	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		status := stats.Status()
		if err != nil {
			status = StatusFailure
			tracing.RecordError(span, err)
		}
		if r.recorder != nil {
			r.recorder.RecordRun(status, stats.Duration.Seconds())
		}
		logger.Info("digest run finished",
			slog.String("status", status),
			slog.Int("articles", stats.Articles),
			slog.Int("delivered", stats.Delivered),
			slog.Int("degraded", stats.Degraded),
			slog.Int("failed", stats.Failed),
			slog.Duration("duration", stats.Duration))
	}()

	logger.Info("digest run started",
		slog.String("category", r.cfg.Category),
		slog.Int("count", r.cfg.Count))

	articles, err := r.news.Headlines(ctx, r.cfg.Category, r.cfg.Count)
	if err != nil {
		return stats, fmt.Errorf("fetch headlines: %w", err)
	}
	stats.Articles = len(articles)

	for _, article := range articles {
		for _, lang := range r.cfg.Languages {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			result := r.deliver(ctx, logger, article, lang)
			switch result {
			case ItemDelivered:
				stats.Delivered++
			case ItemDegraded:
				stats.Degraded++
			default:
				stats.Failed++
			}
			if r.recorder != nil {
				r.recorder.RecordItem(lang.String(), result)
			}
		}
	}
	return stats, ctx.Err()
}

func (r *Runner) deliver(ctx context.Context, logger *slog.Logger, article entity.Article, lang entity.Language) string {
	processed, err := r.processor.Process(ctx, article, lang)
	if err != nil {
		if errors.Is(err, ErrDegraded) {
			logger.Warn("skipping degraded digest item",
				slog.String("article_id", article.ID),
				slog.String("language", lang.String()),
				slog.Any("error", err))
			return ItemDegraded
		}
		return ItemFailed
	}

	item := entity.DigestItem{Article: article, Processed: processed, Language: lang}
	if err := r.notifier.Dispatch(ctx, item); err != nil {
		logger.Warn("digest item delivery failed",
			slog.String("article_id", article.ID),
			slog.String("language", lang.String()),
			slog.Any("error", err))
		return ItemFailed
	}
	return ItemDelivered
}
