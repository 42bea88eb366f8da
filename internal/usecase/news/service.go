// Package news fetches headline lists from the configured source and
// optionally replaces clipped bodies with the full article text.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/tracing"
)

// Source fetches the latest headlines for a category.
type Source interface {
	Name() string
	FetchLatest(ctx context.Context, category string, count int) ([]entity.Article, error)
}

// Enhancer replaces clipped article bodies. It never fails; articles it
// cannot improve are returned unchanged.
type Enhancer interface {
	Enhance(ctx context.Context, articles []entity.Article) []entity.Article
}

// Service is the headline use case shared by the reader and the digest worker.
type Service struct {
	source   Source
	enhancer Enhancer
	logger   *slog.Logger
}

// NewService creates a Service. enhancer may be nil.
func NewService(source Source, enhancer Enhancer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, enhancer: enhancer, logger: logger}
}

// SourceName reports which source backs the service.
func (s *Service) SourceName() string {
	return s.source.Name()
}

// Headlines returns up to count articles for category, newest as ordered by
// the source. Source errors (ErrMissingCredential, ErrFetchFailed,
// ErrEmptyResult) are returned unchanged for the caller to display.
func (s *Service) Headlines(ctx context.Context, category string, count int) ([]entity.Article, error) {
	if !entity.IsCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", entity.ErrInvalidInput, category)
	}
	if count < entity.MinArticleCount || count > entity.MaxArticleCount {
		return nil, fmt.Errorf("%w: article count %d outside %d-%d",
			entity.ErrInvalidInput, count, entity.MinArticleCount, entity.MaxArticleCount)
	}

	ctx, span := tracing.StartSpan(ctx, "news.headlines",
		attribute.String("news.source", s.source.Name()),
		attribute.String("news.category", category),
		attribute.Int("news.count", count))
	defer span.End()

	start := time.Now()
	articles, err := s.source.FetchLatest(ctx, category, count)
	if err != nil {
		tracing.RecordError(span, err)
		s.logger.Warn("headline fetch failed",
			slog.String("source", s.source.Name()),
			slog.String("category", category),
			slog.Any("error", err))
		return nil, err
	}

	if s.enhancer != nil {
		articles = s.enhancer.Enhance(ctx, articles)
	}

	span.SetAttributes(attribute.Int("news.articles", len(articles)))
	s.logger.Info("headlines fetched",
		slog.String("source", s.source.Name()),
		slog.String("category", category),
		slog.Int("articles", len(articles)),
		slog.Duration("duration", time.Since(start)))
	return articles, nil
}
