package fetcher

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/utils/text"
)

// ContentFetcher returns the full readable text of an article page.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// truncationMarker matches the "[+1234 chars]" suffix NewsAPI appends to
// clipped article bodies.
var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

// Enhancer replaces clipped article bodies with the page's full text.
// Fetch failures are logged and leave the article untouched.
type Enhancer struct {
	fetcher ContentFetcher
	config  ContentFetchConfig
	logger  *slog.Logger
}

// NewEnhancer creates an Enhancer. A disabled config makes Enhance a no-op.
func NewEnhancer(fetcher ContentFetcher, config ContentFetchConfig, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	return &Enhancer{fetcher: fetcher, config: config, logger: logger}
}

// Enabled reports whether enhancement runs at all.
func (e *Enhancer) Enabled() bool {
	return e != nil && e.config.Enabled && e.fetcher != nil
}

// Enhance returns a copy of articles with clipped bodies replaced by the
// fetched page text when that text is longer. Order is preserved.
func (e *Enhancer) Enhance(ctx context.Context, articles []entity.Article) []entity.Article {
	out := make([]entity.Article, len(articles))
	copy(out, articles)
	if !e.Enabled() {
		return out
	}

	var eg errgroup.Group
	eg.SetLimit(e.config.Parallelism)
	for i := range out {
		if !e.needsFetch(out[i]) {
			metrics.RecordContentFetchSkipped()
			continue
		}
		eg.Go(func() error {
			out[i].Content = e.enhanceOne(ctx, out[i])
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func (e *Enhancer) needsFetch(a entity.Article) bool {
	if strings.TrimSpace(a.URL) == "" {
		return false
	}
	if truncationMarker.MatchString(a.Content) {
		return true
	}
	return text.CountRunes(a.Content) < e.config.Threshold
}

func (e *Enhancer) enhanceOne(ctx context.Context, a entity.Article) string {
	start := time.Now()
	full, err := e.fetcher.FetchContent(ctx, a.URL)
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		e.logger.Warn("content fetch failed, keeping source body",
			slog.String("url", a.URL),
			slog.Any("error", err))
		return a.Content
	}
	metrics.RecordContentFetchSuccess(time.Since(start))

	full = strings.TrimSpace(full)
	current := truncationMarker.ReplaceAllString(a.Content, "")
	if text.CountRunes(full) <= text.CountRunes(current) {
		return a.Content
	}
	return full
}
