// Package scraper reads headlines from RSS and Atom feeds.
// It uses the gofeed library to parse feed content with reliability patterns.
package scraper

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

const sourceName = "rss"

// FeedItem is one parsed feed entry with HTML already stripped.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	Description string
	Source      string
	ImageURL    string
	PublishedAt string
}

// RSSFetcher fetches and parses a single feed.
// It includes circuit breaker and retry logic for improved reliability.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// RSSOption customizes an RSSFetcher.
type RSSOption func(*RSSFetcher)

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg retry.Config) RSSOption {
	return func(f *RSSFetcher) { f.retryConfig = cfg }
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
func NewRSSFetcher(client *http.Client, opts ...RSSOption) *RSSFetcher {
	f := &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]FeedItem, error) {
	var items []FeedItem

	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		result, err := circuitbreaker.Run(f.circuitBreaker, func() ([]FeedItem, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			return err
		}
		items = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "NewshubBot"
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, FeedItem{
			Title:       StripHTML(it.Title),
			URL:         it.Link,
			Content:     StripHTML(it.Content),
			Description: StripHTML(it.Description),
			Source:      strings.TrimSpace(feed.Title),
			ImageURL:    imageURL(it),
			PublishedAt: publishedAt(it),
		})
	}
	return items, nil
}

func publishedAt(it *gofeed.Item) string {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC().Format(time.RFC3339)
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

func imageURL(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// StripHTML returns the text of an HTML fragment with whitespace collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// RSSSource serves headlines per category from configured feeds.
type RSSSource struct {
	fetcher *RSSFetcher
	feeds   map[string][]string
	logger  *slog.Logger
}

// NewRSSSource creates a source over feeds, keyed by category.
func NewRSSSource(fetcher *RSSFetcher, feeds map[string][]string, logger *slog.Logger) *RSSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSSource{fetcher: fetcher, feeds: feeds, logger: logger}
}

// Name identifies the source in logs and metrics.
func (s *RSSSource) Name() string { return sourceName }

// FetchLatest returns up to count usable entries for category, newest first.
// A feed that fails is skipped; the fetch fails only when every feed does.
func (s *RSSSource) FetchLatest(ctx context.Context, category string, count int) ([]entity.Article, error) {
	start := time.Now()

	urls := s.feeds[category]
	if len(urls) == 0 {
		metrics.RecordNewsFetch(sourceName, "misconfigured", time.Since(start))
		return nil, fmt.Errorf("%w: no feeds configured for category %q", entity.ErrFetchFailed, category)
	}

	var (
		articles []entity.Article
		errs     []error
		dropped  int
	)
	for _, u := range urls {
		items, err := s.fetcher.Fetch(ctx, u)
		if err != nil {
			s.logger.WarnContext(ctx, "feed fetch failed",
				slog.String("url", u),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", u, err))
			continue
		}
		for _, it := range items {
			if !entity.IsUsable(it.Title, it.Content, it.Description) {
				dropped++
				continue
			}
			content := it.Content
			if strings.TrimSpace(content) == "" {
				content = it.Description
			}
			article := entity.NewArticle(it.Title, content, it.Source, it.URL, it.PublishedAt, it.ImageURL)
			if err := article.Validate(); err != nil {
				s.logger.DebugContext(ctx, "dropping invalid feed item",
					slog.String("feed", u),
					slog.String("link", it.URL),
					slog.Any("error", err))
				dropped++
				continue
			}
			articles = append(articles, article)
		}
	}

	if len(errs) == len(urls) {
		metrics.RecordNewsFetch(sourceName, "failure", time.Since(start))
		return nil, fmt.Errorf("%w: %w", entity.ErrFetchFailed, errors.Join(errs...))
	}

	// RFC3339 UTC timestamps sort chronologically as strings.
	slices.SortStableFunc(articles, func(a, b entity.Article) int {
		return cmp.Compare(b.PublishedAt, a.PublishedAt)
	})
	if len(articles) > count {
		articles = articles[:count]
	}
	metrics.RecordArticlesFetched(sourceName, category, len(articles), dropped)

	if len(articles) == 0 {
		metrics.RecordNewsFetch(sourceName, "empty", time.Since(start))
		return nil, fmt.Errorf("%w: no usable %s entries", entity.ErrEmptyResult, category)
	}

	metrics.RecordNewsFetch(sourceName, "success", time.Since(start))
	return articles, nil
}
