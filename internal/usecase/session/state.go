// Package session holds the state of one interactive reading session: the
// fetched articles, the current position, the target language and the cache
// of processed articles.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
)

// ErrNoArticles is returned by Current before a successful Refresh.
var ErrNoArticles = errors.New("no articles loaded")

// HeadlineSource fetches the articles shown in a session.
type HeadlineSource interface {
	Headlines(ctx context.Context, category string, count int) ([]entity.Article, error)
}

// ArticleProcessor produces the processed article for one target language.
type ArticleProcessor interface {
	Process(ctx context.Context, article entity.Article, target entity.Language) (entity.ProcessedArticle, error)
}

// Settings are the initial session parameters.
type Settings struct {
	Language entity.Language
	Category string
	Count    int
}

// DefaultSettings returns Hindi, general, five articles.
func DefaultSettings() Settings {
	return Settings{
		Language: entity.Hindi,
		Category: entity.DefaultCategory,
		Count:    entity.DefaultArticleCount,
	}
}

type cacheKey struct {
	articleID string
	language  entity.Language
}

type cacheEntry struct {
	article entity.ProcessedArticle
	err     error
}

// View is the article currently on display.
type View struct {
	Article   entity.Article
	Processed entity.ProcessedArticle
	// Err is the degradation reported while processing, if any.
	Err   error
	Index int
	Total int
}

// HasPrev reports whether Prev would move.
func (v View) HasPrev() bool { return v.Index > 0 }

// HasNext reports whether Next would move.
func (v View) HasNext() bool { return v.Index < v.Total-1 }

// State is safe for concurrent use.
type State struct {
	news      HeadlineSource
	processor ArticleProcessor
	logger    *slog.Logger

	mu       sync.Mutex
	articles []entity.Article
	index    int
	language entity.Language
	category string
	count    int
	cache    map[cacheKey]cacheEntry
}

// New creates a State. Invalid settings fall back to their defaults.
func New(news HeadlineSource, processor ArticleProcessor, settings Settings, logger *slog.Logger) *State {
	defaults := DefaultSettings()
	if !settings.Language.IsSupported() {
		settings.Language = defaults.Language
	}
	if !entity.IsCategory(settings.Category) {
		settings.Category = defaults.Category
	}
	if settings.Count < entity.MinArticleCount || settings.Count > entity.MaxArticleCount {
		settings.Count = defaults.Count
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		news:      news,
		processor: processor,
		logger:    logger,
		language:  settings.Language,
		category:  settings.Category,
		count:     settings.Count,
		cache:     make(map[cacheKey]cacheEntry),
	}
}

// Refresh replaces the articles with a fresh fetch and resets the position
// and the cache. On error the previous articles are kept.
func (s *State) Refresh(ctx context.Context) error {
	s.mu.Lock()
	category, count := s.category, s.count
	s.mu.Unlock()

	articles, err := s.news.Headlines(ctx, category, count)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
	s.index = 0
	s.cache = make(map[cacheKey]cacheEntry)
	s.logger.Debug("session refreshed",
		slog.String("category", category),
		slog.Int("articles", len(articles)))
	return nil
}

// Next moves to the following article. It reports whether the position changed.
func (s *State) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.articles)-1 {
		return false
	}
	s.index++
	return true
}

// Prev moves to the preceding article. It reports whether the position changed.
func (s *State) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// SetLanguage changes the target language. A different language drops the cache.
func (s *State) SetLanguage(lang entity.Language) error {
	if !lang.IsSupported() {
		return fmt.Errorf("%w: %q", entity.ErrUnsupportedLanguage, lang)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if lang != s.language {
		s.language = lang
		s.cache = make(map[cacheKey]cacheEntry)
	}
	return nil
}

// SetCategory changes the category used by the next Refresh.
func (s *State) SetCategory(category string) error {
	if !entity.IsCategory(category) {
		return fmt.Errorf("%w: unknown category %q", entity.ErrInvalidInput, category)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	return nil
}

// SetCount changes the article count used by the next Refresh.
func (s *State) SetCount(count int) error {
	if count < entity.MinArticleCount || count > entity.MaxArticleCount {
		return fmt.Errorf("%w: article count %d outside %d-%d",
			entity.ErrInvalidInput, count, entity.MinArticleCount, entity.MaxArticleCount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = count
	return nil
}

// Language returns the target language.
func (s *State) Language() entity.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Category returns the category of the next Refresh.
func (s *State) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Count returns the article count of the next Refresh.
func (s *State) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Len returns the number of loaded articles.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// Current returns the article at the current position processed into the
// target language. Results are cached per (article, language), degraded ones
// included, whatever the cause of the degradation. Only when ctx itself is
// done is the result discarded and ctx's error returned.
func (s *State) Current(ctx context.Context) (View, error) {
	s.mu.Lock()
	if len(s.articles) == 0 {
		s.mu.Unlock()
		return View{}, ErrNoArticles
	}
	article := s.articles[s.index]
	view := View{Article: article, Index: s.index, Total: len(s.articles)}
	key := cacheKey{articleID: article.ID, language: s.language}
	entry, ok := s.cache[key]
	s.mu.Unlock()

	metrics.RecordSessionCache(ok)
	if ok {
		view.Processed, view.Err = entry.article, entry.err
		return view, nil
	}

	processed, err := s.processor.Process(ctx, article, key.language)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return View{}, ctxErr
	}

	s.mu.Lock()
	// The language may have changed while processing; a stale result is
	// still valid under its own key.
	s.cache[key] = cacheEntry{article: processed, err: err}
	s.mu.Unlock()

	view.Processed, view.Err = processed, err
	return view, nil
}
