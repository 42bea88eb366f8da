// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, ProcessedArticle and Language,
// along with their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RemovedTitle is the placeholder title NewsAPI uses for articles that were taken down.
const RemovedTitle = "[Removed]"

// UnknownSource names the source of articles that carry none.
const UnknownSource = "Unknown"

// Article represents a news article as fetched from a news source.
// Articles are immutable once fetched and are discarded on refresh.
type Article struct {
	ID          string
	Title       string
	Content     string
	Source      string
	URL         string
	PublishedAt string
	ImageURL    string
}

// NewArticle builds an Article and assigns its deterministic ID.
// The ID is derived from the URL, or from the title when the URL is empty,
// so the same story keeps the same identity across refreshes.
func NewArticle(title, content, source, articleURL, publishedAt, imageURL string) Article {
	if source == "" {
		source = UnknownSource
	}
	if publishedAt == "" {
		publishedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return Article{
		ID:          ArticleID(articleURL, title),
		Title:       title,
		Content:     content,
		Source:      source,
		URL:         articleURL,
		PublishedAt: publishedAt,
		ImageURL:    imageURL,
	}
}

// ArticleID returns the stable identity of an article.
func ArticleID(articleURL, title string) string {
	name := articleURL
	if name == "" {
		name = title
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Body returns the article text that the pipelines operate on.
func (a Article) Body() string {
	return a.Content
}

// PublishedTime parses PublishedAt as RFC3339.
// The second return value is false when the timestamp is missing or malformed.
func (a Article) PublishedTime() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PublishedDate returns the date part of PublishedAt (YYYY-MM-DD) for display.
func (a Article) PublishedDate() string {
	if len(a.PublishedAt) >= 10 {
		return a.PublishedAt[:10]
	}
	return a.PublishedAt
}

// IsUsable reports whether raw article fields are good enough to show.
// Articles without a title, with the removed placeholder title, or with
// neither content nor description are skipped by every news source.
func IsUsable(title, content, description string) bool {
	title = strings.TrimSpace(title)
	if title == "" || title == RemovedTitle {
		return false
	}
	return strings.TrimSpace(content) != "" || strings.TrimSpace(description) != ""
}

// ProcessedArticle is an Article rendered for one target language.
// It is derived per (Article, Language) pair and cached by that pair.
type ProcessedArticle struct {
	Title      string
	Summary    string
	Content    string
	SourceLang Language
}

// Validate checks the invariants of an Article.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if a.Title == RemovedTitle {
		return &ValidationError{Field: "title", Message: "article was removed by the source"}
	}
	if strings.TrimSpace(a.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	if a.URL != "" {
		if err := ValidateURL(a.URL); err != nil {
			return err
		}
	}
	return nil
}
