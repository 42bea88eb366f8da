package config

import (
	"errors"
	"fmt"
	"time"

	"newshub/internal/domain/entity"
	cfgvalidate "newshub/internal/pkg/config"
)

// News sources.
const (
	SourceNewsAPI = "newsapi"
	SourceRSS     = "rss"
)

// NewsConfig selects and configures the headline source.
type NewsConfig struct {
	// Source is "newsapi" or "rss". Default: "newsapi"
	Source string `env:"NEWS_SOURCE" yaml:"source"`

	// APIKey is the NewsAPI key. Environment only.
	APIKey string `env:"NEWS_API_KEY" yaml:"-"`

	// BaseURL is the NewsAPI v2 root. Default: "https://newsapi.org/v2"
	BaseURL string `env:"NEWSAPI_BASE_URL" yaml:"base_url"`

	// Language restricts headlines to one language. Default: "en"
	Language string `env:"NEWSAPI_LANGUAGE" yaml:"language"`

	// Timeout bounds one fetch. Default: 15s
	Timeout time.Duration `env:"NEWS_TIMEOUT" yaml:"timeout"`

	// Feeds maps a category to its RSS feed URLs. File only.
	Feeds map[string][]string `yaml:"feeds"`
}

func defaultNewsConfig() NewsConfig {
	return NewsConfig{
		Source:   SourceNewsAPI,
		BaseURL:  "https://newsapi.org/v2",
		Language: "en",
		Timeout:  15 * time.Second,
		Feeds: map[string][]string{
			"general":       {"https://feeds.bbci.co.uk/news/rss.xml"},
			"technology":    {"https://feeds.bbci.co.uk/news/technology/rss.xml"},
			"business":      {"https://feeds.bbci.co.uk/news/business/rss.xml"},
			"science":       {"https://feeds.bbci.co.uk/news/science_and_environment/rss.xml"},
			"health":        {"https://feeds.bbci.co.uk/news/health/rss.xml"},
			"sports":        {"https://feeds.bbci.co.uk/sport/rss.xml"},
			"entertainment": {"https://feeds.bbci.co.uk/news/entertainment_and_arts/rss.xml"},
		},
	}
}

// Validate checks configuration correctness.
// A missing NewsAPI key is not a validation error: the adapter reports it
// as a missing credential when a fetch is attempted.
func (c *NewsConfig) Validate() error {
	var errs []error
	if err := cfgvalidate.ValidateOneOf(c.Source, SourceNewsAPI, SourceRSS); err != nil {
		errs = append(errs, fmt.Errorf("NEWS_SOURCE: %w", err))
	}
	if err := cfgvalidate.ValidateHTTPURL(c.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("NEWSAPI_BASE_URL: %w", err))
	}
	if err := cfgvalidate.ValidatePositiveDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("NEWS_TIMEOUT: %w", err))
	}
	for category, urls := range c.Feeds {
		if !entity.IsCategory(category) {
			errs = append(errs, fmt.Errorf("feeds: unknown category %q", category))
		}
		for _, u := range urls {
			if err := cfgvalidate.ValidateHTTPURL(u); err != nil {
				errs = append(errs, fmt.Errorf("feeds.%s: %w", category, err))
			}
		}
	}
	if c.Source == SourceRSS && len(c.Feeds) == 0 {
		errs = append(errs, fmt.Errorf("feeds are required when NEWS_SOURCE=rss"))
	}
	return errors.Join(errs...)
}

// SessionConfig holds the interactive reader defaults.
type SessionConfig struct {
	// Language is the initial target language. Default: "hi"
	Language string `env:"NEWSHUB_LANGUAGE" yaml:"language"`

	// Category is the initial headline category. Default: "general"
	Category string `env:"NEWSHUB_CATEGORY" yaml:"category"`

	// Count is the number of articles per refresh (3-10). Default: 5
	Count int `env:"NEWSHUB_ARTICLE_COUNT" yaml:"count"`
}

func defaultSessionConfig() SessionConfig {
	return SessionConfig{
		Language: string(entity.Hindi),
		Category: entity.DefaultCategory,
		Count:    entity.DefaultArticleCount,
	}
}

// Validate checks configuration correctness.
func (c *SessionConfig) Validate() error {
	var errs []error
	if _, err := entity.ParseLanguage(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("NEWSHUB_LANGUAGE: %w", err))
	}
	if !entity.IsCategory(c.Category) {
		errs = append(errs, fmt.Errorf("NEWSHUB_CATEGORY: unknown category %q", c.Category))
	}
	if err := cfgvalidate.ValidateIntRange(c.Count, entity.MinArticleCount, entity.MaxArticleCount); err != nil {
		errs = append(errs, fmt.Errorf("NEWSHUB_ARTICLE_COUNT: %w", err))
	}
	return errors.Join(errs...)
}
