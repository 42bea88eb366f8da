// Package newsapi fetches top headlines from NewsAPI (newsapi.org).
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	pkgconfig "newshub/pkg/config"
)

const (
	sourceName = "newsapi"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Config holds the NewsAPI settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// response is the top-headlines payload. Error responses carry status
// "error" together with code and message.
type response struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Client fetches headlines. It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a NewsAPI client. A nil httpClient means one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name identifies the source in logs and metrics.
func (c *Client) Name() string { return sourceName }

// FetchLatest returns up to count usable top headlines for category.
func (c *Client) FetchLatest(ctx context.Context, category string, count int) ([]entity.Article, error) {
	start := time.Now()

	apiKey := strings.TrimSpace(c.config.APIKey)
	if apiKey == "" || pkgconfig.IsPlaceholderSecret(apiKey) {
		metrics.RecordNewsFetch(sourceName, "misconfigured", time.Since(start))
		return nil, fmt.Errorf("%w: NEWS_API_KEY not set", entity.ErrMissingCredential)
	}

	resp, err := c.doFetch(ctx, apiKey, category, count)
	if err != nil {
		metrics.RecordNewsFetch(sourceName, "failure", time.Since(start))
		c.logger.WarnContext(ctx, "newsapi fetch failed",
			slog.String("category", category),
			slog.Any("error", err))
		if errors.Is(err, entity.ErrFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", entity.ErrFetchFailed, err)
	}

	articles := make([]entity.Article, 0, count)
	dropped := 0
	for _, a := range resp.Articles {
		if !entity.IsUsable(a.Title, a.Content, a.Description) {
			dropped++
			continue
		}
		content := a.Content
		if strings.TrimSpace(content) == "" {
			content = a.Description
		}
		article := entity.NewArticle(a.Title, content, a.Source.Name, a.URL, a.PublishedAt, a.URLToImage)
		if err := article.Validate(); err != nil {
			c.logger.DebugContext(ctx, "dropping invalid article",
				slog.String("url", a.URL),
				slog.Any("error", err))
			dropped++
			continue
		}
		if len(articles) == count {
			continue
		}
		articles = append(articles, article)
	}
	metrics.RecordArticlesFetched(sourceName, category, len(articles), dropped)

	if len(articles) == 0 {
		metrics.RecordNewsFetch(sourceName, "empty", time.Since(start))
		return nil, fmt.Errorf("%w: no usable %s headlines", entity.ErrEmptyResult, category)
	}

	metrics.RecordNewsFetch(sourceName, "success", time.Since(start))
	c.logger.InfoContext(ctx, "headlines fetched",
		slog.String("source", sourceName),
		slog.String("category", category),
		slog.Int("articles", len(articles)),
		slog.Int("dropped", dropped),
		slog.Duration("duration", time.Since(start)))
	return articles, nil
}

func (c *Client) doFetch(ctx context.Context, apiKey, category string, count int) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	query := url.Values{}
	query.Set("apiKey", apiKey)
	query.Set("category", category)
	query.Set("language", c.config.Language)
	query.Set("pageSize", strconv.Itoa(count))
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/top-headlines?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request top headlines: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		if httpResp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("HTTP %d", httpResp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != "ok" {
		msg := resp.Message
		if msg == "" {
			msg = "HTTP " + strconv.Itoa(httpResp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", entity.ErrFetchFailed, msg)
	}
	return &resp, nil
}
