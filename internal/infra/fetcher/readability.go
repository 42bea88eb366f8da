package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"newshub/internal/resilience/circuitbreaker"
)

const userAgent = "NewshubBot/1.0"

// ReadabilityFetcher downloads an article page and extracts its main text
// with go-readability.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
	logger         *slog.Logger
}

// NewReadabilityFetcher creates a fetcher whose redirects are validated
// against the same SSRF rules as the original URL.
func NewReadabilityFetcher(config ContentFetchConfig, logger *slog.Logger) *ReadabilityFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.WebScraperConfig()),
		config:         config,
		logger:         logger,
	}

	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := checkURL(req.Context(), req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect to %s: %w", req.URL.Host, err)
			}
			return nil
		},
	}
	return f
}

// FetchContent returns the readable text of the page at urlStr.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	if err := checkURL(ctx, urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}
	return circuitbreaker.Run(f.circuitBreaker, func() (string, error) {
		return f.doFetch(ctx, urlStr)
	})
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Redirects may have moved us; relative links resolve against the final URL.
	pageURL, _ := url.Parse(urlStr)
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}
	if article.TextContent != "" {
		return article.TextContent, nil
	}
	if article.Content == "" {
		return "", fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}
	f.logger.Debug("using article HTML instead of text content",
		slog.String("url", urlStr),
		slog.Int("content_length", len(article.Content)))
	return article.Content, nil
}
