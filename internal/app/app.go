// Package app builds the pipelines and services shared by the newshub binaries
// from the application configuration.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"newshub/internal/config"
	"newshub/internal/infra/fetcher"
	"newshub/internal/infra/huggingface"
	"newshub/internal/infra/langdetect"
	"newshub/internal/infra/localmodel"
	"newshub/internal/infra/newsapi"
	"newshub/internal/infra/scraper"
	"newshub/internal/infra/summarizer"
	"newshub/internal/infra/translator"
	"newshub/internal/usecase/digest"
	"newshub/internal/usecase/news"
)

// Local model tasks.
const (
	taskTranslation   = "translation"
	taskSummarization = "summarization"
)

// Dialer connects to the local model server.
type Dialer func(ctx context.Context, cfg localmodel.Config) (*localmodel.Client, error)

// App constructs components on first use and reuses them afterwards.
// Construction happens at startup; nothing is built lazily inside a pipeline call.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	dial   Dialer

	mu         sync.Mutex
	local      *localmodel.Client
	loaded     map[string]bool
	detector   *langdetect.Detector
	translator digest.Translator
	summarizer digest.Summarizer
	news       *news.Service
}

// New creates an App for cfg.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		dial:   localmodel.Dial,
		loaded: make(map[string]bool),
	}
}

// WithDialer replaces the local model dialer.
func (a *App) WithDialer(dial Dialer) *App {
	a.dial = dial
	return a
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close releases the local model connection, if any.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.local == nil {
		return nil
	}
	err := a.local.Close()
	a.local = nil
	return err
}

// Detector returns the language detector. Its models are loaded on the first call.
func (a *App) Detector() *langdetect.Detector {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.detector == nil {
		a.detector = langdetect.New(a.logger)
	}
	return a.detector
}

// Translator returns the translation pipeline for the configured backend.
// The local backend connects and loads its model here.
func (a *App) Translator(ctx context.Context) (digest.Translator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.translator != nil {
		return a.translator, nil
	}

	tc := a.cfg.Translation
	switch a.cfg.Inference.Backend {
	case config.BackendLocal:
		client, err := a.localModel(ctx, taskTranslation, tc.LocalModel)
		if err != nil {
			return nil, err
		}
		a.translator = translator.NewLocal(client, translator.LocalConfig{
			Model:         tc.LocalModel,
			MaxInputChars: tc.MaxInputChars,
			MaxLength:     tc.MaxLength,
		}, a.logger)
	default:
		a.translator = translator.NewHosted(a.hostedClient(taskTranslation), translator.HostedConfig{
			PrimaryModel:  tc.PrimaryModel,
			FallbackModel: tc.FallbackModel,
			MaxInputChars: tc.MaxInputChars,
		}, a.logger)
	}
	a.logger.Info("translator ready", slog.String("backend", a.cfg.Inference.Backend))
	return a.translator, nil
}

// Summarizer returns the summarization pipeline for the configured provider.
func (a *App) Summarizer(ctx context.Context) (digest.Summarizer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.summarizer != nil {
		return a.summarizer, nil
	}

	sc := a.cfg.Summarization
	switch sc.Provider {
	case config.ProviderLocal:
		client, err := a.localModel(ctx, taskSummarization, sc.LocalModel)
		if err != nil {
			return nil, err
		}
		a.summarizer = summarizer.NewLocal(client, sc.LocalModel, a.logger)
	case config.ProviderClaude:
		a.summarizer = summarizer.NewClaude(llmConfig(sc.Claude))
	case config.ProviderOpenAI:
		a.summarizer = summarizer.NewOpenAI(llmConfig(sc.OpenAI))
	case config.ProviderNone:
		a.summarizer = summarizer.NewNoOp()
	default:
		a.summarizer = summarizer.NewHosted(a.hostedClient(taskSummarization),
			summarizer.HostedConfig{Model: sc.Model}, a.logger)
	}
	a.logger.Info("summarizer ready", slog.String("provider", sc.Provider))
	return a.summarizer, nil
}

// Processor returns an article processor over the configured pipelines.
func (a *App) Processor(ctx context.Context) (*digest.Processor, error) {
	tr, err := a.Translator(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := a.Summarizer(ctx)
	if err != nil {
		return nil, err
	}
	sc := a.cfg.Summarization
	return digest.NewProcessor(a.Detector(), tr, sum, digest.Options{
		MaxLength: sc.MaxLength,
		MinLength: sc.MinLength,
		Mode:      digest.SummaryMode(sc.Mode),
	}, a.logger), nil
}

// News returns the headline service over the configured source, with
// content enhancement when CONTENT_FETCH_ENABLED is set.
func (a *App) News() *news.Service {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.news != nil {
		return a.news
	}

	nc := a.cfg.News
	var source news.Source
	switch nc.Source {
	case config.SourceRSS:
		source = scraper.NewRSSSource(scraper.NewRSSFetcher(newHTTPClient(nc.Timeout)), nc.Feeds, a.logger)
	default:
		source = newsapi.NewClient(newsapi.Config{
			APIKey:   nc.APIKey,
			BaseURL:  nc.BaseURL,
			Language: nc.Language,
			Timeout:  nc.Timeout,
		}, nil, a.logger)
	}

	var enhancer news.Enhancer
	if e := a.enhancer(); e != nil {
		enhancer = e
	}
	a.news = news.NewService(source, enhancer, a.logger)
	return a.news
}

func (a *App) enhancer() *fetcher.Enhancer {
	fc, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		a.logger.Warn("content fetching disabled due to configuration error", slog.Any("error", err))
		return nil
	}
	if !fc.Enabled {
		return nil
	}
	a.logger.Info("content fetching enabled",
		slog.Int("threshold", fc.Threshold),
		slog.Int("parallelism", fc.Parallelism),
		slog.Duration("timeout", fc.Timeout))
	return fetcher.NewEnhancer(fetcher.NewReadabilityFetcher(fc, a.logger), fc, a.logger)
}

func (a *App) hostedClient(task string) *huggingface.Client {
	ic := a.cfg.Inference
	if !ic.HasCredential() {
		a.logger.Warn("inference API key not set; "+task+" output will be degraded",
			slog.String("task", task))
	}
	return huggingface.NewClient(huggingface.Config{
		APIKey:            ic.APIKey,
		BaseURL:           ic.BaseURL,
		Timeout:           ic.Timeout,
		RequestsPerSecond: ic.RequestsPerSecond,
		Burst:             ic.Burst,
	}, task, huggingface.WithLogger(a.logger))
}

// localModel connects once and loads model for task. Callers hold a.mu.
func (a *App) localModel(ctx context.Context, task, model string) (*localmodel.Client, error) {
	ic := a.cfg.Inference
	if a.local == nil {
		client, err := a.dial(ctx, localmodel.Config{
			Address:        ic.LocalAddress,
			ConnectTimeout: ic.LocalConnectTimeout,
			Timeout:        ic.LocalTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to local model server: %w", err)
		}
		a.local = client
	}

	key := task + "/" + model
	if a.loaded[key] {
		return a.local, nil
	}
	loadCtx, cancel := context.WithTimeout(ctx, ic.LocalConnectTimeout+ic.LocalTimeout)
	defer cancel()
	if err := a.local.Load(loadCtx, task, model); err != nil {
		return nil, fmt.Errorf("load %s model: %w", task, err)
	}
	a.loaded[key] = true
	return a.local, nil
}

func llmConfig(c config.LLMConfig) summarizer.LLMConfig {
	return summarizer.LLMConfig{
		APIKey:    c.APIKey,
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		Timeout:   c.Timeout,
	}
}

// newHTTPClient creates an HTTP client with pooling and TLS 1.2 or later.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
