// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// News source metrics
var (
	// NewsFetchTotal counts news fetch operations by source and result
	NewsFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_news_fetch_total",
			Help: "Total number of news fetch operations",
		},
		[]string{"source", "result"}, // result: success, empty, failure, misconfigured
	)

	// NewsFetchDuration measures time to fetch a batch of headlines
	NewsFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newshub_news_fetch_duration_seconds",
			Help:    "Time taken to fetch headlines from a news source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// ArticlesFetchedTotal counts articles returned after filtering
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_articles_fetched_total",
			Help: "Total number of usable articles fetched from news sources",
		},
		[]string{"source", "category"},
	)

	// ArticlesFilteredTotal counts raw entries dropped by filtering
	ArticlesFilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_articles_filtered_total",
			Help: "Total number of raw entries dropped as unusable",
		},
		[]string{"source"},
	)
)

// Inference metrics
var (
	// InferenceRequestsTotal counts requests to model inference endpoints
	InferenceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_inference_requests_total",
			Help: "Total number of model inference requests",
		},
		[]string{"backend", "task", "status"}, // status: success, failure
	)

	// InferenceDuration measures a single inference request
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newshub_inference_duration_seconds",
			Help:    "Duration of a single model inference request",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"backend", "task"},
	)

	// TranslationsTotal counts translations by the path that produced the output
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_translations_total",
			Help: "Total number of translations by outcome",
		},
		[]string{"outcome"}, // identity, primary, fallback, unavailable, failed
	)

	// SummariesTotal counts summaries by outcome
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_summaries_total",
			Help: "Total number of summarizations by outcome",
		},
		[]string{"outcome"}, // short, summarized, unavailable, failed
	)

	// SummaryChunksTotal counts chunk summaries by result
	SummaryChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_summary_chunks_total",
			Help: "Total number of summary chunks by result",
		},
		[]string{"result"}, // kept, discarded, failed
	)
)

// Pipeline metrics
var (
	// ArticlesProcessedTotal counts processed articles by target language and status
	ArticlesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_articles_processed_total",
			Help: "Total number of articles processed for a target language",
		},
		[]string{"language", "status"}, // status: ok, degraded
	)

	// ProcessingDuration measures detect+translate+summarize for one article
	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newshub_article_processing_duration_seconds",
			Help:    "Time taken to process one article for one language",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// SessionCacheTotal counts session cache lookups
	SessionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_session_cache_total",
			Help: "Total number of processed-article cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// ContentFetchAttemptsTotal counts full-text fetch attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_content_fetch_attempts_total",
			Help: "Total number of full-text content fetch attempts",
		},
		[]string{"result"}, // success, failure, skipped
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newshub_content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// CircuitBreakerState tracks the state of each circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newshub_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
