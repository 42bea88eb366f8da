package metrics

import (
	"time"
)

// RecordNewsFetch records the outcome of one FetchLatest call.
// Result should be one of "success", "empty", "failure" or "misconfigured".
func RecordNewsFetch(source, result string, duration time.Duration) {
	NewsFetchTotal.WithLabelValues(source, result).Inc()
	NewsFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordArticlesFetched records the number of usable and dropped entries of a fetch.
func RecordArticlesFetched(source, category string, kept, dropped int) {
	ArticlesFetchedTotal.WithLabelValues(source, category).Add(float64(kept))
	if dropped > 0 {
		ArticlesFilteredTotal.WithLabelValues(source).Add(float64(dropped))
	}
}

// RecordInference records a single inference request.
// Backend is "huggingface" or "local"; task is "translation" or "summarization".
func RecordInference(backend, task string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	InferenceRequestsTotal.WithLabelValues(backend, task, status).Inc()
	InferenceDuration.WithLabelValues(backend, task).Observe(duration.Seconds())
}

// RecordTranslation records which path produced a translation.
func RecordTranslation(outcome string) {
	TranslationsTotal.WithLabelValues(outcome).Inc()
}

// RecordSummary records the outcome of a summarization.
func RecordSummary(outcome string) {
	SummariesTotal.WithLabelValues(outcome).Inc()
}

// RecordSummaryChunk records what happened to one summary chunk.
func RecordSummaryChunk(result string) {
	SummaryChunksTotal.WithLabelValues(result).Inc()
}

// RecordArticleProcessed records one processed (article, language) pair.
func RecordArticleProcessed(language string, degraded bool, duration time.Duration) {
	status := "ok"
	if degraded {
		status = "degraded"
	}
	ArticlesProcessedTotal.WithLabelValues(language, status).Inc()
	ProcessingDuration.Observe(duration.Seconds())
}

// RecordSessionCache records a cache hit or miss.
func RecordSessionCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SessionCacheTotal.WithLabelValues(result).Inc()
}

// RecordContentFetchSuccess records a successful content fetch operation.
//
// Example:
//
//	start := time.Now()
//	content, err := fetcher.FetchContent(ctx, url)
//	if err == nil {
//	    RecordContentFetchSuccess(time.Since(start))
//	}
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch operation.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a skipped content fetch.
// This occurs when the article body does not look truncated.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordCircuitState records a circuit breaker state transition.
// State follows gobreaker's numbering: 0 closed, 1 half-open, 2 open.
func RecordCircuitState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
