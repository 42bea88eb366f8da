// Package metrics provides the Prometheus metrics registry and recording utilities.
//
// This package centralizes the application metrics:
//   - News source metrics (fetch outcome, duration, filtered entries)
//   - Inference metrics (requests, duration, translation and summary outcomes)
//   - Pipeline metrics (processed articles, session cache, content fetch)
//   - Circuit breaker state
//
// All metrics are registered with the Prometheus default registry and
// exposed by the digest worker's /metrics endpoint.
//
// Example usage:
//
//	import "newshub/internal/observability/metrics"
//
//	start := time.Now()
//	articles, err := source.FetchLatest(ctx, "technology", 5)
//	if err == nil {
//	    metrics.RecordNewsFetch("newsapi", "success", time.Since(start))
//	}
package metrics
