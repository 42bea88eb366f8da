// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created around the article pipeline steps (language detection,
// translation, summarization) and around the digest worker's HTTP endpoints.
// No exporter is configured by default; installing a TracerProvider with
// otel.SetTracerProvider is enough to collect them.
//
// Example usage:
//
//	import "newshub/internal/observability/tracing"
//
//	func process(ctx context.Context) error {
//	    ctx, span := tracing.StartSpan(ctx, "digest.process")
//	    defer span.End()
//	    err := step(ctx)
//	    tracing.RecordError(span, err)
//	    return err
//	}
package tracing
