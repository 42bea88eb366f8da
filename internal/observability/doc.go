// Package observability groups the logging, metrics and tracing helpers
// shared by the newshub binaries.
//
// Subpackages:
//   - logging: slog construction and request-ID context propagation
//   - metrics: Prometheus collectors for articles, inference and sessions
//   - tracing: OpenTelemetry spans around pipeline steps and HTTP handlers
package observability
