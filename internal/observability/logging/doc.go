// Package logging builds the slog loggers used by the CLI and the digest
// worker and threads a request ID through processing.
//
// A request ID identifies one processed article or one digest run. Attach it
// to the context once and derive loggers from that context:
//
//	logger := logging.New(os.Stderr, "text", "info")
//	ctx = logging.ContextWithRequestID(ctx, logging.NewRequestID())
//	logging.WithRequestID(ctx, logger).Info("processing article")
package logging
