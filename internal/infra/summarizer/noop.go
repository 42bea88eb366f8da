package summarizer

import (
	"context"

	"newshub/internal/observability/metrics"
	"newshub/internal/utils/text"
)

// NoOp truncates instead of summarizing. It is used when no summarization
// provider is configured.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns input cut to maxLength characters.
func (n *NoOp) Summarize(_ context.Context, input string, maxLength, _ int) (string, error) {
	if tooShort(input) {
		metrics.RecordSummary(outcomeShort)
		return input, nil
	}
	metrics.RecordSummary("truncated")
	return text.Clamp(input, maxLength), nil
}
