// Package summarizer implements the summarization pipeline.
//
// Hosted summarizes with a hosted model chunk by chunk, Local with a model on
// the local model server, Claude and OpenAI with a chat model, and NoOp only
// truncates. All of them share one contract: text shorter than
// MinInputChars comes back unchanged, and a failed summarization returns the
// truncated input together with an error wrapping entity.ErrSummarizationFailed
// (or entity.ErrMissingCredential).
package summarizer

import (
	"context"
	"fmt"

	"newshub/internal/domain/entity"
	"newshub/internal/utils/text"
)

// MinInputChars is the length below which text is returned as is.
const MinInputChars = 100

// Summary outcome labels.
const (
	outcomeShort       = "short"
	outcomeOK          = "ok"
	outcomeUnavailable = "unavailable"
	outcomeFailed      = "failed"
)

// Summarizer condenses text to at most maxLength characters.
type Summarizer interface {
	Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error)
}

func tooShort(input string) bool {
	return text.CountRunes(input) < MinInputChars
}

// degrade returns the truncated input and err wrapped in ErrSummarizationFailed.
func degrade(input string, maxLength int, err error) (string, error) {
	return text.TruncateWithEllipsis(input, maxLength), fmt.Errorf("%w: %w", entity.ErrSummarizationFailed, err)
}
