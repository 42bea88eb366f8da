// Package translator implements the translation pipeline on top of a hosted
// inference API or a local seq2seq model server.
//
// Every implementation returns displayable text even when it fails: the
// error explains the failure and the string is what a reader should see
// instead (the input unchanged, or a bracketed placeholder followed by the
// beginning of the input).
package translator

import (
	"fmt"

	"newshub/internal/utils/text"
)

const (
	// placeholderPrefixLen is how much of the input follows a placeholder.
	placeholderPrefixLen = 100

	unavailableMarker = "[Translation unavailable - inference API key not set]"
)

// Outcome labels recorded for each translation.
const (
	outcomeIdentity    = "identity"
	outcomePrimary     = "primary"
	outcomeFallback    = "fallback"
	outcomeLocal       = "local"
	outcomeUnavailable = "unavailable"
	outcomeFailed      = "failed"
)

func unavailablePlaceholder(input string) string {
	return unavailableMarker + " " + text.Truncate(input, placeholderPrefixLen)
}

func failedPlaceholder(input string, reason error) string {
	return fmt.Sprintf("[Translation failed: %v] %s", reason, text.Truncate(input, placeholderPrefixLen))
}
