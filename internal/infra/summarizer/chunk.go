package summarizer

import (
	"strings"

	"newshub/internal/utils/text"
)

const (
	// maxChunkChars bounds the characters accumulated into one chunk.
	maxChunkChars = 1000
	// maxChunks is how many chunks are summarized. Text past the fifth
	// chunk is not part of the summary.
	maxChunks = 5
	// sentenceSeparator splits text into sentences.
	sentenceSeparator = ". "
)

// splitChunks groups sentences into chunks shorter than maxChunkChars and
// returns at most maxChunks of them. A sentence longer than the limit
// becomes a chunk of its own.
func splitChunks(input string) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)

	for _, sentence := range strings.Split(input, sentenceSeparator) {
		n := text.CountRunes(sentence)
		if curLen+n >= maxChunkChars && cur.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(cur.String()))
			cur.Reset()
			curLen = 0
		}
		cur.WriteString(sentence)
		cur.WriteString(sentenceSeparator)
		curLen += n + len(sentenceSeparator)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(cur.String()))
	}

	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	return chunks
}
