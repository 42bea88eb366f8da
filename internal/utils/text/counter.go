// Package text provides utilities for text processing shared by the
// translation and summarization pipelines.
// All lengths are measured in Unicode characters (runes), never bytes,
// so Hindi, Chinese or Arabic text is never cut in the middle of a character.
package text

import "unicode/utf8"

// Ellipsis marks text that was cut short.
const Ellipsis = "..."

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("नमस्ते")      // returns 6 (combining marks count separately)
//	CountRunes("hello世界")  // returns 7
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate returns the first n runes of text, or text itself when it is shorter.
// A negative n is treated as zero.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// TruncateWithEllipsis cuts text to n runes and always appends Ellipsis.
func TruncateWithEllipsis(text string, n int) string {
	return Truncate(text, n) + Ellipsis
}

// Clamp returns text unchanged when it fits in n runes, otherwise the first
// n runes followed by Ellipsis.
func Clamp(text string, n int) string {
	if CountRunes(text) <= n {
		return text
	}
	return TruncateWithEllipsis(text, n)
}
