package analyzer

import (
	"regexp"
)

// ExtractContext returns the literal text surrounding the first
// case-insensitive occurrence of word in text, clipped to window bytes on
// each side, with ellipses marking clipped ends. If the word does not occur,
// the word itself is returned.
//
// The match is located on the original text. Lower-casing both strings and
// reusing that index is not safe: ToLower can change byte lengths (U+023A
// grows from 2 to 3 bytes), which would shift the index off the original.
func ExtractContext(text, word string, window int) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	loc := re.FindStringIndex(text)
	if loc == nil {
		return word
	}

	start := loc[0] - window
	if start < 0 {
		start = 0
	}
	end := loc[1] + window
	if end > len(text) {
		end = len(text)
	}

	context := text[start:end]
	if start > 0 {
		context = "..." + context
	}
	if end < len(text) {
		context = context + "..."
	}
	return context
}
