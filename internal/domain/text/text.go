// Package text provides word tokenization and sentence segmentation for the
// scoring pipeline.
package text

import (
	"regexp"
	"strings"
)

// wordPattern matches a maximal run of Unicode letters or digits, optionally
// joined by internal apostrophes or hyphens ("don't", "state-of-the-art").
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['-][\p{L}\p{N}]+)*`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Tokenize lower-cases the input and extracts word tokens in order.
// Degenerate input (empty string, pure punctuation) yields a nil slice.
func Tokenize(input string) []string {
	return wordPattern.FindAllString(strings.ToLower(input), -1)
}

// Normalize collapses all whitespace runs to a single space and trims.
func Normalize(input string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(input, " "))
}

// Segment splits whitespace-normalized input into sentences. A sentence ends
// at a '.', '!' or '?' that is followed by whitespace; the punctuation stays
// attached to the preceding sentence. Empty segments are dropped.
func Segment(input string) []string {
	norm := Normalize(input)
	if norm == "" {
		return nil
	}

	var out []string
	var b strings.Builder
	runes := []rune(norm)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		if isTerminator(r) && i+1 < len(runes) && runes[i+1] == ' ' {
			if seg := strings.TrimSpace(b.String()); seg != "" {
				out = append(out, seg)
			}
			b.Reset()
			i++ // consume the separating space
		}
	}
	if seg := strings.TrimSpace(b.String()); seg != "" {
		out = append(out, seg)
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
