package textutil

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase whitespace-delimited tokens with
// surrounding punctuation removed. Interior punctuation (hyphens, digits,
// apostrophes) is preserved so identifiers like "sign-in" survive intact.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
