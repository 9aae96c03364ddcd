package textutil

import "regexp"

var (
	quotedPattern = regexp.MustCompile(`"([^"]*)"`)
	// Capitalized word runs are candidate proper nouns or UI labels
	// ("Search", "Login Form", "Wrangler Homepage").
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// QuotedStrings returns the contents of double-quoted substrings in order of
// appearance. Empty quotes are skipped.
func QuotedStrings(text string) []string {
	matches := quotedPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] == "" {
			continue
		}
		out = append(out, m[1])
	}
	return out
}

// CapitalizedPhrases returns maximal runs of Capitalized words in order of
// appearance, preserving their original casing.
func CapitalizedPhrases(text string) []string {
	return capitalizedPattern.FindAllString(text, -1)
}
