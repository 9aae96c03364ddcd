package evidence

import (
	"strings"

	"attest/internal/textutil"
)

// Extractor derives phrase sets from a frame's natural-language description.
// Extraction is purely lexical: keyword windows for actions and UI elements,
// quoted substrings and Capitalized phrases for text snippets.
type Extractor struct {
	vocab textutil.Vocabulary
}

// NewExtractor builds an extractor over the provided vocabulary.
func NewExtractor(vocab textutil.Vocabulary) Extractor {
	return Extractor{vocab: vocab}
}

// ExtractRecord runs all three extractors over a description and assembles a
// raw evidence record for the given frame.
func (e Extractor) ExtractRecord(timestamp float64, source string, frameNumber int, description string) Record {
	ts := timestamp
	return Record{
		Timestamp:        &ts,
		Source:           source,
		FrameNumber:      frameNumber,
		ActionPhrases:    e.ActionPhrases(description),
		UIElementPhrases: e.UIElementPhrases(description),
		TextSnippets:     e.TextSnippets(description),
		RawDescription:   description,
	}
}

// ActionPhrases returns short word windows around each action verb mentioned
// in the description, one per distinct verb, ordered by first occurrence.
func (e Extractor) ActionPhrases(description string) []string {
	return e.keywordWindows(description, e.vocab.IsActionVerb, 1, 3)
}

// UIElementPhrases returns short word windows around each UI noun mentioned
// in the description, one per distinct noun, ordered by first occurrence.
func (e Extractor) UIElementPhrases(description string) []string {
	return e.keywordWindows(description, e.vocab.IsUINoun, 2, 2)
}

// TextSnippets returns quoted substrings and Capitalized phrases from the
// description, in order of appearance.
func (e Extractor) TextSnippets(description string) []string {
	quoted := textutil.QuotedStrings(description)
	capitalized := textutil.CapitalizedPhrases(description)
	if len(quoted) == 0 && len(capitalized) == 0 {
		return nil
	}
	out := make([]string, 0, len(quoted)+len(capitalized))
	out = append(out, quoted...)
	out = append(out, capitalized...)
	return out
}

// keywordWindows scans the lowercased words of the description left to right
// and, for the first occurrence of each matching keyword, captures the words
// from before positions back through after positions ahead. A keyword at the
// very start of the description has no leading context and is skipped.
func (e Extractor) keywordWindows(description string, matches func(string) bool, before, after int) []string {
	words := strings.Fields(strings.ToLower(description))
	seen := make(map[string]struct{})
	var phrases []string
	for idx, word := range words {
		if !matches(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		if idx == 0 {
			continue
		}
		start := idx - before
		if start < 0 {
			start = 0
		}
		end := idx + after
		if end > len(words) {
			end = len(words)
		}
		phrases = append(phrases, strings.Join(words[start:end], " "))
	}
	return phrases
}
