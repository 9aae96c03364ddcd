package textutil

import "strings"

// DefaultActionVerbs is the built-in action-verb vocabulary used to decide
// whether a token describes a UI interaction.
var DefaultActionVerbs = []string{
	"click", "enter", "type", "select", "navigate",
	"filter", "search", "submit", "open", "close",
}

// DefaultUINouns is the built-in UI-noun vocabulary used to decide whether a
// token names an interface element.
var DefaultUINouns = []string{
	"button", "input", "field", "icon", "link",
	"menu", "dropdown", "filter", "search", "form", "bar",
}

// Vocabulary holds the fixed keyword sets that partition tokens into action
// verbs and UI nouns. A zero Vocabulary matches nothing; construct one with
// NewVocabulary or DefaultVocabulary.
type Vocabulary struct {
	actions map[string]struct{}
	nouns   map[string]struct{}
}

// NewVocabulary builds a vocabulary from the provided word lists. Entries are
// lowercased and trimmed; empty entries are dropped.
func NewVocabulary(actionVerbs, uiNouns []string) Vocabulary {
	return Vocabulary{
		actions: buildSet(actionVerbs),
		nouns:   buildSet(uiNouns),
	}
}

// DefaultVocabulary returns a vocabulary populated with the built-in word
// lists.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(DefaultActionVerbs, DefaultUINouns)
}

// IsActionVerb reports whether token is in the action-verb vocabulary.
func (v Vocabulary) IsActionVerb(token string) bool {
	_, ok := v.actions[token]
	return ok
}

// IsUINoun reports whether token is in the UI-noun vocabulary.
func (v Vocabulary) IsUINoun(token string) bool {
	_, ok := v.nouns[token]
	return ok
}

func buildSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}
