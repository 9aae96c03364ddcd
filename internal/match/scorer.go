package match

import (
	"fmt"
	"strings"

	"attest/internal/services"
	"attest/internal/textutil"
)

// Default scoring weights. Action-verb agreement matters more than
// object/target agreement for confirming that the same kind of action
// occurred.
const (
	DefaultActionWeight = 0.6
	DefaultObjectWeight = 0.4
)

// Scorer computes the similarity between a planned instruction and one
// observed text fragment as a weighted overlap of action tokens and object
// tokens. Scores are always in [0, 1] and defined for any pair of strings.
type Scorer struct {
	vocab        textutil.Vocabulary
	actionWeight float64
	objectWeight float64
}

// NewScorer builds a scorer over the given vocabulary. Weights must be
// non-negative and sum to a positive value no greater than 1.
func NewScorer(vocab textutil.Vocabulary, actionWeight, objectWeight float64) (*Scorer, error) {
	if actionWeight < 0 || objectWeight < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "match", "new scorer",
			fmt.Sprintf("weights must be non-negative (action=%v, object=%v)", actionWeight, objectWeight), nil)
	}
	sum := actionWeight + objectWeight
	if sum <= 0 || sum > 1 {
		return nil, services.Wrap(services.ErrConfiguration, "match", "new scorer",
			fmt.Sprintf("weights must sum to (0, 1], got %v", sum), nil)
	}
	return &Scorer{vocab: vocab, actionWeight: actionWeight, objectWeight: objectWeight}, nil
}

// NewDefaultScorer builds a scorer with the built-in vocabulary and weights.
func NewDefaultScorer() *Scorer {
	scorer, err := NewScorer(textutil.DefaultVocabulary(), DefaultActionWeight, DefaultObjectWeight)
	if err != nil {
		panic(err) // defaults are statically valid
	}
	return scorer
}

// Score returns the weighted overlap between the planned and observed text.
func (s *Scorer) Score(planned, observed string) float64 {
	return s.scoreProfiles(s.Profile(planned), s.Profile(observed))
}

// TextProfile is the precomputed token classification of one text. Profiles
// let callers scan many pairs without re-tokenizing; scoring a profile is
// behaviorally identical to scoring the raw text.
type TextProfile struct {
	actions map[string]struct{}
	objects map[string]struct{}
}

// Profile tokenizes and classifies text once for repeated scoring.
func (s *Scorer) Profile(text string) TextProfile {
	tokens := textutil.Tokenize(text)
	profile := TextProfile{
		actions: make(map[string]struct{}),
		objects: make(map[string]struct{}),
	}
	for _, token := range tokens {
		if s.vocab.IsActionVerb(token) {
			profile.actions[token] = struct{}{}
		}
		if s.vocab.IsUINoun(token) {
			profile.objects[token] = struct{}{}
		}
	}
	for _, quoted := range textutil.QuotedStrings(text) {
		profile.objects[strings.ToLower(quoted)] = struct{}{}
	}
	for _, phrase := range textutil.CapitalizedPhrases(text) {
		profile.objects[strings.ToLower(phrase)] = struct{}{}
	}
	return profile
}

// ScoreProfile scores a precomputed planned profile against observed text.
func (s *Scorer) ScoreProfile(planned TextProfile, observed string) float64 {
	return s.scoreProfiles(planned, s.Profile(observed))
}

func (s *Scorer) scoreProfiles(planned, observed TextProfile) float64 {
	actionMatch := overlap(planned.actions, observed.actions)
	objectMatch := overlap(planned.objects, observed.objects)
	return s.actionWeight*actionMatch + s.objectWeight*objectMatch
}

// overlap is |A∩B| / max(|A∪B|, 1). Two empty sets yield 0, not 1: absence
// of signal must never register as a match.
func overlap(a, b map[string]struct{}) float64 {
	var intersection, union int
	for token := range a {
		union++
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	for token := range b {
		if _, ok := a[token]; !ok {
			union++
		}
	}
	if union == 0 {
		union = 1
	}
	return float64(intersection) / float64(union)
}
