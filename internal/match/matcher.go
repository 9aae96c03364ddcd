package match

import (
	"fmt"

	"attest/internal/evidence"
	"attest/internal/plan"
	"attest/internal/services"
)

// DefaultThreshold is the minimum best score at which a step counts as
// observed.
const DefaultThreshold = 0.5

// Verdict is the per-step outcome of matching.
type Verdict string

const (
	VerdictObserved  Verdict = "observed"
	VerdictDeviation Verdict = "deviation"
)

// Candidate is one (event, phrase, score) triple found while scanning the
// timeline.
type Candidate struct {
	Event  *evidence.Event
	Phrase string
	Score  float64
}

// Result is the match outcome for one planned step.
type Result struct {
	Step Step
	// BestCandidate is the highest-scoring candidate, or nil when the
	// timeline produced no score above zero. On equal scores the earliest
	// candidate in timeline order wins.
	BestCandidate *Candidate
	BestScore     float64
	// AboveThreshold lists every candidate at or above the threshold, in
	// timeline order.
	AboveThreshold []Candidate
	Verdict        Verdict
	// Deviation is set only when Verdict is VerdictDeviation.
	Deviation *DeviationRecord
}

// Step is an alias for the planned-step model the matcher consumes.
type Step = plan.Step

// Matcher scans the observation timeline for evidence confirming one planned
// step.
type Matcher struct {
	scorer    *Scorer
	threshold float64
}

// NewMatcher builds a matcher. The threshold must be in [0, 1]; anything else
// is rejected here so no step is ever processed against inconsistent
// configuration.
func NewMatcher(scorer *Scorer, threshold float64) (*Matcher, error) {
	if scorer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "match", "new matcher", "scorer required", nil)
	}
	if threshold < 0 || threshold > 1 {
		return nil, services.Wrap(services.ErrConfiguration, "match", "new matcher",
			fmt.Sprintf("threshold must be in [0, 1], got %v", threshold), nil)
	}
	return &Matcher{scorer: scorer, threshold: threshold}, nil
}

// MatchStep scans every event in the timeline, and within each event every
// phrase across all three phrase sets, scoring each against the step's
// comparison text. The scan is sequential and ordered: the tie-break rule
// (earliest candidate wins on equal scores) depends on it.
func (m *Matcher) MatchStep(step Step, timeline evidence.Timeline) Result {
	result := Result{Step: step}
	planned := m.scorer.Profile(step.ComparisonText())

	// Observed phrases repeat across frames; profile each distinct phrase once.
	profiles := make(map[string]TextProfile)
	profileOf := func(phrase string) TextProfile {
		if cached, ok := profiles[phrase]; ok {
			return cached
		}
		profile := m.scorer.Profile(phrase)
		profiles[phrase] = profile
		return profile
	}

	for i := range timeline {
		event := &timeline[i]
		for _, phrase := range eventPhrases(event) {
			score := m.scorer.scoreProfiles(planned, profileOf(phrase))
			if score > result.BestScore {
				result.BestScore = score
				result.BestCandidate = &Candidate{Event: event, Phrase: phrase, Score: score}
			}
			if score >= m.threshold {
				result.AboveThreshold = append(result.AboveThreshold, Candidate{Event: event, Phrase: phrase, Score: score})
			}
		}
	}

	if result.BestScore >= m.threshold {
		result.Verdict = VerdictObserved
	} else {
		result.Verdict = VerdictDeviation
	}
	return result
}

func eventPhrases(event *evidence.Event) []string {
	phrases := make([]string, 0, len(event.ActionPhrases)+len(event.UIElementPhrases)+len(event.TextSnippets))
	phrases = append(phrases, event.ActionPhrases...)
	phrases = append(phrases, event.UIElementPhrases...)
	phrases = append(phrases, event.TextSnippets...)
	return phrases
}
