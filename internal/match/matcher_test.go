package match

import (
	"errors"
	"testing"

	"attest/internal/evidence"
	"attest/internal/services"
)

func newTestMatcher(t *testing.T, threshold float64) *Matcher {
	t.Helper()
	matcher, err := NewMatcher(NewDefaultScorer(), threshold)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return matcher
}

func TestNewMatcherRejectsBadThreshold(t *testing.T) {
	for _, threshold := range []float64{-0.1, 1.1, 2} {
		_, err := NewMatcher(NewDefaultScorer(), threshold)
		if !errors.Is(err, services.ErrConfiguration) {
			t.Errorf("threshold %v: expected ErrConfiguration, got %v", threshold, err)
		}
	}
	if _, err := NewMatcher(nil, 0.5); !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("nil scorer: expected ErrConfiguration, got %v", err)
	}
}

func TestMatchStepObserved(t *testing.T) {
	matcher := newTestMatcher(t, 0.5)
	step := Step{Summary: "Click the Search icon"}
	timeline := evidence.Timeline{
		{
			Timestamp:     5,
			FormattedTime: "00:05",
			ActionPhrases: []string{"click search icon"},
		},
	}

	result := matcher.MatchStep(step, timeline)
	if result.Verdict != VerdictObserved {
		t.Fatalf("Verdict = %v, want observed (bestScore %v)", result.Verdict, result.BestScore)
	}
	if result.BestScore < 0.5 {
		t.Errorf("BestScore = %v, want >= 0.5", result.BestScore)
	}
	if result.BestCandidate == nil || result.BestCandidate.Event.Timestamp != 5 {
		t.Error("BestCandidate should reference the 00:05 event")
	}
	if len(result.AboveThreshold) != 1 {
		t.Errorf("AboveThreshold = %v, want one candidate", result.AboveThreshold)
	}
}

func TestMatchStepNoEvidence(t *testing.T) {
	matcher := newTestMatcher(t, 0.5)
	step := Step{Description: "Enter password into login field"}
	timeline := evidence.Timeline{
		{Timestamp: 2, ActionPhrases: []string{"scrolling a product list"}},
		{Timestamp: 8, UIElementPhrases: []string{"a red banner"}},
	}

	result := matcher.MatchStep(step, timeline)
	if result.Verdict != VerdictDeviation {
		t.Fatalf("Verdict = %v, want deviation", result.Verdict)
	}
	if result.BestScore != 0 {
		t.Errorf("BestScore = %v, want 0", result.BestScore)
	}
	if result.BestCandidate != nil {
		t.Errorf("BestCandidate = %+v, want nil when nothing scored above zero", result.BestCandidate)
	}
	if len(result.AboveThreshold) != 0 {
		t.Errorf("AboveThreshold = %v, want empty", result.AboveThreshold)
	}
}

func TestMatchStepTieBreakEarliestWins(t *testing.T) {
	matcher := newTestMatcher(t, 0.5)
	step := Step{Summary: "Click the Search icon"}
	// Identical phrases at 5s and 12s: the 5s event must win the tie.
	timeline := evidence.Timeline{
		{Timestamp: 5, FormattedTime: "00:05", ActionPhrases: []string{"click search icon"}},
		{Timestamp: 12, FormattedTime: "00:12", ActionPhrases: []string{"click search icon"}},
	}

	result := matcher.MatchStep(step, timeline)
	if result.BestCandidate == nil {
		t.Fatal("expected a best candidate")
	}
	if result.BestCandidate.Event.Timestamp != 5 {
		t.Errorf("BestCandidate timestamp = %v, want 5 (earliest wins)", result.BestCandidate.Event.Timestamp)
	}
	if len(result.AboveThreshold) != 2 {
		t.Errorf("AboveThreshold = %d candidates, want 2", len(result.AboveThreshold))
	}
	// Above-threshold candidates preserve timeline order.
	if result.AboveThreshold[0].Event.Timestamp != 5 || result.AboveThreshold[1].Event.Timestamp != 12 {
		t.Error("AboveThreshold not in timeline order")
	}
}

func TestMatchStepScansAllPhraseSets(t *testing.T) {
	matcher := newTestMatcher(t, 0.5)
	step := Step{Summary: "Click the Search icon"}

	// Evidence only in the UI-element set.
	uiOnly := evidence.Timeline{{Timestamp: 3, UIElementPhrases: []string{"click the search icon"}}}
	if result := matcher.MatchStep(step, uiOnly); result.Verdict != VerdictObserved {
		t.Errorf("UI-element evidence ignored: %+v", result)
	}

	// Evidence only in the text-snippet set.
	textOnly := evidence.Timeline{{Timestamp: 3, TextSnippets: []string{"click the search icon"}}}
	if result := matcher.MatchStep(step, textOnly); result.Verdict != VerdictObserved {
		t.Errorf("text-snippet evidence ignored: %+v", result)
	}
}

func TestMatchStepEmptyTimeline(t *testing.T) {
	matcher := newTestMatcher(t, 0.5)
	result := matcher.MatchStep(Step{Summary: "Click the Search icon"}, nil)
	if result.Verdict != VerdictDeviation || result.BestScore != 0 {
		t.Errorf("empty timeline: verdict=%v bestScore=%v, want deviation/0", result.Verdict, result.BestScore)
	}
}

func TestMatchStepDeterministic(t *testing.T) {
	matcher := newTestMatcher(t, 0.5)
	step := Step{Summary: `Filter results by "Blue" color`}
	timeline := evidence.Timeline{
		{Timestamp: 1, ActionPhrases: []string{"to filter the results"}, TextSnippets: []string{"Blue"}},
		{Timestamp: 4, UIElementPhrases: []string{"a filter menu open"}},
	}

	first := matcher.MatchStep(step, timeline)
	for i := 0; i < 5; i++ {
		again := matcher.MatchStep(step, timeline)
		if again.BestScore != first.BestScore || again.Verdict != first.Verdict {
			t.Fatalf("run %d differs: %v/%v vs %v/%v", i, again.BestScore, again.Verdict, first.BestScore, first.Verdict)
		}
		if len(again.AboveThreshold) != len(first.AboveThreshold) {
			t.Fatalf("run %d: candidate count differs", i)
		}
	}
}
