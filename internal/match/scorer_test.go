package match

import (
	"errors"
	"testing"

	"attest/internal/services"
	"attest/internal/textutil"
)

func TestScoreRange(t *testing.T) {
	scorer := NewDefaultScorer()
	pairs := [][2]string{
		{"", ""},
		{"Click the Search icon", "click search icon"},
		{"Click the Search icon", ""},
		{"", "click search icon"},
		{"Enter password into login field", "a cat sat on a mat"},
		{`Type "standard_user" into the Username field`, `the username field shows "standard_user"`},
		{"!!! ???", "..."},
	}
	for _, pair := range pairs {
		score := scorer.Score(pair[0], pair[1])
		if score < 0 || score > 1 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", pair[0], pair[1], score)
		}
	}
}

func TestScoreEmptyInputsNeverMatch(t *testing.T) {
	scorer := NewDefaultScorer()
	if got := scorer.Score("", ""); got != 0 {
		t.Errorf("Score(empty, empty) = %v, want 0", got)
	}
	// No vocabulary hits on either side must also score 0, not 1.
	if got := scorer.Score("lorem ipsum dolor", "sit amet"); got != 0 {
		t.Errorf("Score(no-signal) = %v, want 0", got)
	}
}

func TestScoreExactActionAndObjectAgreement(t *testing.T) {
	scorer := NewDefaultScorer()
	// Action overlap: {click, search} vs {click, search} = 1.0.
	// Object overlap: planned {search, icon} vs observed {search, icon} = 1.0.
	got := scorer.Score("click the search icon", "click search icon")
	if got != 1.0 {
		t.Errorf("Score = %v, want 1.0", got)
	}
}

func TestScoreWeighting(t *testing.T) {
	scorer := NewDefaultScorer()
	// Same action, different object: the score is exactly the action weight.
	got := scorer.Score("click the button", "click the link")
	if got < DefaultActionWeight {
		t.Errorf("Score = %v, want >= %v (full action agreement)", got, DefaultActionWeight)
	}
	if got >= 1.0 {
		t.Errorf("Score = %v, objects disagree so score must stay below 1", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewDefaultScorer()
	planned := `Click the "Search" icon on the Wrangler Homepage`
	observed := "the user clicks a search icon near the Wrangler logo"
	first := scorer.Score(planned, observed)
	for i := 0; i < 10; i++ {
		if got := scorer.Score(planned, observed); got != first {
			t.Fatalf("run %d: Score = %v, want %v", i, got, first)
		}
	}
}

func TestScoreProfileMatchesScore(t *testing.T) {
	scorer := NewDefaultScorer()
	planned := "Click the Search icon"
	observed := "click search icon"
	profile := scorer.Profile(planned)
	if scorer.ScoreProfile(profile, observed) != scorer.Score(planned, observed) {
		t.Error("profile scoring must equal raw scoring")
	}
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	vocab := textutil.DefaultVocabulary()
	tests := []struct {
		name           string
		action, object float64
	}{
		{"negative action", -0.1, 0.5},
		{"negative object", 0.5, -0.1},
		{"zero sum", 0, 0},
		{"sum above one", 0.8, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScorer(vocab, tt.action, tt.object)
			if !errors.Is(err, services.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestQuotedValuesCountAsObjects(t *testing.T) {
	scorer := NewDefaultScorer()
	with := scorer.Score(`Enter "standard_user" in the field`, `typing "standard_user" into a field`)
	without := scorer.Score(`Enter "standard_user" in the field`, `typing "other_user" into a field`)
	if with <= without {
		t.Errorf("quoted literal agreement should raise the score: with=%v without=%v", with, without)
	}
}
