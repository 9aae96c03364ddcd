package evidence

import (
	"errors"
	"testing"

	"attest/internal/services"
)

func ts(v float64) *float64 { return &v }

func TestBuildTimelineFiltersEmptyRecords(t *testing.T) {
	records := []Record{
		{Timestamp: ts(2), Source: "a.webm", RawDescription: "nothing detected"},
		{Timestamp: ts(4), Source: "a.webm", ActionPhrases: []string{"user clicks the search icon"}},
		{Timestamp: ts(6), Source: "a.webm", TextSnippets: []string{"Login"}},
	}

	timeline, err := BuildTimeline(records)
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("len(timeline) = %d, want 2", len(timeline))
	}
	if timeline[0].Timestamp != 4 || timeline[1].Timestamp != 6 {
		t.Errorf("unexpected timestamps: %v, %v", timeline[0].Timestamp, timeline[1].Timestamp)
	}
	if timeline[0].FormattedTime != "00:04" {
		t.Errorf("FormattedTime = %q, want 00:04", timeline[0].FormattedTime)
	}
}

func TestBuildTimelineMissingTimestamp(t *testing.T) {
	records := []Record{
		{Source: "a.webm", ActionPhrases: []string{"click"}},
	}
	_, err := BuildTimeline(records)
	if err == nil {
		t.Fatal("expected error for missing timestamp")
	}
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestBuildTimelineNegativeTimestamp(t *testing.T) {
	records := []Record{
		{Timestamp: ts(-0.5), Source: "a.webm", ActionPhrases: []string{"click"}},
	}
	_, err := BuildTimeline(records)
	if err == nil {
		t.Fatal("expected error for negative timestamp")
	}
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestBuildTimelineOrdersByTimestamp(t *testing.T) {
	records := []Record{
		{Timestamp: ts(10), Source: "a", ActionPhrases: []string{"late"}},
		{Timestamp: ts(2), Source: "a", ActionPhrases: []string{"early"}},
		{Timestamp: ts(10), Source: "a", ActionPhrases: []string{"late-second"}},
	}
	timeline, err := BuildTimeline(records)
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	if timeline[0].ActionPhrases[0] != "early" {
		t.Errorf("first event = %v, want early", timeline[0].ActionPhrases)
	}
	// Equal timestamps keep insertion order.
	if timeline[1].ActionPhrases[0] != "late" || timeline[2].ActionPhrases[0] != "late-second" {
		t.Errorf("tie order not preserved: %v, %v", timeline[1].ActionPhrases, timeline[2].ActionPhrases)
	}
}

func TestBuildTimelineEmptyInput(t *testing.T) {
	timeline, err := BuildTimeline(nil)
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	if len(timeline) != 0 {
		t.Errorf("len(timeline) = %d, want 0", len(timeline))
	}
}

func TestMergeStableAcrossSources(t *testing.T) {
	a := Timeline{
		{Timestamp: 2, Source: "a", ActionPhrases: []string{"a-2"}},
		{Timestamp: 5, Source: "a", ActionPhrases: []string{"a-5"}},
	}
	b := Timeline{
		{Timestamp: 2, Source: "b", ActionPhrases: []string{"b-2"}},
		{Timestamp: 3, Source: "b", ActionPhrases: []string{"b-3"}},
	}

	merged := Merge(a, b)
	got := make([]string, 0, len(merged))
	for _, event := range merged {
		got = append(got, event.ActionPhrases[0])
	}
	want := []string{"a-2", "b-2", "b-3", "a-5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("merged order = %v, want %v", got, want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{65.7, "01:05"},
		{600, "10:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
