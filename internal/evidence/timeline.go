package evidence

import (
	"fmt"
	"sort"

	"attest/internal/services"
)

// Record is one raw per-frame evidence record as produced by the captioning
// stage (or loaded from a cached evidence file). Timestamp is a pointer so a
// malformed record with no timestamp is detectable rather than silently
// becoming zero.
type Record struct {
	Timestamp        *float64 `json:"timestamp"`
	Source           string   `json:"source"`
	FrameNumber      int      `json:"frame_number"`
	ActionPhrases    []string `json:"actions"`
	UIElementPhrases []string `json:"ui_elements"`
	TextSnippets     []string `json:"text_content"`
	RawDescription   string   `json:"description"`
}

func (r Record) hasSignal() bool {
	return len(r.ActionPhrases) > 0 || len(r.UIElementPhrases) > 0 || len(r.TextSnippets) > 0
}

// Event is one confirmed observation on the timeline.
type Event struct {
	Timestamp        float64
	FormattedTime    string
	Source           string
	ActionPhrases    []string
	UIElementPhrases []string
	TextSnippets     []string
	RawDescription   string
}

// Timeline is an ordered sequence of observation events. Timestamps are
// non-decreasing; ties preserve insertion order.
type Timeline []Event

// BuildTimeline filters and orders raw records into a timeline. Records with
// all three phrase sets empty carry no evidentiary signal and are dropped.
// A record without a timestamp, or with a negative one, is an input error:
// timestamps come from the video decoder and event timestamps must be >= 0.
func BuildTimeline(records []Record) (Timeline, error) {
	timeline := make(Timeline, 0, len(records))
	for i, record := range records {
		if record.Timestamp == nil {
			return nil, services.Wrap(services.ErrInput, "timeline", "build",
				fmt.Sprintf("record %d (source %q) has no timestamp", i, record.Source), nil)
		}
		if *record.Timestamp < 0 {
			return nil, services.Wrap(services.ErrInput, "timeline", "build",
				fmt.Sprintf("record %d (source %q) has negative timestamp %v", i, record.Source, *record.Timestamp), nil)
		}
		if !record.hasSignal() {
			continue
		}
		timeline = append(timeline, Event{
			Timestamp:        *record.Timestamp,
			FormattedTime:    FormatTimestamp(*record.Timestamp),
			Source:           record.Source,
			ActionPhrases:    record.ActionPhrases,
			UIElementPhrases: record.UIElementPhrases,
			TextSnippets:     record.TextSnippets,
			RawDescription:   record.RawDescription,
		})
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp < timeline[j].Timestamp
	})
	return timeline, nil
}

// Merge combines timelines from multiple sources into one sequence ordered by
// ascending timestamp. Events with equal timestamps keep the order of the
// source arguments. Near-identical observations from different sources are
// kept as-is, never deduplicated.
func Merge(timelines ...Timeline) Timeline {
	total := 0
	for _, tl := range timelines {
		total += len(tl)
	}
	merged := make(Timeline, 0, total)
	for _, tl := range timelines {
		merged = append(merged, tl...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}

// FormatTimestamp renders seconds as MM:SS.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
