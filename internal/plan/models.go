package plan

import "strings"

// Step is one instruction from the automation's execution plan. Steps are
// read-only inputs to an analysis run.
type Step struct {
	// Description is the full instruction text.
	Description string
	// Summary is a short restatement of the instruction; may be empty.
	Summary string
	// IsAssertion marks verification steps rather than interactions.
	IsAssertion bool
	// ExpectedResult holds the expected outcome for assertion steps.
	ExpectedResult string
}

// ComparisonText returns the text the matching engine should score: the
// summary when present, otherwise the full description.
func (s Step) ComparisonText() string {
	if summary := strings.TrimSpace(s.Summary); summary != "" {
		return summary
	}
	return strings.TrimSpace(s.Description)
}

// Plan is the parsed execution plan of one test run.
type Plan struct {
	// Text is the full plan as written by the planner, when available.
	Text string
	// Steps are the interaction steps in execution order.
	Steps []Step
	// Assertions are the verification steps in execution order.
	Assertions []Step
}
