package testresult

import "strings"

// Outcome is the harness's own verdict for the run.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeUnknown Outcome = "unknown"
)

// Failure is one recorded test failure.
type Failure struct {
	Message string
	Text    string
}

// PlanStep is one numbered step recovered from embedded plan text.
type PlanStep struct {
	Number      int
	Description string
}

// Assertion is one recorded assertion with its expected and actual outcomes,
// when the assertion text carries them.
type Assertion struct {
	Summary  string
	Expected string
	Actual   string
}

// Summary aggregates everything recovered from a test result artifact.
type Summary struct {
	Outcome    Outcome
	TotalTests int
	FailCount  int
	Failures   []Failure
	Plan       string
	Steps      []PlanStep
	Assertions []Assertion
	Properties map[string]string
}

// parsePlanText recovers numbered or bulleted steps from embedded plan text.
func parsePlanText(plan string) []PlanStep {
	var steps []PlanStep
	for _, line := range strings.Split(plan, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first := rune(line[0])
		if !(first >= '0' && first <= '9') && first != '-' {
			continue
		}
		text := line
		if idx := strings.Index(line, "."); idx >= 0 && first != '-' {
			text = line[idx+1:]
		} else if first == '-' {
			text = line[1:]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		steps = append(steps, PlanStep{Number: len(steps) + 1, Description: text})
	}
	return steps
}

// newAssertion splits assertion text on the EXPECTED RESULT: and
// ACTUAL RESULT: markers the harness embeds.
func newAssertion(summary string) Assertion {
	assertion := Assertion{Summary: summary}
	if _, after, found := strings.Cut(summary, "EXPECTED RESULT:"); found {
		expected, _, _ := strings.Cut(after, "ACTUAL RESULT:")
		assertion.Expected = strings.TrimSpace(expected)
	}
	if _, after, found := strings.Cut(summary, "ACTUAL RESULT:"); found {
		assertion.Actual = strings.TrimSpace(after)
	}
	return assertion
}

func (s *Summary) recordProperty(name, value string) {
	if s.Properties == nil {
		s.Properties = make(map[string]string)
	}
	s.Properties[name] = value
	switch {
	case name == "plan":
		s.Plan = value
		s.Steps = append(s.Steps, parsePlanText(value)...)
	case name == "next_step":
		s.Steps = append(s.Steps, PlanStep{Number: len(s.Steps) + 1, Description: value})
	case strings.Contains(strings.ToLower(name), "assert"):
		s.Assertions = append(s.Assertions, newAssertion(value))
	}
}
