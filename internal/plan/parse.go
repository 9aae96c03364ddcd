package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"attest/internal/services"
)

// innerLog mirrors the agent_inner_logs.json layout: a map of agent names to
// their message histories. Only the planner's assistant messages carry plan
// content.
type innerLog struct {
	PlannerAgent []logMessage `json:"planner_agent"`
}

type logMessage struct {
	Role    string          `json:"role"`
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

type plannerContent struct {
	Plan            string `json:"plan"`
	NextStep        string `json:"next_step"`
	NextStepSummary string `json:"next_step_summary"`
	Terminate       string `json:"terminate"`
	IsAssert        bool   `json:"is_assert"`
	AssertSummary   string `json:"assert_summary"`
	FinalResponse   string `json:"final_response"`
}

// ParseLog reads an agent inner-log file and extracts the planned steps.
// Messages that are not structured planner output (plain-string content,
// other roles) are skipped rather than treated as errors.
func ParseLog(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "plan", "read log", path, err)
	}
	return parseLogData(data)
}

func parseLogData(data []byte) (*Plan, error) {
	var log innerLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, services.Wrap(services.ErrInput, "plan", "parse log", "malformed JSON", err)
	}

	result := &Plan{}
	for _, msg := range log.PlannerAgent {
		if msg.Role != "assistant" || msg.Name != "planner_agent" {
			continue
		}
		var content plannerContent
		if err := json.Unmarshal(msg.Content, &content); err != nil {
			// Free-form string content carries no step structure.
			continue
		}
		if result.Text == "" && content.Plan != "" {
			result.Text = content.Plan
		}
		if content.NextStep == "" && content.NextStepSummary == "" && content.AssertSummary == "" {
			continue
		}
		step := Step{
			Description: strings.TrimSpace(content.NextStep),
			Summary:     strings.TrimSpace(content.NextStepSummary),
			IsAssertion: content.IsAssert,
		}
		if content.IsAssert {
			step.ExpectedResult = strings.TrimSpace(content.AssertSummary)
			if step.Description == "" && step.Summary == "" {
				step.Description = step.ExpectedResult
			}
			result.Assertions = append(result.Assertions, step)
			continue
		}
		result.Steps = append(result.Steps, step)
	}

	if len(result.Steps) == 0 && len(result.Assertions) == 0 {
		return nil, services.Wrap(services.ErrInput, "plan", "parse log",
			fmt.Sprintf("no planner steps found (%d planner messages)", len(log.PlannerAgent)), nil)
	}
	return result, nil
}
