package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"attest/internal/services"
)

const sampleLog = `{
  "planner_agent": [
    {"role": "user", "name": "user", "content": "run the checkout test"},
    {"role": "assistant", "name": "planner_agent", "content": {
      "plan": "1. Open the homepage\n2. Click the Search icon",
      "next_step": "Open the retailer homepage and wait for it to load",
      "next_step_summary": "Open the homepage",
      "terminate": "no"
    }},
    {"role": "assistant", "name": "planner_agent", "content": {
      "next_step": "Click the magnifying glass Search icon in the header",
      "next_step_summary": "Click the Search icon",
      "terminate": "no"
    }},
    {"role": "assistant", "name": "planner_agent", "content": {
      "next_step": "",
      "is_assert": true,
      "assert_summary": "EXPECTED RESULT: search results are visible",
      "terminate": "yes"
    }},
    {"role": "assistant", "name": "planner_agent", "content": "done"}
  ]
}`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent_inner_logs.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLog(t *testing.T) {
	parsed, err := ParseLog(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("ParseLog: %v", err)
	}

	if len(parsed.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(parsed.Steps))
	}
	if len(parsed.Assertions) != 1 {
		t.Fatalf("len(Assertions) = %d, want 1", len(parsed.Assertions))
	}
	if parsed.Text == "" {
		t.Error("expected plan text")
	}
	if got := parsed.Steps[1].ComparisonText(); got != "Click the Search icon" {
		t.Errorf("ComparisonText = %q", got)
	}
	if !parsed.Assertions[0].IsAssertion {
		t.Error("assertion step not flagged")
	}
	if parsed.Assertions[0].ExpectedResult == "" {
		t.Error("assertion step missing expected result")
	}
}

func TestParseLogMissingFile(t *testing.T) {
	_, err := ParseLog(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestParseLogMalformed(t *testing.T) {
	_, err := ParseLog(writeLog(t, "{not json"))
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestParseLogNoSteps(t *testing.T) {
	_, err := ParseLog(writeLog(t, `{"planner_agent": []}`))
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestComparisonTextFallsBackToDescription(t *testing.T) {
	step := Step{Description: "Enter password into login field"}
	if got := step.ComparisonText(); got != "Enter password into login field" {
		t.Errorf("ComparisonText = %q", got)
	}
	step.Summary = "Enter password"
	if got := step.ComparisonText(); got != "Enter password" {
		t.Errorf("ComparisonText = %q", got)
	}
}
