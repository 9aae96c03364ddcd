package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"attest/internal/audit"
	"attest/internal/config"
	"attest/internal/logging"
	"attest/internal/match"
	"attest/internal/services"
	"attest/internal/video"
)

const sampleAgentLog = `{
  "planner_agent": [
    {"role": "user", "name": "user", "content": "run the test"},
    {"role": "assistant", "name": "planner_agent", "content": {
      "plan": "1. Click the Search icon\n2. Open the export dialog",
      "next_step": "Click the Search icon in the toolbar",
      "next_step_summary": "Click the Search icon",
      "terminate": "no", "is_assert": false
    }},
    {"role": "assistant", "name": "planner_agent", "content": {
      "next_step": "Open the export dialog from the menu",
      "next_step_summary": "Open the export dialog",
      "terminate": "no", "is_assert": false
    }},
    {"role": "assistant", "name": "planner_agent", "content": {
      "is_assert": true, "terminate": "yes",
      "assert_summary": "Verify results. EXPECTED RESULT: dialog open ACTUAL RESULT: dialog open"
    }}
  ]
}`

type fakeSampler struct {
	descriptions []string
	err          error
}

// Sample fabricates one frame file per canned description so the runner can
// read and "describe" them.
func (f *fakeSampler) Sample(_ context.Context, videoPath, workDir string) ([]video.Frame, error) {
	if f.err != nil {
		return nil, f.err
	}
	frames := make([]video.Frame, 0, len(f.descriptions))
	for i := range f.descriptions {
		path := filepath.Join(workDir, filepath.Base(videoPath)+"-frame-"+string(rune('a'+i))+".jpg")
		if err := os.WriteFile(path, []byte{byte(i)}, 0o644); err != nil {
			return nil, err
		}
		frames = append(frames, video.Frame{
			Number:    i,
			Timestamp: float64(i) * 2.0,
			Source:    filepath.Base(videoPath),
			Path:      path,
		})
	}
	return frames, nil
}

type fakeDescriber struct {
	sampler *fakeSampler
	calls   int
	failOn  int
	// failErr defaults to a transient service failure.
	failErr error
}

func (f *fakeDescriber) Describe(_ context.Context, jpeg []byte) (string, error) {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		if f.failErr != nil {
			return "", f.failErr
		}
		return "", services.Wrap(services.ErrTransient, "vision", "describe", "service unavailable", nil)
	}
	idx := int(jpeg[0])
	return f.sampler.descriptions[idx], nil
}

type fakeHistory struct {
	runs []audit.Run
	err  error
}

func (f *fakeHistory) InsertRun(_ context.Context, run audit.Run) error {
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, run)
	return nil
}

func testRunner(t *testing.T, sampler *fakeSampler, describer Describer, history HistoryWriter) (*Runner, *config.Config) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ReportDir = filepath.Join(base, "reports")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	logger, err := logging.New(logging.Options{Level: "error", Format: "console", Output: os.Stderr})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	runner, err := NewRunner(&cfg, logger, sampler, describer, history)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, &cfg
}

func writeAgentLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent_inner_logs.json")
	if err := os.WriteFile(path, []byte(sampleAgentLog), 0o644); err != nil {
		t.Fatalf("write agent log: %v", err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	sampler := &fakeSampler{descriptions: []string{
		"The user clicks the Search icon in the top toolbar.",
		"A loading spinner is shown.",
	}}
	describer := &fakeDescriber{sampler: sampler}
	history := &fakeHistory{}
	runner, cfg := testRunner(t, sampler, describer, history)

	outcome, err := runner.Run(context.Background(), Request{
		LogPath:    writeAgentLog(t),
		VideoPaths: []string{"/recordings/checkout search.webm"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if outcome.RunID == "" {
		t.Error("missing run id")
	}
	if outcome.Title != "Checkout Search" {
		t.Errorf("title = %q", outcome.Title)
	}
	if outcome.Report.Totals.Total != 2 {
		t.Fatalf("totals = %+v, want 2 steps", outcome.Report.Totals)
	}

	// "Click the Search icon" is described almost verbatim; the export dialog
	// never appears on screen.
	first := outcome.Report.Results[0]
	if first.Verdict != match.VerdictObserved {
		t.Errorf("first step verdict = %s (score %v)", first.Verdict, first.BestScore)
	}
	second := outcome.Report.Results[1]
	if second.Verdict != match.VerdictDeviation {
		t.Errorf("second step verdict = %s (score %v)", second.Verdict, second.BestScore)
	}

	content, err := os.ReadFile(outcome.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "# Deviation Report") {
		t.Error("report file missing header")
	}
	if !strings.HasPrefix(outcome.ReportPath, cfg.Paths.ReportDir) {
		t.Errorf("report path = %q, want under %q", outcome.ReportPath, cfg.Paths.ReportDir)
	}

	if len(history.runs) != 1 {
		t.Fatalf("history runs = %d, want 1", len(history.runs))
	}
	persisted := history.runs[0]
	if persisted.ID != outcome.RunID || persisted.TotalSteps != 2 {
		t.Errorf("persisted run = %+v", persisted)
	}
	if persisted.Observed != outcome.Report.Totals.Observed {
		t.Errorf("persisted observed = %d", persisted.Observed)
	}
}

func TestRunToleratesFrameDescriptionFailure(t *testing.T) {
	sampler := &fakeSampler{descriptions: []string{
		"The user clicks the Search icon in the top toolbar.",
		"Another frame.",
	}}
	describer := &fakeDescriber{sampler: sampler, failOn: 2}
	runner, _ := testRunner(t, sampler, describer, &fakeHistory{})

	outcome, err := runner.Run(context.Background(), Request{
		LogPath:    writeAgentLog(t),
		VideoPaths: []string{"run.webm"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Report.Results[0].Verdict != match.VerdictObserved {
		t.Errorf("surviving frame did not confirm first step: %+v", outcome.Report.Results[0])
	}
}

func TestRunAbortsOnNonRecoverableCaptionError(t *testing.T) {
	sampler := &fakeSampler{descriptions: []string{"The user clicks the Search icon."}}
	describer := &fakeDescriber{
		sampler: sampler,
		failOn:  1,
		failErr: services.Wrap(services.ErrConfiguration, "vision", "describe", "api key required", nil),
	}
	runner, _ := testRunner(t, sampler, describer, nil)

	_, err := runner.Run(context.Background(), Request{
		LogPath:    writeAgentLog(t),
		VideoPaths: []string{"run.webm"},
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("Run = %v, want configuration error", err)
	}
}

func TestRunSkipsMissingTestResult(t *testing.T) {
	sampler := &fakeSampler{descriptions: []string{"The user clicks the Search icon."}}
	runner, _ := testRunner(t, sampler, &fakeDescriber{sampler: sampler}, nil)

	outcome, err := runner.Run(context.Background(), Request{
		LogPath:        writeAgentLog(t),
		VideoPaths:     []string{"run.webm"},
		TestResultPath: filepath.Join(t.TempDir(), "missing.xml"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.TestSummary != nil {
		t.Errorf("TestSummary = %+v, want nil for absent artifact", outcome.TestSummary)
	}
}

func TestRunFailsOnMalformedTestResult(t *testing.T) {
	sampler := &fakeSampler{descriptions: []string{"The user clicks the Search icon."}}
	runner, _ := testRunner(t, sampler, &fakeDescriber{sampler: sampler}, nil)

	badPath := filepath.Join(t.TempDir(), "result.xml")
	if err := os.WriteFile(badPath, []byte("<testsuites"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	_, err := runner.Run(context.Background(), Request{
		LogPath:        writeAgentLog(t),
		VideoPaths:     []string{"run.webm"},
		TestResultPath: badPath,
	})
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("Run = %v, want input error for malformed artifact", err)
	}
}

func TestRunFailsOnSamplerError(t *testing.T) {
	sampler := &fakeSampler{err: errors.New("ffmpeg exploded")}
	runner, _ := testRunner(t, sampler, &fakeDescriber{sampler: sampler}, nil)

	_, err := runner.Run(context.Background(), Request{
		LogPath:    writeAgentLog(t),
		VideoPaths: []string{"run.webm"},
	})
	if err == nil || !strings.Contains(err.Error(), "ffmpeg exploded") {
		t.Errorf("Run = %v, want sampler error", err)
	}
}

func TestRunValidatesRequest(t *testing.T) {
	sampler := &fakeSampler{}
	runner, _ := testRunner(t, sampler, &fakeDescriber{sampler: sampler}, nil)

	if _, err := runner.Run(context.Background(), Request{VideoPaths: []string{"a.webm"}}); err == nil {
		t.Error("expected error for missing log path")
	}
	if _, err := runner.Run(context.Background(), Request{LogPath: "log.json"}); err == nil {
		t.Error("expected error for missing videos")
	}
}

func TestRunSkipsHistoryWhenNil(t *testing.T) {
	sampler := &fakeSampler{descriptions: []string{"The user clicks the Search icon."}}
	runner, _ := testRunner(t, sampler, &fakeDescriber{sampler: sampler}, nil)

	if _, err := runner.Run(context.Background(), Request{
		LogPath:    writeAgentLog(t),
		VideoPaths: []string{"run.webm"},
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestDeriveRunTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/recordings/checkout_search-run.webm", "Checkout Search Run"},
		{"login flow.mp4", "Login Flow"},
		{"", "Unknown Run"},
		{"___.webm", "Unknown Run"},
	}
	for _, tt := range tests {
		if got := deriveRunTitle(tt.input); got != tt.want {
			t.Errorf("deriveRunTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
