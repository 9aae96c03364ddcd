package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"attest/internal/audit"
	"attest/internal/config"
	"attest/internal/evidence"
	"attest/internal/logging"
	"attest/internal/match"
	"attest/internal/plan"
	"attest/internal/report"
	"attest/internal/services"
	"attest/internal/testresult"
	"attest/internal/textutil"
	"attest/internal/video"
)

// FrameSampler extracts frames from one recording into a working directory.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath, workDir string) ([]video.Frame, error)
}

// Describer produces a natural-language description of one frame image.
type Describer interface {
	Describe(ctx context.Context, jpeg []byte) (string, error)
}

// HistoryWriter records completed runs.
type HistoryWriter interface {
	InsertRun(ctx context.Context, run audit.Run) error
}

// Request names the inputs of one analysis run.
type Request struct {
	LogPath    string
	VideoPaths []string
	// TestResultPath optionally points at a JUnit XML or pytest-html
	// artifact for the cross-reference section.
	TestResultPath string
}

// Outcome is everything one run produced.
type Outcome struct {
	RunID         string
	Title         string
	Plan          *plan.Plan
	Report        match.Report
	TestSummary   *testresult.Summary
	ReportPath    string
	ReportContent string
}

// Runner wires the analysis stages together.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	sampler   FrameSampler
	describer Describer
	history   HistoryWriter
}

// NewRunner constructs a run driver. history may be nil when persistence is
// not wanted.
func NewRunner(cfg *config.Config, logger *slog.Logger, sampler FrameSampler, describer Describer, history HistoryWriter) (*Runner, error) {
	if cfg == nil || logger == nil || sampler == nil || describer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new runner",
			"config, logger, sampler, and describer are required", nil)
	}
	return &Runner{cfg: cfg, logger: logger, sampler: sampler, describer: describer, history: history}, nil
}

// Run executes the full pipeline for one request.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if strings.TrimSpace(req.LogPath) == "" {
		return nil, services.Wrap(services.ErrInput, "pipeline", "run", "agent log path required", nil)
	}
	if len(req.VideoPaths) == 0 {
		return nil, services.Wrap(services.ErrInput, "pipeline", "run", "at least one recording required", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)

	engine, extractor, err := r.buildEngine()
	if err != nil {
		return nil, err
	}

	testPlan, err := plan.ParseLog(req.LogPath)
	if err != nil {
		return nil, err
	}
	logging.WithContext(services.WithStage(ctx, "plan"), r.logger).Info("plan parsed",
		"steps", len(testPlan.Steps), "assertions", len(testPlan.Assertions))

	timeline, err := r.buildTimeline(ctx, runID, req.VideoPaths, extractor)
	if err != nil {
		return nil, err
	}
	logging.WithContext(services.WithStage(ctx, "timeline"), r.logger).Info("timeline built",
		"events", len(timeline))

	matchReport := engine.Run(testPlan.Steps, timeline)
	logging.WithContext(services.WithStage(ctx, "match"), r.logger).Info("steps matched",
		"observed", matchReport.Totals.Observed, "deviations", matchReport.Totals.Deviations)

	var tests *testresult.Summary
	if strings.TrimSpace(req.TestResultPath) != "" {
		tests, err = testresult.Parse(req.TestResultPath)
		if err != nil {
			// A missing artifact is skippable; a malformed one means the
			// request itself is wrong.
			if !services.Recoverable(err) {
				return nil, err
			}
			logging.WithContext(services.WithStage(ctx, "testresult"), r.logger).Warn(
				"test result unavailable", "error", err)
			tests = nil
		}
	}

	outcome := &Outcome{
		RunID:       runID,
		Title:       deriveRunTitle(req.VideoPaths[0]),
		Plan:        testPlan,
		Report:      matchReport,
		TestSummary: tests,
	}

	format := report.Format(r.cfg.Report.Format)
	content, err := report.Render(matchReport, tests, format)
	if err != nil {
		return nil, err
	}
	outcome.ReportContent = content
	outcome.ReportPath = filepath.Join(r.cfg.Paths.ReportDir,
		fmt.Sprintf("deviation-report-%s.%s", shortID(runID), report.Extension(format)))
	if err := report.Save(content, outcome.ReportPath); err != nil {
		return nil, err
	}
	logging.WithContext(services.WithStage(ctx, "report"), r.logger).Info("report written",
		"path", outcome.ReportPath)

	if r.history != nil {
		if err := r.persist(ctx, outcome, req); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// buildEngine turns the matching configuration into a validated engine and
// extractor. Configured vocabularies extend the built-in ones.
func (r *Runner) buildEngine() (*match.Engine, evidence.Extractor, error) {
	m := r.cfg.Matching
	vocab := textutil.NewVocabulary(
		append(append([]string{}, textutil.DefaultActionVerbs...), m.ActionVerbs...),
		append(append([]string{}, textutil.DefaultUINouns...), m.UINouns...),
	)
	scorer, err := match.NewScorer(vocab, m.ActionWeight, m.ObjectWeight)
	if err != nil {
		return nil, evidence.Extractor{}, err
	}
	matcher, err := match.NewMatcher(scorer, m.Threshold)
	if err != nil {
		return nil, evidence.Extractor{}, err
	}
	classifier, err := match.NewClassifier(m.LowBand, m.Threshold)
	if err != nil {
		return nil, evidence.Extractor{}, err
	}
	return match.NewEngine(matcher, classifier, m.Workers), evidence.NewExtractor(vocab), nil
}

// buildTimeline samples and describes every recording, then merges the
// per-video timelines into one ordered sequence. Stage and source annotations
// travel on the context so every log line below carries them.
func (r *Runner) buildTimeline(ctx context.Context, runID string, videoPaths []string, extractor evidence.Extractor) (evidence.Timeline, error) {
	workDir := filepath.Join(r.cfg.Paths.WorkDir, shortID(runID))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrInput, "pipeline", "run", workDir, err)
	}

	timelines := make([]evidence.Timeline, 0, len(videoPaths))
	for _, videoPath := range videoPaths {
		sampleCtx := services.WithSource(services.WithStage(ctx, "sample"), filepath.Base(videoPath))
		sampleLog := logging.WithContext(sampleCtx, r.logger)
		if info, err := video.Inspect(sampleCtx, r.cfg.Sampling.FFprobeBinary, videoPath); err == nil {
			sampleLog.Info("recording inspected", "duration", info.Duration, "fps", info.FrameRate)
		} else {
			sampleLog.Warn("recording inspection failed", "error", err)
		}

		frames, err := r.sampler.Sample(sampleCtx, videoPath, workDir)
		if err != nil {
			return nil, err
		}
		sampleLog.Info("frames extracted", "frames", len(frames))

		captionCtx := services.WithStage(sampleCtx, "caption")
		captionLog := logging.WithContext(captionCtx, r.logger)
		records := make([]evidence.Record, 0, len(frames))
		for _, frame := range frames {
			description, err := r.describeFrame(captionCtx, frame)
			if err != nil {
				// Per-frame service failures lose one frame's evidence;
				// anything else aborts the run.
				if !services.Recoverable(err) {
					return nil, err
				}
				captionLog.Warn("frame description failed", "frame", frame.Number, "error", err)
				description = ""
			}
			records = append(records, extractor.ExtractRecord(frame.Timestamp, frame.Source, frame.Number, description))
		}

		timeline, err := evidence.BuildTimeline(records)
		if err != nil {
			return nil, err
		}
		timelines = append(timelines, timeline)
	}
	return evidence.Merge(timelines...), nil
}

func (r *Runner) describeFrame(ctx context.Context, frame video.Frame) (string, error) {
	data, err := os.ReadFile(frame.Path)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "caption", "read frame", frame.Path, err)
	}
	return r.describer.Describe(ctx, data)
}

func (r *Runner) persist(ctx context.Context, outcome *Outcome, req Request) error {
	testOutcome := string(testresult.OutcomeUnknown)
	if outcome.TestSummary != nil {
		testOutcome = string(outcome.TestSummary.Outcome)
	}
	run := audit.Run{
		ID:           outcome.RunID,
		Title:        outcome.Title,
		VideoPaths:   req.VideoPaths,
		LogPath:      req.LogPath,
		ReportPath:   outcome.ReportPath,
		ReportFormat: r.cfg.Report.Format,
		TestOutcome:  testOutcome,
		TotalSteps:   outcome.Report.Totals.Total,
		Observed:     outcome.Report.Totals.Observed,
		Deviations:   outcome.Report.Totals.Deviations,
		Skipped:      outcome.Report.Totals.Skipped,
		NotVisible:   outcome.Report.Totals.NotVisible,
		Altered:      outcome.Report.Totals.Altered,
	}
	if err := r.history.InsertRun(ctx, run); err != nil {
		return err
	}
	return nil
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
