package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attest/internal/audit"
	"attest/internal/match"
	"attest/internal/pipeline"
	"attest/internal/services/vision"
	"attest/internal/video"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logPath string
	var testResultPath string
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run --log <agent_inner_logs.json> <recording>...",
		Short: "Analyze one test run against its screen recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			sampler := video.Sampler{
				FFmpegBinary:   cfg.Sampling.FFmpegBinary,
				Mode:           video.Mode(cfg.Sampling.Mode),
				Interval:       cfg.Sampling.Interval,
				SceneThreshold: cfg.Sampling.SceneThreshold,
			}
			describer := vision.NewClient(vision.Config{
				APIKey:         cfg.Vision.APIKey,
				BaseURL:        cfg.Vision.BaseURL,
				Model:          cfg.Vision.Model,
				Prompt:         cfg.Vision.Prompt,
				TimeoutSeconds: cfg.Vision.TimeoutSeconds,
			})

			var history pipeline.HistoryWriter
			if !noHistory {
				store, err := audit.Open(cfg.HistoryDBPath())
				if err != nil {
					return err
				}
				defer store.Close()
				history = store
			}

			runner, err := pipeline.NewRunner(cfg, logger, sampler, describer, history)
			if err != nil {
				return err
			}

			outcome, err := runner.Run(cmd.Context(), pipeline.Request{
				LogPath:        logPath,
				VideoPaths:     args,
				TestResultPath: testResultPath,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%s)\n", shortRunID(outcome.RunID), outcome.Title)
			printSummary(cmd, outcome)
			fmt.Fprintf(out, "Report: %s\n", outcome.ReportPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&logPath, "log", "l", "", "Path to agent_inner_logs.json (required)")
	cmd.Flags().StringVarP(&testResultPath, "test-result", "t", "", "Path to test_result.xml or test_result.html for cross-reference")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording this run in the history database")
	_ = cmd.MarkFlagRequired("log")
	return cmd
}

func printSummary(cmd *cobra.Command, outcome *pipeline.Outcome) {
	out := cmd.OutOrStdout()
	totals := outcome.Report.Totals
	fmt.Fprintf(out, "Steps: %d observed, %d deviations (of %d)\n",
		totals.Observed, totals.Deviations, totals.Total)

	rows := make([][]string, 0, len(outcome.Report.Results))
	for _, result := range outcome.Report.Results {
		verdict := "observed"
		detail := "-"
		if result.Verdict == match.VerdictObserved {
			if result.BestCandidate != nil && result.BestCandidate.Event != nil {
				detail = "at " + result.BestCandidate.Event.FormattedTime
			}
		} else {
			verdict = "deviation"
			if result.Deviation != nil {
				detail = string(result.Deviation.Category)
			}
			detail = fmt.Sprintf("%s (score %.2f)", detail, result.BestScore)
		}
		rows = append(rows, []string{result.Step.ComparisonText(), verdict, detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Step", "Verdict", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
		isTerminal(out),
	))
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
