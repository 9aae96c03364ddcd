package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"attest/internal/audit"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := audit.Open(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortRunID(run.ID),
					run.CreatedAt.Local().Format("2006-01-02 15:04"),
					run.Title,
					strconv.Itoa(run.TotalSteps),
					strconv.Itoa(run.Observed),
					strconv.Itoa(run.Deviations),
					run.TestOutcome,
					strings.Join(run.VideoPaths, ", "),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Date", "Title", "Steps", "Observed", "Deviations", "Test", "Recordings"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
				isTerminal(out),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}
