package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shotsort/internal/audit"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past organize runs from the audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := ctx.newOutput(cfg)

			reader := audit.NewReader(cfg.Audit.LogDirectory)
			runs, err := reader.ListRuns()
			if err != nil {
				return fmt.Errorf("failed to read audit trail: %w", err)
			}
			if len(runs) == 0 {
				out.Info("No recorded runs. Enable the audit trail with [audit] enabled = true.")
				return nil
			}

			// most recent first
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}
			rows := make([][]string, 0, len(runs))
			for i := len(runs) - 1; i >= 0; i-- {
				rows = append(rows, historyRow(runs[i]))
			}

			headers := []string{"Run", "Started", "Status", "Files", "Moved", "Skipped", "Errors"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many runs")

	return cmd
}

func historyRow(run audit.RunInfo) []string {
	status := "interrupted"
	if run.Completed {
		status = "completed"
	}
	id := string(run.RunID)
	if len(id) > 8 {
		id = id[:8]
	}
	return []string{
		id,
		run.StartTime.Local().Format("2006-01-02 15:04:05"),
		status,
		strconv.Itoa(run.Summary.TotalFiles),
		strconv.Itoa(run.Summary.Moved),
		strconv.Itoa(run.Summary.Skipped),
		strconv.Itoa(run.Summary.Errors),
	}
}
