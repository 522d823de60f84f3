package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"shotsort/internal/logwriter"
	"shotsort/internal/orchestrator"
	"shotsort/internal/scanner"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var sourceDir string

	cmd := &cobra.Command{
		Use:   "organize [files...]",
		Short: "Move screenshots into character/event/date directories",
		Long: `Organize moves each screenshot into a directory hierarchy derived from
its filename: <character>/<event>/<year>/<month>/<day>/ under the file's
own parent directory. Files whose names do not follow the screenshot
naming convention are skipped. A metadata log describing the batch is
written next to the first file.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := ctx.newOutput(cfg)

			files, err := collectFiles(args, sourceDir, cfg.Extensions)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				out.Info("No screenshots to organize.")
				return nil
			}

			auditWriter, err := ctx.newAuditWriter(cfg)
			if err != nil {
				return fmt.Errorf("failed to open audit trail: %w", err)
			}
			if auditWriter != nil {
				defer auditWriter.Close()
			}

			out.StartProgress(len(files))
			result, err := orchestrator.ProcessBatch(files, orchestrator.Options{
				LockEnabled: cfg.Lock.Enabled,
				Audit:       auditWriter,
				AppVersion:  appVersion,
				Progress: func(index, total int, entry logwriter.LogEntry) {
					out.UpdateProgress(index, "")
					out.FileResult(entry)
				},
			})
			out.EndProgress()
			if err != nil {
				return err
			}

			out.Info("%s", result.Summary())
			if result.LogPath != "" {
				out.Verbose("metadata log: %s", result.LogPath)
			}
			if result.LogWriteErr != nil {
				out.Error("warning: could not write metadata log: %v", result.LogWriteErr)
			}
			if result.AuditErr != nil {
				out.Error("warning: audit trail: %v", result.AuditErr)
			}

			if result.Errored > 0 {
				return fmt.Errorf("%d of %d files could not be moved", result.Errored, result.TotalFiles())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source-dir", "d", "", "Organize every screenshot in this directory")

	return cmd
}

// collectFiles resolves the batch input: explicit file arguments, or a
// directory scan when --source-dir is given.
func collectFiles(args []string, sourceDir string, extensions []string) ([]string, error) {
	if sourceDir != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass either file arguments or --source-dir, not both")
		}
		return scanner.Scan(sourceDir, extensions)
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve path %s: %w", arg, err)
		}
		files = append(files, abs)
	}
	return files, nil
}
