package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shotsort/internal/logwriter"
	"shotsort/internal/orchestrator"
	"shotsort/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and organize screenshots as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := ctx.newOutput(cfg)
			directory := args[0]

			auditWriter, err := ctx.newAuditWriter(cfg)
			if err != nil {
				return fmt.Errorf("failed to open audit trail: %w", err)
			}
			if auditWriter != nil {
				defer auditWriter.Close()
			}

			// Each settled file becomes its own batch so a move happens
			// as soon as the screenshot finishes writing.
			handler := func(path string) (logwriter.Outcome, error) {
				result, err := orchestrator.ProcessBatch([]string{path}, orchestrator.Options{
					LockEnabled: cfg.Lock.Enabled,
					Audit:       auditWriter,
					AppVersion:  appVersion,
				})
				if err != nil {
					out.Error("%s: %v", path, err)
					return logwriter.OutcomeErrored, err
				}
				if len(result.Entries) == 0 {
					return logwriter.OutcomeSkipped, nil
				}
				entry := result.Entries[0]
				out.FileResult(entry)
				if result.LogWriteErr != nil {
					out.Error("warning: could not write metadata log: %v", result.LogWriteErr)
				}
				return entry.Outcome, nil
			}

			w, err := watcher.New(&watcher.Config{
				DebounceSeconds:   cfg.Watch.DebounceSeconds,
				StableThresholdMs: cfg.Watch.StableThresholdMs,
				IgnorePatterns:    cfg.Watch.IgnorePatterns,
				Extensions:        cfg.Extensions,
			}, handler)
			if err != nil {
				return err
			}

			if err := w.Watch(directory); err != nil {
				return err
			}
			out.Info("Watching %s for screenshots (Ctrl+C to stop)", directory)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			signal.Stop(sigCh)

			summary, err := w.Stop()
			if err != nil {
				out.Error("warning: watcher shutdown: %v", err)
			}
			out.Info("Watch session: %d moved, %d skipped, %d errors in %s",
				summary.FilesMoved, summary.FilesSkipped, summary.FilesErrored,
				summary.Duration.Round(time.Second))
			return nil
		},
	}
}
