// Package orchestrator coordinates the screenshot organization workflow.
// It drives each file through parse, plan, ensure-directories, and move,
// records one log entry per input file, and flushes the metadata log once
// per batch.
package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"shotsort/internal/audit"
	"shotsort/internal/logwriter"
	"shotsort/internal/mover"
	"shotsort/internal/parser"
	"shotsort/internal/planner"
)

// lockFileName is the advisory lock file guarding a batch directory.
const lockFileName = ".shotsort.lock"

// ErrDirectoryLocked is returned when another batch already holds the lock
// for the batch directory.
var ErrDirectoryLocked = errors.New("another shotsort batch is already running in this directory")

// Stage names recorded on audit ERROR events.
const (
	stageEnsureDirectories = "ensure-directories"
	stageMoveFile          = "move-file"
)

// Options configures a batch run.
type Options struct {
	// LockEnabled guards the batch directory with an advisory file lock so
	// two concurrent batches cannot interleave in the same directory.
	LockEnabled bool
	// Audit, when non-nil, receives run lifecycle and per-file events.
	Audit *audit.Writer
	// AppVersion is recorded on the audit RUN_START event.
	AppVersion string
	// Now supplies the batch clock. Defaults to time.Now.
	Now func() time.Time
	// Progress, when non-nil, is invoked after each file reaches a
	// terminal state. index is 1-based and runs from 1 to total.
	Progress func(index, total int, entry logwriter.LogEntry)
}

// BatchResult is the outcome of one batch invocation: one log entry per
// input file in input order, plus the terminal-state counts.
type BatchResult struct {
	RunID     audit.RunID // empty when the audit trail is disabled
	StartedAt time.Time
	Entries   []logwriter.LogEntry
	Moved     int
	Skipped   int
	Errored   int

	// LogPath is the metadata log artifact, set when the flush succeeded.
	LogPath string
	// LogWriteErr is a batch-level warning: the artifact could not be
	// written, but completed moves stand.
	LogWriteErr error
	// AuditErr is a batch-level warning from the audit trail.
	AuditErr error
}

// ProcessBatch processes the files strictly sequentially in the order
// given. A failure on one file is recorded and processing continues with
// the next file; the batch never aborts because of a single bad file. For
// a non-empty batch the metadata log is written exactly once, into the
// parent directory of the first input file.
func ProcessBatch(files []string, opts Options) (*BatchResult, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	result := &BatchResult{StartedAt: now()}
	if len(files) == 0 {
		return result, nil
	}

	batchDir := filepath.Dir(files[0])

	if opts.LockEnabled {
		lock := flock.New(filepath.Join(batchDir, lockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire batch lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryLocked, batchDir)
		}
		defer lock.Unlock()
	}

	if opts.Audit != nil {
		runID, err := opts.Audit.StartRun(opts.AppVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to start audit run: %w", err)
		}
		result.RunID = runID
	}

	for i, file := range files {
		entry, stage, fileErr := processFile(file)

		result.Entries = append(result.Entries, entry)
		switch entry.Outcome {
		case logwriter.OutcomeMoved:
			result.Moved++
		case logwriter.OutcomeSkipped:
			result.Skipped++
		case logwriter.OutcomeErrored:
			result.Errored++
		}

		if opts.Audit != nil {
			if err := recordFileEvent(opts.Audit, file, entry, stage, fileErr); err != nil && result.AuditErr == nil {
				result.AuditErr = err
			}
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(files), entry)
		}
	}

	logPath, err := logwriter.Write(batchDir, result.StartedAt, result.Entries)
	if err != nil {
		result.LogWriteErr = err
	} else {
		result.LogPath = logPath
	}

	if opts.Audit != nil {
		summary := audit.RunSummary{
			TotalFiles: len(result.Entries),
			Moved:      result.Moved,
			Skipped:    result.Skipped,
			Errors:     result.Errored,
		}
		if err := opts.Audit.EndRun(result.RunID, summary); err != nil && result.AuditErr == nil {
			result.AuditErr = err
		}
	}

	return result, nil
}

// processFile drives a single file to a terminal state. For errored files
// the returned stage names the operation that failed and the returned error
// is the underlying failure.
func processFile(path string) (logwriter.LogEntry, string, error) {
	fileName := filepath.Base(path)
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	meta, err := parser.Parse(stem)
	if err != nil {
		return logwriter.LogEntry{
			SourceFileName: fileName,
			Outcome:        logwriter.OutcomeSkipped,
			ErrorMessage:   err.Error(),
		}, "", err
	}

	plan := planner.Plan(meta, filepath.Dir(path), fileName)

	for _, dir := range plan.Directories {
		if err := mover.EnsureDirectory(dir); err != nil {
			return erroredEntry(fileName, meta, err), stageEnsureDirectories, err
		}
	}

	if err := mover.MoveFile(path, plan.Destination); err != nil {
		return erroredEntry(fileName, meta, err), stageMoveFile, err
	}

	return logwriter.LogEntry{
		SourceFileName:  fileName,
		Outcome:         logwriter.OutcomeMoved,
		Metadata:        meta,
		DestinationPath: plan.Destination,
	}, "", nil
}

func erroredEntry(fileName string, meta *parser.ScreenshotMetadata, err error) logwriter.LogEntry {
	return logwriter.LogEntry{
		SourceFileName: fileName,
		Outcome:        logwriter.OutcomeErrored,
		Metadata:       meta,
		ErrorMessage:   err.Error(),
	}
}

// recordFileEvent mirrors a log entry into the audit trail.
func recordFileEvent(writer *audit.Writer, path string, entry logwriter.LogEntry, stage string, fileErr error) error {
	switch entry.Outcome {
	case logwriter.OutcomeMoved:
		return writer.RecordMove(path, entry.DestinationPath, entry.Metadata.CharacterName, entry.Metadata.EventType)
	case logwriter.OutcomeSkipped:
		return writer.RecordParseFailure(path, entry.ErrorMessage)
	case logwriter.OutcomeErrored:
		return writer.RecordError(path, errorTypeOf(fileErr), entry.ErrorMessage, stage)
	}
	return nil
}

// errorTypeOf names the typed kind of a file-level failure.
func errorTypeOf(err error) string {
	var moveErr *mover.MoveError
	if errors.As(err, &moveErr) {
		return string(moveErr.Type)
	}
	return "IO_ERROR"
}
