// Package logwriter serializes batch results into the metadata log artifact.
package logwriter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shotsort/internal/parser"
)

// TimestampLayout is the batch-start timestamp format used in the artifact name.
const TimestampLayout = "2006-01-02_150405"

// Outcome is the terminal state of one processed file.
type Outcome string

const (
	OutcomeMoved   Outcome = "moved"
	OutcomeSkipped Outcome = "skipped"
	OutcomeErrored Outcome = "error"
)

// LogEntry records the processing of a single input file.
type LogEntry struct {
	SourceFileName  string
	Outcome         Outcome
	Metadata        *parser.ScreenshotMetadata // nil when parsing failed
	DestinationPath string                     // set for moved files
	ErrorMessage    string                     // set for skipped and errored files
}

// LogWriteError represents a failure to write the log artifact. It is a
// batch-level warning: completed moves are not affected by it.
type LogWriteError struct {
	Path string
	Err  error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("failed to write metadata log %s: %v", e.Path, e.Err)
}

func (e *LogWriteError) Unwrap() error {
	return e.Err
}

// FileName returns the artifact name for a batch started at startedAt.
func FileName(startedAt time.Time) string {
	return startedAt.Format(TimestampLayout) + "_Metadata_Log.txt"
}

// Write serializes the entries into a single text artifact inside dir,
// named with the batch start timestamp. The file is opened in append mode:
// the name is expected to be fresh, but if it collides content is appended
// rather than overwritten. It returns the artifact path.
func Write(dir string, startedAt time.Time, entries []LogEntry) (string, error) {
	path := filepath.Join(dir, FileName(startedAt))

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", &LogWriteError{Path: path, Err: err}
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i, entry := range entries {
		if i > 0 {
			writer.WriteString("\n")
		}
		writer.WriteString(FormatEntry(entry))
	}

	if err := writer.Flush(); err != nil {
		return "", &LogWriteError{Path: path, Err: err}
	}

	return path, nil
}

// FormatEntry renders one human-readable block for a log entry.
func FormatEntry(entry LogEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", entry.SourceFileName)
	if entry.Metadata != nil {
		meta := entry.Metadata
		fmt.Fprintf(&b, "Date: %s (year %s, month %s, day %s)\n", meta.CaptureDate, meta.Year(), meta.Month(), meta.Day())
		fmt.Fprintf(&b, "Character: %s\n", meta.CharacterName)
		fmt.Fprintf(&b, "Event: %s\n", meta.EventType)
	}

	switch entry.Outcome {
	case OutcomeMoved:
		fmt.Fprintf(&b, "Moved to: %s\n", entry.DestinationPath)
	case OutcomeSkipped:
		fmt.Fprintf(&b, "Skipped: %s\n", entry.ErrorMessage)
	case OutcomeErrored:
		fmt.Fprintf(&b, "Error: %s\n", entry.ErrorMessage)
	}

	return b.String()
}
