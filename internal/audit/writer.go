package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// activeLogName is the filename of the active audit log segment.
const activeLogName = "shotsort-audit.jsonl"

// Writer handles all write operations to the audit log. It implements
// append-only semantics with fail-fast behavior: every event is flushed and
// synced before the write is reported successful.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	writer     *bufio.Writer
	logPath    string
	currentRun *RunID
	config     Config
}

// NewWriter creates a Writer with the given configuration. It creates the
// log directory if missing and opens the active segment for appending. A
// brand-new log gets a LOG_INITIALIZED event.
func NewWriter(config Config) (*Writer, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	logPath := filepath.Join(config.LogDirectory, activeLogName)

	isNewLog := false
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		isNewLog = true
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	w := &Writer{
		file:    file,
		writer:  bufio.NewWriter(file),
		logPath: logPath,
		config:  config,
	}

	if isNewLog {
		event := Event{
			Timestamp: time.Now().UTC(),
			EventType: EventLogInitialized,
			Status:    StatusSuccess,
			Metadata:  map[string]string{"logPath": logPath},
		}
		if err := w.appendLocked(event); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write LOG_INITIALIZED event: %w", err)
		}
	}

	return w, nil
}

// StartRun opens a new batch run and writes the RUN_START event.
func (w *Writer) StartRun(appVersion string) (RunID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runID := RunID(uuid.NewString())

	event := Event{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRunStart,
		Status:    StatusSuccess,
		Metadata:  map[string]string{"appVersion": appVersion},
	}

	if err := w.writeEventLocked(event); err != nil {
		return "", fmt.Errorf("failed to write RUN_START event: %w", err)
	}

	w.currentRun = &runID
	return runID, nil
}

// EndRun records the run completion and its summary counts.
func (w *Writer) EndRun(runID RunID, summary RunSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	event := Event{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRunEnd,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"totalFiles": strconv.Itoa(summary.TotalFiles),
			"moved":      strconv.Itoa(summary.Moved),
			"skipped":    strconv.Itoa(summary.Skipped),
			"errors":     strconv.Itoa(summary.Errors),
		},
	}

	if err := w.writeEventLocked(event); err != nil {
		return fmt.Errorf("failed to write RUN_END event: %w", err)
	}

	w.currentRun = nil
	return nil
}

// RecordMove records a MOVE event for a successfully organized screenshot.
func (w *Writer) RecordMove(source, dest, character, eventType string) error {
	return w.recordFileEvent(Event{
		EventType:       EventMove,
		Status:          StatusSuccess,
		SourcePath:      source,
		DestinationPath: dest,
		Metadata: map[string]string{
			"character": character,
			"event":     eventType,
		},
	})
}

// RecordParseFailure records a PARSE_FAILURE event for a filename that did
// not match the contract.
func (w *Writer) RecordParseFailure(source, reason string) error {
	return w.recordFileEvent(Event{
		EventType:  EventParseFailure,
		Status:     StatusSkipped,
		SourcePath: source,
		Metadata:   map[string]string{"reason": reason},
	})
}

// RecordError records an ERROR event for a file that failed during
// planning, directory creation, or the move itself.
func (w *Writer) RecordError(source, errType, errMsg, operation string) error {
	return w.recordFileEvent(Event{
		EventType:  EventError,
		Status:     StatusFailure,
		SourcePath: source,
		ErrorDetails: &ErrorDetails{
			ErrorType:    errType,
			ErrorMessage: errMsg,
			Operation:    operation,
		},
	})
}

// recordFileEvent stamps and writes a per-file event under the current run.
func (w *Writer) recordFileEvent(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return fmt.Errorf("no active run: call StartRun first")
	}

	event.Timestamp = time.Now().UTC()
	event.RunID = *w.currentRun
	return w.writeEventLocked(event)
}

// WriteEvent writes an arbitrary audit event to the log.
func (w *Writer) WriteEvent(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeEventLocked(event)
}

// writeEventLocked appends an event and checks for rotation afterwards.
func (w *Writer) writeEventLocked(event Event) error {
	if err := w.appendLocked(event); err != nil {
		return err
	}
	if event.EventType != EventRotation {
		if err := w.checkAndRotate(); err != nil {
			return fmt.Errorf("failed to rotate audit log: %w", err)
		}
	}
	return nil
}

// appendLocked marshals an event, writes the JSON line, and flushes and
// syncs it to disk.
func (w *Writer) appendLocked(event Event) error {
	data, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if _, err := w.writer.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync event to disk: %w", err)
	}

	return nil
}

// checkAndRotate rotates the active segment when it exceeds the size limit.
func (w *Writer) checkAndRotate() error {
	if w.config.RotationSize <= 0 {
		return nil
	}

	info, err := os.Stat(w.logPath)
	if err != nil {
		return fmt.Errorf("failed to stat audit log: %w", err)
	}
	if info.Size() < w.config.RotationSize {
		return nil
	}

	rotatedName := rotatedSegmentName(time.Now())

	var runID RunID
	if w.currentRun != nil {
		runID = *w.currentRun
	}
	rotationEvent := Event{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRotation,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"previousFile": activeLogName,
			"newFile":      rotatedName,
		},
	}
	if err := w.appendLocked(rotationEvent); err != nil {
		return err
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close segment for rotation: %w", err)
	}
	if err := os.Rename(w.logPath, filepath.Join(w.config.LogDirectory, rotatedName)); err != nil {
		return fmt.Errorf("failed to rename segment during rotation: %w", err)
	}

	file, err := os.OpenFile(w.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new segment after rotation: %w", err)
	}

	w.file = file
	w.writer = bufio.NewWriter(file)
	return nil
}

// rotatedSegmentName generates the filename for a rotated log segment.
func rotatedSegmentName(now time.Time) string {
	return fmt.Sprintf("shotsort-audit-%s-%03d.jsonl", now.Format("20060102-150405"), now.Nanosecond()/1000000)
}

// CurrentRunID returns the active run ID, or nil if no run is open.
func (w *Writer) CurrentRunID() *RunID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentRun
}

// LogPath returns the path of the active audit log segment.
func (w *Writer) LogPath() string {
	return w.logPath
}

// Close flushes buffered data and closes the audit log file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close audit log: %w", err)
	}
	return nil
}
