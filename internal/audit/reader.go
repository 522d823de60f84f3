package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Reader reads and parses audit events from the log directory, including
// rotated segments.
type Reader struct {
	logDir string
}

// NewReader creates a Reader for the given log directory.
func NewReader(logDir string) *Reader {
	return &Reader{logDir: logDir}
}

// segmentFiles returns all log segments in chronological order, rotated
// segments first, active segment last.
func (r *Reader) segmentFiles() ([]string, error) {
	entries, err := os.ReadDir(r.logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log directory: %w", err)
	}

	var rotated []string
	activeExists := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == activeLogName {
			activeExists = true
			continue
		}
		if strings.HasPrefix(name, "shotsort-audit-") && strings.HasSuffix(name, ".jsonl") {
			rotated = append(rotated, name)
		}
	}

	// Rotated names embed their creation timestamp, so a lexical sort is
	// chronological.
	sort.Strings(rotated)

	var files []string
	for _, name := range rotated {
		files = append(files, filepath.Join(r.logDir, name))
	}
	if activeExists {
		files = append(files, filepath.Join(r.logDir, activeLogName))
	}
	return files, nil
}

// ReadAllEvents returns every event across all segments in write order.
// Lines that fail to parse are skipped rather than failing the whole read.
func (r *Reader) ReadAllEvents() ([]Event, error) {
	files, err := r.segmentFiles()
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, file := range files {
		fileEvents, err := readEventsFromFile(file)
		if err != nil {
			return nil, err
		}
		events = append(events, fileEvents...)
	}
	return events, nil
}

// readEventsFromFile parses one JSONL segment.
func readEventsFromFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit segment %s: %w", path, err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event Event
		if err := event.UnmarshalJSON([]byte(line)); err != nil {
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit segment %s: %w", path, err)
	}

	return events, nil
}

// ListRuns reconstructs per-run information from the event stream, oldest
// run first. Runs without a RUN_END event are reported as not completed,
// with counts rebuilt from their file events.
func (r *Reader) ListRuns() ([]RunInfo, error) {
	events, err := r.ReadAllEvents()
	if err != nil {
		return nil, err
	}

	var order []RunID
	runs := make(map[RunID]*RunInfo)

	for _, event := range events {
		switch event.EventType {
		case EventRunStart:
			info := &RunInfo{
				RunID:      event.RunID,
				StartTime:  event.Timestamp,
				AppVersion: event.Metadata["appVersion"],
			}
			runs[event.RunID] = info
			order = append(order, event.RunID)

		case EventRunEnd:
			info, ok := runs[event.RunID]
			if !ok {
				continue
			}
			end := event.Timestamp
			info.EndTime = &end
			info.Completed = true
			info.Summary = RunSummary{
				TotalFiles: atoiOrZero(event.Metadata["totalFiles"]),
				Moved:      atoiOrZero(event.Metadata["moved"]),
				Skipped:    atoiOrZero(event.Metadata["skipped"]),
				Errors:     atoiOrZero(event.Metadata["errors"]),
			}

		case EventMove, EventSkip, EventParseFailure, EventError:
			info, ok := runs[event.RunID]
			if !ok || info.Completed {
				continue
			}
			info.Summary.TotalFiles++
			switch event.EventType {
			case EventMove:
				info.Summary.Moved++
			case EventSkip, EventParseFailure:
				info.Summary.Skipped++
			case EventError:
				info.Summary.Errors++
			}
		}
	}

	infos := make([]RunInfo, 0, len(order))
	for _, id := range order {
		infos = append(infos, *runs[id])
	}
	return infos, nil
}

// GetRun returns all events belonging to a specific run.
func (r *Reader) GetRun(runID RunID) ([]Event, error) {
	events, err := r.ReadAllEvents()
	if err != nil {
		return nil, err
	}

	var runEvents []Event
	for _, event := range events {
		if event.RunID == runID {
			runEvents = append(runEvents, event)
		}
	}

	if len(runEvents) == 0 {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return runEvents, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
