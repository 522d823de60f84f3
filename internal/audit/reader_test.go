package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReaderListRuns(t *testing.T) {
	tmpDir := t.TempDir()

	writer, err := NewWriter(Config{LogDirectory: tmpDir, RotationSize: 1024 * 1024})
	if err != nil {
		t.Fatalf("NewWriter returned error: %v", err)
	}

	first, err := writer.StartRun("1.0.0")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	if err := writer.RecordMove("/s/a.png", "/s/Ryn/Kill/2025/06/07/a.png", "Ryn", "Kill"); err != nil {
		t.Fatalf("RecordMove returned error: %v", err)
	}
	if err := writer.EndRun(first, RunSummary{TotalFiles: 1, Moved: 1}); err != nil {
		t.Fatalf("EndRun returned error: %v", err)
	}

	// Second run is left open, as an interrupted batch would be.
	second, err := writer.StartRun("1.0.0")
	if err != nil {
		t.Fatalf("second StartRun returned error: %v", err)
	}
	if err := writer.RecordParseFailure("/s/junk.txt", "bad stem"); err != nil {
		t.Fatalf("RecordParseFailure returned error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	runs, err := NewReader(tmpDir).ListRuns()
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	if runs[0].RunID != first || !runs[0].Completed {
		t.Errorf("first run = %+v, want completed run %s", runs[0], first)
	}
	if runs[0].Summary.Moved != 1 || runs[0].Summary.TotalFiles != 1 {
		t.Errorf("first run summary = %+v, want 1 moved of 1", runs[0].Summary)
	}

	if runs[1].RunID != second || runs[1].Completed {
		t.Errorf("second run = %+v, want open run %s", runs[1], second)
	}
	if runs[1].Summary.Skipped != 1 {
		t.Errorf("open run skipped count = %d, want 1 (rebuilt from events)", runs[1].Summary.Skipped)
	}
}

func TestReaderEmptyDirectory(t *testing.T) {
	runs, err := NewReader(filepath.Join(t.TempDir(), "never-created")).ListRuns()
	if err != nil {
		t.Fatalf("ListRuns returned error for missing directory: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs from a missing directory, want 0", len(runs))
	}
}

func TestReaderSkipsCorruptLines(t *testing.T) {
	tmpDir := t.TempDir()

	writer, err := NewWriter(Config{LogDirectory: tmpDir, RotationSize: 1024 * 1024})
	if err != nil {
		t.Fatalf("NewWriter returned error: %v", err)
	}
	runID, err := writer.StartRun("1.0.0")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	if err := writer.EndRun(runID, RunSummary{}); err != nil {
		t.Fatalf("EndRun returned error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// Simulate a truncated write at the end of the segment.
	f, err := os.OpenFile(filepath.Join(tmpDir, activeLogName), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("failed to open segment: %v", err)
	}
	if _, err := f.WriteString(`{"timestamp":"2025-06-0`); err != nil {
		t.Fatalf("failed to append corrupt line: %v", err)
	}
	f.Close()

	runs, err := NewReader(tmpDir).ListRuns()
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1 (corrupt trailing line ignored)", len(runs))
	}
}
