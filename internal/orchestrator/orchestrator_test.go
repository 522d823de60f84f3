package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shotsort/internal/audit"
	"shotsort/internal/logwriter"
)

func createFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("image-bytes"), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	return path
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 7, 17, 2, 10, 0, time.Local)
	return func() time.Time { return at }
}

func TestProcessBatchMovesValidFiles(t *testing.T) {
	tmpDir := t.TempDir()
	file := createFile(t, tmpDir, "2025-06-07_170210376_Night'Flyn_Hotkey.png")

	result, err := ProcessBatch([]string{file}, Options{Now: fixedClock()})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	if result.Moved != 1 || result.Skipped != 0 || result.Errored != 0 {
		t.Fatalf("counts = %d/%d/%d, want 1 moved only", result.Moved, result.Skipped, result.Errored)
	}

	wantDest := filepath.Join(tmpDir, "Night'Flyn", "Hotkey", "2025", "06", "07", "2025-06-07_170210376_Night'Flyn_Hotkey.png")
	if _, err := os.Stat(wantDest); err != nil {
		t.Errorf("file not at derived destination: %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("source file still present after move")
	}
	if result.Entries[0].DestinationPath != wantDest {
		t.Errorf("entry destination = %q, want %q", result.Entries[0].DestinationPath, wantDest)
	}
}

func TestProcessBatchProgressIndexIsOneBased(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createFile(t, tmpDir, "2025-06-07_1_Ryn_Kill.png"),
		createFile(t, tmpDir, "not-a-screenshot.png"),
		createFile(t, tmpDir, "2025-06-08_2_Ryn_Loot.png"),
	}

	var indexes []int
	_, err := ProcessBatch(files, Options{
		Now: fixedClock(),
		Progress: func(index, total int, entry logwriter.LogEntry) {
			if total != len(files) {
				t.Errorf("Progress total = %d, want %d", total, len(files))
			}
			indexes = append(indexes, index)
		},
	})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	// One call per file, counting 1..total so callers can render
	// "index/total" directly.
	if len(indexes) != len(files) {
		t.Fatalf("Progress called %d times, want %d", len(indexes), len(files))
	}
	for i, index := range indexes {
		if index != i+1 {
			t.Errorf("Progress index[%d] = %d, want %d", i, index, i+1)
		}
	}
}

func TestProcessBatchContinuesAfterParseFailure(t *testing.T) {
	// A format failure skips that file only; every other valid file in the
	// batch must still be moved and logged.
	tmpDir := t.TempDir()
	files := []string{
		createFile(t, tmpDir, "2025-06-07_1_Ryn_Kill.png"),
		createFile(t, tmpDir, "not-a-screenshot.png"),
		createFile(t, tmpDir, "2025-06-08_2_Ryn_Loot.png"),
		createFile(t, tmpDir, "2025-06-09_3_Kaelara_LevelUp.png"),
	}

	result, err := ProcessBatch(files, Options{Now: fixedClock()})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	if result.Moved != 3 {
		t.Errorf("Moved = %d, want 3 (batch must continue past the bad file)", result.Moved)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.TotalFiles() != 4 {
		t.Errorf("TotalFiles = %d, want 4", result.TotalFiles())
	}

	// Entries stay in input order with the skip in place.
	if result.Entries[1].Outcome != logwriter.OutcomeSkipped {
		t.Errorf("Entries[1].Outcome = %q, want skipped", result.Entries[1].Outcome)
	}
	for _, i := range []int{0, 2, 3} {
		if result.Entries[i].Outcome != logwriter.OutcomeMoved {
			t.Errorf("Entries[%d].Outcome = %q, want moved", i, result.Entries[i].Outcome)
		}
	}

	for _, want := range []string{
		filepath.Join(tmpDir, "Ryn", "Kill", "2025", "06", "07", "2025-06-07_1_Ryn_Kill.png"),
		filepath.Join(tmpDir, "Ryn", "Loot", "2025", "06", "08", "2025-06-08_2_Ryn_Loot.png"),
		filepath.Join(tmpDir, "Kaelara", "LevelUp", "2025", "06", "09", "2025-06-09_3_Kaelara_LevelUp.png"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("valid file missing from destination %s: %v", want, err)
		}
	}
}

func TestProcessBatchWritesLogIntoFirstFilesDirectory(t *testing.T) {
	firstDir := t.TempDir()
	otherDir := t.TempDir()
	files := []string{
		createFile(t, firstDir, "2025-06-07_1_Ryn_Kill.png"),
		createFile(t, otherDir, "2025-06-08_2_Ryn_Loot.png"),
	}

	result, err := ProcessBatch(files, Options{Now: fixedClock()})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	wantLog := filepath.Join(firstDir, "2025-06-07_170210_Metadata_Log.txt")
	if result.LogPath != wantLog {
		t.Errorf("LogPath = %q, want %q", result.LogPath, wantLog)
	}

	data, err := os.ReadFile(wantLog)
	if err != nil {
		t.Fatalf("metadata log missing: %v", err)
	}
	if got := strings.Count(string(data), "File: "); got != 2 {
		t.Errorf("log has %d blocks, want one per input file (2)", got)
	}

	// The second file's hierarchy is derived from its own parent directory.
	if _, err := os.Stat(filepath.Join(otherDir, "Ryn", "Loot", "2025", "06", "08", "2025-06-08_2_Ryn_Loot.png")); err != nil {
		t.Errorf("second file not organized under its own parent: %v", err)
	}
}

func TestProcessBatchEmptyInputWritesNoLog(t *testing.T) {
	result, err := ProcessBatch(nil, Options{Now: fixedClock()})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if result.TotalFiles() != 0 || result.LogPath != "" {
		t.Errorf("empty batch produced output: %+v", result)
	}
}

func TestProcessBatchLogWriteFailureIsAWarning(t *testing.T) {
	tmpDir := t.TempDir()
	file := createFile(t, tmpDir, "2025-06-07_1_Ryn_Kill.png")

	// Occupy the artifact name with a directory so the log flush fails
	// while the moves themselves succeed.
	if err := os.Mkdir(filepath.Join(tmpDir, "2025-06-07_170210_Metadata_Log.txt"), 0755); err != nil {
		t.Fatalf("failed to block artifact name: %v", err)
	}

	result, err := ProcessBatch([]string{file}, Options{Now: fixedClock()})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	if result.Moved != 1 {
		t.Errorf("Moved = %d, want 1 (log failure must not undo moves)", result.Moved)
	}
	if result.LogWriteErr == nil {
		t.Error("LogWriteErr = nil, want batch-level warning")
	}
	if result.LogPath != "" {
		t.Errorf("LogPath = %q, want empty on failed flush", result.LogPath)
	}
}

func TestProcessBatchSameDestinationOverwrites(t *testing.T) {
	// Two batches landing a same-named file on the same destination: the
	// second move silently overwrites the first, consistent with the
	// overwrite policy.
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "2025-06-07_1_Ryn_Kill.png")

	if err := os.WriteFile(source, []byte("first"), 0644); err != nil {
		t.Fatalf("failed to create first file: %v", err)
	}
	result, err := ProcessBatch([]string{source}, Options{Now: fixedClock()})
	if err != nil || result.Moved != 1 {
		t.Fatalf("first batch failed: %v (%+v)", err, result)
	}

	if err := os.WriteFile(source, []byte("second"), 0644); err != nil {
		t.Fatalf("failed to stage second file: %v", err)
	}
	result, err = ProcessBatch([]string{source}, Options{Now: fixedClock()})
	if err != nil {
		t.Fatalf("second batch returned error: %v", err)
	}
	if result.Moved != 1 || result.Errored != 0 {
		t.Fatalf("second batch counts = %+v, want clean overwrite", result)
	}

	dest := filepath.Join(tmpDir, "Ryn", "Kill", "2025", "06", "07", "2025-06-07_1_Ryn_Kill.png")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("destination content = %q, want %q (overwrite)", data, "second")
	}
}

func TestProcessBatchRecordsAuditTrail(t *testing.T) {
	tmpDir := t.TempDir()
	auditDir := t.TempDir()
	files := []string{
		createFile(t, tmpDir, "2025-06-07_1_Ryn_Kill.png"),
		createFile(t, tmpDir, "junk.png"),
	}

	writer, err := audit.NewWriter(audit.Config{LogDirectory: auditDir, RotationSize: 1024 * 1024})
	if err != nil {
		t.Fatalf("audit.NewWriter returned error: %v", err)
	}

	result, err := ProcessBatch(files, Options{Now: fixedClock(), Audit: writer, AppVersion: "test"})
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if result.AuditErr != nil {
		t.Fatalf("AuditErr = %v, want nil", result.AuditErr)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("audit writer Close returned error: %v", err)
	}

	runs, err := audit.NewReader(auditDir).ListRuns()
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d audit runs, want 1", len(runs))
	}
	run := runs[0]
	if run.RunID != result.RunID {
		t.Errorf("audit run ID %q does not match batch run ID %q", run.RunID, result.RunID)
	}
	if !run.Completed || run.Summary.Moved != 1 || run.Summary.Skipped != 1 {
		t.Errorf("audit run summary = %+v, want completed 1 moved / 1 skipped", run)
	}
}

func TestProcessBatchDirectoryLock(t *testing.T) {
	tmpDir := t.TempDir()
	file := createFile(t, tmpDir, "2025-06-07_1_Ryn_Kill.png")

	result, err := ProcessBatch([]string{file}, Options{Now: fixedClock(), LockEnabled: true})
	if err != nil {
		t.Fatalf("ProcessBatch returned error with lock enabled: %v", err)
	}
	if result.Moved != 1 {
		t.Errorf("Moved = %d, want 1", result.Moved)
	}

	// The lock is released at batch end; a follow-up batch in the same
	// directory must succeed.
	second := createFile(t, tmpDir, "2025-06-08_2_Ryn_Loot.png")
	if _, err := ProcessBatch([]string{second}, Options{Now: fixedClock(), LockEnabled: true}); err != nil {
		t.Errorf("follow-up batch failed to acquire released lock: %v", err)
	}
}
