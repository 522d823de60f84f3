package planner

import (
	"path/filepath"
	"testing"

	"shotsort/internal/parser"
)

func TestPlanLayout(t *testing.T) {
	meta := &parser.ScreenshotMetadata{
		CaptureDate:   "2025-06-07",
		Timestamp:     "170210376",
		CharacterName: "Night'Flyn",
		EventType:     "Hotkey",
	}

	plan := Plan(meta, "/root", "2025-06-07_170210376_Night'Flyn_Hotkey.png")

	wantDirs := []string{
		filepath.Join("/root", "Night'Flyn"),
		filepath.Join("/root", "Night'Flyn", "Hotkey"),
		filepath.Join("/root", "Night'Flyn", "Hotkey", "2025"),
		filepath.Join("/root", "Night'Flyn", "Hotkey", "2025", "06"),
		filepath.Join("/root", "Night'Flyn", "Hotkey", "2025", "06", "07"),
	}

	if len(plan.Directories) != len(wantDirs) {
		t.Fatalf("got %d directories, want %d", len(plan.Directories), len(wantDirs))
	}
	for i, dir := range plan.Directories {
		if dir != wantDirs[i] {
			t.Errorf("Directories[%d] = %q, want %q", i, dir, wantDirs[i])
		}
	}

	wantDest := filepath.Join(wantDirs[4], "2025-06-07_170210376_Night'Flyn_Hotkey.png")
	if plan.Destination != wantDest {
		t.Errorf("Destination = %q, want %q", plan.Destination, wantDest)
	}
	if plan.DayDir() != wantDirs[4] {
		t.Errorf("DayDir() = %q, want %q", plan.DayDir(), wantDirs[4])
	}
}

func TestPlanNestsEachDirectoryInThePrevious(t *testing.T) {
	meta := &parser.ScreenshotMetadata{
		CaptureDate:   "2024-11-30",
		Timestamp:     "1",
		CharacterName: "Ryn",
		EventType:     "Loot",
	}

	plan := Plan(meta, "/screens", "shot.jpg")

	for i := 1; i < len(plan.Directories); i++ {
		parent := plan.Directories[i-1]
		if filepath.Dir(plan.Directories[i]) != parent {
			t.Errorf("Directories[%d] = %q is not nested in %q", i, plan.Directories[i], parent)
		}
	}
}

func TestPlanUsesSegmentsVerbatim(t *testing.T) {
	// No sanitization is performed; whatever the parser produced is used
	// as-is, spaces and punctuation included.
	meta := &parser.ScreenshotMetadata{
		CaptureDate:   "2023-02-01",
		Timestamp:     "55",
		CharacterName: "Brighid the Bold",
		EventType:     "Boss Kill",
	}

	plan := Plan(meta, "/p", "f.png")

	want := filepath.Join("/p", "Brighid the Bold", "Boss Kill", "2023", "02", "01", "f.png")
	if plan.Destination != want {
		t.Errorf("Destination = %q, want %q", plan.Destination, want)
	}
}
