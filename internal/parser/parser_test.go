package parser

import (
	"errors"
	"testing"
)

func TestParseValidStem(t *testing.T) {
	meta, err := Parse("2025-06-07_170210376_Night'Flyn_Hotkey")
	if err != nil {
		t.Fatalf("Parse returned error for valid stem: %v", err)
	}

	if meta.CaptureDate != "2025-06-07" {
		t.Errorf("CaptureDate = %q, want %q", meta.CaptureDate, "2025-06-07")
	}
	if meta.Timestamp != "170210376" {
		t.Errorf("Timestamp = %q, want %q", meta.Timestamp, "170210376")
	}
	if meta.CharacterName != "Night'Flyn" {
		t.Errorf("CharacterName = %q, want %q", meta.CharacterName, "Night'Flyn")
	}
	if meta.EventType != "Hotkey" {
		t.Errorf("EventType = %q, want %q", meta.EventType, "Hotkey")
	}
}

func TestParseDateComponents(t *testing.T) {
	meta, err := Parse("2024-01-09_998811_Ryn_Loot")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if meta.Year() != "2024" {
		t.Errorf("Year() = %q, want %q", meta.Year(), "2024")
	}
	if meta.Month() != "01" {
		t.Errorf("Month() = %q, want %q", meta.Month(), "01")
	}
	if meta.Day() != "09" {
		t.Errorf("Day() = %q, want %q", meta.Day(), "09")
	}
}

func TestParseTrailingTimestampToken(t *testing.T) {
	// A numeric tail is treated as a secondary timestamp token appended
	// after the event label, not as the event type itself.
	meta, err := Parse("2025-06-07_170210376_Night'Flyn_Hotkey_123456")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if meta.CharacterName != "Night'Flyn" {
		t.Errorf("CharacterName = %q, want %q", meta.CharacterName, "Night'Flyn")
	}
	if meta.EventType != "Hotkey" {
		t.Errorf("EventType = %q, want %q", meta.EventType, "Hotkey")
	}
}

func TestParseInvalidStems(t *testing.T) {
	tests := []struct {
		name string
		stem string
	}{
		{"empty stem", ""},
		{"shorter than date segment", "2025-06"},
		{"does not start with 20", "1999-12-31_123_Ryn_Kill"},
		{"no underscores", "2025-06-07.morning"},
		{"one separator after date", "2025-06-07_Night'Flyn"},
		{"missing timestamp segment", "2025-06-07_Night'Flyn_Hotkey"},
		{"numeric tail with too few segments", "2025-06-07_Night'Flyn_123"},
		{"numeric event type collapses positions", "2025-06-07_170210376_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.stem)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want InvalidFormat error", tt.stem)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Parse(%q) returned %T, want *ParseError", tt.stem, err)
			}
			if parseErr.Type != InvalidFormat {
				t.Errorf("error type = %q, want %q", parseErr.Type, InvalidFormat)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	// Degenerate stems must produce errors, not panics.
	stems := []string{
		"20________",
		"2025-06-07_",
		"2025-06-07__",
		"2025-06-07___",
		"20xxxxxxxx_1_2_3",
	}

	for _, stem := range stems {
		if _, err := Parse(stem); err != nil {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Parse(%q) returned %T, want *ParseError", stem, err)
			}
		}
	}
}

func TestStemReconstruction(t *testing.T) {
	stem := "2025-06-07_170210376_Night'Flyn_Hotkey"
	meta, err := Parse(stem)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got := meta.Stem(); got != stem {
		t.Errorf("Stem() = %q, want %q", got, stem)
	}
}
