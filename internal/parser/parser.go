// Package parser decodes screenshot filename stems into structured metadata.
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator is the character delimiting filename segments.
const Separator = "_"

// dateLength is the length of the leading YYYY-MM-DD segment.
const dateLength = 10

// ParseErrorType represents the type of filename parsing error.
type ParseErrorType string

const (
	InvalidFormat ParseErrorType = "INVALID_FORMAT"
)

// ParseError represents an error that occurred while parsing a filename stem.
type ParseError struct {
	Type   ParseErrorType
	Stem   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filename format: %s: %q", e.Reason, e.Stem)
}

// ScreenshotMetadata holds the fields encoded in a screenshot filename stem.
// All fields are taken verbatim from the stem; joining them with the
// separator reconstructs the stem exactly (see Stem).
type ScreenshotMetadata struct {
	CaptureDate   string // YYYY-MM-DD, the leading 10 characters
	Timestamp     string // opaque numeric string between date and character name
	CharacterName string // free text, never contains the separator
	EventType     string // capture category label
}

// Year returns the 4-digit year component of the capture date.
func (m *ScreenshotMetadata) Year() string { return m.CaptureDate[:4] }

// Month returns the zero-padded 2-digit month component of the capture date.
func (m *ScreenshotMetadata) Month() string { return m.CaptureDate[5:7] }

// Day returns the zero-padded 2-digit day component of the capture date.
func (m *ScreenshotMetadata) Day() string { return m.CaptureDate[8:10] }

// Stem reconstructs the original filename stem from the parsed fields.
func (m *ScreenshotMetadata) Stem() string {
	return m.CaptureDate + Separator + m.Timestamp + Separator + m.CharacterName + Separator + m.EventType
}

// Parse decodes a filename stem of the form
// YYYY-MM-DD_<timestamp>_<characterName>_<eventType> into metadata.
//
// The date segment is taken verbatim from the first 10 characters; the only
// validation applied to it is that the stem begins with "20". When the
// substring after the last separator parses as a number, the stem is assumed
// to end in a secondary timestamp token and the event type is read from
// between the two final separators instead. An event type that is itself
// purely numeric is indistinguishable from such a token and will misparse;
// when the resulting positions collapse the parser rejects the stem rather
// than guessing.
func Parse(stem string) (*ScreenshotMetadata, error) {
	if len(stem) < dateLength {
		return nil, &ParseError{Type: InvalidFormat, Stem: stem, Reason: "stem shorter than date segment"}
	}
	if !strings.HasPrefix(stem, "20") {
		return nil, &ParseError{Type: InvalidFormat, Stem: stem, Reason: `stem does not start with "20"`}
	}

	captureDate := stem[:dateLength]

	last := strings.LastIndex(stem, Separator)
	if last < 0 {
		return nil, &ParseError{Type: InvalidFormat, Stem: stem, Reason: "no underscore found for event"}
	}

	// Disambiguate a trailing timestamp token from the event type. A numeric
	// tail means the event type sits between the two final separators.
	eventSep := last
	if isNumeric(stem[last+1:]) {
		eventSep = strings.LastIndex(stem[:last], Separator)
		if eventSep < 0 {
			return nil, &ParseError{Type: InvalidFormat, Stem: stem, Reason: "no underscore found for event"}
		}
	}

	first := strings.Index(stem, Separator)
	second := -1
	if idx := strings.Index(stem[first+1:], Separator); idx >= 0 {
		second = first + 1 + idx
	}
	if second < 0 {
		return nil, &ParseError{Type: InvalidFormat, Stem: stem, Reason: "fewer than two separators after the date"}
	}
	if eventSep <= second {
		return nil, &ParseError{Type: InvalidFormat, Stem: stem, Reason: "not enough segments between date and event type"}
	}

	eventType := stem[eventSep+1:]
	if eventSep != last {
		eventType = stem[eventSep+1 : last]
	}

	return &ScreenshotMetadata{
		CaptureDate:   captureDate,
		Timestamp:     stem[first+1 : second],
		CharacterName: stem[second+1 : eventSep],
		EventType:     eventType,
	}, nil
}

// isNumeric reports whether s parses as a number.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
