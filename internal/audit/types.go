// Package audit provides an append-only machine-readable trail of shotsort
// batch runs, the JSON Lines companion of the per-batch metadata log.
package audit

import "time"

// RunID is a unique identifier for each batch run, UUID v4 format.
type RunID string

// EventType represents the type of audit event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// File operation events
	EventMove         EventType = "MOVE"
	EventSkip         EventType = "SKIP"
	EventParseFailure EventType = "PARSE_FAILURE"
	EventError        EventType = "ERROR"

	// System events
	EventRotation       EventType = "ROTATION"
	EventLogInitialized EventType = "LOG_INITIALIZED"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailure OperationStatus = "FAILURE"
	StatusSkipped OperationStatus = "SKIPPED"
)

// ErrorDetails contains detailed information about a file-level error.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	Operation    string `json:"operation"`
}

// Event represents a single audit record for a file operation or system event.
type Event struct {
	Timestamp       time.Time         `json:"timestamp"`
	RunID           RunID             `json:"runId"`
	EventType       EventType         `json:"eventType"`
	Status          OperationStatus   `json:"status"`
	SourcePath      string            `json:"sourcePath,omitempty"`
	DestinationPath string            `json:"destinationPath,omitempty"`
	ErrorDetails    *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// RunSummary contains counts for a completed batch run.
type RunSummary struct {
	TotalFiles int `json:"totalFiles"`
	Moved      int `json:"moved"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// RunInfo contains metadata and summary for a run, reconstructed from the log.
type RunInfo struct {
	RunID      RunID      `json:"runId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Completed  bool       `json:"completed"`
	AppVersion string     `json:"appVersion"`
	Summary    RunSummary `json:"summary"`
}

// Config holds configuration for the audit trail.
type Config struct {
	LogDirectory string `json:"logDirectory"`
	RotationSize int64  `json:"rotationSizeBytes"` // rotate when the file exceeds this size
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogDirectory: ".shotsort/audit",
		RotationSize: 10 * 1024 * 1024,
	}
}
