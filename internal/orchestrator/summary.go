package orchestrator

import "fmt"

// TotalFiles returns the number of input files the batch processed.
func (r *BatchResult) TotalFiles() int {
	return len(r.Entries)
}

// HasErrors reports whether any file errored or a batch-level warning
// occurred.
func (r *BatchResult) HasErrors() bool {
	return r.Errored > 0 || r.LogWriteErr != nil
}

// Summary returns a one-line human-readable account of the batch.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("Processed %d files: %d moved, %d skipped, %d errors",
		r.TotalFiles(), r.Moved, r.Skipped, r.Errored)
}
