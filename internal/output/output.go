// Package output handles CLI output formatting, including quiet and
// verbose modes and an in-place progress line for interactive runs.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"shotsort/internal/logwriter"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // per-file detail
	Quiet     bool      // suppress everything except errors
	Writer    io.Writer // default os.Stdout
	ErrWriter io.Writer // default os.Stderr
	IsTTY     bool
}

// Output writes formatted messages with progress support.
type Output struct {
	config Config

	progressMu      sync.Mutex
	progressActive  bool
	progressTotal   int
	progressCurrent int
}

// New creates an Output with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// DefaultConfig returns a Config with TTY detection on stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Verbose prints a message only in verbose mode.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose || o.config.Quiet {
		return
	}
	o.clearProgressLine()
	o.writeLine(o.config.Writer, format, args...)
}

// Info prints an informational message unless quiet mode is on.
func (o *Output) Info(format string, args ...interface{}) {
	if o.config.Quiet {
		return
	}
	o.clearProgressLine()
	o.writeLine(o.config.Writer, format, args...)
}

// Error prints an error message to stderr. Quiet mode does not
// suppress errors.
func (o *Output) Error(format string, args ...interface{}) {
	o.clearProgressLine()
	o.writeLine(o.config.ErrWriter, format, args...)
}

// FileResult prints the outcome of one processed file in verbose mode.
func (o *Output) FileResult(entry logwriter.LogEntry) {
	switch entry.Outcome {
	case logwriter.OutcomeMoved:
		o.Verbose("moved   %s -> %s", entry.SourceFileName, entry.DestinationPath)
	case logwriter.OutcomeSkipped:
		o.Verbose("skipped %s: %s", entry.SourceFileName, entry.ErrorMessage)
	case logwriter.OutcomeErrored:
		o.Verbose("error   %s: %s", entry.SourceFileName, entry.ErrorMessage)
	}
}

func (o *Output) writeLine(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// progressSuppressed reports whether the progress line should stay off.
// Verbose output and the progress line would fight over the cursor.
func (o *Output) progressSuppressed() bool {
	return !o.config.IsTTY || o.config.Verbose || o.config.Quiet
}

func (o *Output) clearProgressLine() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int) {
	if o.progressSuppressed() {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.progressActive = true
	o.progressTotal = total
	o.progressCurrent = 0
}

// UpdateProgress redraws the progress line in place.
func (o *Output) UpdateProgress(current int, message string) {
	if o.progressSuppressed() {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressCurrent = current
	label := "Organizing screenshot"
	if message != "" {
		label = message
	}
	fmt.Fprintf(o.config.Writer, "\r%s %d/%d...", label, current, o.progressTotal)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if o.progressSuppressed() {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressActive = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
}

// IsVerbose reports whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose && !o.config.Quiet
}
