// Package watcher provides file system monitoring for automatic
// screenshot organization.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"shotsort/internal/logwriter"
)

// Config contains watcher settings.
type Config struct {
	DebounceSeconds   int      // delay before processing a settled file
	StableThresholdMs int      // file size stability threshold
	IgnorePatterns    []string // glob patterns for temporary files
	Extensions        []string // screenshot extensions to accept
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
		IgnorePatterns:    DefaultIgnorePatterns(),
	}
}

// Summary contains stats from a watch session.
type Summary struct {
	FilesMoved   int
	FilesSkipped int
	FilesErrored int
	Duration     time.Duration
}

// FileHandler processes one settled file and reports its terminal outcome.
type FileHandler func(path string) (logwriter.Outcome, error)

// Watcher monitors a directory for arriving screenshots and hands each
// settled file to its handler.
type Watcher struct {
	config    *Config
	handler   FileHandler
	fsWatcher *fsnotify.Watcher
	filter    *FileFilter
	debouncer *Debouncer
	stability *StabilityChecker
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	// handlerMu serializes handler invocations. Debounce timers fire on
	// independent goroutines, and two batches must not contend for the
	// watched directory's lock or interleave audit runs.
	handlerMu sync.Mutex

	mu           sync.Mutex
	filesMoved   int
	filesSkipped int
	filesErrored int
}

// New creates a Watcher with the given configuration and handler.
func New(config *Config, handler FileHandler) (*Watcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if handler == nil {
		return nil, fmt.Errorf("watcher requires a file handler")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	w := &Watcher{
		config:    config,
		handler:   handler,
		fsWatcher: fsWatcher,
		filter:    NewFileFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(time.Duration(config.StableThresholdMs) * time.Millisecond),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(time.Duration(config.DebounceSeconds)*time.Second, w.processFile)

	return w, nil
}

// Watch adds the directory and starts the event loop. It returns
// immediately; call Stop to end the session and collect the summary.
func (w *Watcher) Watch(directory string) error {
	if err := w.fsWatcher.Add(directory); err != nil {
		return fmt.Errorf("failed to watch %s: %w", directory, err)
	}

	w.startTime = time.Now()
	w.wg.Add(1)
	go w.eventLoop()

	return nil
}

// eventLoop dispatches fsnotify events until Stop is called.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the session keeps running.
		}
	}
}

// handleEvent filters one fsnotify event and schedules or cancels the
// affected file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		if w.shouldProcess(event.Name) {
			w.debouncer.Add(event.Name)
		}
		return
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.debouncer.Cancel(event.Name)
	}
}

// shouldProcess applies the ignore patterns and extension filter.
func (w *Watcher) shouldProcess(path string) bool {
	if w.filter.ShouldIgnore(path) {
		return false
	}
	if len(w.config.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, allowed := range w.config.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// processFile waits for the file to settle, then runs the handler and
// accounts for its outcome.
func (w *Watcher) processFile(path string) {
	if err := w.stability.WaitForStable(path); err != nil {
		// Deleted or never settled; nothing to organize.
		return
	}

	w.handlerMu.Lock()
	outcome, err := w.handler(path)
	w.handlerMu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case err != nil || outcome == logwriter.OutcomeErrored:
		w.filesErrored++
	case outcome == logwriter.OutcomeMoved:
		w.filesMoved++
	default:
		w.filesSkipped++
	}
}

// Stop ends the watch session and returns the session summary.
func (w *Watcher) Stop() (*Summary, error) {
	close(w.done)
	w.debouncer.CancelAll()
	err := w.fsWatcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	summary := &Summary{
		FilesMoved:   w.filesMoved,
		FilesSkipped: w.filesSkipped,
		FilesErrored: w.filesErrored,
		Duration:     time.Since(w.startTime),
	}
	return summary, err
}
