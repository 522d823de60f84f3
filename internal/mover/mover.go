// Package mover performs directory creation and file moves for shotsort.
// It is the only package that mutates the filesystem for file operations.
package mover

import (
	"fmt"
	"os"
)

// MoveErrorType represents the type of filesystem mutation error.
type MoveErrorType string

const (
	// SourceNotFound indicates the source file does not exist.
	SourceNotFound MoveErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied MoveErrorType = "PERMISSION_DENIED"
	// IOFailure indicates any other filesystem failure.
	IOFailure MoveErrorType = "IO_FAILURE"
)

// MoveError represents an error that occurred during a filesystem mutation.
type MoveError struct {
	Type MoveErrorType
	Path string
	Err  error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// EnsureDirectory creates the directory and all missing ancestors.
// It succeeds silently if the directory already exists.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: path, Err: err}
		}
		return &MoveError{Type: IOFailure, Path: path, Err: err}
	}
	return nil
}

// MoveFile moves source to destination, overwriting any existing file at
// the destination. It renames when possible and falls back to copy+delete
// when rename fails (cross-device moves).
func MoveFile(source, destination string) error {
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return &MoveError{Type: SourceNotFound, Path: source, Err: err}
		}
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: source, Err: err}
		}
		return &MoveError{Type: IOFailure, Path: source, Err: err}
	}

	if err := os.Rename(source, destination); err != nil {
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: source, Err: err}
		}
		return copyAndDelete(source, destination)
	}

	return nil
}

// copyAndDelete copies a file to a new location and deletes the original.
// Used as a fallback when os.Rename fails (e.g., cross-device moves).
func copyAndDelete(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &MoveError{Type: SourceNotFound, Path: src, Err: err}
		}
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: src, Err: err}
		}
		return &MoveError{Type: IOFailure, Path: src, Err: err}
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return &MoveError{Type: IOFailure, Path: src, Err: err}
	}

	if err := os.WriteFile(dst, data, srcInfo.Mode()); err != nil {
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: dst, Err: err}
		}
		return &MoveError{Type: IOFailure, Path: dst, Err: err}
	}

	if err := os.Remove(src); err != nil {
		// Try to keep the operation atomic from the caller's point of
		// view: if the source cannot be removed, take back the copy.
		os.Remove(dst)
		if os.IsPermission(err) {
			return &MoveError{Type: PermissionDenied, Path: src, Err: err}
		}
		return &MoveError{Type: IOFailure, Path: src, Err: err}
	}

	return nil
}
