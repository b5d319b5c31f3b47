package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Validation failures recognized with errors.Is.
var (
	// ErrNotADirectory reports that the candidate source path is not a directory.
	ErrNotADirectory = errors.New("source path is not a directory")
	// ErrMissingMarker reports that the marker file is absent under the source root.
	ErrMissingMarker = errors.New("marker file not found under source path")
)

// CheckSource validates that dir looks like a game installation root: it
// must be a directory and contain the marker file directly beneath it.
func CheckSource(dir, marker string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
		}
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	markerPath := filepath.Join(dir, marker)
	markerInfo, err := os.Stat(markerPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingMarker, markerPath)
		}
		return fmt.Errorf("stat marker: %w", err)
	}
	if markerInfo.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrMissingMarker, markerPath)
	}
	return nil
}

// CheckDirectoryAccess verifies a directory exists with read/write/execute
// access for the current user.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
