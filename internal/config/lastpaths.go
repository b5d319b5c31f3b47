package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const lastPathsFile = "last_paths.toml"

// LastPaths is the small persisted record of the paths used in the previous
// session. Either field may be empty, meaning "unset".
type LastPaths struct {
	SourcePath      string `toml:"source_path,omitempty"`
	DestinationPath string `toml:"destination_path,omitempty"`
}

// LastPathsFile returns the path of the record inside the given state dir.
func LastPathsFile(stateDir string) string {
	return filepath.Join(stateDir, lastPathsFile)
}

// LoadLastPaths reads the last-used-paths record from the state directory.
// A missing record returns an empty value. A malformed record logs a warning
// and returns an empty value; it is never an error. Paths that no longer
// exist on disk are cleared rather than returned stale.
func LoadLastPaths(stateDir string, logger *slog.Logger) LastPaths {
	var record LastPaths

	data, err := os.ReadFile(LastPathsFile(stateDir))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && logger != nil {
			logger.Warn("read last paths record", "error", err)
		}
		return LastPaths{}
	}

	if err := toml.Unmarshal(data, &record); err != nil {
		if logger != nil {
			logger.Warn("malformed last paths record, starting empty", "error", err)
		}
		return LastPaths{}
	}

	if record.SourcePath != "" && !dirExists(record.SourcePath) {
		if logger != nil {
			logger.Warn("stored source path no longer exists, clearing", "path", record.SourcePath)
		}
		record.SourcePath = ""
	}
	if record.DestinationPath != "" && !dirExists(record.DestinationPath) {
		if logger != nil {
			logger.Warn("stored destination path no longer exists, clearing", "path", record.DestinationPath)
		}
		record.DestinationPath = ""
	}

	return record
}

// SaveLastPaths atomically writes the record into the state directory using
// a temp file plus rename so a crash mid-write cannot corrupt the stored copy.
func SaveLastPaths(stateDir string, record LastPaths) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode last paths record: %w", err)
	}

	target := LastPathsFile(stateDir)
	tmp, err := os.CreateTemp(stateDir, lastPathsFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace last paths record: %w", err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
