package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"packrat/internal/logging"
)

func TestNewMirrorsRecordsIntoRing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "packrat.log")
	ring := logging.NewRing(8)

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
		Mirror:      ring,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("step started", "step", "copy")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "step started") {
		t.Fatalf("primary output missing record:\n%s", data)
	}

	entries := ring.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected 1 mirrored entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Message, "step started") || !strings.Contains(entries[0].Message, "step=copy") {
		t.Fatalf("unexpected mirrored entry: %q", entries[0].Message)
	}
}

func TestNewDebugRecordsSkipRing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "packrat.log")
	ring := logging.NewRing(8)

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{logPath},
		Mirror:      ring,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("step progress", "progress", 0.5)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "step progress") {
		t.Fatalf("primary output missing debug record:\n%s", data)
	}
	if ring.Len() != 0 {
		t.Fatalf("debug record must not reach the ring, got %d entries", ring.Len())
	}
}

func TestNewWithoutMirror(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "packrat.log")
	logger, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("primary output missing record:\n%s", data)
	}
}
