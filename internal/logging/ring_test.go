package logging_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"packrat/internal/logging"
)

func TestRingEvictsOldestBeyondCapacity(t *testing.T) {
	ring := logging.NewRing(3)
	for i := 0; i < 5; i++ {
		ring.Append(logging.Entry{Time: time.Now(), Level: slog.LevelInfo, Message: fmt.Sprintf("entry-%d", i)})
	}

	got := ring.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected capacity 3, got %d entries", len(got))
	}
	want := []string{"entry-4", "entry-3", "entry-2"}
	for i, entry := range got {
		if entry.Message != want[i] {
			t.Fatalf("position %d: got %q want %q", i, entry.Message, want[i])
		}
	}
}

func TestRingSnapshotIsACopy(t *testing.T) {
	ring := logging.NewRing(5)
	ring.Append(logging.Entry{Message: "original"})

	snap := ring.Snapshot()
	snap[0].Message = "mutated"

	if ring.Snapshot()[0].Message != "original" {
		t.Fatal("snapshot mutation leaked into the ring")
	}
}

func TestRingSinkReceivesAppends(t *testing.T) {
	ring := logging.NewRing(5)
	var seen []string
	ring.SetSink(func(entry logging.Entry) {
		seen = append(seen, entry.Message)
	})

	ring.Append(logging.Entry{Message: "one"})
	ring.Append(logging.Entry{Message: "two"})

	if len(seen) != 2 || seen[0] != "one" || seen[1] != "two" {
		t.Fatalf("sink saw %v", seen)
	}
}

func TestRingAsSlogHandler(t *testing.T) {
	ring := logging.NewRing(10)
	logger := slog.New(ring)

	logger.Info("copy started", "step", "copy")
	logger.Debug("ignored at default level")
	logger.Error("copy failed", "error", "disk full")

	got := ring.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Level != slog.LevelError {
		t.Fatalf("newest entry level: got %v", got[0].Level)
	}
	if got[0].Message != "copy failed error=disk full" {
		t.Fatalf("unexpected formatted message: %q", got[0].Message)
	}
	if got[1].Message != "copy started step=copy" {
		t.Fatalf("unexpected formatted message: %q", got[1].Message)
	}
}

func TestRingWithAttrsSharesBuffer(t *testing.T) {
	ring := logging.NewRing(10)
	base := slog.New(ring)
	scoped := base.With("step", "emulator")

	scoped.Info("payload staged")

	got := ring.Snapshot()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Message != "payload staged step=emulator" {
		t.Fatalf("unexpected message: %q", got[0].Message)
	}
	if !ring.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info enabled")
	}
}
