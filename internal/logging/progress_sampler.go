package logging

import (
	"strings"
	"time"
)

// ProgressSampler coalesces progress callbacks to a fixed cadence so update
// volume stays bounded regardless of how often a step reports. An update is
// emitted when the note changes, when the cadence interval has elapsed since
// the last emission, or when progress reaches completion.
type ProgressSampler struct {
	interval time.Duration
	lastEmit time.Time
	lastNote string
	done     bool
}

// NewProgressSampler constructs a sampler with the given cadence
// (default 500ms when non-positive).
func NewProgressSampler(interval time.Duration) *ProgressSampler {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &ProgressSampler{interval: interval}
}

// ShouldEmit reports whether a progress update at the given instant should
// be forwarded. Not safe for concurrent use; each worker owns its sampler.
func (s *ProgressSampler) ShouldEmit(now time.Time, fraction float64, note string) bool {
	if s == nil {
		return true
	}
	note = strings.TrimSpace(note)
	emit := false

	if note != "" && note != s.lastNote {
		s.lastNote = note
		emit = true
	}
	if fraction >= 1 && !s.done {
		s.done = true
		emit = true
	}
	if s.lastEmit.IsZero() || now.Sub(s.lastEmit) >= s.interval {
		emit = true
	}

	if emit {
		s.lastEmit = now
	}
	return emit
}

// Reset clears the sampler state when a new run starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastEmit = time.Time{}
	s.lastNote = ""
	s.done = false
}
