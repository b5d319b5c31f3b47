package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is one captured log record held by the Ring.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Ring is a bounded, synchronized, newest-first log buffer. Appending past
// capacity evicts the oldest entries. It doubles as a slog.Handler so every
// record routed through the logger lands in the buffer; an optional sink is
// invoked (outside the lock) for each appended entry so the engine can
// forward log activity to its update queue.
type Ring struct {
	mu      sync.Mutex
	cap     int
	entries []Entry

	sink  func(Entry)
	attrs []slog.Attr
	min   slog.Level
}

// NewRing constructs a ring with the given capacity (minimum 1) that keeps
// records at or above Info.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{cap: capacity, min: slog.LevelInfo}
}

// SetSink registers a callback invoked for every appended entry. The callback
// must not block; it runs on the appending goroutine.
func (r *Ring) SetSink(sink func(Entry)) {
	r.mu.Lock()
	r.sink = sink
	r.mu.Unlock()
}

// Append inserts an entry at the most-recent position, evicting the oldest
// entry once the buffer is full.
func (r *Ring) Append(entry Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{})
	copy(r.entries[1:], r.entries)
	r.entries[0] = entry
	if len(r.entries) > r.cap {
		r.entries = r.entries[:r.cap]
	}
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		sink(entry)
	}
}

// Snapshot returns a newest-first copy of the buffered entries.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of buffered entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Ring) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.min
}

func (r *Ring) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)
	for _, attr := range r.attrs {
		writeAttr(&b, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, attr)
		return true
	})

	when := record.Time
	if when.IsZero() {
		when = time.Now()
	}
	r.Append(Entry{Time: when, Level: record.Level, Message: b.String()})
	return nil
}

func (r *Ring) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &ringWithAttrs{ring: r, attrs: append(append([]slog.Attr(nil), r.attrs...), attrs...)}
	return clone
}

func (r *Ring) WithGroup(string) slog.Handler { return r }

// ringWithAttrs shares the parent buffer but carries pre-bound attrs.
type ringWithAttrs struct {
	ring  *Ring
	attrs []slog.Attr
}

func (h *ringWithAttrs) Enabled(ctx context.Context, level slog.Level) bool {
	return h.ring.Enabled(ctx, level)
}

func (h *ringWithAttrs) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.attrs...)
	return h.ring.Handle(ctx, record)
}

func (h *ringWithAttrs) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringWithAttrs{ring: h.ring, attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

func (h *ringWithAttrs) WithGroup(string) slog.Handler { return h }

func writeAttr(b *strings.Builder, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " %s=%v", attr.Key, attr.Value.Any())
}
