package logging

import (
	"context"
	"log/slog"
)

// mirrorHandler delivers every record to the primary output handler and
// mirrors the ones the ring accepts into the in-memory buffer the observer
// reads. The primary is served first so a slow ring sink callback never
// delays file or console output.
type mirrorHandler struct {
	primary slog.Handler
	ring    slog.Handler
}

func newMirrorHandler(primary, ring slog.Handler) slog.Handler {
	if primary == nil {
		if ring == nil {
			return NoopHandler{}
		}
		return ring
	}
	if ring == nil {
		return primary
	}
	return &mirrorHandler{primary: primary, ring: ring}
}

func (h *mirrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.ring.Enabled(ctx, level)
}

func (h *mirrorHandler) Handle(ctx context.Context, record slog.Record) error {
	var err error
	if h.primary.Enabled(ctx, record.Level) {
		err = h.primary.Handle(ctx, record.Clone())
	}
	if h.ring.Enabled(ctx, record.Level) {
		if ringErr := h.ring.Handle(ctx, record); ringErr != nil && err == nil {
			err = ringErr
		}
	}
	return err
}

func (h *mirrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mirrorHandler{
		primary: h.primary.WithAttrs(attrs),
		ring:    h.ring.WithAttrs(attrs),
	}
}

func (h *mirrorHandler) WithGroup(name string) slog.Handler {
	return &mirrorHandler{
		primary: h.primary.WithGroup(name),
		ring:    h.ring.WithGroup(name),
	}
}
