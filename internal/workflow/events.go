package workflow

import (
	"sync"

	"packrat/internal/logging"
)

// Event is one typed update emitted by a worker and consumed by the
// observer. Event values are owned by the queue at publish time and by the
// consumer after Drain.
type Event interface {
	isEvent()
}

// StatusChanged reports a step status transition.
type StatusChanged struct {
	Step   StepID
	Status StepStatus
}

// LogAppended mirrors a log buffer append into the update stream.
type LogAppended struct {
	Entry logging.Entry
}

// ErrorEvent carries a user-visible error message.
type ErrorEvent struct {
	Message string
}

// DiskSpace reports the copy step's space preflight numbers.
type DiskSpace struct {
	RequiredBytes  uint64
	AvailableBytes uint64
}

// RunFinished marks the end of a logical run (single step or run-all).
type RunFinished struct {
	RunID   string
	Success bool
}

func (StatusChanged) isEvent() {}
func (LogAppended) isEvent()   {}
func (ErrorEvent) isEvent()    {}
func (DiskSpace) isEvent()     {}
func (RunFinished) isEvent()   {}

// Queue is the bounded many-producer/single-consumer conduit between the
// workers and the observer. Publish never blocks: when the buffer is full
// the oldest events are dropped, since the observer can always recover the
// current state from a store snapshot.
type Queue struct {
	mu  sync.Mutex
	buf []Event
	cap int
}

// NewQueue constructs a queue holding at most capacity events (minimum 1).
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{cap: capacity}
}

// Publish appends an event, evicting the oldest entries beyond capacity.
func (q *Queue) Publish(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = append(q.buf, event)
	if over := len(q.buf) - q.cap; over > 0 {
		q.buf = append(q.buf[:0], q.buf[over:]...)
	}
}

// Drain returns everything queued since the last call, oldest first, without
// blocking. It returns nil when nothing is pending.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return nil
	}
	out := q.buf
	q.buf = nil
	return out
}
