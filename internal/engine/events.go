package engine

import (
	"sync"
	"time"
)

// EventKind labels entries on the engine's progress stream
type EventKind string

const (
	// EventCommandStarted fires when a command passes validation and
	// takes the execution slot
	EventCommandStarted EventKind = "command_started"
	// EventCommandFinished fires when a command returns, either way
	EventCommandFinished EventKind = "command_finished"
	// EventBatchProgress fires periodically while a recreation batch runs
	EventBatchProgress EventKind = "batch_progress"
)

// Event is one entry on the engine's progress stream. Commands emit a
// started/finished pair; recreation batches additionally emit progress.
type Event struct {
	Kind      EventKind `json:"kind"`
	Command   string    `json:"command,omitempty"`
	JobID     string    `json:"job_id,omitempty"`
	Done      int       `json:"done,omitempty"`
	Total     int       `json:"total,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	ErrorCode int       `json:"error_code,omitempty"`
	At        time.Time `json:"at"`
}

// Broadcaster fans events out to subscribers. Publishing never blocks:
// a subscriber that stops draining loses events rather than stalling
// the engine.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBroadcaster creates an empty broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a buffered listener. The returned cancel func
// unregisters it and closes the channel; calling cancel twice is safe.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers e to every subscriber with buffer room
func (b *Broadcaster) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
