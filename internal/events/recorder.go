package events

import "sync"

// Recorder is a concurrency-safe in-memory collector, useful as a test
// double or as a secondary sink fanned out alongside a ChanSink. Unlike a
// deterministic replay trace, event order here is emission order: the
// partial order in the package doc comment, not a canonicalized sort.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(event Event) {
	if r == nil {
		return
	}
	defer func() { _ = recover() }()

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded events, in the
// order they were recorded.
func (r *Recorder) Snapshot() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
