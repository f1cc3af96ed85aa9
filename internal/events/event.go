// Package events implements the Event Stream (C12): a typed sequence of
// layer/task/checkpoint events emitted strictly in partial order per
// workflow:
//
//	layer_start -> (task_complete)* -> layer_end -> checkpoint -> layer_start -> ... -> workflow_end
package events

import (
	"github.com/toolmesh/dagcore/internal/task"
)

// Kind discriminates an Event's payload. The string values are stable and
// part of the wire contract for external consumers (e.g. the NATS bridge).
type Kind string

const (
	KindLayerStart   Kind = "layer_start"
	KindTaskComplete Kind = "task_complete"
	KindLayerEnd     Kind = "layer_end"
	KindCheckpoint   Kind = "checkpoint"
	KindWorkflowEnd  Kind = "workflow_end"
)

// WorkflowStatus is the terminal classification carried on a workflow_end
// event.
type WorkflowStatus string

const (
	WorkflowSuccess   WorkflowStatus = "success"
	WorkflowError     WorkflowStatus = "error"
	WorkflowCancelled WorkflowStatus = "cancelled"
)

// Event is a single tagged-variant entry in a workflow's event sequence.
// Only the fields relevant to Kind are populated.
type Event struct {
	Kind       Kind
	WorkflowID string

	// layer_start / layer_end / checkpoint
	LayerIndex int
	Tasks      []string // layer_start only

	// task_complete
	TaskID string
	Status task.Status

	// checkpoint
	CheckpointID string

	// workflow_end
	WorkflowStatus WorkflowStatus
}

// Sink is the minimal interface the executor depends on to publish events.
// Record must be inert: it must not panic and must not block the caller
// indefinitely. Implementations that need to block (e.g. a network
// publisher) should buffer internally.
type Sink interface {
	Record(event Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Record(Event) {}

// SafeRecord records an event and guarantees inertness even if the sink
// panics; panics are swallowed so a misbehaving consumer never takes down
// the executor.
func SafeRecord(s Sink, event Event) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Record(event)
}

// ChanSink adapts a buffered channel to the Sink interface; this is the
// default sink `executeStream` hands back to its caller.
type ChanSink struct {
	ch chan Event
}

// NewChanSink returns a ChanSink backed by a channel of the given buffer
// size, along with the channel itself for the consumer to range over.
func NewChanSink(buffer int) (*ChanSink, <-chan Event) {
	ch := make(chan Event, buffer)
	return &ChanSink{ch: ch}, ch
}

// Record sends the event, dropping it only if the channel has already been
// closed (post-Close calls are a programmer error on the executor's part,
// guarded against rather than panicking).
func (c *ChanSink) Record(event Event) {
	defer func() { _ = recover() }()
	c.ch <- event
}

// Close closes the underlying channel. The executor calls this exactly once
// after the final workflow_end event has been sent.
func (c *ChanSink) Close() { close(c.ch) }
