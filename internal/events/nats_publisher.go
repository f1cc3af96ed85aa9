package events

import (
	"encoding/json"

	nats "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NatsPublisher republishes every event onto
// toolmesh.workflows.<workflowId>.events so multiple external consumers
// (a web visualization, a separate logging sink) can observe a run without
// coupling to the in-process channel's single-consumer semantics. It is
// additive: the in-process ChanSink remains the source of truth.
type NatsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher wraps an already-connected *nats.Conn. The caller owns
// the connection's lifecycle.
func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

type wireEvent struct {
	Kind           Kind           `json:"kind"`
	WorkflowID     string         `json:"workflowId"`
	LayerIndex     int            `json:"layerIndex,omitempty"`
	Tasks          []string       `json:"tasks,omitempty"`
	TaskID         string         `json:"taskId,omitempty"`
	Status         string         `json:"status,omitempty"`
	CheckpointID   string         `json:"checkpointId,omitempty"`
	WorkflowStatus WorkflowStatus `json:"workflowStatus,omitempty"`
}

// Record marshals the event and publishes it; publish failures are logged
// and swallowed, matching the never-block-the-executor contract every Sink
// must honor.
func (p *NatsPublisher) Record(event Event) {
	if p == nil || p.conn == nil {
		return
	}
	w := wireEvent{
		Kind:           event.Kind,
		WorkflowID:     event.WorkflowID,
		LayerIndex:     event.LayerIndex,
		Tasks:          event.Tasks,
		TaskID:         event.TaskID,
		Status:         string(event.Status),
		CheckpointID:   event.CheckpointID,
		WorkflowStatus: event.WorkflowStatus,
	}
	data, err := json.Marshal(w)
	if err != nil {
		log.Warn().Err(err).Str("workflowId", event.WorkflowID).Msg("events: marshal failed")
		return
	}
	subject := "toolmesh.workflows." + event.WorkflowID + ".events"
	if err := p.conn.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("events: publish failed")
	}
}

// FanOut returns a Sink that records onto every sink in order; use it to
// combine a ChanSink with an optional NatsPublisher and/or Recorder.
type FanOut []Sink

func (f FanOut) Record(event Event) {
	for _, s := range f {
		SafeRecord(s, event)
	}
}
