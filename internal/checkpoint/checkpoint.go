package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/toolmesh/dagcore/internal/task"
)

// Checkpoint is the durable record the Checkpoint Manager persists at a
// layer boundary.
type Checkpoint struct {
	CheckpointID string             `json:"checkpointId"`
	WorkflowID   string             `json:"workflowId"`
	LayerIndex   int                `json:"layerIndex"`
	State        task.WorkflowState `json:"state"`
	CreatedAt    int64              `json:"createdAt"`
}

// Manager persists and restores WorkflowState snapshots at layer
// boundaries. It is the only writer of Checkpoints for a given workflow;
// the Controlled Executor serializes calls to Save within one workflow.
type Manager struct {
	store KVStore
	ttl   func() int64 // seconds, injected for deterministic tests
}

// NewManager wraps a KVStore. nowUnix, when non-nil, overrides the
// CreatedAt clock for deterministic tests.
func NewManager(store KVStore, nowUnix func() int64) *Manager {
	return &Manager{store: store, ttl: nowUnix}
}

func (m *Manager) now() int64 {
	if m.ttl != nil {
		return m.ttl()
	}
	return time.Now().Unix()
}

// Save snapshots the given WorkflowState at layerIndex and writes it to the
// store under the default 1-hour TTL, returning the opaque checkpoint id.
func (m *Manager) Save(ctx context.Context, state task.WorkflowState, layerIndex int) (string, error) {
	checkpointID := uuid.NewString()
	cp := Checkpoint{
		CheckpointID: checkpointID,
		WorkflowID:   state.WorkflowID,
		LayerIndex:   layerIndex,
		State:        state,
		CreatedAt:    m.now(),
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return "", fmt.Errorf("checkpoint: marshal: %w", err)
	}
	if err := m.store.Put(ctx, checkpointID, data, DefaultTTL); err != nil {
		return "", ErrCheckpointStoreUnavailable
	}
	return checkpointID, nil
}

// Load fetches and decodes a checkpoint by id.
func (m *Manager) Load(ctx context.Context, checkpointID string) (Checkpoint, error) {
	data, err := m.store.Get(ctx, checkpointID)
	if err != nil {
		return Checkpoint{}, err
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint: unmarshal: %w", err)
	}
	return cp, nil
}

// CheckDagMismatch verifies the checkpoint's recorded task ids are a prefix
// (by id) of the current DAG's tasks, in order. Resume must fail fast with
// ErrDagMismatch rather than silently executing against a changed graph.
func CheckDagMismatch(cp Checkpoint, dag task.DAG) error {
	if len(cp.State.Tasks) > len(dag.Tasks) {
		return ErrDagMismatch
	}
	for i, r := range cp.State.Tasks {
		if dag.Tasks[i].ID != r.TaskID {
			return ErrDagMismatch
		}
	}
	return nil
}
