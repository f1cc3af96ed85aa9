// Package checkpoint implements the Checkpoint Manager (C7): durable
// per-layer WorkflowState snapshots that allow a new executor instance to
// deterministically continue a workflow.
package checkpoint

import (
	"context"
	"errors"
	"time"
)

// Error kinds. CheckpointNotFound and CheckpointExpired are non-fatal for a
// fresh run but fatal for resume; CheckpointStoreUnavailable is always
// fatal for the operation in progress.
var (
	ErrCheckpointNotFound         = errors.New("checkpoint not found")
	ErrCheckpointExpired          = errors.New("checkpoint expired")
	ErrCheckpointStoreUnavailable = errors.New("checkpoint store unavailable")
	ErrDagMismatch                = errors.New("dag mismatch")
)

// DefaultTTL is the 1-hour default per the Checkpoint data model.
const DefaultTTL = time.Hour

// KVStore is the key-value abstraction the Checkpoint Manager persists
// through. It tolerates concurrent writers across workflows; within one
// workflow, writes are serialized by the Controlled Executor, never by the
// store itself.
type KVStore interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error) // ErrCheckpointNotFound / ErrCheckpointExpired
	Delete(ctx context.Context, key string) error
}
