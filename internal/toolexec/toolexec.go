// Package toolexec defines the Task Executor Interface (C1): the single
// capability a concrete implementation must satisfy to invoke a leaf task.
// This replaces a callback-style contract with a polymorphic capability
// abstraction so the mock used by tests, the gRPC bridge, and any future
// sandboxed runner are interchangeable behind one interface.
package toolexec

import (
	"context"

	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
)

// Executor invokes a single leaf task given its tool name, arguments, and
// the resolved dependency-result map. An error return becomes
// TaskResult{status: error, error: message}; the executor itself never
// classifies safeToFail — that's the caller's (Parallel DAG Executor's)
// responsibility based on task metadata.
type Executor interface {
	Run(ctx context.Context, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error)
}

// Retryable is an optional capability a concrete Executor may implement to
// opt into the backoff/v4 retry policy in the Parallel DAG Executor. The
// in-memory mock used by tests does not implement it, so retry semantics
// never change test determinism.
type Retryable interface {
	Retryable() bool
}
