// Package resolver implements the Dependency Resolver (C2): a pure,
// synchronous function that builds the dependency-result map passed to each
// task before invocation.
package resolver

import (
	"errors"
	"fmt"

	"github.com/toolmesh/dagcore/internal/task"
)

// Error kinds thrown by Resolve. Both are per-task dependency errors, not
// admission errors: they surface only when a task with that dependency is
// actually scheduled.
var (
	ErrMissingDependency = errors.New("missing dependency")
	ErrUpstreamFailed    = errors.New("upstream failed")
)

// Error wraps a resolution failure with the offending dependency id.
type Error struct {
	Kind  error
	DepID string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.DepID)
}

func (e *Error) Unwrap() error { return e.Kind }

// Store is the read side of the Result Store (C4) the resolver consults.
// The Parallel DAG Executor is the sole writer; the resolver only reads.
type Store interface {
	Get(taskID string) (task.TaskResult, bool)
}

// Resolve builds a mapping from dependency id to TaskResult for the given
// dependency list, preserving the full TaskResult (not just its output) so
// downstream tasks can observe statuses.
//
// Contract:
//   - a missing id fails with ErrMissingDependency;
//   - a dependency with status "error" fails with ErrUpstreamFailed;
//   - a dependency with status "failed_safe" is included, not a failure;
//   - duplicate ids in depIDs are not deduplicated: both entries resolve to
//     the same TaskResult, matching the preserved duplicate-id behavior;
//   - an empty depIDs list yields an empty map.
//
// Resolve never mutates the store.
func Resolve(depIDs []string, store Store) (map[string]task.TaskResult, error) {
	out := make(map[string]task.TaskResult, len(depIDs))
	for _, id := range depIDs {
		result, ok := store.Get(id)
		if !ok {
			return nil, &Error{Kind: ErrMissingDependency, DepID: id}
		}
		if result.Status == task.StatusError {
			return nil, &Error{Kind: ErrUpstreamFailed, DepID: id}
		}
		out[id] = result
	}
	return out, nil
}
