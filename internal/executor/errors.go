// Package executor implements the Parallel DAG Executor (C5) and the
// Controlled Executor (C8): layer-strict scheduling, dependency resolution,
// speedup accounting, and the typed event stream, plus checkpointed resume.
package executor

import (
	"errors"
	"fmt"
)

// Admission error kinds. These are fatal and surface before any event is
// emitted, per the error handling design's propagation policy.
var (
	ErrImpureTask = errors.New("impure task")
)

// Error wraps an admission failure with a stable Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func impureTask(taskID string, found string) error {
	return &Error{Kind: ErrImpureTask, Msg: fmt.Sprintf("task %q body contains forbidden construct %q", taskID, found)}
}
