// Package graph implements the Layerer (C3): deterministic topological
// partitioning of a DAG into parallel execution layers.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Admission error kinds. Every admission failure is fatal before any
// execution begins.
var (
	ErrCycleDetected     = errors.New("cycle detected")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrDuplicateTaskID   = errors.New("duplicate task id")
)

// Error wraps a deterministic admission failure with a stable Kind a caller
// can match via errors.Is/errors.As, mirroring the taxonomy from the error
// handling design.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func unknownDependency(taskID, depID string) error {
	return &Error{Kind: ErrUnknownDependency, Msg: fmt.Sprintf("task %q depends on unknown task %q", taskID, depID)}
}

func duplicateTaskID(id string) error {
	return &Error{Kind: ErrDuplicateTaskID, Msg: fmt.Sprintf("task id %q appears more than once", id)}
}

func cycleDetected(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &Error{Kind: ErrCycleDetected, Msg: msg}
}
