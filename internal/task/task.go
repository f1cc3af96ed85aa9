// Package task defines the domain model shared by every component of the
// DAG execution core: Task, DAG, TaskResult, Layer, and WorkflowState.
//
// Arguments and outputs are opaque JSON values (jsonvalue.Value); the core
// never interprets them, only stores and forwards them.
package task

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/toolmesh/dagcore/internal/jsonvalue"
)

// toolPattern matches the required "<namespace>:<operation>" tool identifier
// shape, checked at admission through the "toolid" validator tag.
var toolPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+:[a-zA-Z0-9_.-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("toolid", func(fl validator.FieldLevel) bool {
		return toolPattern.MatchString(fl.Field().String())
	})
	return v
}

// Metadata carries the optional per-task flags.
type Metadata struct {
	// Pure marks a code-operation task (tool namespace "code:") as eligible
	// for static validation ahead of execution.
	Pure bool `json:"pure,omitempty"`

	// SafeToFail marks a task whose failure must not abort the workflow;
	// downstream consumers observe status "failed_safe" instead of aborting.
	SafeToFail bool `json:"safeToFail,omitempty"`

	// TimeoutMs is the per-task timeout in milliseconds. Zero means no
	// timeout is enforced beyond the caller's context.
	TimeoutMs int64 `json:"timeoutMs,omitempty"`

	// Body is the task's code body, required only when Pure is true; it is
	// statically scanned for forbidden constructs before execution.
	Body string `json:"body,omitempty"`
}

// Task is a single tool invocation node within a DAG.
type Task struct {
	ID        string          `json:"id" validate:"required"`
	Tool      string          `json:"tool" validate:"required,toolid"`
	Arguments jsonvalue.Value `json:"arguments"`
	DependsOn []string        `json:"dependsOn,omitempty"`
	Metadata  Metadata        `json:"metadata,omitempty"`
}

// ValidateShape checks the field-level invariants assigned to a single task,
// ahead of any graph-shape validation (cycle detection, unknown dependency).
func (t Task) ValidateShape() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("task %q: %w", t.ID, err)
	}
	return nil
}

// DAG is an ordered sequence of tasks. Order is significant: it is the
// tie-break within a layering frontier.
type DAG struct {
	Tasks []Task `json:"tasks" validate:"required,min=0,dive"`
}

// Status is a TaskResult's terminal classification.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
	StatusFailedSafe Status = "failed_safe"
)

// TaskResult is the outcome of invoking a single task.
type TaskResult struct {
	TaskID          string          `json:"taskId"`
	Status          Status          `json:"status"`
	Output          jsonvalue.Value `json:"output,omitempty"`
	Error           string          `json:"error,omitempty"`
	ExecutionTimeMs int64           `json:"executionTimeMs,omitempty"`
	LayerIndex      int             `json:"layerIndex,omitempty"`
}

// Validate enforces the per-status invariants: success implies an output was
// set (possibly null), error implies a non-empty error string.
func (r TaskResult) Validate() error {
	switch r.Status {
	case StatusSuccess:
		if !r.Output.IsPresent() {
			return fmt.Errorf("task %q: success result must set output", r.TaskID)
		}
	case StatusError:
		if r.Error == "" {
			return fmt.Errorf("task %q: error result must set error", r.TaskID)
		}
	case StatusFailedSafe:
		// no additional constraint; error may or may not be set.
	default:
		return fmt.Errorf("task %q: unknown status %q", r.TaskID, r.Status)
	}
	return nil
}

// Layer is an ordered, dependency-free slice of task IDs, numbered 0..L-1 in
// topological order.
type Layer struct {
	Index int
	Tasks []string
}

// WorkflowState is the durable, checkpointable record of an in-progress or
// completed workflow.
type WorkflowState struct {
	WorkflowID   string          `json:"workflowId"`
	Tasks        []TaskResult    `json:"tasks"`
	CurrentLayer int             `json:"currentLayer"`
	Messages     jsonvalue.Value `json:"messages,omitempty"`
	Decisions    jsonvalue.Value `json:"decisions,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
	ExpiresAt    int64           `json:"expiresAt"`
}
