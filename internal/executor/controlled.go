package executor

import (
	"context"

	"github.com/toolmesh/dagcore/internal/checkpoint"
	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
)

// ExecuteStreamWithState is ExecuteStream for a workflow that starts with
// existing conversational state (messages/decisions) rather than empty
// values. The Controlled Executor carries this through to every checkpoint
// it writes for the workflow.
func (e *Executor) ExecuteStreamWithState(ctx context.Context, dag task.DAG, workflowID string, messages, decisions jsonvalue.Value) (*Handle, error) {
	return e.executeStream(ctx, dag, workflowID, runOpts{
		createdAt: e.now().Unix(),
		messages:  messages,
		decisions: decisions,
	})
}

// ResumeStream resumes dag from a previously saved checkpoint. Layers up to
// and including cp.LayerIndex are taken as already complete: their results
// are seeded from the checkpoint rather than re-executed, and the stream
// picks up at cp.LayerIndex+1. Messages and decisions are carried forward
// unchanged from the checkpoint's state.
//
// ResumeStream fails fast with ErrDagMismatch if the checkpoint's recorded
// tasks are not a prefix of dag's tasks, so a caller never resumes against
// a graph that has since changed underneath it.
func (e *Executor) ResumeStream(ctx context.Context, dag task.DAG, cp checkpoint.Checkpoint, workflowID string) (*Handle, error) {
	if err := checkpoint.CheckDagMismatch(cp, dag); err != nil {
		return nil, err
	}

	return e.executeStream(ctx, dag, workflowID, runOpts{
		seed:            cp.State.Tasks,
		startLayerIndex: cp.LayerIndex + 1,
		messages:        cp.State.Messages,
		decisions:       cp.State.Decisions,
		createdAt:       cp.State.CreatedAt,
	})
}

// Resume is the blocking counterpart of ResumeStream: it resumes dag from cp
// and waits for the terminal ExecutionReport.
func (e *Executor) Resume(ctx context.Context, dag task.DAG, cp checkpoint.Checkpoint, workflowID string) (ExecutionReport, error) {
	h, err := e.ResumeStream(ctx, dag, cp, workflowID)
	if err != nil {
		return ExecutionReport{}, err
	}
	for range h.Events {
	}
	return h.Wait()
}
