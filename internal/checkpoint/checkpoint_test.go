package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toolmesh/dagcore/internal/task"
)

func TestManager_SaveAndLoad(t *testing.T) {
	store := NewMemStore(nil)
	mgr := NewManager(store, func() int64 { return 42 })

	state := task.WorkflowState{
		WorkflowID:   "w1",
		Tasks:        []task.TaskResult{{TaskID: "t1", Status: task.StatusSuccess}},
		CurrentLayer: 0,
	}

	id, err := mgr.Save(context.Background(), state, 0)
	require.NoError(t, err)

	cp, err := mgr.Load(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "w1", cp.WorkflowID)
	require.Equal(t, 0, cp.LayerIndex)
	require.Equal(t, int64(42), cp.CreatedAt)
}

func TestManager_LoadMissingFails(t *testing.T) {
	store := NewMemStore(nil)
	mgr := NewManager(store, nil)
	_, err := mgr.Load(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrCheckpointNotFound)
}

func TestCheckDagMismatch_PrefixOK(t *testing.T) {
	cp := Checkpoint{State: task.WorkflowState{Tasks: []task.TaskResult{
		{TaskID: "t1"}, {TaskID: "t2"},
	}}}
	dag := task.DAG{Tasks: []task.Task{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}}
	require.NoError(t, CheckDagMismatch(cp, dag))
}

func TestCheckDagMismatch_Mismatch(t *testing.T) {
	cp := Checkpoint{State: task.WorkflowState{Tasks: []task.TaskResult{
		{TaskID: "t1"}, {TaskID: "different"},
	}}}
	dag := task.DAG{Tasks: []task.Task{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}}
	require.ErrorIs(t, CheckDagMismatch(cp, dag), ErrDagMismatch)
}
