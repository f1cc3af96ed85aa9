package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/toolmesh/dagcore/internal/checkpoint"
	"github.com/toolmesh/dagcore/internal/events"
	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
	"github.com/toolmesh/dagcore/internal/toolexec"
)

func okHandler(ctx context.Context, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error) {
	return jsonvalue.FromAny(map[string]any{"tool": tool})
}

func TestExecutor_CheckspointsAfterEveryLayer(t *testing.T) {
	mock := toolexec.NewMockExecutor()
	mock.Handle("mock:work", okHandler)

	dag := task.DAG{Tasks: []task.Task{
		{ID: "t1", Tool: "mock:work"},
		{ID: "t2", Tool: "mock:work", DependsOn: []string{"t1"}},
		{ID: "t3", Tool: "mock:work", DependsOn: []string{"t2"}},
	}}

	store := checkpoint.NewMemStore(nil)
	mgr := checkpoint.NewManager(store, func() int64 { return 100 })

	e := &Executor{Exec: mock, Checkpoints: mgr}
	h, err := e.ExecuteStream(context.Background(), dag, "wf1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var checkpointCount int
	var lastCheckpointID string
	for ev := range h.Events {
		if ev.Kind == events.KindCheckpoint {
			checkpointCount++
			lastCheckpointID = ev.CheckpointID
		}
	}
	if _, err := h.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkpointCount != 3 {
		t.Fatalf("expected one checkpoint per layer (3), got %d", checkpointCount)
	}

	cp, err := mgr.Load(context.Background(), lastCheckpointID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cp.State.Tasks) != 3 {
		t.Fatalf("expected final checkpoint to carry all 3 task results, got %d", len(cp.State.Tasks))
	}
	if cp.LayerIndex != 2 {
		t.Fatalf("expected final checkpoint at layer 2, got %d", cp.LayerIndex)
	}
}

func TestExecutor_ResumeSkipsCompletedLayers(t *testing.T) {
	mock := toolexec.NewMockExecutor()
	mock.Handle("mock:work", func(ctx context.Context, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error) {
		return jsonvalue.FromAny("ran")
	})

	dag := task.DAG{Tasks: []task.Task{
		{ID: "t1", Tool: "mock:work"},
		{ID: "t2", Tool: "mock:work", DependsOn: []string{"t1"}},
		{ID: "t3", Tool: "mock:work", DependsOn: []string{"t2"}},
	}}

	cp := checkpoint.Checkpoint{
		CheckpointID: "cp1",
		WorkflowID:   "wf1",
		LayerIndex:   0,
		State: task.WorkflowState{
			WorkflowID:   "wf1",
			Tasks:        []task.TaskResult{{TaskID: "t1", Status: task.StatusSuccess}},
			CurrentLayer: 0,
		},
	}

	e := &Executor{Exec: mock}
	report, err := e.Resume(context.Background(), dag, cp, "wf1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 total results (1 seeded + 2 executed), got %d", len(report.Results))
	}
	if report.SuccessfulTasks != 3 {
		t.Fatalf("expected 3 successful tasks, got %d", report.SuccessfulTasks)
	}
}

func TestExecutor_ResumeRejectsDagMismatch(t *testing.T) {
	mock := toolexec.NewMockExecutor()
	mock.Handle("mock:work", okHandler)

	dag := task.DAG{Tasks: []task.Task{
		{ID: "t1", Tool: "mock:work"},
		{ID: "other", Tool: "mock:work", DependsOn: []string{"t1"}},
	}}

	cp := checkpoint.Checkpoint{
		State: task.WorkflowState{Tasks: []task.TaskResult{
			{TaskID: "t1", Status: task.StatusSuccess},
			{TaskID: "t2", Status: task.StatusSuccess},
		}},
		LayerIndex: 0,
	}

	e := &Executor{Exec: mock}
	_, err := e.ResumeStream(context.Background(), dag, cp, "wf1")
	if !errors.Is(err, checkpoint.ErrDagMismatch) {
		t.Fatalf("expected ErrDagMismatch, got %v", err)
	}
}
