package cli

import (
	"context"
	"testing"

	"github.com/toolmesh/dagcore/internal/executor"
	"github.com/toolmesh/dagcore/internal/priority"
	"github.com/toolmesh/dagcore/internal/task"
	"github.com/toolmesh/dagcore/internal/threshold"
	"github.com/toolmesh/dagcore/internal/trace"
)

func TestRecordOutcome_InsertsTraceAndFeedsThreshold(t *testing.T) {
	app := &App{
		Traces:     trace.NewMemStore(),
		Predictor:  priority.StubPredictor{Nodes: 0, FixedPrediction: 0.5},
		Embedder:   priority.StubEmbedder{Dimension: 4},
		Thresholds: threshold.New(threshold.Config{}, nil),
	}

	dag := task.DAG{Tasks: []task.Task{{ID: "t1", Tool: "mock:work"}}}
	report := executor.ExecutionReport{
		Results:         []task.TaskResult{{TaskID: "t1", Status: task.StatusSuccess}},
		SuccessfulTasks: 1,
		ExecutionTimeMs: 42,
	}

	recordOutcome(context.Background(), app, "do the thing", dag, report)

	traces, err := app.Traces.HighPriorityTraces(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(traces) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(traces))
	}
	if traces[0].IntentText != "do the thing" {
		t.Fatalf("expected intent text to be recorded, got %q", traces[0].IntentText)
	}
	if !traces[0].IsColdStart {
		t.Fatal("expected a zero-node predictor to produce a cold-start trace")
	}

	metrics := app.Thresholds.Metrics()
	if metrics.SpeculativeAttempts != 0 {
		t.Fatalf("expected no speculative attempts recorded for an explicit-mode outcome, got %d", metrics.SpeculativeAttempts)
	}
}
