package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/toolmesh/dagcore/internal/executor"
	"github.com/toolmesh/dagcore/internal/graph"
	"github.com/toolmesh/dagcore/internal/priority"
	"github.com/toolmesh/dagcore/internal/task"
	"github.com/toolmesh/dagcore/internal/threshold"
	"github.com/toolmesh/dagcore/internal/trace"
)

// recordOutcome feeds a finished execution through the TD Priority Engine,
// the Trace Store, and the Adaptive Threshold Manager: the C9 -> C10 -> C11
// pipeline the executor itself has no opinion about. A failure here is
// logged but never turns a completed workflow into a CLI error.
func recordOutcome(ctx context.Context, app *App, intentText string, dag task.DAG, report executor.ExecutionReport) {
	ran := make(map[string]bool, len(report.Results))
	for _, r := range report.Results {
		ran[r.TaskID] = true
	}
	toolOf := make(map[string]string, len(dag.Tasks))
	for _, t := range dag.Tasks {
		toolOf[t.ID] = t.Tool
	}
	executedPath := make([]string, 0, len(report.Results))
	if layering, err := graph.Layer(dag); err == nil {
		for _, layer := range layering.Layers {
			for _, id := range layer.Tasks {
				if ran[id] {
					executedPath = append(executedPath, toolOf[id])
				}
			}
		}
	}
	success := report.FailedTasks == 0

	outcome, err := priority.Score(ctx, app.Predictor, app.Embedder, intentText, executedPath, success)
	if err != nil {
		fmt.Fprintf(os.Stderr, "priority score: %v\n", err)
		return
	}

	t := trace.Trace{
		IntentText:   intentText,
		ExecutedPath: executedPath,
		Success:      success,
		DurationMs:   report.ExecutionTimeMs,
		Priority:     outcome.Priority,
		Predicted:    outcome.Predicted,
		Actual:       outcome.Actual,
		IsColdStart:  outcome.IsColdStart,
	}
	if !success && len(report.Errors) > 0 {
		t.ErrorMessage = report.Errors[0].Error
	}
	if _, err := app.Traces.InsertTrace(ctx, t); err != nil {
		fmt.Fprintf(os.Stderr, "insert trace: %v\n", err)
	}

	app.Thresholds.Record(threshold.Record{
		Confidence:      outcome.Predicted,
		Mode:            threshold.ModeExplicit,
		Success:         success,
		UserAccepted:    true,
		ExecutionTimeMs: report.ExecutionTimeMs,
	})
}
