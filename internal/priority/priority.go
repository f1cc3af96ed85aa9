// Package priority implements the TD Priority Engine (C9): it scores a
// finished execution trace by how wrong the upstream planner's success
// prediction was, so the highest-surprise traces get replayed first.
package priority

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	minPriority = 0.01
	maxPriority = 1.0

	coldStartPredicted = 0.5
	coldStartPriority  = 0.5
)

var tracer = otel.Tracer("github.com/toolmesh/dagcore/internal/priority")

// Predictor is the successor-predictor capability graph (the external
// planner's "SHGAT" collaborator) that the engine queries for a success
// estimate. It is never implemented by this package in production; tests use
// StubPredictor.
type Predictor interface {
	// PredictSuccess estimates the probability, in [0,1], that executedPath
	// succeeds given intentEmbedding.
	PredictSuccess(intentEmbedding []float64, executedPath []string) float64
	// NodeCount reports how many nodes the predictor's graph currently
	// holds; zero means the graph has not learned anything yet and the
	// engine must declare a cold start.
	NodeCount() int
}

// EmbeddingProvider turns free text into the fixed-dimension vector the
// Predictor expects. The core treats the vector opaquely.
type EmbeddingProvider interface {
	Embed(text string) ([]float64, error)
}

// Outcome is the scored result of Score: the values a Trace persists.
type Outcome struct {
	Predicted   float64
	Actual      float64
	TDError     float64
	Priority    float64
	IsColdStart bool
}

// Score computes the TD-error-derived priority for one finished execution.
// success reflects whether the run as a whole succeeded; executedPath is the
// ordered list of tool ids actually invoked.
func Score(ctx context.Context, predictor Predictor, embedder EmbeddingProvider, intentText string, executedPath []string, success bool) (Outcome, error) {
	_, span := tracer.Start(ctx, "priority.Score", trace.WithAttributes(
		attribute.Int("executed_path.length", len(executedPath)),
		attribute.Bool("success", success),
	))
	defer span.End()

	actual := 0.0
	if success {
		actual = 1.0
	}

	if predictor.NodeCount() == 0 {
		out := Outcome{Predicted: coldStartPredicted, Actual: actual, Priority: coldStartPriority, IsColdStart: true}
		out.TDError = out.Actual - out.Predicted
		span.SetAttributes(attribute.Bool("cold_start", true))
		return out, nil
	}

	embedding, err := embedder.Embed(intentText)
	if err != nil {
		return Outcome{}, err
	}

	predicted := predictor.PredictSuccess(embedding, executedPath)
	tdError := actual - predicted
	priority := clamp(abs(tdError), minPriority, maxPriority)

	span.SetAttributes(attribute.Float64("priority", priority))

	return Outcome{
		Predicted: predicted,
		Actual:    actual,
		TDError:   tdError,
		Priority:  priority,
	}, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
