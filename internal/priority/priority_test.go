package priority

import (
	"context"
	"testing"
)

func TestScore_ColdStartAtZeroNodes(t *testing.T) {
	predictor := StubPredictor{Nodes: 0}
	embedder := StubEmbedder{Dimension: 4}

	out, err := Score(context.Background(), predictor, embedder, "do the thing", []string{"a:b"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.IsColdStart {
		t.Fatal("expected cold start")
	}
	if out.Predicted != 0.5 || out.Priority != 0.5 {
		t.Fatalf("expected predicted=priority=0.5, got %+v", out)
	}
}

func TestScore_TDErrorAndPriority(t *testing.T) {
	predictor := StubPredictor{Nodes: 10, FixedPrediction: 0.9}
	embedder := StubEmbedder{Dimension: 4}

	out, err := Score(context.Background(), predictor, embedder, "do the thing", []string{"a:b"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.IsColdStart {
		t.Fatal("expected no cold start")
	}
	wantTDError := 0.0 - 0.9
	if out.TDError != wantTDError {
		t.Fatalf("expected tdError %f, got %f", wantTDError, out.TDError)
	}
	if out.Priority != 0.9 {
		t.Fatalf("expected priority 0.9, got %f", out.Priority)
	}
}

func TestScore_PriorityFloor(t *testing.T) {
	predictor := StubPredictor{Nodes: 10, FixedPrediction: 1.0}
	embedder := StubEmbedder{Dimension: 4}

	out, err := Score(context.Background(), predictor, embedder, "intent", nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Priority < minPriority {
		t.Fatalf("expected priority floored at %f, got %f", minPriority, out.Priority)
	}
}
