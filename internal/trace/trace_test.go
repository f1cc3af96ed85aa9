package trace

import (
	"context"
	"testing"
	"time"
)

func mkTrace(priority float64, executedAt time.Time) Trace {
	return Trace{IntentText: "do x", ExecutedPath: []string{"a:b"}, Success: true, Priority: priority, ExecutedAt: executedAt}
}

func TestMemStore_HighPriorityOrdering(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	base := time.Unix(1000, 0)

	id1, _ := s.InsertTrace(ctx, mkTrace(0.2, base))
	id2, _ := s.InsertTrace(ctx, mkTrace(0.9, base))
	id3, _ := s.InsertTrace(ctx, mkTrace(0.9, base.Add(time.Minute)))

	out, err := s.HighPriorityTraces(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 traces, got %d", len(out))
	}
	if out[0].ID != id3 || out[1].ID != id2 || out[2].ID != id1 {
		t.Fatalf("expected order [id3,id2,id1], got [%d,%d,%d]", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestMemStore_LimitTruncates(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.InsertTrace(ctx, mkTrace(float64(i)/10, time.Now()))
	}
	out, err := s.HighPriorityTraces(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(out))
	}
}

func TestSQLiteStore_InsertAndQuery(t *testing.T) {
	s, err := OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	base := time.Unix(2000, 0)
	if _, err := s.InsertTrace(ctx, mkTrace(0.3, base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.InsertTrace(ctx, mkTrace(0.8, base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := s.HighPriorityTraces(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(out))
	}
	if out[0].Priority != 0.8 {
		t.Fatalf("expected highest priority first, got %f", out[0].Priority)
	}
}
