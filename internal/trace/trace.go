// Package trace implements the Trace Store (C10): an append-only record of
// finished executions, queryable by replay priority.
package trace

import (
	"context"
	"time"
)

// Trace is one finished execution's replay-relevant record.
type Trace struct {
	ID           int64
	IntentText   string
	ExecutedPath []string
	Success      bool
	ErrorMessage string
	DurationMs   int64
	Priority     float64
	Predicted    float64
	Actual       float64
	IsColdStart  bool
	ExecutedAt   time.Time
}

// Store is the append-only contract every backend implements.
type Store interface {
	// InsertTrace appends t atomically and returns its assigned id.
	InsertTrace(ctx context.Context, t Trace) (int64, error)
	// HighPriorityTraces returns up to limit traces ordered by
	// priority DESC, executedAt DESC, id ASC.
	HighPriorityTraces(ctx context.Context, limit int) ([]Trace, error)
}
