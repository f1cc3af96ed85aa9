package telemetry

import (
	"context"
	"testing"
)

func TestNewTracerProvider(t *testing.T) {
	tp, err := NewTracerProvider("dagcore-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Shutdown(context.Background(), tp)

	tracer := tp.Tracer("test")
	_, span := tracer.Start(context.Background(), "op")
	span.End()
}

func TestNewRegistry_Gather(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
