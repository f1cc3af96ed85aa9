package executor

import (
	"context"
	"sync"
	"testing"

	"github.com/toolmesh/dagcore/internal/events"
	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
	"github.com/toolmesh/dagcore/internal/toolexec"
)

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Record(e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestExecutor_ExtraSinkReceivesEveryEvent(t *testing.T) {
	mock := toolexec.NewMockExecutor()
	mock.Handle("mock:work", okHandler)

	dag := task.DAG{Tasks: []task.Task{
		{ID: "t1", Tool: "mock:work"},
		{ID: "t2", Tool: "mock:work", DependsOn: []string{"t1"}},
	}}

	extra := &recordingSink{}
	e := &Executor{Exec: mock, ExtraSink: extra}

	h, err := e.ExecuteStream(context.Background(), dag, "wf1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var channelCount int
	for range h.Events {
		channelCount++
	}
	if _, err := h.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := extra.count(); got != channelCount {
		t.Fatalf("expected extra sink to see every event the channel saw (%d), got %d", channelCount, got)
	}
	if channelCount == 0 {
		t.Fatal("expected at least one event")
	}
}
