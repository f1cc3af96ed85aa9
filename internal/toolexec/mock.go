package toolexec

import (
	"context"
	"fmt"
	"sync"

	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
)

// HandlerFunc implements a single tool invocation for MockExecutor.
type HandlerFunc func(ctx context.Context, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error)

// MockExecutor is an in-memory Executor keyed by tool name, used by tests
// and by callers that want a deterministic stand-in before a real
// downstream tool server is wired up. It does not implement Retryable.
type MockExecutor struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []string
}

// NewMockExecutor returns an empty MockExecutor; register handlers with
// Handle before use.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{handlers: make(map[string]HandlerFunc)}
}

// Handle registers the handler invoked for the given tool name.
func (m *MockExecutor) Handle(tool string, fn HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[tool] = fn
}

// Run dispatches to the registered handler for tool, or fails if none is
// registered.
func (m *MockExecutor) Run(ctx context.Context, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error) {
	m.mu.Lock()
	fn, ok := m.handlers[tool]
	m.calls = append(m.calls, tool)
	m.mu.Unlock()
	if !ok {
		return jsonvalue.Value{}, fmt.Errorf("toolexec: no handler registered for tool %q", tool)
	}
	return fn(ctx, tool, args, deps)
}

// Calls returns the tool names invoked so far, in invocation order.
func (m *MockExecutor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
