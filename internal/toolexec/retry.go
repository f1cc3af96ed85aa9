package toolexec

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
)

// WithRetry wraps exec.Run in a bounded exponential backoff retry loop when
// exec opts in via the Retryable interface. Non-retryable executors (the
// in-memory mock, by design) pass the call straight through so test
// execution stays deterministic and immediate.
func WithRetry(ctx context.Context, exec Executor, tool string, args jsonvalue.Value, deps map[string]task.TaskResult) (jsonvalue.Value, error) {
	r, ok := exec.(Retryable)
	if !ok || !r.Retryable() {
		return exec.Run(ctx, tool, args, deps)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	var out jsonvalue.Value
	err := backoff.Retry(func() error {
		result, runErr := exec.Run(ctx, tool, args, deps)
		if runErr != nil {
			return runErr
		}
		out = result
		return nil
	}, policy)
	return out, err
}
