package resolver

import (
	"errors"
	"testing"

	"github.com/toolmesh/dagcore/internal/jsonvalue"
	"github.com/toolmesh/dagcore/internal/task"
)

type mapStore map[string]task.TaskResult

func (m mapStore) Get(id string) (task.TaskResult, bool) {
	r, ok := m[id]
	return r, ok
}

func TestResolve_EmptyInput(t *testing.T) {
	out, err := Resolve(nil, mapStore{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %v", out)
	}
}

func TestResolve_MissingDependency(t *testing.T) {
	_, err := Resolve([]string{"ghost"}, mapStore{})
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
}

func TestResolve_UpstreamFailed(t *testing.T) {
	store := mapStore{"a": task.TaskResult{TaskID: "a", Status: task.StatusError, Error: "boom"}}
	_, err := Resolve([]string{"a"}, store)
	if !errors.Is(err, ErrUpstreamFailed) {
		t.Fatalf("expected ErrUpstreamFailed, got %v", err)
	}
}

func TestResolve_FailedSafePassesThrough(t *testing.T) {
	store := mapStore{"a": task.TaskResult{TaskID: "a", Status: task.StatusFailedSafe}}
	out, err := Resolve([]string{"a"}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["a"].Status != task.StatusFailedSafe {
		t.Fatalf("expected failed_safe result to pass through, got %v", out["a"])
	}
}

func TestResolve_DuplicateIdsNotDeduplicated(t *testing.T) {
	out, err := jsonvalue.FromAny(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := mapStore{"a": task.TaskResult{TaskID: "a", Status: task.StatusSuccess, Output: out}}
	got, err := Resolve([]string{"a", "a"}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a single map entry for duplicate ids, got %d", len(got))
	}
}
