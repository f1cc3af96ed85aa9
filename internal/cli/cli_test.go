package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDAG_ParsesTasks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dag.json")
	body := `{"tasks":[{"id":"t1","tool":"mock:work"},{"id":"t2","tool":"mock:work","dependsOn":["t1"]}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dag, err := loadDAG(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dag.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(dag.Tasks))
	}
	if dag.Tasks[1].DependsOn[0] != "t1" {
		t.Fatalf("expected t2 to depend on t1, got %v", dag.Tasks[1].DependsOn)
	}
}

func TestLoadDAG_MissingFile(t *testing.T) {
	if _, err := loadDAG(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing dag file")
	}
}

func TestLoadDAG_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dag.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := loadDAG(path); err == nil {
		t.Fatal("expected an error for invalid json")
	}
}

func TestNewRootCmd_HasRunAndResume(t *testing.T) {
	root := NewRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	if !names["run"] {
		t.Fatal("expected root command to register a run subcommand")
	}
	if !names["resume"] {
		t.Fatal("expected root command to register a resume subcommand")
	}
}

func TestExitCodes_AreDistinct(t *testing.T) {
	seen := map[int]bool{}
	for _, code := range []int{ExitSuccess, ExitWorkflowFailure, ExitInvalidInvocation, ExitConfigError, ExitInternalError} {
		if seen[code] {
			t.Fatalf("duplicate exit code %d", code)
		}
		seen[code] = true
	}
}
