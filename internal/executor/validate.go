package executor

import (
	"strings"

	"github.com/toolmesh/dagcore/internal/task"
)

// forbiddenConstructs are the side-effecting identifiers a pure code
// operation's body must not contain.
var forbiddenConstructs = []string{
	"fetch",
	"Deno",
	"eval",
	"Function(",
	"setTimeout",
	"import(",
}

// validateAdmission runs the field-level and pure-operation static checks
// ahead of graph-shape layering, so every admission error surfaces before
// any event is emitted.
func validateAdmission(dag task.DAG) error {
	for _, t := range dag.Tasks {
		if err := t.ValidateShape(); err != nil {
			return err
		}
		if t.Metadata.Pure && strings.HasPrefix(t.Tool, "code:") {
			for _, forbidden := range forbiddenConstructs {
				if strings.Contains(t.Metadata.Body, forbidden) {
					return impureTask(t.ID, forbidden)
				}
			}
		}
	}
	return nil
}
