package threshold

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Context is the sharding key threshold Managers are keyed by: equal
// contexts must hash equal, distinct contexts distinct.
type Context struct {
	WorkflowType string
	Domain       string
	Complexity   string
}

// ContextHash returns a stable, collision-free (for this finite context
// domain) digest of c, suitable as a map key for per-context Managers.
func ContextHash(c Context) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s\x00%d:%s\x00%d:%s", len(c.WorkflowType), c.WorkflowType, len(c.Domain), c.Domain, len(c.Complexity), c.Complexity)
	return hex.EncodeToString(h.Sum(nil))
}
