package graph

import (
	"github.com/toolmesh/dagcore/internal/task"
)

// graph is the validated internal index over a DAG's tasks, built and kept
// in input order: index i corresponds to dag.Tasks[i]. Ties at every
// frontier are broken by this order, matching the input-order-as-tie-break
// rule.
type graph struct {
	tasks    []task.Task
	indexOf  map[string]int
	incoming [][]int // dependency indices, per task index
	outgoing [][]int // dependent (child) indices, per task index
}

// build validates DAG admission invariants and constructs the index:
// unique ids, all dependsOn ids resolvable, and (checked by Layer) acyclic.
func build(dag task.DAG) (*graph, error) {
	indexOf := make(map[string]int, len(dag.Tasks))
	for i, t := range dag.Tasks {
		if _, exists := indexOf[t.ID]; exists {
			return nil, duplicateTaskID(t.ID)
		}
		indexOf[t.ID] = i
	}

	incoming := make([][]int, len(dag.Tasks))
	outgoing := make([][]int, len(dag.Tasks))
	for i, t := range dag.Tasks {
		for _, depID := range t.DependsOn {
			depIdx, ok := indexOf[depID]
			if !ok {
				return nil, unknownDependency(t.ID, depID)
			}
			incoming[i] = append(incoming[i], depIdx)
			outgoing[depIdx] = append(outgoing[depIdx], i)
		}
	}

	return &graph{
		tasks:    dag.Tasks,
		indexOf:  indexOf,
		incoming: incoming,
		outgoing: outgoing,
	}, nil
}

// depths returns the topological depth of every task, indexed by the task's
// position in dag.Tasks. Depth 0 means the task has no dependencies.
func (g *graph) depths(order [][]int) []int {
	depth := make([]int, len(g.tasks))
	for _, frontier := range order {
		for _, idx := range frontier {
			max := -1
			for _, p := range g.incoming[idx] {
				if depth[p] > max {
					max = depth[p]
				}
			}
			depth[idx] = max + 1
		}
	}
	return depth
}

// findCycle performs a deterministic DFS in input order to extract one
// cycle witness, used only to build a diagnostic error message once Layer
// has already determined a cycle exists.
func (g *graph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.tasks))
	parent := make([]int, len(g.tasks))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.outgoing[u] {
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				cycle = append(cycle, v)
				cur := u
				for cur != -1 && cur != v {
					cycle = append(cycle, cur)
					cur = parent[cur]
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range g.tasks {
		if color[i] == white {
			if dfs(i) {
				break
			}
		}
	}

	if len(cycle) == 0 {
		return nil
	}
	rev := make([]string, len(cycle))
	for i, idx := range cycle {
		rev[len(cycle)-1-i] = g.tasks[idx].ID
	}
	return rev
}
