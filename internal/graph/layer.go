package graph

import "github.com/toolmesh/dagcore/internal/task"

// Result is the output of layering a DAG: the ordered layers and each
// task's topological depth (depth == its layer index, reported separately
// so callers needn't re-derive it from the layer slice).
type Result struct {
	Layers []task.Layer
	Depth  map[string]int
}

// Layer computes layers by repeatedly emitting the set of tasks whose unmet
// dependencies are empty, removing them, and continuing until the DAG is
// exhausted. Within a layer, task order is the input order (stable).
//
// Fails with an UnknownDependency-kind Error if any dependsOn id is absent,
// a DuplicateTaskId-kind Error if ids collide, or a CycleDetected-kind Error
// if a pass produces an empty frontier while tasks remain.
func Layer(dag task.DAG) (Result, error) {
	g, err := build(dag)
	if err != nil {
		return Result{}, err
	}

	indeg := make([]int, len(g.tasks))
	for i := range g.tasks {
		indeg[i] = len(g.incoming[i])
	}

	done := make([]bool, len(g.tasks))
	layers := make([]task.Layer, 0)
	depthByIdx := make([]int, len(g.tasks))
	scheduled := 0

	for layerIdx := 0; scheduled < len(g.tasks); layerIdx++ {
		var frontier []int
		for i := range g.tasks {
			if !done[i] && indeg[i] == 0 {
				frontier = append(frontier, i)
			}
		}
		if len(frontier) == 0 {
			return Result{}, cycleDetected(g.findCycle())
		}

		names := make([]string, 0, len(frontier))
		for _, idx := range frontier {
			done[idx] = true
			depthByIdx[idx] = layerIdx
			names = append(names, g.tasks[idx].ID)
		}
		layers = append(layers, task.Layer{Index: layerIdx, Tasks: names})
		scheduled += len(frontier)

		for _, idx := range frontier {
			for _, child := range g.outgoing[idx] {
				indeg[child]--
			}
		}
	}

	depth := make(map[string]int, len(g.tasks))
	for i, t := range g.tasks {
		depth[t.ID] = depthByIdx[i]
	}

	return Result{Layers: layers, Depth: depth}, nil
}
