package dag

import (
	"sort"

	"github.com/vk/qgraph/internal/qfunction"
)

// PreviousFunctions returns fe's direct predecessor function edges: it
// follows the incoming edges of fe's source node, recursing through
// mapping edges and stopping at function edges.
func (g *Graph) PreviousFunctions(fe *FunctionEdge) []*FunctionEdge {
	if fe.edge == nil {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[*FunctionEdge]bool)
	var out []*FunctionEdge
	var walk func(n *Node)
	visited := make(map[*Node]bool)
	walk = func(n *Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, in := range n.in {
			switch in.Kind {
			case FunctionEdgeKind:
				if !seen[in.Function] {
					seen[in.Function] = true
					out = append(out, in.Function)
				}
			case MappingEdgeKind:
				walk(in.From)
			}
		}
	}
	walk(fe.edge.From)
	return out
}

// SortByAddOrder sorts fes in place by increasing AddOrder (see
// qfunction.AddOrder.Less): by Sequence, then by Name.
func SortByAddOrder(fes []*FunctionEdge) {
	sort.Slice(fes, func(i, j int) bool {
		return fes[i].Fn.AddOrder().Less(fes[j].Fn.AddOrder())
	})
}

// TopologicalOrder returns every function edge in the graph in an order
// consistent with its dependencies, breaking ties within each readiness
// batch by AddOrder so two runs over the same graph produce identical
// orderings. It is used by ClassifyRestart and by tests; the live
// scheduler instead recomputes readiness incrementally as edges finish
// (see internal/scheduler).
func (g *Graph) TopologicalOrder() []*FunctionEdge {
	all := g.FunctionEdges()
	done := make(map[*FunctionEdge]bool, len(all))
	var order []*FunctionEdge

	for len(done) < len(all) {
		var batch []*FunctionEdge
		for _, fe := range all {
			if done[fe] {
				continue
			}
			ready := true
			for _, pred := range g.PreviousFunctions(fe) {
				if !done[pred] {
					ready = false
					break
				}
			}
			if ready {
				batch = append(batch, fe)
			}
		}
		if len(batch) == 0 {
			// Residual cycle (should not happen post-Validate); stop to
			// avoid looping forever.
			break
		}
		SortByAddOrder(batch)
		for _, fe := range batch {
			done[fe] = true
			order = append(order, fe)
		}
	}
	return order
}

// ReadyPending returns every PENDING function edge whose every predecessor
// is DONE, sorted by AddOrder.
func (g *Graph) ReadyPending() []*FunctionEdge {
	var ready []*FunctionEdge
	for _, fe := range g.FunctionEdges() {
		if fe.Status() != qfunction.StatusPending {
			continue
		}
		allDone := true
		for _, pred := range g.PreviousFunctions(fe) {
			if pred.Status() != qfunction.StatusDone {
				allDone = false
				break
			}
		}
		if allDone {
			ready = append(ready, fe)
		}
	}
	SortByAddOrder(ready)
	return ready
}
