package dag

import (
	"context"

	"github.com/vk/qgraph/internal/ctxlog"
)

// Prune repeatedly removes filler mapping edges and then degree-0 vertices
// until a fixpoint is reached, keeping the graph minimal so
// topological traversal is not noisy with edges or nodes that carry no
// work and connect nothing.
func (g *Graph) Prune(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	removedEdges, removedNodes := 0, 0
	for {
		n := g.pruneFillerMappingEdgesLocked()
		removedEdges += n
		if n == 0 {
			break
		}
	}
	removedNodes = g.pruneDegreeZeroNodesLocked()

	logger.Debug("dag.Prune: complete", "removed_edges", removedEdges, "removed_nodes", removedNodes)
}

// isFillerMappingEdgeLocked reports whether e is a MappingEdge whose
// target has no outgoing edges (no consumer) or whose source has no
// incoming edges (no producer) — i.e. it connects to nothing useful.
func isFillerMappingEdgeLocked(e *Edge) bool {
	if e.Kind != MappingEdgeKind {
		return false
	}
	return len(e.To.out) == 0 || len(e.From.in) == 0
}

// pruneFillerMappingEdgesLocked removes every currently-filler mapping
// edge in one pass and returns how many were removed. Callers must hold
// g.mu for writing.
func (g *Graph) pruneFillerMappingEdgesLocked() int {
	var toRemove []*Edge
	for _, e := range g.edges {
		if isFillerMappingEdgeLocked(e) {
			toRemove = append(toRemove, e)
		}
	}
	for _, e := range toRemove {
		g.removeEdgesExactLocked(e)
	}
	return len(toRemove)
}

// pruneDegreeZeroNodesLocked removes every node with no incoming and no
// outgoing edges. Callers must hold g.mu for writing.
func (g *Graph) pruneDegreeZeroNodesLocked() int {
	removed := 0
	for key, n := range g.nodes {
		if len(n.in) == 0 && len(n.out) == 0 {
			delete(g.nodes, key)
			removed++
		}
	}
	return removed
}
