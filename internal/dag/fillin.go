package dag

import (
	"context"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/fileset"
)

// FillIn adds mapping edges exposing the indirect dependencies hidden
// inside multi-file sets: for every function edge whose
// outputs has cardinality > 1, a mapping edge from the output-set node to
// each member file's element node; symmetrically for inputs with
// cardinality > 1, a mapping edge from each member file's element node to
// the input-set node.
func (g *Graph) FillIn(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	// Snapshot function edges first: addEdgeLocked below may intern new
	// element nodes, but never adds new function edges, so a snapshot of
	// the edge list taken now stays valid for the whole pass.
	var functionEdges []*Edge
	for _, e := range g.edges {
		if e.Kind == FunctionEdgeKind {
			functionEdges = append(functionEdges, e)
		}
	}

	for _, e := range functionEdges {
		fn := e.Function.Fn

		if outputs := fn.Outputs(); outputs.Len() > 1 {
			for _, p := range outputs.Paths() {
				elem := g.internLocked(fileset.New(p))
				g.addMappingEdgeIfAbsentLocked(e.To, elem)
			}
		}
		if inputs := fn.Inputs(); inputs.Len() > 1 {
			for _, p := range inputs.Paths() {
				elem := g.internLocked(fileset.New(p))
				g.addMappingEdgeIfAbsentLocked(elem, e.From)
			}
		}
	}

	logger.Debug("dag.FillIn: mapping edges filled", "node_count", len(g.nodes), "edge_count", len(g.edges))
}

// addMappingEdgeIfAbsentLocked adds a MappingEdge from->to unless one
// already exists, or a direct edge of any kind already connects them
//.
// Callers must hold g.mu for writing.
func (g *Graph) addMappingEdgeIfAbsentLocked(from, to *Node) {
	if from == to {
		return
	}
	for _, e := range from.out {
		if e.To == to {
			return
		}
	}
	g.addEdgeLocked(from, to, MappingEdgeKind, nil)
}
