package dag

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

// Graph is the mutable object the whole engine is built around: it owns
// every node and edge and is safe for concurrent read access while the
// scheduling loop mutates it.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*Node
	edges []*Edge

	seq int // next AddOrder sequence
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// NextSequence returns the next monotonically increasing add-order
// sequence number and advances the counter. It is exported so that
// callers assembling a QFunction can tag it with a graph-consistent
// AddOrder before calling Add.
func (g *Graph) NextSequence() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.seq
}

// internLocked looks up or creates the node for the given file set. Callers
// must hold g.mu for writing.
func (g *Graph) internLocked(fs fileset.Set) *Node {
	key := fs.Key()
	if n, ok := g.nodes[key]; ok {
		return n
	}
	n := &Node{id: key, files: fs}
	g.nodes[key] = n
	return n
}

// removeEdgesBetweenLocked removes every edge directly connecting from->to,
// in either adjacency list and from the graph's edge list. Callers must
// hold g.mu for writing.
func (g *Graph) removeEdgesBetweenLocked(from, to *Node) {
	from.out = filterEdges(from.out, func(e *Edge) bool { return e.To != to })
	to.in = filterEdges(to.in, func(e *Edge) bool { return e.From != from })
	g.edges = filterEdges(g.edges, func(e *Edge) bool { return !(e.From == from && e.To == to) })
}

func filterEdges(edges []*Edge, keep func(*Edge) bool) []*Edge {
	out := edges[:0]
	for _, e := range edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// addEdgeLocked appends a new edge from->to of the given kind to both
// adjacency lists and the graph's edge list. Callers must hold g.mu for
// writing.
func (g *Graph) addEdgeLocked(from, to *Node, kind EdgeKind, fn *FunctionEdge) *Edge {
	e := &Edge{From: from, To: to, Kind: kind, Function: fn}
	from.out = append(from.out, e)
	to.in = append(to.in, e)
	g.edges = append(g.edges, e)
	return e
}

// Add freezes fn and inserts its function edge into the graph.
// The input-set and output-set nodes are looked up or created by value;
// any pre-existing edge directly between those two nodes is removed first
// since it would be a now-redundant mapping.
func (g *Graph) Add(ctx context.Context, fn qfunction.QFunction) (*FunctionEdge, error) {
	logger := ctxlog.FromContext(ctx)

	if err := fn.Freeze(ctx); err != nil {
		return nil, fmt.Errorf("constructing function %q: freeze failed: %w", fn.AnalysisName(), err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	inNode := g.internLocked(fn.Inputs())
	outNode := g.internLocked(fn.Outputs())

	g.removeEdgesBetweenLocked(inNode, outNode)

	fe := NewFunctionEdge(fn)
	fe.edge = g.addEdgeLocked(inNode, outNode, FunctionEdgeKind, fe)

	logger.Debug("graph.Add: inserted function edge",
		"function", fn.AnalysisName(), "inputs", fn.Inputs().String(), "outputs", fn.Outputs().String())

	return fe, nil
}

// Node looks up a node by its file set, returning (nil, false) if no such
// node exists.
func (g *Graph) Node(fs fileset.Set) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[fs.Key()]
	return n, ok
}

// Nodes returns every node currently in the graph. The order is
// unspecified.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns every edge currently in the graph, function and mapping
// alike. The order is unspecified.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// FunctionEdges returns every FunctionEdge in the graph, in unspecified
// order.
func (g *Graph) FunctionEdges() []*FunctionEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*FunctionEdge
	for _, e := range g.edges {
		if e.Kind == FunctionEdgeKind {
			out = append(out, e.Function)
		}
	}
	return out
}

// RemoveEdge removes e from the graph entirely (used by the scatter/gather
// rewriter to drop the original edge before splicing in its replacement).
func (g *Graph) RemoveEdge(e *Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeEdgesExactLocked(e)
}

func (g *Graph) removeEdgesExactLocked(e *Edge) {
	e.From.out = filterEdges(e.From.out, func(x *Edge) bool { return x != e })
	e.To.in = filterEdges(e.To.in, func(x *Edge) bool { return x != e })
	g.edges = filterEdges(g.edges, func(x *Edge) bool { return x != e })
}
