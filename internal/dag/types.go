package dag

import (
	"sync"

	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
	"github.com/vk/qgraph/internal/runner"
)

// Node is a QNode: a vertex identified by the value of a set of files
//. Two Add() calls that mention the same files resolve to the
// same *Node.
type Node struct {
	id    string
	files fileset.Set

	// out holds edges leaving this node, in holds edges entering it. Both
	// are mutated only while the graph's mutex is held.
	out []*Edge
	in  []*Edge
}

// ID returns the node's stable identity key (the file set's Key()).
func (n *Node) ID() string { return n.id }

// Files returns the set of files this node represents.
func (n *Node) Files() fileset.Set { return n.files }

// Out returns the edges leaving this node. Callers must not mutate the
// returned slice.
func (n *Node) Out() []*Edge { return n.out }

// In returns the edges entering this node. Callers must not mutate the
// returned slice.
func (n *Node) In() []*Edge { return n.in }

// EdgeKind distinguishes a real unit of work from a synthetic fan-in/out
// link.
type EdgeKind int

const (
	FunctionEdgeKind EdgeKind = iota
	MappingEdgeKind
)

// Edge is a directed arc of the graph. When Kind is FunctionEdgeKind,
// Function is non-nil and carries the QFunction and its runtime state.
// When Kind is MappingEdgeKind, Function is nil: the edge carries no work
// and no state, it only exposes the indirect dependency between a
// multi-file set node and one of its element nodes.
type Edge struct {
	From, To *Node
	Kind     EdgeKind
	Function *FunctionEdge
}

// FunctionEdge owns a QFunction and its runtime status.
type FunctionEdge struct {
	Fn qfunction.QFunction

	// edge is the graph Edge this FunctionEdge backs. Set once by the
	// graph builder at Add() time; used by traversal helpers (e.g.
	// PreviousFunctions) to walk the underlying node graph.
	edge *Edge

	mu     sync.Mutex
	status qfunction.Status
	runner runner.JobRunner
	err    error
}

// NewFunctionEdge wraps fn in a fresh, PENDING FunctionEdge.
func NewFunctionEdge(fn qfunction.QFunction) *FunctionEdge {
	return &FunctionEdge{Fn: fn, status: qfunction.StatusPending}
}

// Status returns the edge's current runtime status.
func (fe *FunctionEdge) Status() qfunction.Status {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.status
}

// SetStatus transitions the edge's status. Callers are responsible for
// respecting the monotonicity invariant; this
// method performs no monotonicity check of its own so that
// ClassifyRestart may legally move a non-DONE edge back to PENDING during
// the restart analysis.
func (fe *FunctionEdge) SetStatus(s qfunction.Status) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.status = s
}

// Runner returns the JobRunner currently backing this edge, if any.
func (fe *FunctionEdge) Runner() runner.JobRunner {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.runner
}

// SetRunner attaches a live JobRunner to the edge while it executes.
func (fe *FunctionEdge) SetRunner(r runner.JobRunner) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.runner = r
}

// Err returns the error recorded for a FAILED edge, if any.
func (fe *FunctionEdge) Err() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.err
}

// SetErr records the error that caused this edge to FAIL.
func (fe *FunctionEdge) SetErr(err error) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.err = err
}

// ID returns a human-facing identifier for logging: the analysis name
// plus the add-order name, e.g. "align/align.7".
func (fe *FunctionEdge) ID() string {
	return fe.Fn.AnalysisName() + "/" + fe.Fn.AddOrder().Name
}

// Edge returns the graph Edge this FunctionEdge backs.
func (fe *FunctionEdge) Edge() *Edge { return fe.edge }
