package dag

import (
	"context"
	"fmt"

	"github.com/vk/qgraph/internal/ctxlog"
)

// Validate consults every function edge's MissingFields, logs each one,
// and runs cycle detection over the whole node graph. It
// returns the total count of missing required arguments; callers treat a
// nonzero count as "not ready to run, dry-run only". A
// detected cycle is a fatal abort: Validate logs each cycle and returns
// ErrCyclesDetected, regardless of the missing-value count.
func (g *Graph) Validate(ctx context.Context) (int, error) {
	logger := ctxlog.FromContext(ctx)

	missing := 0
	for _, fe := range g.FunctionEdges() {
		for _, mf := range fe.Fn.MissingFields() {
			logger.Error("dag.Validate: missing required argument",
				"function", mf.FunctionName, "field", mf.FieldName)
			missing++
		}
	}

	if cycles := g.detectCycles(); len(cycles) > 0 {
		for _, c := range cycles {
			logger.Error("dag.Validate: cycle detected", "cycle", c)
		}
		return missing, ErrCyclesDetected
	}

	return missing, nil
}

// detectCycles runs a DFS three-color cycle check over every node, using
// this package's Node.Out()/Edge adjacency model. It returns a
// human-readable description of each cycle found; an empty result means
// the graph is
// acyclic.
func (g *Graph) detectCycles() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*Node]int, len(g.nodes))
	for _, n := range g.nodes {
		color[n] = white
	}

	var cycles []string

	var visit func(n *Node, stack []*Node)
	visit = func(n *Node, stack []*Node) {
		color[n] = gray
		stack = append(stack, n)

		for _, e := range n.out {
			next := e.To
			switch color[next] {
			case gray:
				cycles = append(cycles, fmt.Sprintf("%s -> %s", describeCyclePath(stack), next.id))
			case white:
				visit(next, stack)
			}
		}

		color[n] = black
	}

	for _, n := range g.nodes {
		if color[n] == white {
			visit(n, nil)
		}
	}
	return cycles
}

func describeCyclePath(stack []*Node) string {
	s := ""
	for i, n := range stack {
		if i > 0 {
			s += " -> "
		}
		s += n.id
	}
	return s
}
