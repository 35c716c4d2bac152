// Package dotgraph renders a Graph to standard DOT format for the -dot and
// -expandedDot flags: node ids assigned sequentially, edges
// labeled with the producing function's display string.
package dotgraph

import (
	"fmt"
	"io"

	"github.com/vk/qgraph/internal/dag"
)

// Write renders g as a DOT digraph to w. Node ids are assigned in the
// order dag.Graph.Nodes() returns them, which is unspecified, so the ids
// a node gets can differ between two writes of the same graph.
func Write(w io.Writer, g *dag.Graph) error {
	nodes := g.Nodes()
	ids := make(map[*dag.Node]int, len(nodes))
	for i, n := range nodes {
		ids[n] = i
	}

	if _, err := fmt.Fprintln(w, "digraph qgraph {"); err != nil {
		return err
	}

	for n, id := range ids {
		label := n.ID()
		if label == "" {
			label = "(empty)"
		}
		if _, err := fmt.Fprintf(w, "  n%d [label=%q];\n", id, label); err != nil {
			return err
		}
	}

	for _, e := range g.Edges() {
		from, to := ids[e.From], ids[e.To]
		label := ""
		if e.Function != nil {
			label = e.Function.Fn.Description()
		}
		if label == "" {
			if _, err := fmt.Fprintf(w, "  n%d -> n%d;\n", from, to); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=%q];\n", from, to, label); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
