// Package rewriter implements the scatter/gather rewrite pass: snapshot
// scatter-gatherable function edges, ask each to generate its
// replacement subgraph, splice the replacement in, and re-run the graph
// builder's FillIn/Prune/Validate pipeline, the same staged
// Add->FillIn->Prune->Validate sequence app.Run uses to build the graph.
package rewriter

import (
	"context"
	"fmt"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/qfunction"
)

// Rewrite applies the scatter/gather pass at most once per run: it
// snapshots every function edge whose function is
// ScatterGatherableFunction with ScatterGatherable() == true and, for
// each, generates its replacement functions, removes the original edge,
// prunes, and adds the replacements; then it re-runs FillIn, Prune, and
// Validate. It is a no-op (besides
// returning (0, nil)) if no edge in the graph is currently
// scatter-gatherable.
//
// Rewrite must only be called after validation has already passed with
// zero missing values; callers are responsible for that ordering.
func Rewrite(ctx context.Context, g *dag.Graph) (int, error) {
	logger := ctxlog.FromContext(ctx)

	candidates := scatterGatherableEdges(g)
	if len(candidates) == 0 {
		return 0, nil
	}

	generated := 0
	for _, fe := range candidates {
		sg := fe.Fn.(qfunction.ScatterGatherableFunction)

		replacements, err := sg.GenerateFunctions(ctx)
		if err != nil {
			return generated, fmt.Errorf("rewriter: generating functions for %q: %w", fe.Fn.AnalysisName(), err)
		}

		g.RemoveEdge(fe.Edge())
		g.Prune(ctx)

		for _, rf := range replacements {
			if _, err := g.Add(ctx, rf); err != nil {
				return generated, fmt.Errorf("rewriter: adding generated function for %q: %w", fe.Fn.AnalysisName(), err)
			}
			generated++
		}

		logger.Info("rewriter: scatter/gather expanded",
			"analysis", fe.Fn.AnalysisName(), "generated", len(replacements))
	}

	g.FillIn(ctx)
	g.Prune(ctx)

	if _, err := g.Validate(ctx); err != nil {
		return generated, fmt.Errorf("rewriter: post-rewrite validation: %w", err)
	}

	return generated, nil
}

// scatterGatherableEdges snapshots every currently scatter-gatherable
// function edge.
func scatterGatherableEdges(g *dag.Graph) []*dag.FunctionEdge {
	var out []*dag.FunctionEdge
	for _, fe := range g.FunctionEdges() {
		sg, ok := fe.Fn.(qfunction.ScatterGatherableFunction)
		if ok && sg.ScatterGatherable() {
			out = append(out, fe)
		}
	}
	return out
}
