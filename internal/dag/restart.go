package dag

import (
	"context"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/qfunction"
)

// ClassifyRestart runs the pre-run restart/skip classification walk (spec
// §4.4) exactly once before the first scheduling tick. If startClean,
// every function edge is forced to PENDING regardless of its own judgment
// about existing outputs. Otherwise each function edge is first preloaded
// to DONE or PENDING by asking its own QFunction.IsDone (the "ground
// truth" the core treats output-file inspection as), then walked in
// topological order so that a parent's classification is final before its
// children are considered.
func ClassifyRestart(ctx context.Context, g *Graph, startClean bool) {
	logger := ctxlog.FromContext(ctx)

	if startClean {
		for _, fe := range g.FunctionEdges() {
			fe.SetStatus(qfunction.StatusPending)
		}
		logger.Debug("dag.ClassifyRestart: startClean, all edges PENDING")
		return
	}

	order := g.TopologicalOrder()

	for _, fe := range order {
		if fe.Fn.IsDone(ctx) {
			fe.SetStatus(qfunction.StatusDone)
		} else {
			fe.SetStatus(qfunction.StatusPending)
		}
	}

	for _, fe := range order {
		checkDone(g, fe)
	}

	logger.Debug("dag.ClassifyRestart: classification complete", "edges", len(order))
}

// checkDone classifies one edge on a restart: intermediates
// are presumed disposable and marked SKIPPED unless already DONE;
// terminal/required edges stay DONE only if their own status is DONE and
// every direct predecessor is DONE or SKIPPED, otherwise they reset to
// PENDING and pull any SKIPPED ancestor back to PENDING too.
func checkDone(g *Graph, fe *FunctionEdge) {
	if fe.Fn.IsIntermediate() {
		if fe.Status() != qfunction.StatusDone {
			fe.SetStatus(qfunction.StatusSkipped)
		}
		return
	}

	preds := g.PreviousFunctions(fe)

	allDoneOrSkipped := true
	for _, p := range preds {
		s := p.Status()
		if s != qfunction.StatusDone && s != qfunction.StatusSkipped {
			allDoneOrSkipped = false
			break
		}
	}

	if fe.Status() == qfunction.StatusDone && allDoneOrSkipped {
		return
	}

	fe.SetStatus(qfunction.StatusPending)
	for _, p := range preds {
		resetPreviousSkipped(g, p)
	}
}

// resetPreviousSkipped flips a SKIPPED ancestor back to PENDING because a
// descendant actually needs it, then repeats upward through that
// ancestor's own predecessors — resurrecting intermediates on demand.
func resetPreviousSkipped(g *Graph, fe *FunctionEdge) {
	if fe.Status() != qfunction.StatusSkipped {
		return
	}
	fe.SetStatus(qfunction.StatusPending)
	for _, p := range g.PreviousFunctions(fe) {
		resetPreviousSkipped(g, p)
	}
}
