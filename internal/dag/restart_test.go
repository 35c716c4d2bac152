package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/qgraph/internal/qfunction"
)

// buildDiamond builds A -> B, A -> C, (B,C) -> D.
func buildDiamond(t *testing.T) (*Graph, map[string]*fakeFunction) {
	t.Helper()
	g := New()
	ctx := context.Background()

	a := newFakeFunction("a", 1, nil, []string{"a.out"})
	b := newFakeFunction("b", 2, []string{"a.out"}, []string{"b.out"})
	c := newFakeFunction("c", 3, []string{"a.out"}, []string{"c.out"})
	d := newFakeFunction("d", 4, []string{"b.out", "c.out"}, []string{"d.out"})

	for _, fn := range []*fakeFunction{a, b, c, d} {
		_, err := g.Add(ctx, fn)
		require.NoError(t, err)
	}
	g.FillIn(ctx)
	g.Prune(ctx)

	return g, map[string]*fakeFunction{"a": a, "b": b, "c": c, "d": d}
}

func findEdge(g *Graph, name string) *FunctionEdge {
	for _, fe := range g.FunctionEdges() {
		if fe.Fn.AnalysisName() == name {
			return fe
		}
	}
	return nil
}

func TestDiamond_TopologicalOrder(t *testing.T) {
	g, _ := buildDiamond(t)

	order := g.TopologicalOrder()
	names := make([]string, len(order))
	for i, fe := range order {
		names[i] = fe.Fn.AnalysisName()
	}

	require.Len(t, names, 4)
	assert.Equal(t, "a", names[0])
	assert.ElementsMatch(t, []string{"b", "c"}, names[1:3])
	assert.Equal(t, "d", names[3])
}

func TestIntermediateSkip_NoDownstreamDemand(t *testing.T) {
	g := New()
	ctx := context.Background()

	a := newFakeFunction("a", 1, nil, []string{"a.out"})
	a.intermediate = true
	a.done = false // a's own outputs may or may not exist; irrelevant once skipped

	b := newFakeFunction("b", 2, []string{"a.out"}, []string{"b.out"})
	b.done = true // B's outputs already exist

	_, err := g.Add(ctx, a)
	require.NoError(t, err)
	_, err = g.Add(ctx, b)
	require.NoError(t, err)
	g.FillIn(ctx)
	g.Prune(ctx)

	ClassifyRestart(ctx, g, false)

	assert.Equal(t, qfunction.StatusSkipped, findEdge(g, "a").Status())
	assert.Equal(t, qfunction.StatusDone, findEdge(g, "b").Status())
}

func TestIntermediateRevived_DownstreamOutputsMissing(t *testing.T) {
	g := New()
	ctx := context.Background()

	a := newFakeFunction("a", 1, nil, []string{"a.out"})
	a.intermediate = true
	a.done = false

	b := newFakeFunction("b", 2, []string{"a.out"}, []string{"b.out"})
	b.done = false // B's outputs are missing -> B must run -> A must be revived

	_, err := g.Add(ctx, a)
	require.NoError(t, err)
	_, err = g.Add(ctx, b)
	require.NoError(t, err)
	g.FillIn(ctx)
	g.Prune(ctx)

	ClassifyRestart(ctx, g, false)

	assert.Equal(t, qfunction.StatusPending, findEdge(g, "a").Status())
	assert.Equal(t, qfunction.StatusPending, findEdge(g, "b").Status())
}

func TestStartClean_ForcesEveryEdgePending(t *testing.T) {
	g, _ := buildDiamond(t)
	ctx := context.Background()
	for _, fe := range g.FunctionEdges() {
		fe.Fn.(*fakeFunction).done = true
	}

	ClassifyRestart(ctx, g, true)

	for _, fe := range g.FunctionEdges() {
		assert.Equal(t, qfunction.StatusPending, fe.Status())
	}
}

func TestStartClean_False_AllOutputsExist_TerminalEdgesStayDone(t *testing.T) {
	g, fns := buildDiamond(t)
	ctx := context.Background()
	for _, fn := range fns {
		fn.done = true
	}

	ClassifyRestart(ctx, g, false)

	for _, fe := range g.FunctionEdges() {
		assert.Equal(t, qfunction.StatusDone, fe.Status(), fe.Fn.AnalysisName())
	}
}

func TestPreviousFunctions_WalksThroughMappingEdges(t *testing.T) {
	g, _ := buildDiamond(t)

	d := findEdge(g, "d")
	preds := g.PreviousFunctions(d)
	names := make([]string, len(preds))
	for i, p := range preds {
		names[i] = p.Fn.AnalysisName()
	}
	assert.ElementsMatch(t, []string{"b", "c"}, names)
}
