package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

type testFn struct {
	name     string
	inputs   fileset.Set
	outputs  fileset.Set
	addOrder qfunction.AddOrder
	clone    bool
	gather   bool
	done     bool
}

func (f *testFn) Inputs() fileset.Set                     { return f.inputs }
func (f *testFn) Outputs() fileset.Set                    { return f.outputs }
func (f *testFn) Description() string                     { return f.name }
func (f *testFn) AnalysisName() string                    { return f.name }
func (f *testFn) AddOrder() qfunction.AddOrder             { return f.addOrder }
func (f *testFn) IsIntermediate() bool                     { return false }
func (f *testFn) MissingFields() []qfunction.MissingField { return nil }
func (f *testFn) Freeze(ctx context.Context) error        { return nil }
func (f *testFn) JobOutputFile() string                    { return "/tmp/" + f.name + ".out" }
func (f *testFn) JobErrorFile() string                     { return "/tmp/" + f.name + ".err" }
func (f *testFn) IsDone(ctx context.Context) bool          { return f.done }
func (f *testFn) IsClone() bool                            { return f.clone }
func (f *testFn) IsGather() bool                           { return f.gather }

func buildGraph(t *testing.T, fns ...*testFn) *dag.Graph {
	t.Helper()
	g := dag.New()
	ctx := context.Background()
	for _, fn := range fns {
		_, err := g.Add(ctx, fn)
		require.NoError(t, err)
	}
	g.FillIn(ctx)
	g.Prune(ctx)
	return g
}

func setStatus(g *dag.Graph, name string, s qfunction.Status) {
	for _, fe := range g.FunctionEdges() {
		if fe.Fn.AnalysisName() == name {
			fe.SetStatus(s)
		}
	}
}

func TestAggregate_SeparatesScatterAndGatherFromMain(t *testing.T) {
	align := &testFn{name: "align", outputs: fileset.New("align.bam"), addOrder: qfunction.AddOrder{Sequence: 1}}
	clone1 := &testFn{name: "call", inputs: fileset.New("align.bam"), outputs: fileset.New("c1.vcf"), addOrder: qfunction.AddOrder{Sequence: 2}, clone: true}
	clone2 := &testFn{name: "call", inputs: fileset.New("align.bam"), outputs: fileset.New("c2.vcf"), addOrder: qfunction.AddOrder{Sequence: 3}, clone: true}
	gather := &testFn{name: "call", inputs: fileset.New("c1.vcf", "c2.vcf"), outputs: fileset.New("merged.vcf"), addOrder: qfunction.AddOrder{Sequence: 4}, gather: true}

	g := buildGraph(t, align, clone1, clone2, gather)
	setStatus(g, "align", qfunction.StatusDone)

	groups := Aggregate(g)
	require.Len(t, groups, 2)

	var call Group
	for _, grp := range groups {
		if grp.Name == "call" {
			call = grp
		}
	}
	assert.Equal(t, 2, call.Scatter.Total)
	assert.Equal(t, 1, call.Gather.Total)
	assert.Equal(t, 0, call.Main.Total)
}

func TestAggregate_StatusDerivation(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   GroupStatus
	}{
		{"all done", Counts{Total: 2, Done: 2}, GroupDone},
		{"any failed", Counts{Total: 2, Done: 1, Failed: 1}, GroupFailed},
		{"done plus skipped", Counts{Total: 2, Done: 1, Skipped: 1}, GroupSkipped},
		{"in progress", Counts{Total: 2, Done: 1}, GroupRunning},
		{"untouched", Counts{Total: 2}, GroupPending},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveStatus(Group{Main: tc.counts})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderLines_IncludesScatterGatherSuffixes(t *testing.T) {
	groups := []Group{
		{Name: "align", Status: GroupDone, Main: Counts{Total: 1, Done: 1}},
		{Name: "call", Status: GroupRunning, Scatter: Counts{Total: 2, Done: 1}, Gather: Counts{Total: 1}},
	}
	lines := RenderLines(groups)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "s:2t/1d/0f")
	assert.Contains(t, lines[1], "g:1t/0d/0f")
}
