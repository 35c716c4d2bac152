package dotgraph

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

type fn struct {
	name    string
	inputs  fileset.Set
	outputs fileset.Set
}

func (f *fn) Inputs() fileset.Set                     { return f.inputs }
func (f *fn) Outputs() fileset.Set                    { return f.outputs }
func (f *fn) Description() string                     { return f.name }
func (f *fn) AnalysisName() string                     { return f.name }
func (f *fn) AddOrder() qfunction.AddOrder             { return qfunction.AddOrder{Name: f.name} }
func (f *fn) IsIntermediate() bool                     { return false }
func (f *fn) MissingFields() []qfunction.MissingField { return nil }
func (f *fn) Freeze(ctx context.Context) error        { return nil }
func (f *fn) JobOutputFile() string                    { return "" }
func (f *fn) JobErrorFile() string                     { return "" }
func (f *fn) IsDone(ctx context.Context) bool          { return false }

func TestWrite_ProducesWellFormedDigraph(t *testing.T) {
	g := dag.New()
	ctx := context.Background()
	_, err := g.Add(ctx, &fn{name: "align", outputs: fileset.New("a.bam")})
	require.NoError(t, err)
	_, err = g.Add(ctx, &fn{name: "call", inputs: fileset.New("a.bam"), outputs: fileset.New("a.vcf")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))

	out := buf.String()
	assert.Contains(t, out, "digraph qgraph {")
	assert.Contains(t, out, `label="align"`)
	assert.Contains(t, out, `label="call"`)
	assert.Contains(t, out, "}\n")
}
