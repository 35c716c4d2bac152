package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

const samplePipeline = `
[
  {
    "analysisName": "align",
    "name": "sample1",
    "outputs": ["sample1.bam"],
    "commandLine": "bwa mem ref.fa sample1.fq > sample1.bam"
  },
  {
    "analysisName": "call",
    "name": "sample1",
    "inputs": ["sample1.bam"],
    "outputs": ["sample1.vcf"],
    "commandLine": "gatk call sample1.bam > sample1.vcf",
    "scatter": 3
  }
]
`

func TestLoad_DecodesFunctionBlocksInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePipeline), 0o644))

	fns, err := Load(context.Background(), dir, path)
	require.NoError(t, err)
	require.Len(t, fns, 2)

	assert.Equal(t, "align", fns[0].AnalysisName())
	assert.Equal(t, 1, fns[0].AddOrder().Sequence)
	assert.Equal(t, "call", fns[1].AnalysisName())
	assert.Equal(t, 2, fns[1].AddOrder().Sequence)
}

func TestFunction_ScatterGatherable_OnlyWhenScatterWidthSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePipeline), 0o644))

	fns, err := Load(context.Background(), dir, path)
	require.NoError(t, err)

	align := fns[0].(*Function)
	call := fns[1].(*Function)

	assert.False(t, align.ScatterGatherable())
	assert.True(t, call.ScatterGatherable())
}

func TestFunction_GenerateFunctions_ProducesClonesAndOneGather(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePipeline), 0o644))

	fns, err := Load(context.Background(), dir, path)
	require.NoError(t, err)
	call := fns[1].(*Function)

	generated, err := call.GenerateFunctions(context.Background())
	require.NoError(t, err)
	require.Len(t, generated, 4) // 3 shards + 1 gather

	var clones, gathers int
	for _, fn := range generated {
		f := fn.(*Function)
		if c, ok := fn.(qfunction.CloneFunction); ok && c.IsClone() {
			clones++
		}
		if g, ok := fn.(qfunction.GatherFunction); ok && g.IsGather() {
			gathers++
		}
		assert.Equal(t, "call", f.AnalysisName())
	}
	assert.Equal(t, 3, clones)
	assert.Equal(t, 1, gathers)
}

func TestFunction_IsDone_FalseWhenOutputsMissing(t *testing.T) {
	f := &Function{outputs: fileset.New("nonexistent.out")}
	assert.False(t, f.IsDone(context.Background()))
}

func TestFunction_MissingFields_FlagsEmptyCommandLine(t *testing.T) {
	f := &Function{analysisName: "align", name: "s1"}
	missing := f.MissingFields()
	require.Len(t, missing, 1)
	assert.Equal(t, "command_line", missing[0].FieldName)
}

func TestLoad_WalksDirectoryForJSONFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pipeline.json"), []byte(samplePipeline), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	fns, err := Load(context.Background(), dir, dir)
	require.NoError(t, err)
	assert.Len(t, fns, 2)
}

func TestLoad_MissingPathIsNotAnError(t *testing.T) {
	fns, err := Load(context.Background(), t.TempDir(), "/does/not/exist.json")
	require.NoError(t, err)
	assert.Empty(t, fns)
}
