package pipeline

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

// role distinguishes a scatter/gather-generated Function from the
// original it replaced, so the status aggregator can bucket it correctly
// without a separate concrete type per role.
type role int

const (
	roleMain role = iota
	roleClone
	roleGather
)

// Function is the pipeline package's only QFunction implementation: a
// declarative unit of work whose command line runs as a local shell
// command or, when useBatch is set, on whichever batch backend the
// scheduler was configured with.
type Function struct {
	analysisName   string
	name           string
	addOrder       qfunction.AddOrder
	inputs         fileset.Set
	outputs        fileset.Set
	commandLine    string
	useBatch       bool
	isIntermediate bool
	scatter        int
	logDir         string
	role           role
}

var (
	_ qfunction.QFunction                = (*Function)(nil)
	_ qfunction.CommandLineFunction       = (*Function)(nil)
	_ qfunction.ScatterGatherableFunction = (*Function)(nil)
	_ qfunction.CloneFunction             = (*Function)(nil)
	_ qfunction.GatherFunction            = (*Function)(nil)
)

func (f *Function) Inputs() fileset.Set          { return f.inputs }
func (f *Function) Outputs() fileset.Set         { return f.outputs }
func (f *Function) Description() string          { return f.analysisName + "." + f.name }
func (f *Function) AnalysisName() string         { return f.analysisName }
func (f *Function) AddOrder() qfunction.AddOrder { return f.addOrder }
func (f *Function) IsIntermediate() bool         { return f.isIntermediate }
func (f *Function) CommandLine() string          { return f.commandLine }
func (f *Function) UseBatchSystem() bool         { return f.useBatch }
func (f *Function) IsClone() bool                { return f.role == roleClone }
func (f *Function) IsGather() bool               { return f.role == roleGather }

// MissingFields reports an unset CommandLine as the one required field
// this DSL has.
func (f *Function) MissingFields() []qfunction.MissingField {
	if f.commandLine == "" {
		return []qfunction.MissingField{{FunctionName: f.Description(), FieldName: "command_line"}}
	}
	return nil
}

// Freeze is a no-op: every field is already a concrete Go value decoded
// from JSON, not an expression needing deferred evaluation.
func (f *Function) Freeze(ctx context.Context) error { return nil }

func (f *Function) JobOutputFile() string {
	return jobLogPath(f.logDir, f.analysisName, f.name, f.addOrder.Sequence) + ".out"
}

func (f *Function) JobErrorFile() string {
	return jobLogPath(f.logDir, f.analysisName, f.name, f.addOrder.Sequence) + ".err"
}

// IsDone reports whether every declared output already exists on disk.
// This checks output-file presence only, not a database or content
// hash — there is no persistent scheduler state anywhere in this
// repository.
func (f *Function) IsDone(ctx context.Context) bool {
	if f.outputs.Empty() {
		return false
	}
	for _, p := range f.outputs.Paths() {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// ScatterGatherable reports whether this function should be replaced by a
// generated clone/gather subgraph. Functions created by a
// prior rewrite never re-scatter.
func (f *Function) ScatterGatherable() bool {
	return f.role == roleMain && f.scatter > 1
}

// GenerateFunctions replaces this function with scatter clones (one per
// shard, all depending on the same inputs and each producing its own
// shard of the declared outputs) plus a single gather step that depends
// on every clone's outputs and produces the original outputs.
func (f *Function) GenerateFunctions(ctx context.Context) ([]qfunction.QFunction, error) {
	if f.scatter <= 1 {
		return nil, fmt.Errorf("pipeline: %s is not scatter-gatherable", f.Description())
	}

	var clones []*Function
	var gatherInputs []string

	for i := 0; i < f.scatter; i++ {
		shardOutputs := make([]string, 0, f.outputs.Len())
		for _, p := range f.outputs.Paths() {
			shardOutputs = append(shardOutputs, p+".shard"+strconv.Itoa(i))
		}
		clone := &Function{
			analysisName: f.analysisName,
			name:         f.name + ".shard" + strconv.Itoa(i),
			addOrder:     qfunction.AddOrder{Sequence: f.addOrder.Sequence*1000 + i, Name: f.name + ".shard" + strconv.Itoa(i)},
			inputs:       f.inputs,
			outputs:      fileset.New(shardOutputs...),
			commandLine:  f.commandLine,
			useBatch:     f.useBatch,
			logDir:       f.logDir,
			role:         roleClone,
		}
		clones = append(clones, clone)
		gatherInputs = append(gatherInputs, shardOutputs...)
	}

	gather := &Function{
		analysisName: f.analysisName,
		name:         f.name + ".gather",
		addOrder:     qfunction.AddOrder{Sequence: f.addOrder.Sequence*1000 + f.scatter, Name: f.name + ".gather"},
		inputs:       fileset.New(gatherInputs...),
		outputs:      f.outputs,
		commandLine:  f.commandLine,
		useBatch:     f.useBatch,
		logDir:       f.logDir,
		role:         roleGather,
	}

	fns := make([]qfunction.QFunction, 0, len(clones)+1)
	for _, c := range clones {
		fns = append(fns, c)
	}
	fns = append(fns, gather)
	return fns, nil
}
