package dag

import (
	"context"

	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

// fakeFunction is a minimal QFunction used across this package's tests. It
// never actually runs anything; the dag package only cares about the
// declarative surface (inputs/outputs/addOrder/intermediate/missing).
type fakeFunction struct {
	name          string
	inputs        fileset.Set
	outputs       fileset.Set
	addOrder      qfunction.AddOrder
	intermediate  bool
	missing       []qfunction.MissingField
	done          bool
	freezeErr     error
}

func newFakeFunction(name string, seq int, inputs, outputs []string) *fakeFunction {
	return &fakeFunction{
		name:     name,
		inputs:   fileset.New(inputs...),
		outputs:  fileset.New(outputs...),
		addOrder: qfunction.AddOrder{Sequence: seq, Name: name},
	}
}

func (f *fakeFunction) Inputs() fileset.Set           { return f.inputs }
func (f *fakeFunction) Outputs() fileset.Set          { return f.outputs }
func (f *fakeFunction) Description() string           { return f.name }
func (f *fakeFunction) AnalysisName() string          { return f.name }
func (f *fakeFunction) AddOrder() qfunction.AddOrder  { return f.addOrder }
func (f *fakeFunction) IsIntermediate() bool          { return f.intermediate }
func (f *fakeFunction) MissingFields() []qfunction.MissingField { return f.missing }
func (f *fakeFunction) Freeze(ctx context.Context) error { return f.freezeErr }
func (f *fakeFunction) JobOutputFile() string         { return "/tmp/" + f.name + ".out" }
func (f *fakeFunction) JobErrorFile() string          { return "/tmp/" + f.name + ".err" }
func (f *fakeFunction) IsDone(ctx context.Context) bool { return f.done }
