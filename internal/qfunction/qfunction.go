// Package qfunction defines the QFunction contract the core graph is built
// from. The engine never constructs a QFunction itself — that is
// the job of the pipeline DSL (internal/pipeline) — it only consumes
// values that satisfy this contract.
package qfunction

import (
	"context"

	"github.com/vk/qgraph/internal/fileset"
)

// Status is the runtime status of a function edge.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusDone:
		return "DONE"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// AddOrder records the declaration-time insertion order of a function, used
// to deterministically break ties between simultaneously-ready edges
//. Sequence is a monotonically increasing counter assigned by
// whoever constructs the function (pipeline.Load numbers declarations in
// the order it reads them); Name is a secondary, human-facing tie-break.
type AddOrder struct {
	Sequence int
	Name     string
}

// Less reports whether ao should be scheduled before other: the lower
// Sequence first, with equal Sequences ordered by Name as a string.
func (ao AddOrder) Less(other AddOrder) bool {
	if ao.Sequence != other.Sequence {
		return ao.Sequence < other.Sequence
	}
	return ao.Name < other.Name
}

// MissingField names a required argument that has not been bound yet.
type MissingField struct {
	FunctionName string
	FieldName    string
}

// QFunction is the frozen, validated description of one unit of work. It
// is the ingest contract for the graph builder: every field
// the builder needs is read through this interface, never by reaching into
// a concrete struct.
type QFunction interface {
	// Inputs and Outputs declare the file sets the graph is derived from.
	Inputs() fileset.Set
	Outputs() fileset.Set

	// Description is a human-facing summary used in dry-run output and DOT
	// edge labels.
	Description() string

	// AnalysisName groups shards and their gather step under one status
	// aggregator row.
	AnalysisName() string

	AddOrder() AddOrder

	// IsIntermediate reports whether the function's outputs are disposable;
	// intermediates may be SKIPPED when nothing downstream needs them yet
	//.
	IsIntermediate() bool

	// MissingFields reports required arguments still unbound. A nonzero
	// count means the function (and the whole run) is not ready to
	// execute.
	MissingFields() []MissingField

	// Freeze irreversibly resolves dynamic fields. Once frozen, the
	// function's graph position (Inputs/Outputs) must not change.
	Freeze(ctx context.Context) error

	// JobOutputFile and JobErrorFile name the log files a JobRunner is
	// expected to write stdout/stderr to, used for failure reporting.
	JobOutputFile() string
	JobErrorFile() string

	// IsDone reports whether the function's own judgment (typically
	// output-file existence plus a content fingerprint) considers its
	// work already complete. The core treats this as ground truth and
	// only reasons about it in the restart/skip walk.
	IsDone(ctx context.Context) bool
}

// CommandLineFunction is a QFunction executed by an external batch backend
// (shell, LSF, grid engine).
type CommandLineFunction interface {
	QFunction
	CommandLine() string
	// UseBatchSystem reports whether the function should be submitted to a
	// remote batch backend (LSF/grid engine) rather than run as a local
	// shell command.
	UseBatchSystem() bool
}

// InProcessFunction is a QFunction executed synchronously inside the
// scheduler's own process.
type InProcessFunction interface {
	QFunction
	Run(ctx context.Context) error
}

// ScatterGatherableFunction can, when enabled, yield a replacement
// subgraph of clone+gather functions in place of itself.
type ScatterGatherableFunction interface {
	QFunction
	ScatterGatherable() bool
	GenerateFunctions(ctx context.Context) ([]QFunction, error)
}

// CloneFunction tags a function generated by a scatter/gather rewrite as
// one of the parallel shards.
type CloneFunction interface {
	QFunction
	IsClone() bool
}

// GatherFunction tags a function generated by a scatter/gather rewrite as
// the final combining step.
type GatherFunction interface {
	QFunction
	IsGather() bool
}
