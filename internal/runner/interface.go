// Package runner defines the JobRunner contract and the
// concrete backends that satisfy it: a local shell runner, an in-process
// runner, and two batch-system runners (LSF REST, grid-engine CLI).
package runner

import (
	"context"

	"github.com/vk/qgraph/internal/qfunction"
)

// Status mirrors the subset of qfunction.Status a JobRunner may report:
// PENDING, RUNNING, DONE, or FAILED. A runner never reports SKIPPED — that
// is a graph-level classification the scheduler applies before a runner
// ever exists for an edge.
type Status = qfunction.Status

// JobRunner is produced by a backend factory for exactly one function edge
// and drives that edge's execution.
type JobRunner interface {
	// Start asynchronously begins execution. For backends that complete
	// synchronously (InProcessRunner), Start blocks until done and Status
	// already reports DONE/FAILED by the time Start returns.
	Start(ctx context.Context) error

	// Status reports the runner's current view of execution progress. It
	// must transition monotonically: PENDING -> RUNNING -> (DONE|FAILED).
	Status() Status

	// TryStop makes a best-effort attempt to cancel the job. Used only by
	// the shutdown hook; implementations must tolerate being called on an
	// already-finished job.
	TryStop(ctx context.Context) error

	// RemoveTemporaryFiles performs idempotent cleanup of any side-effect
	// files the runner created (e.g. batch-submission wrapper scripts).
	RemoveTemporaryFiles() error
}

// Backender is implemented by every concrete JobRunner to name the
// backend it dispatches to, for metrics labeling.
type Backender interface {
	Backend() Backend
}

// Backend names the job-dispatch mechanism selected on the command line
//.
type Backend string

const (
	BackendShell      Backend = "shell"
	BackendLSF        Backend = "lsf"
	BackendGridEngine Backend = "sge"
)
