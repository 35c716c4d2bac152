// Package scheduler drives a population of running jobs to completion:
// pick next-ready edges, dispatch them to a backend-appropriate
// JobRunner, poll status, collect failures, sleep when idle, and
// terminate on shutdown. The loop is single-threaded and cooperative —
// concurrency comes entirely from the backends behind each JobRunner,
// not from a worker pool inside the loop itself.
package scheduler

import (
	"context"

	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/qfunction"
	"github.com/vk/qgraph/internal/runner"
)

// RunnerFactory builds the JobRunner for one function edge.
// runner.Factory is the production implementation; tests supply a fake
// to inject mock JobRunners.
type RunnerFactory interface {
	New(fn qfunction.QFunction) (runner.JobRunner, error)
}

// Notifier sends a status-change email: once per tick when a batch of
// edges just failed, and unconditionally on loop exit if recipients are
// configured.
type Notifier interface {
	NotifyFailure(ctx context.Context, justFailed []*dag.FunctionEdge) error
	NotifyFinal(ctx context.Context, g *dag.Graph) error
}

// NoopNotifier satisfies Notifier without sending anything; it is the
// default when no status-email recipients are configured via
// `-statusEmailTo`.
type NoopNotifier struct{}

func (NoopNotifier) NotifyFailure(ctx context.Context, justFailed []*dag.FunctionEdge) error {
	return nil
}
func (NoopNotifier) NotifyFinal(ctx context.Context, g *dag.Graph) error { return nil }

// Poller is implemented by JobRunners that require an explicit poll call
// to refresh their Status() (e.g. the LSF and grid-engine backends, which
// talk to a remote batch system rather than watching a local child
// process). The loop calls Poll once per tick for every running edge
// whose runner implements it, before reading Status, since a RUNNING
// edge is a handle whose status may change between polls.
type Poller interface {
	Poll(ctx context.Context) error
}
