package runner

import (
	"context"
	"sync"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/qfunction"
)

// InProcessRunner calls an InProcessFunction's Run method synchronously
// inside Start: the loop observes DONE/FAILED immediately and never
// places the edge in `running`. A direct interface call rather than a
// reflective handler dispatch, since the function's type is already
// known statically here.
type InProcessRunner struct {
	fn qfunction.InProcessFunction

	mu     sync.Mutex
	status Status
	err    error
}

// NewInProcessRunner builds a runner for fn.
func NewInProcessRunner(fn qfunction.InProcessFunction) *InProcessRunner {
	return &InProcessRunner{fn: fn, status: qfunction.StatusPending}
}

// Start runs fn.Run(ctx) to completion before returning.
func (r *InProcessRunner) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("function", r.fn.AnalysisName())
	r.mu.Lock()
	r.status = qfunction.StatusRunning
	r.mu.Unlock()

	logger.Debug("in-process runner: running")
	err := r.fn.Run(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.status = qfunction.StatusFailed
		r.err = err
		return err
	}
	r.status = qfunction.StatusDone
	return nil
}

// Status returns the runner's current status.
func (r *InProcessRunner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Err returns the error that caused the job to fail, if any.
func (r *InProcessRunner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// TryStop is a no-op: an in-process call has already returned by the time
// Start yields control back to the scheduler, so there is nothing live to
// cancel.
func (r *InProcessRunner) TryStop(ctx context.Context) error { return nil }

// RemoveTemporaryFiles is a no-op: in-process functions own no runner-level
// temporary files.
func (r *InProcessRunner) RemoveTemporaryFiles() error { return nil }

// Backend reports a synthetic "inprocess" backend name; in-process
// functions ignore the selected batch backend entirely.
func (r *InProcessRunner) Backend() Backend { return Backend("inprocess") }
