package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/metrics"
	"github.com/vk/qgraph/internal/qfunction"
	"github.com/vk/qgraph/internal/runner"
)

// DefaultPollInterval is the scheduler's polling cadence — a design
// constant, though nothing prevents an embedder from overriding
// Loop.PollInterval directly.
const DefaultPollInterval = 30 * time.Second

// errGetter is satisfied by JobRunners that can report why they failed.
type errGetter interface {
	Err() error
}

// Loop is the main scheduling loop. It is single-threaded and
// cooperative: concurrency is supplied entirely by the backends behind
// each JobRunner. Loop must be constructed with New.
type Loop struct {
	Graph        *dag.Graph
	Factory      RunnerFactory
	Notifier     Notifier
	PollInterval time.Duration

	mu        sync.Mutex
	running   map[*dag.FunctionEdge]runner.JobRunner
	startedAt map[*dag.FunctionEdge]time.Time

	shuttingDown atomic.Bool
}

// New constructs a Loop over g. notifier may be nil, in which case a
// NoopNotifier is used.
func New(g *dag.Graph, factory RunnerFactory, notifier Notifier) *Loop {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Loop{
		Graph:        g,
		Factory:      factory,
		Notifier:     notifier,
		PollInterval: DefaultPollInterval,
		running:      make(map[*dag.FunctionEdge]runner.JobRunner),
		startedAt:    make(map[*dag.FunctionEdge]time.Time),
	}
}

// Run drives the graph to completion. It registers itself with
// the process-singleton shutdown registry for the duration of the call.
func (l *Loop) Run(ctx context.Context) (err error) {
	logger := ctxlog.FromContext(ctx)

	register(l)
	defer unregister(l)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("scheduler: uncaught exception in scheduling loop", "recover", rec)
			if notifyErr := l.Notifier.NotifyFinal(ctx, l.Graph); notifyErr != nil {
				logger.Error("scheduler: failed to send status email after panic", "error", notifyErr)
			}
			panic(rec)
		}
	}()

	ready := l.Graph.ReadyPending()

	for !l.shuttingDown.Load() && (len(ready) > 0 || l.runningCount() > 0) {
		metrics.ReadyQueueDepth.Set(float64(len(ready)))
		metrics.RunningEdges.Set(float64(l.runningCount()))

		justFailed := l.reapRunning(ctx)

		for _, fe := range ready {
			if fe := l.dispatch(ctx, fe); fe != nil {
				justFailed = append(justFailed, fe)
			}
		}

		if len(justFailed) > 0 {
			if notifyErr := l.Notifier.NotifyFailure(ctx, justFailed); notifyErr != nil {
				logger.Error("scheduler: failed to send failure status email", "error", notifyErr)
			}
		}

		if len(ready) == 0 && l.runningCount() > 0 {
			if sleepErr := l.sleep(ctx); sleepErr != nil {
				return sleepErr
			}
		}

		ready = l.Graph.ReadyPending()
	}

	if notifyErr := l.Notifier.NotifyFinal(ctx, l.Graph); notifyErr != nil {
		logger.Error("scheduler: failed to send final status email", "error", notifyErr)
	}

	return l.finalError()
}

// sleep blocks for PollInterval or until ctx is cancelled. This is the
// only place the scheduling loop blocks.
func (l *Loop) sleep(ctx context.Context) error {
	interval := l.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(interval):
		return nil
	}
}

// dispatch constructs and starts a JobRunner for fe. It
// returns fe if the edge ended up FAILED (either the factory or Start
// itself failed, or the runner completed synchronously as FAILED), so the
// caller can fold it into this tick's justFailed batch; it returns nil
// otherwise.
func (l *Loop) dispatch(ctx context.Context, fe *dag.FunctionEdge) *dag.FunctionEdge {
	logger := ctxlog.FromContext(ctx).With("function", fe.ID())

	r, err := l.Factory.New(fe.Fn)
	if err != nil {
		logger.Error("scheduler: could not construct runner", "error", err)
		fe.SetStatus(qfunction.StatusFailed)
		fe.SetErr(err)
		return fe
	}

	fe.SetRunner(r)
	fe.SetStatus(qfunction.StatusRunning)

	backend := backendLabel(r)
	metrics.EdgesDispatched.WithLabelValues(backend).Inc()
	startedAt := l.markStarted(fe)

	logger.Debug("scheduler: starting")
	if err := r.Start(ctx); err != nil {
		logger.Error("scheduler: runner failed to start", "error", err)
		fe.SetStatus(qfunction.StatusFailed)
		fe.SetErr(err)
		l.recordTerminal(fe, qfunction.StatusFailed, backend, startedAt)
		return fe
	}

	switch r.Status() {
	case qfunction.StatusDone:
		fe.SetStatus(qfunction.StatusDone)
		l.recordTerminal(fe, qfunction.StatusDone, backend, startedAt)
		logger.Debug("scheduler: completed synchronously")
		return nil
	case qfunction.StatusFailed:
		fe.SetStatus(qfunction.StatusFailed)
		if eg, ok := r.(errGetter); ok {
			fe.SetErr(eg.Err())
		}
		l.recordTerminal(fe, qfunction.StatusFailed, backend, startedAt)
		return fe
	default:
		l.mu.Lock()
		l.running[fe] = r
		l.mu.Unlock()
		return nil
	}
}

func backendLabel(r runner.JobRunner) string {
	if b, ok := r.(runner.Backender); ok {
		return string(b.Backend())
	}
	return "unknown"
}

func (l *Loop) markStarted(fe *dag.FunctionEdge) time.Time {
	now := time.Now()
	l.mu.Lock()
	l.startedAt[fe] = now
	l.mu.Unlock()
	return now
}

func (l *Loop) recordTerminal(fe *dag.FunctionEdge, status qfunction.Status, backend string, startedAt time.Time) {
	metrics.EdgesCompleted.WithLabelValues(status.String()).Inc()
	metrics.ObserveDuration(backend, time.Since(startedAt))
	l.mu.Lock()
	delete(l.startedAt, fe)
	l.mu.Unlock()
}

// reapRunning polls every currently-running edge's runner, partitioning
// it by status and removing exited edges from `running`, updates the
// edge's status, and returns every edge that just transitioned to
// FAILED.
func (l *Loop) reapRunning(ctx context.Context) []*dag.FunctionEdge {
	logger := ctxlog.FromContext(ctx)

	l.mu.Lock()
	snapshot := make(map[*dag.FunctionEdge]runner.JobRunner, len(l.running))
	for fe, r := range l.running {
		snapshot[fe] = r
	}
	l.mu.Unlock()

	var justFailed []*dag.FunctionEdge
	var exited []*dag.FunctionEdge

	for fe, r := range snapshot {
		if p, ok := r.(Poller); ok {
			if err := p.Poll(ctx); err != nil {
				logger.Warn("scheduler: poll error", "function", fe.ID(), "error", err)
			}
		}

		backend := backendLabel(r)

		switch r.Status() {
		case qfunction.StatusDone:
			fe.SetStatus(qfunction.StatusDone)
			exited = append(exited, fe)
			l.recordTerminal(fe, qfunction.StatusDone, backend, l.startedAtOf(fe))
		case qfunction.StatusFailed:
			fe.SetStatus(qfunction.StatusFailed)
			if eg, ok := r.(errGetter); ok {
				fe.SetErr(eg.Err())
			}
			exited = append(exited, fe)
			justFailed = append(justFailed, fe)
			l.recordTerminal(fe, qfunction.StatusFailed, backend, l.startedAtOf(fe))
		}
	}

	if len(exited) > 0 {
		l.mu.Lock()
		for _, fe := range exited {
			delete(l.running, fe)
		}
		l.mu.Unlock()
	}

	return justFailed
}

func (l *Loop) startedAtOf(fe *dag.FunctionEdge) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startedAt[fe]
}

func (l *Loop) runningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.running)
}

// finalError reports a non-nil error iff any function edge ended the run
// FAILED, so the process can exit 0 on success and nonzero on any
// failure, including a FAILED edge still present at loop exit.
func (l *Loop) finalError() error {
	var failedIDs []string
	for _, fe := range l.Graph.FunctionEdges() {
		if fe.Status() == qfunction.StatusFailed {
			failedIDs = append(failedIDs, fe.ID())
		}
	}
	if len(failedIDs) == 0 {
		return nil
	}
	return fmt.Errorf("scheduler: %d function edge(s) failed: %v", len(failedIDs), failedIDs)
}
