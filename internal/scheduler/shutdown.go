package scheduler

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/runner"
)

// registry is the process-singleton set of in-flight Loop instances (spec
// §5 "Global state... process-singleton registry with explicit
// register/unregister on construction/teardown", §9 design note).
var registry = struct {
	mu    sync.Mutex
	loops map[*Loop]struct{}
	once  sync.Once
	stop  func()
}{loops: make(map[*Loop]struct{})}

// register adds l to the process-singleton registry and installs the
// os/signal-driven shutdown hook on first use.
func register(l *Loop) {
	registry.mu.Lock()
	registry.loops[l] = struct{}{}
	registry.mu.Unlock()

	registry.once.Do(installShutdownHook)
}

// unregister removes l from the registry once its Run has returned.
func unregister(l *Loop) {
	registry.mu.Lock()
	delete(registry.loops, l)
	registry.mu.Unlock()
}

// installShutdownHook arranges for SIGINT/SIGTERM to call Shutdown on
// every currently-registered Loop.
func installShutdownHook() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	registry.stop = cancel
	go func() {
		<-ctx.Done()
		shutdownAll()
	}()
}

// shutdownAll calls Shutdown on every registered Loop. All exceptions
// during shutdown are swallowed except to log; this function must never
// propagate a panic or error to its caller.
func shutdownAll() {
	registry.mu.Lock()
	loops := make([]*Loop, 0, len(registry.loops))
	for l := range registry.loops {
		loops = append(loops, l)
	}
	registry.mu.Unlock()

	for _, l := range loops {
		l.Shutdown(context.Background())
	}
}

// Shutdown sets shuttingDown and, for each runner still in `running`,
// issues a best-effort cancel grouped <=10 per invocation, then removes
// its temporary files. All errors are logged and swallowed, never
// propagated to the caller.
func (l *Loop) Shutdown(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	if !l.shuttingDown.CompareAndSwap(false, true) {
		return // already shutting down
	}
	logger.Warn("scheduler: shutdown requested, cancelling in-flight jobs")

	l.mu.Lock()
	runners := make([]runner.JobRunner, 0, len(l.running))
	for _, r := range l.running {
		runners = append(runners, r)
	}
	l.mu.Unlock()

	const groupSize = 10
	for i := 0; i < len(runners); i += groupSize {
		end := i + groupSize
		if end > len(runners) {
			end = len(runners)
		}
		for _, r := range runners[i:end] {
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						logger.Error("scheduler: panic during shutdown cancel", "recover", rec)
					}
				}()
				if err := r.TryStop(ctx); err != nil {
					logger.Error("scheduler: error cancelling job during shutdown", "error", err)
				}
				if err := r.RemoveTemporaryFiles(); err != nil {
					logger.Error("scheduler: error removing temporary files during shutdown", "error", err)
				}
			}()
		}
	}
}
