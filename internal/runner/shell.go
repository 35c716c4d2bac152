package runner

import (
	"context"
	"os"
	"os/exec"
	"sync"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/qfunction"
)

// ShellJobRunner runs a CommandLineFunction's command line as a local
// child process. It is the default backend (`-jobRunner=shell` or no
// `-bsub`): a plain os/exec dispatch to a shell command rather than a
// registered Go handler.
type ShellJobRunner struct {
	fn qfunction.CommandLineFunction

	mu     sync.Mutex
	status Status
	cmd    *exec.Cmd
	done   chan struct{}
	err    error
}

// NewShellJobRunner builds a runner for fn. fn is expected not to use the
// batch system (CommandLineFunction.UseBatchSystem() == false); callers
// choose the backend before constructing the runner.
func NewShellJobRunner(fn qfunction.CommandLineFunction) *ShellJobRunner {
	return &ShellJobRunner{fn: fn, status: qfunction.StatusPending, done: make(chan struct{})}
}

// Start launches the command line asynchronously, redirecting stdout/stderr
// to the function's declared job log files, and returns once the process
// has been launched (not once it has finished).
func (r *ShellJobRunner) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("function", r.fn.AnalysisName())

	outFile, err := os.Create(r.fn.JobOutputFile())
	if err != nil {
		r.fail(err)
		return err
	}
	errFile, err := os.Create(r.fn.JobErrorFile())
	if err != nil {
		outFile.Close()
		r.fail(err)
		return err
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", r.fn.CommandLine())
	cmd.Stdout = outFile
	cmd.Stderr = errFile

	r.mu.Lock()
	r.cmd = cmd
	r.status = qfunction.StatusRunning
	r.mu.Unlock()

	logger.Debug("shell runner: starting command", "commandLine", r.fn.CommandLine())
	if err := cmd.Start(); err != nil {
		outFile.Close()
		errFile.Close()
		r.fail(err)
		return err
	}

	go func() {
		waitErr := cmd.Wait()
		outFile.Close()
		errFile.Close()
		if waitErr != nil {
			logger.Warn("shell runner: command exited with error", "error", waitErr)
			r.fail(waitErr)
		} else {
			r.mu.Lock()
			r.status = qfunction.StatusDone
			r.mu.Unlock()
		}
		close(r.done)
	}()

	return nil
}

func (r *ShellJobRunner) fail(err error) {
	r.mu.Lock()
	r.status = qfunction.StatusFailed
	r.err = err
	r.mu.Unlock()
}

// Status returns the runner's current status.
func (r *ShellJobRunner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Err returns the error that caused the job to fail, if any.
func (r *ShellJobRunner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// TryStop sends SIGKILL to the child process if it is still running.
func (r *ShellJobRunner) TryStop(ctx context.Context) error {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// RemoveTemporaryFiles is a no-op for the shell runner: stdout/stderr are
// the function's own declared log files, not disposable temporaries.
func (r *ShellJobRunner) RemoveTemporaryFiles() error { return nil }

// Backend reports BackendShell.
func (r *ShellJobRunner) Backend() Backend { return BackendShell }
