package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/qfunction"
	"resty.dev/v3"
)

// LsfConfig names the LSF REST gateway a LsfJobRunner submits to
// (`-jobRunner=lsf`, `-jobQueue`).
type LsfConfig struct {
	// BaseURL is the LSF application center REST endpoint, e.g.
	// "https://lsf-gateway.example.org:8443".
	BaseURL string
	Queue   string
	// PollInterval is carried with the config but not read by
	// LsfJobRunner: the gateway is polled only when the scheduler calls
	// Poll on its own tick.
	PollInterval time.Duration
}

// lsfSubmitResponse is the subset of the LSF REST "submit job" response
// this runner needs.
type lsfSubmitResponse struct {
	JobID string `json:"jobId"`
}

// lsfJobStatusResponse is the subset of the LSF REST "job status" response
// this runner needs.
type lsfJobStatusResponse struct {
	Status string `json:"status"` // PEND, RUN, DONE, EXIT, ...
}

// LsfJobRunner submits a CommandLineFunction to a Platform LSF REST
// gateway using resty.dev/v3 as the wire client; this runner is the only
// part of the module that imports it.
type LsfJobRunner struct {
	fn     qfunction.CommandLineFunction
	cfg    LsfConfig
	client *resty.Client

	mu     sync.Mutex
	status Status
	jobID  string
	err    error
}

// NewLsfJobRunner builds a runner for fn against the given gateway config.
func NewLsfJobRunner(fn qfunction.CommandLineFunction, cfg LsfConfig) *LsfJobRunner {
	return &LsfJobRunner{
		fn:     fn,
		cfg:    cfg,
		client: resty.New().SetBaseURL(cfg.BaseURL),
		status: qfunction.StatusPending,
	}
}

// Start submits the job to the LSF gateway. The actual run happens
// remotely; callers must poll Status (or call Poll explicitly) to observe
// completion — this is a handle whose status changes between polls, not
// a blocking call.
func (r *LsfJobRunner) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("function", r.fn.AnalysisName(), "backend", "lsf")

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"commandLine": r.fn.CommandLine(),
			"queue":       r.cfg.Queue,
			"outputFile":  r.fn.JobOutputFile(),
			"errorFile":   r.fn.JobErrorFile(),
		}).
		Post("/jobs")
	if err != nil {
		r.fail(fmt.Errorf("lsf submit: %w", err))
		return err
	}
	if resp.IsError() {
		submitErr := fmt.Errorf("lsf submit: gateway returned %s", resp.Status())
		r.fail(submitErr)
		return submitErr
	}

	var parsed lsfSubmitResponse
	if err := json.Unmarshal(resp.Bytes(), &parsed); err != nil {
		r.fail(fmt.Errorf("lsf submit: decoding response: %w", err))
		return err
	}

	r.mu.Lock()
	r.jobID = parsed.JobID
	r.status = qfunction.StatusRunning
	r.mu.Unlock()

	logger.Info("lsf runner: submitted", "jobID", parsed.JobID, "queue", r.cfg.Queue)
	return nil
}

// Poll queries the gateway for the submitted job's current state and
// updates Status accordingly. The scheduler calls this once per tick for
// every running LsfJobRunner.
func (r *LsfJobRunner) Poll(ctx context.Context) error {
	r.mu.Lock()
	jobID := r.jobID
	r.mu.Unlock()
	if jobID == "" {
		return nil
	}

	resp, err := r.client.R().SetContext(ctx).Get(fmt.Sprintf("/jobs/%s", jobID))
	if err != nil {
		r.fail(fmt.Errorf("lsf poll %s: %w", jobID, err))
		return err
	}
	if resp.IsError() {
		r.fail(fmt.Errorf("lsf poll %s: gateway returned %s", jobID, resp.Status()))
		return r.err
	}

	var parsed lsfJobStatusResponse
	if err := json.Unmarshal(resp.Bytes(), &parsed); err != nil {
		r.fail(fmt.Errorf("lsf poll %s: decoding response: %w", jobID, err))
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	switch parsed.Status {
	case "DONE":
		r.status = qfunction.StatusDone
	case "EXIT":
		r.status = qfunction.StatusFailed
		r.err = fmt.Errorf("lsf job %s exited with nonzero status", jobID)
	case "RUN":
		r.status = qfunction.StatusRunning
	case "PEND":
		// Queued but not yet started: the runner stays RUNNING, since a
		// submitted job's status never moves back to PENDING.
	}
	return nil
}

func (r *LsfJobRunner) fail(err error) {
	r.mu.Lock()
	r.status = qfunction.StatusFailed
	r.err = err
	r.mu.Unlock()
}

// Status returns the runner's last-known status (as of the most recent
// Poll or Start call).
func (r *LsfJobRunner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Err returns the error that caused the job to fail, if any.
func (r *LsfJobRunner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// TryStop asks the gateway to kill the submitted job, part of the
// grouped best-effort cancellation the scheduler runs during shutdown.
func (r *LsfJobRunner) TryStop(ctx context.Context) error {
	r.mu.Lock()
	jobID := r.jobID
	r.mu.Unlock()
	if jobID == "" {
		return nil
	}
	_, err := r.client.R().SetContext(ctx).Delete(fmt.Sprintf("/jobs/%s", jobID))
	return err
}

// RemoveTemporaryFiles is a no-op: the gateway owns the submitted job's
// wrapper script, not this process.
func (r *LsfJobRunner) RemoveTemporaryFiles() error { return nil }

// Backend reports BackendLSF.
func (r *LsfJobRunner) Backend() Backend { return BackendLSF }
