// Package config loads the ambient runtime settings, split between a
// format-agnostic Model and an HCL-specific loader that decodes into it
// with gohcl. This is deliberately *not* the DSL that produces
// QFunction values (that gets its own minimal concrete implementation in
// internal/pipeline); this package only carries the process-level knobs
// a deployment would otherwise set through flags.
package config

import "time"

// Model is the format-agnostic representation of one parsed HCL settings
// source.
type Model struct {
	Settings Settings
}

// Settings are the ambient runtime knobs that may be set once in an HCL
// `settings` block: queue defaults, working directories, polling cadence,
// the LSF gateway, and notification/dashboard endpoints. Command-line
// flags always win over a Settings value loaded from HCL: app.mergeSettings
// copies a setting only into a field the command line left unset.
type Settings struct {
	JobRunner   string `hcl:"job_runner,optional"`
	JobQueue    string `hcl:"job_queue,optional"`
	TempDir     string `hcl:"temp_dir,optional"`
	RunDir      string `hcl:"run_dir,optional"`
	PollSeconds int    `hcl:"poll_seconds,optional"`
	LsfBaseURL  string `hcl:"lsf_base_url,optional"`

	StatusEmailTo   []string `hcl:"status_email_to,optional"`
	StatusEmailFrom string   `hcl:"status_email_from,optional"`

	DashboardAddr string `hcl:"dashboard_addr,optional"`
}

// PollInterval converts PollSeconds to a time.Duration, returning 0 when
// unset. internal/app does not pass this value on: the scheduling loop
// it builds always polls at scheduler.DefaultPollInterval.
func (s Settings) PollInterval() time.Duration {
	if s.PollSeconds <= 0 {
		return 0
	}
	return time.Duration(s.PollSeconds) * time.Second
}
