// Package cli parses the command line into an app.Config, built on
// flag.NewFlagSet plus an ExitError type that carries a specific process
// exit code back to main.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/qgraph/internal/app"
)

// ExitError carries a specific process exit code alongside its message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Parse processes args into an app.Config. It returns shouldExit=true
// when usage/help was printed and nothing went wrong (e.g. -h).
func Parse(args []string, output io.Writer) (app.Config, bool, error) {
	flagSet := flag.NewFlagSet("qgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
qgraph - a dependency-graph pipeline execution engine.

Usage:
  qgraph [options] PIPELINE_PATH

Arguments:
  PIPELINE_PATH
    Path to a single .json file or a directory of .json files declaring
    the pipeline's functions.

Options:
`)
		flagSet.PrintDefaults()
	}

	runFlag := flagSet.Bool("run", false, "Actually execute the pipeline. Without this flag, qgraph prints a dry-run status summary and exits.")
	startFromScratchFlag := flagSet.Bool("startFromScratch", false, "Force every function edge to PENDING, ignoring existing outputs.")
	jobRunnerFlag := flagSet.String("jobRunner", "", "Batch backend for functions that use the batch system: shell, lsf, or sge.")
	bsubFlag := flagSet.Bool("bsub", false, "Shorthand for -jobRunner=lsf.")
	jobQueueFlag := flagSet.String("jobQueue", "", "Batch queue name to submit to (LSF/Grid Engine).")
	tempDirFlag := flagSet.String("tempDir", "", "Directory for temporary job files. Defaults to a run-scoped directory under /tmp.")
	runDirFlag := flagSet.String("runDir", "", "Working directory for job output/error logs. Defaults to -tempDir.")
	settingsFlag := flagSet.String("settings", "", "Path to an HCL file or directory declaring a `settings` block of ambient runtime defaults.")
	statusEmailToFlag := flagSet.String("statusEmailTo", "", "Comma-separated recipient addresses for status-change emails.")
	statusEmailFromFlag := flagSet.String("statusEmailFrom", "", "From address for status-change emails.")
	dotFlag := flagSet.String("dot", "", "Write the final graph to this path in DOT format.")
	expandedDotFlag := flagSet.String("expandedDot", "", "Write the post-scatter/gather graph to this path in DOT format.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health/metrics server. 0 disables it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level: 'debug', 'info', 'warn', or 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return app.Config{}, true, nil
		}
		return app.Config{}, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return app.Config{}, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return app.Config{}, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return app.Config{}, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	jobRunner := *jobRunnerFlag
	if *bsubFlag && jobRunner == "" {
		jobRunner = "lsf"
	}

	var statusEmailTo []string
	if *statusEmailToFlag != "" {
		statusEmailTo = strings.Split(*statusEmailToFlag, ",")
	}

	var settingsPaths []string
	if *settingsFlag != "" {
		settingsPaths = append(settingsPaths, *settingsFlag)
	}

	cfg := app.Config{
		PipelinePaths:    flagSet.Args(),
		SettingsPaths:    settingsPaths,
		Run:              *runFlag,
		StartFromScratch: *startFromScratchFlag,
		JobRunner:        jobRunner,
		JobQueue:         *jobQueueFlag,
		TempDir:          *tempDirFlag,
		RunDir:           *runDirFlag,
		StatusEmailTo:    statusEmailTo,
		StatusEmailFrom:  *statusEmailFromFlag,
		DotPath:          *dotFlag,
		ExpandedDotPath:  *expandedDotFlag,
		HealthcheckPort:  *healthPortFlag,
		LogLevel:         logLevel,
		LogFormat:        logFormat,
	}

	return cfg, false, nil
}
