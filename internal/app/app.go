// Package app wires together configuration loading, pipeline loading,
// graph construction, and the scheduling loop into one runnable
// application.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vk/qgraph/internal/config"
	"github.com/vk/qgraph/internal/ctxlog"
)

// Config holds everything needed for one App.Run invocation — the CLI
// surface, already parsed.
type Config struct {
	PipelinePaths []string // .json sources declaring pipeline functions
	SettingsPaths []string // .hcl sources declaring a `settings` block

	Run              bool // -run: actually execute, otherwise dry-run
	StartFromScratch bool // -startFromScratch

	JobRunner string // -jobRunner / -bsub
	JobQueue  string // -jobQueue
	TempDir   string // -tempDir
	RunDir    string // -runDir

	LsfBaseURL    string
	DashboardAddr string

	StatusEmailTo   []string
	StatusEmailFrom string

	DotPath         string // -dot
	ExpandedDotPath string // -expandedDot

	HealthcheckPort int

	LogLevel  string
	LogFormat string
}

// App encapsulates one invocation's dependencies and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	cfg        Config
	runID      string
	httpServer *httpServer
}

// New constructs an App: configures logging, loads ambient settings from
// HCL, and merges them under the already-parsed CLI config — CLI flags
// always win, and every construction-time failure is validated before
// New returns rather than discovered later in Run.
func New(ctx context.Context, outW io.Writer, cfg Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)

	runID := uuid.New().String()
	logger = logger.With("runID", runID)

	settingsModel, err := config.Load(ctx, cfg.SettingsPaths...)
	if err != nil {
		return nil, err
	}
	mergeSettings(&cfg, settingsModel.Settings)

	if cfg.TempDir == "" {
		cfg.TempDir = "/tmp/qgraph-" + runID
	}
	if cfg.RunDir == "" {
		cfg.RunDir = cfg.TempDir
	}

	return &App{outW: outW, logger: logger, cfg: cfg, runID: runID}, nil
}

// mergeSettings fills in cfg fields left at their zero value from an
// HCL-loaded Settings block; a value already set on the command line is
// never overwritten.
func mergeSettings(cfg *Config, s config.Settings) {
	if cfg.JobRunner == "" {
		cfg.JobRunner = s.JobRunner
	}
	if cfg.JobQueue == "" {
		cfg.JobQueue = s.JobQueue
	}
	if cfg.TempDir == "" {
		cfg.TempDir = s.TempDir
	}
	if cfg.RunDir == "" {
		cfg.RunDir = s.RunDir
	}
	if len(cfg.StatusEmailTo) == 0 {
		cfg.StatusEmailTo = s.StatusEmailTo
	}
	if cfg.StatusEmailFrom == "" {
		cfg.StatusEmailFrom = s.StatusEmailFrom
	}
	if cfg.LsfBaseURL == "" {
		cfg.LsfBaseURL = s.LsfBaseURL
	}
	if cfg.DashboardAddr == "" {
		cfg.DashboardAddr = s.DashboardAddr
	}
}

// RunID returns the UUID generated for this invocation.
func (a *App) RunID() string { return a.runID }
