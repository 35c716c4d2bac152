package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/dag"
	"github.com/vk/qgraph/internal/dotgraph"
	"github.com/vk/qgraph/internal/notify"
	"github.com/vk/qgraph/internal/pipeline"
	"github.com/vk/qgraph/internal/rewriter"
	"github.com/vk/qgraph/internal/runner"
	"github.com/vk/qgraph/internal/scheduler"
	"github.com/vk/qgraph/internal/status"
)

// Run executes one full invocation: load the pipeline, build and
// validate the graph, rewrite scatter/gatherable edges, classify restart
// status, optionally write DOT files, and either print a dry-run summary
// or drive the scheduling loop to completion.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("app: run started")

	if err := os.MkdirAll(a.cfg.RunDir, 0o755); err != nil {
		return fmt.Errorf("app: creating run directory: %w", err)
	}

	a.startHealthcheckServer(ctx)
	defer a.stopHealthcheckServer(ctx)

	fns, err := pipeline.Load(ctx, a.cfg.RunDir, a.cfg.PipelinePaths...)
	if err != nil {
		return fmt.Errorf("app: loading pipeline: %w", err)
	}

	g := dag.New()
	for _, fn := range fns {
		if _, err := g.Add(ctx, fn); err != nil {
			return fmt.Errorf("app: building graph: %w", err)
		}
	}
	g.FillIn(ctx)
	g.Prune(ctx)

	missing, err := g.Validate(ctx)
	if err != nil {
		return fmt.Errorf("app: validating graph: %w", err)
	}
	if missing > 0 {
		a.printDryRun(g)
		return fmt.Errorf("app: %d required argument(s) missing, not running", missing)
	}

	if _, err := rewriter.Rewrite(ctx, g); err != nil {
		return fmt.Errorf("app: rewriting scatter/gather edges: %w", err)
	}

	if a.cfg.ExpandedDotPath != "" {
		if err := writeDot(g, a.cfg.ExpandedDotPath); err != nil {
			return err
		}
	}

	dag.ClassifyRestart(ctx, g, a.cfg.StartFromScratch)

	if a.cfg.DotPath != "" {
		if err := writeDot(g, a.cfg.DotPath); err != nil {
			return err
		}
	}

	if !a.cfg.Run {
		a.printDryRun(g)
		return nil
	}

	factory := runner.Factory{
		Backend:   runner.Backend(a.cfg.JobRunner),
		LsfConfig: runner.LsfConfig{BaseURL: a.cfg.LsfBaseURL, Queue: a.cfg.JobQueue},
		GridEngineConfig: runner.GridEngineConfig{Queue: a.cfg.JobQueue},
	}

	var notifier scheduler.Notifier
	if len(a.cfg.StatusEmailTo) > 0 {
		notifier = notify.NewSMTPNotifier("localhost:25", a.cfg.StatusEmailFrom, a.cfg.StatusEmailTo)
	}

	loop := scheduler.New(g, factory, notifier)
	if err := loop.Run(ctx); err != nil {
		a.printDryRun(g)
		return fmt.Errorf("app: run failed: %w", err)
	}

	a.printDryRun(g)
	a.logger.Info("app: run finished")
	return nil
}

func (a *App) printDryRun(g *dag.Graph) {
	lines := status.RenderLines(status.Aggregate(g))
	fmt.Fprintln(a.outW, strings.Join(lines, "\n"))
}

func writeDot(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("app: creating dot file %s: %w", path, err)
	}
	defer f.Close()
	return dotgraph.Write(f, g)
}
