package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Runner executes the full pipeline with a shared logger.
//
// The Runner is stateless except for the logger; it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options, each run getting its own engine.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete simulate → render pipeline.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()

	layout, stats, err := Simulate(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	r.Logger.Info("simulated layout",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"steps", stats.Steps,
		"converged", layout.Converged,
		"crossings", len(layout.Crossings),
		"duration", stats.SimulateTime)

	renderStart := time.Now()
	artifacts, err := Render(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", stats.RenderTime)

	return &Result{Layout: layout, Artifacts: artifacts, Stats: stats}, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
