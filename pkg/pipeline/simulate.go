package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Simulate loads g into a fresh engine and steps it until every free node
// moves slower than opts.Tolerance (checked from opts.MinSteps on) or
// opts.Steps updates have run.
//
// The context is checked between updates; cancellation returns ctx.Err().
// A numerical fault inside the engine is returned as a NUMERICAL_FAULT error.
func Simulate(ctx context.Context, g graph.Graph, opts Options) (layout graph.Layout, stats Stats, err error) {
	if err := opts.ValidateForSimulate(); err != nil {
		return graph.Layout{}, Stats{}, err
	}
	stats.NodeCount, stats.EdgeCount = len(g.Nodes), len(g.Edges)

	hooks := observability.Pipeline()
	hooks.OnSimulateStart(ctx, stats.NodeCount, stats.EdgeCount)
	start := time.Now()
	converged := false
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(r)
			layout = graph.Layout{}
			opts.Logger.Error("simulation aborted", "step", stats.Steps, "err", err)
		}
		stats.SimulateTime = time.Since(start)
		hooks.OnSimulateComplete(ctx, stats.Steps, converged, stats.SimulateTime, err)
	}()

	e := graph.NewEngine(opts.Parameters, force.Options{
		Logger: opts.Logger,
		Seed:   uint64(opts.Seed),
	})
	ids, err := graph.Load(e, g, graph.LoadOptions{Seed: opts.Seed, Spacing: opts.Spacing})
	if err != nil {
		return graph.Layout{}, stats, err
	}

	dt := float32(opts.DT)
	tolerance := float32(opts.Tolerance)
	for stats.Steps < opts.Steps {
		if err := ctx.Err(); err != nil {
			return graph.Layout{}, stats, err
		}

		e.Update(dt)
		stats.Steps++

		last := e.LastStep()
		if last.Bounced {
			stats.Bounces++
		}
		if last.Escaped {
			stats.Escapes++
		}

		speed := e.MaxSpeed()
		if opts.Progress != nil && stats.Steps%ProgressEvery == 0 {
			opts.Progress(stats.Steps, speed)
		}
		if stats.Steps >= opts.MinSteps && speed <= tolerance {
			converged = true
			break
		}
	}

	layout = graph.Snapshot(e, g, ids)
	layout.RunID = uuid.NewString()
	layout.Steps = stats.Steps
	layout.Converged = converged

	opts.Logger.Debug("simulation finished",
		"steps", stats.Steps,
		"converged", converged,
		"max_speed", layout.MaxSpeed,
		"bounces", stats.Bounces,
		"escapes", stats.Escapes,
		"crossings", len(layout.Crossings))
	return layout, stats, nil
}
