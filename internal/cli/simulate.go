package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// simulateFlags holds flag values that override the config file when set.
type simulateFlags struct {
	output    string
	formats   string
	steps     int
	minSteps  int
	dt        float64
	tolerance float64
	seed      int64
	ideal     float32
	charge    float32
	noEscape  bool
	labels    bool
	crossings bool
	detailed  bool
}

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var f simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate [graph.json|graph.yaml]",
		Short: "Simulate a graph until it settles and write the layout",
		Long: `Simulate a graph until it settles and write the layout.

Nodes without coordinates are scattered around the positioned ones. The
simulation stops when no free node moves faster than --tolerance (checked
after --min-steps updates) or after --steps updates.

The layout is written to <input>.layout.json; further formats (dot, svg, png,
pdf) are written next to it with -f. Settings default to the config file
(see 'forcegraph config'); flags override it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.FromConfig(cfg)
			if err := applySimulateFlags(cmd, &f, &opts); err != nil {
				return err
			}
			return c.runSimulate(cmd.Context(), args[0], opts, f.output)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().IntVar(&f.steps, "steps", pipeline.DefaultSteps, "maximum number of updates")
	cmd.Flags().IntVar(&f.minSteps, "min-steps", pipeline.DefaultMinSteps, "updates before convergence is checked")
	cmd.Flags().Float64Var(&f.dt, "dt", pipeline.DefaultDT, "simulated seconds per update")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", pipeline.DefaultTolerance, "node speed that counts as settled")
	cmd.Flags().Int64Var(&f.seed, "seed", pipeline.DefaultSeed, "placement and bounce seed")
	cmd.Flags().Float32Var(&f.ideal, "ideal", 0, "ideal distance between nodes")
	cmd.Flags().Float32Var(&f.charge, "charge", 0, "repulsion strength")
	cmd.Flags().BoolVar(&f.noEscape, "no-escape", false, "disable pushing nodes off edge crossings")
	cmd.Flags().BoolVar(&f.labels, "labels", true, "draw node labels (svg, png, pdf)")
	cmd.Flags().BoolVar(&f.crossings, "crossings", true, "mark remaining edge crossings (svg, png, pdf)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include node metadata in labels")

	return cmd
}

// applySimulateFlags copies every flag the user set onto opts.
func applySimulateFlags(cmd *cobra.Command, f *simulateFlags, opts *pipeline.Options) error {
	set := cmd.Flags().Changed
	if set("format") {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return err
		}
		opts.Formats = formats
	}
	if set("steps") {
		opts.Steps = f.steps
	}
	if set("min-steps") {
		opts.MinSteps = f.minSteps
	}
	if set("dt") {
		opts.DT = f.dt
	}
	if set("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if set("seed") {
		opts.Seed = f.seed
	}
	if set("ideal") {
		opts.Parameters.IdealDistance = f.ideal
	}
	if set("charge") {
		opts.Parameters.ForceCharge = f.charge
	}
	if f.noEscape {
		opts.Parameters.EscapeEnabled = false
	}
	if set("labels") {
		opts.ShowLabels = f.labels
	}
	if set("crossings") {
		opts.ShowCrossings = f.crossings
	}
	opts.Detailed = f.detailed
	opts.SetRenderDefaults()
	return nil
}

// runSimulate loads the graph, runs the pipeline and writes the artifacts.
func (c *CLI) runSimulate(ctx context.Context, input string, opts pipeline.Options, output string) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	opts.Logger = c.Logger
	msg := fmt.Sprintf("Simulating %d nodes...", len(g.Nodes))
	spinner := newSpinnerWithContext(ctx, msg)
	opts.Progress = func(step int, speed float32) {
		spinner.SetMessage(fmt.Sprintf("%s step %d, max speed %.3f", msg, step, speed))
	}
	spinner.Start()

	result, err := c.newRunner().Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return fmt.Errorf("simulate %s: %w", input, err)
	}
	spinner.Stop()

	printSuccess("Laid out %s", input)
	printRunStats(result.Stats, result.Layout.Converged, len(result.Layout.Crossings))
	return writeArtifacts(ctx, result.Artifacts, opts.Formats, basePath(output, input))
}
