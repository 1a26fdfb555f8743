package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// renderCommand creates the render command for existing layout files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output    string
		formats   string
		scale     float64
		radius    float64
		labels    bool
		crossings bool
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout file to DOT, SVG, PNG or PDF",
		Long: `Render a layout file written by 'forcegraph simulate' without simulating again.

Positions are taken as-is. PNG and PDF output require rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.FromConfig(cfg)
			opts.Logger = c.Logger
			opts.Formats = []string{pipeline.FormatSVG}

			set := cmd.Flags().Changed
			if set("format") {
				if opts.Formats, err = pipeline.ParseFormats(formats); err != nil {
					return err
				}
			}
			if set("scale") {
				opts.Scale = scale
			}
			if set("radius") {
				opts.NodeRadius = radius
			}
			if set("labels") {
				opts.ShowLabels = labels
			}
			if set("crossings") {
				opts.ShowCrossings = crossings
			}
			opts.Detailed = detailed

			input := args[0]
			layout, err := graph.ReadLayoutFile(input)
			if err != nil {
				return fmt.Errorf("load layout %s: %w", input, err)
			}

			ctx := cmd.Context()
			prog := newProgress(c.Logger)
			artifacts, err := pipeline.Render(ctx, layout, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", input, err)
			}
			prog.done("rendered " + input)

			return writeArtifacts(ctx, artifacts, opts.Formats, basePath(output, input))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "output format(s): json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().Float64Var(&radius, "radius", 0, "node radius in points")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw node labels")
	cmd.Flags().BoolVar(&crossings, "crossings", true, "mark edge crossings")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node metadata in labels")

	return cmd
}
