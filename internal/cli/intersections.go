package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// intersectionsCommand creates the intersections command.
func (c *CLI) intersectionsCommand() *cobra.Command {
	var (
		asJSON bool
		seed   int64
	)

	cmd := &cobra.Command{
		Use:     "intersections [graph|layout]",
		Aliases: []string{"crossings"},
		Short:   "List the edge crossings of a graph or layout",
		Long: `List the points where edges of a graph or layout file cross.

Positions are used as given; nothing is simulated. Nodes without
coordinates are placed the way 'forcegraph simulate' places them before
the first step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			g, err := graph.ReadGraphFile(input)
			if err != nil {
				return fmt.Errorf("load graph %s: %w", input, err)
			}

			var unplaced int
			for i := range g.Nodes {
				if !g.Nodes[i].Positioned() {
					unplaced++
				}
			}
			if unplaced > 0 && !asJSON {
				printWarning("%d of %d nodes have no coordinates and were placed automatically", unplaced, len(g.Nodes))
			}

			crossings, err := graph.Intersections(g, graph.LoadOptions{Seed: seed})
			if err != nil {
				return fmt.Errorf("find intersections: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("found intersections", "edges", len(g.Edges), "crossings", len(crossings))

			out := cmd.OutOrStdout()
			if asJSON {
				if crossings == nil {
					crossings = []graph.Crossing{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(crossings)
			}
			printCrossings(out, crossings)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print crossings as JSON")
	cmd.Flags().Int64Var(&seed, "seed", 1, "placement seed for nodes without coordinates")

	return cmd
}
