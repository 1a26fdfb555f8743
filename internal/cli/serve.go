package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// serveCommand creates the serve command for the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxNodes int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP layout service",
		Long: `Start the HTTP layout service.

Endpoints:
  GET  /healthz           liveness check
  POST /v1/layout         simulate a graph and return its layout
  POST /v1/render         render a layout (?format=svg|dot|png|pdf|json)
  POST /v1/intersections  list the edge crossings of a positioned graph

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			scfg := server.FromConfig(cfg.Server, c.Logger)
			if cmd.Flags().Changed("addr") {
				scfg.Addr = addr
			}
			if cmd.Flags().Changed("max-nodes") {
				scfg.MaxNodes = maxNodes
			}
			if cmd.Flags().Changed("timeout") {
				scfg.Timeout = timeout
			}

			stats := &requestStats{}
			observability.SetServerHooks(stats)
			srv := server.New(scfg)
			printInfo("Serving on %s", StyleValue.Render(srv.Addr()))
			printKeyValue("max nodes", fmt.Sprint(srv.Config().MaxNodes))
			printKeyValue("timeout", srv.Config().Timeout.String())
			if err := srv.ListenAndServe(cmd.Context()); err != nil {
				return fmt.Errorf("serve %s: %w", srv.Addr(), err)
			}
			printSuccess("Server stopped after %d requests (%d failed)", stats.total.Load(), stats.failed.Load())
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", server.DefaultMaxNodes, "largest accepted graph")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "simulation budget per request")

	return cmd
}
