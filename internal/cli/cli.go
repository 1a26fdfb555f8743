// Package cli implements the forcegraph command-line interface.
//
// This package provides commands for simulating force-directed layouts of
// graph documents, rendering them, inspecting edge crossings, running an
// interactive terminal demo and serving layouts over HTTP. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - simulate: Run a graph to rest and write the layout (JSON, DOT, SVG, PNG, PDF)
//   - render: Render an existing layout file to other formats
//   - intersections: List the edge crossings of a positioned graph or layout
//   - demo: Watch and drag a live simulation in the terminal
//   - serve: Start the HTTP layout service
//   - config: Create, show and locate the TOML configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes pipeline stage timings and every bounce and escape the engine
// performs.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "forcegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means the default location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Forcegraph lays out graphs with a force simulation",
		Long:         `Forcegraph computes 2D layouts for arbitrary graphs by simulating spring attraction, charge repulsion and edge-crossing avoidance until the nodes come to rest.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetPipelineHooks(&logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	// Register all subcommands
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.intersectionsCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension (and a trailing ".layout")
// from input. If output ends in a known format extension it is stripped.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath names the file for one format. JSON layouts get a ".layout"
// infix so they never overwrite a JSON input graph.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}

// writeArtifacts writes every rendered format next to base, in the order
// the formats were requested, and prints the written paths.
func writeArtifacts(ctx context.Context, artifacts map[string][]byte, formats []string, base string) error {
	logger := loggerFromContext(ctx)
	for _, format := range slices.Compact(slices.Clone(formats)) {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(base, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("wrote artifact", "path", path, "bytes", len(data))
		printFile(path)
	}
	return nil
}
