// Package pipeline runs force-directed layouts headlessly and renders them.
//
// This package implements the simulate → render pipeline shared by the CLI
// and the HTTP server. By centralizing this logic, both entry points apply
// the same defaults, stopping rule and error mapping.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Simulate: load a graph document into a [force.Engine], step it until
//     it settles or the step budget runs out, and snapshot a [graph.Layout]
//  2. Render: produce output artifacts (JSON, DOT, SVG, PNG, PDF) from a
//     layout, formats in parallel
//
// Each stage can be run on its own or through a [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// # Errors
//
// The engine panics with a NUMERICAL_FAULT error when the simulation
// produces a non-finite value. [Simulate] recovers that panic and returns it
// as an ordinary error, so a bad graph never takes down a server.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultSteps is the maximum number of updates per run.
	DefaultSteps = 2000

	// DefaultMinSteps is the number of updates before convergence is checked.
	DefaultMinSteps = 50

	// DefaultDT is the simulated time per update, one frame at 60 Hz.
	DefaultDT = 0.016

	// DefaultTolerance is the node speed below which a run counts as settled.
	DefaultTolerance = 0.01

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = int64(1)

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Simulation options. A zero Parameters value means force.DefaultParameters.
	Parameters force.Parameters `json:"parameters"`
	Steps      int              `json:"steps,omitempty"`
	MinSteps   int              `json:"min_steps,omitempty"`
	DT         float64          `json:"dt,omitempty"`
	Tolerance  float64          `json:"tolerance,omitempty"`
	Seed       int64            `json:"seed,omitempty"`
	Spacing    float32          `json:"spacing,omitempty"` // Placement spacing for unpositioned nodes

	// Render options
	Formats       []string `json:"formats,omitempty"`
	NodeRadius    float64  `json:"node_radius,omitempty"`
	ShowLabels    bool     `json:"show_labels,omitempty"`
	ShowCrossings bool     `json:"show_crossings,omitempty"`
	Detailed      bool     `json:"detailed,omitempty"`
	Scale         float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called every ProgressEvery steps with the step
	// count and current maximum node speed.
	Progress func(step int, maxSpeed float32) `json:"-"`
}

// ProgressEvery is the step interval at which Options.Progress is called.
const ProgressEvery = 25

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the simulated layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and simulation counters.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	Steps        int
	Bounces      int
	Escapes      int
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// FromConfig builds options from a loaded configuration file.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Parameters:    cfg.Simulation,
		Steps:         cfg.Run.Steps,
		MinSteps:      cfg.Run.MinSteps,
		DT:            cfg.Run.DT,
		Tolerance:     cfg.Run.Tolerance,
		Seed:          cfg.Run.Seed,
		Formats:       slices.Clone(cfg.Render.Formats),
		NodeRadius:    cfg.Render.NodeRadius,
		ShowLabels:    cfg.Render.ShowLabels,
		ShowCrossings: cfg.Render.ShowCrossings,
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidParameters,
			"invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetSimulateDefaults fills unset simulation options.
func (o *Options) SetSimulateDefaults() {
	if o.Parameters == (force.Parameters{}) {
		o.Parameters = force.DefaultParameters()
	}
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.MinSteps == 0 {
		o.MinSteps = min(DefaultMinSteps, o.Steps)
	}
	if o.DT == 0 {
		o.DT = DefaultDT
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForSimulate applies defaults and rejects invalid parameters or
// run settings with INVALID_PARAMETERS.
func (o *Options) ValidateForSimulate() error {
	o.SetSimulateDefaults()
	if err := o.Parameters.Validate(); err != nil {
		return err
	}
	run := config.RunConfig{
		Steps:     o.Steps,
		MinSteps:  o.MinSteps,
		DT:        o.DT,
		Tolerance: o.Tolerance,
		Seed:      o.Seed,
	}
	if err := run.Validate(); err != nil {
		return err
	}
	if o.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "spacing must not be negative, got %g", o.Spacing)
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender applies render defaults and checks the format list.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.NodeRadius < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "node_radius and scale must not be negative")
	}
	return nil
}

func (o *Options) String() string {
	return fmt.Sprintf("steps=%d min=%d dt=%g tol=%g seed=%d formats=%v",
		o.Steps, o.MinSteps, o.DT, o.Tolerance, o.Seed, o.Formats)
}
