// Package config loads and saves the forcegraph TOML configuration file.
//
// The file has four sections; every key is optional and missing keys keep
// their defaults:
//
//	[simulation]   # force.Parameters
//	ideal_distance = 45.0
//	force_charge = 3000.0
//
//	[run]
//	steps = 2000
//	dt = 0.016
//	tolerance = 0.01
//
//	[render]
//	formats = ["json", "svg"]
//
//	[server]
//	addr = ":8080"
//
// Unlike the engine, which quietly repairs invalid parameters, [Load]
// rejects them: a config file is user input and mistakes should be reported.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
)

// AppName names the configuration directory.
const AppName = "forcegraph"

// Config holds forcegraph configuration.
type Config struct {
	Simulation force.Parameters `toml:"simulation"`
	Run        RunConfig        `toml:"run"`
	Render     RenderConfig     `toml:"render"`
	Server     ServerConfig     `toml:"server"`
}

// RunConfig controls headless simulation runs.
type RunConfig struct {
	Steps     int     `toml:"steps"`     // Maximum number of updates
	MinSteps  int     `toml:"min_steps"` // Updates before convergence is checked
	DT        float64 `toml:"dt"`        // Seconds per update
	Tolerance float64 `toml:"tolerance"` // Max node speed that counts as converged
	Seed      int64   `toml:"seed"`      // Placement and bounce seed
}

// RenderConfig controls output files.
type RenderConfig struct {
	Formats       []string `toml:"formats"`
	NodeRadius    float64  `toml:"node_radius"`
	ShowCrossings bool     `toml:"show_crossings"`
	ShowLabels    bool     `toml:"show_labels"`
}

// ServerConfig controls the HTTP layout service.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	MaxNodes       int    `toml:"max_nodes"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Output formats understood by the renderer.
var Formats = []string{"json", "dot", "svg", "png", "pdf"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Simulation: force.DefaultParameters(),
		Run: RunConfig{
			Steps:     2000,
			MinSteps:  50,
			DT:        0.016,
			Tolerance: 0.01,
			Seed:      1,
		},
		Render: RenderConfig{
			Formats:       []string{"json"},
			NodeRadius:    6,
			ShowCrossings: true,
			ShowLabels:    true,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxNodes:       2000,
			TimeoutSeconds: 30,
		},
	}
}

// Dir returns the forcegraph config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads a config file over the defaults.
//
// An empty path means [Path]; a missing default file yields the defaults.
// A missing explicit path is FILE_NOT_FOUND. Unknown keys are rejected as
// INVALID_FORMAT, and values that fail [Config.Validate] as
// INVALID_PARAMETERS.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, or to [Path] when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return cfg.Encode(f)
}

// EnsureExists creates the config file with defaults if it doesn't exist,
// and reports whether it did.
func EnsureExists(path string) (bool, error) {
	if path == "" {
		path = Path()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(Default(), path)
}

// Encode writes the config as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Run.Validate(); err != nil {
		return err
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidParameters, "unknown render format %q (want one of %s)", f, strings.Join(Formats, ", "))
		}
	}
	if err := errors.ValidatePositive("render.node_radius", c.Render.NodeRadius); err != nil {
		return err
	}
	if c.Server.MaxNodes < 0 || c.Server.TimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "server limits must not be negative")
	}
	return nil
}

// Validate checks the run settings.
func (r RunConfig) Validate() error {
	if r.Steps <= 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "run.steps must be positive, got %d", r.Steps)
	}
	if r.MinSteps < 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "run.min_steps must not be negative, got %d", r.MinSteps)
	}
	if err := errors.ValidatePositive("run.dt", r.DT); err != nil {
		return err
	}
	return errors.ValidateRange("run.tolerance", r.Tolerance, 0, 1e6)
}
