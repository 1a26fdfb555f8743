package force

import (
	"math"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Epsilon is the float32 machine epsilon, the default threshold below which
// a velocity component counts as zero.
const Epsilon float32 = 1.1920929e-7

// MinIdealDistance is the smallest ideal distance an engine will run with.
// Non-positive ideal distances are raised to it when an engine is built.
const MinIdealDistance float32 = 1

// Parameters configures the force model and integrator. One record applies
// to every node and edge of an engine; it is read but never written during
// [Engine.Update].
//
// Use [DefaultParameters] as the starting point and override fields as
// needed. The struct tags let the same record travel through TOML config
// files, JSON layouts and YAML graph documents.
type Parameters struct {
	// IdealDistance is the target rest separation between nodes.
	IdealDistance float32 `toml:"ideal_distance" json:"ideal_distance" yaml:"ideal_distance"`

	// ForceCharge scales repulsion between every pair of nodes.
	ForceCharge float32 `toml:"force_charge" json:"force_charge" yaml:"force_charge"`

	// ForceSpring scales attraction along edges.
	ForceSpring float32 `toml:"force_spring" json:"force_spring" yaml:"force_spring"`

	// ForceMax clamps each force component before it is accumulated.
	ForceMax float32 `toml:"force_max" json:"force_max" yaml:"force_max"`

	// NodeSpeed converts accumulated force into velocity.
	NodeSpeed float32 `toml:"node_speed" json:"node_speed" yaml:"node_speed"`

	// DampingFactor multiplies velocity every step. Must be in (0, 1].
	DampingFactor float32 `toml:"damping_factor" json:"damping_factor" yaml:"damping_factor"`

	// NearFactor and FarFactor bound the middle band, as multiples of
	// IdealDistance, in which a pair exerts no force.
	NearFactor float32 `toml:"near_factor" json:"near_factor" yaml:"near_factor"`
	FarFactor  float32 `toml:"far_factor" json:"far_factor" yaml:"far_factor"`

	// DistanceFactor is the (negative) exponent of the banded pair force.
	DistanceFactor float32 `toml:"distance_factor" json:"distance_factor" yaml:"distance_factor"`

	// MinDistance is the "really close" distance. Pairs closer than this
	// bounce instead of exchanging force, and the banded force treats any
	// shorter distance as MinDistance.
	MinDistance float32 `toml:"min_distance" json:"min_distance" yaml:"min_distance"`

	// EscapeIntensity scales the impulse pushing a stable node away from an
	// edge crossing.
	EscapeIntensity float32 `toml:"escape_intensity" json:"escape_intensity" yaml:"escape_intensity"`

	// StableVelocity is the per-component speed under which a node is stable.
	StableVelocity float32 `toml:"stable_velocity" json:"stable_velocity" yaml:"stable_velocity"`

	// DefaultMass is used for nodes added with a zero mass.
	DefaultMass float32 `toml:"default_mass" json:"default_mass" yaml:"default_mass"`

	// NeighborAware selects the three-band pair force. When false every pair
	// repels with plain inverse-square strength.
	NeighborAware bool `toml:"neighbor_aware" json:"neighbor_aware" yaml:"neighbor_aware"`

	// EscapeEnabled turns the crossing escape pass on.
	EscapeEnabled bool `toml:"escape_enabled" json:"escape_enabled" yaml:"escape_enabled"`
}

// DefaultParameters returns the parameters the engine is tuned for.
func DefaultParameters() Parameters {
	return Parameters{
		IdealDistance:   45,
		ForceCharge:     3000,
		ForceSpring:     0.3,
		ForceMax:        280,
		NodeSpeed:       7000,
		DampingFactor:   0.95,
		NearFactor:      0.9,
		FarFactor:       1.5,
		DistanceFactor:  -2,
		MinDistance:     1,
		EscapeIntensity: 0.5,
		StableVelocity:  Epsilon,
		DefaultMass:     10,
		NeighborAware:   true,
		EscapeEnabled:   true,
	}
}

// NearDistance returns the distance under which pairs push apart.
func (p Parameters) NearDistance() float32 { return p.NearFactor * p.IdealDistance }

// FarDistance returns the distance over which neighbors pull together.
func (p Parameters) FarDistance() float32 { return p.FarFactor * p.IdealDistance }

// Validate reports the first invalid field as an INVALID_PARAMETERS error.
func (p Parameters) Validate() error {
	for _, c := range p.checks() {
		if c.err != nil {
			return c.err
		}
	}
	return nil
}

// Sanitized returns a copy of p with every invalid field replaced by a safe
// value, together with the names of the fields it replaced.
func (p Parameters) Sanitized() (Parameters, []string) {
	var fixed []string
	for _, c := range p.checks() {
		if c.err != nil {
			c.fix(&p)
			fixed = append(fixed, c.field)
		}
	}
	return p, fixed
}

type paramCheck struct {
	field string
	err   error
	fix   func(*Parameters)
}

func (p Parameters) checks() []paramCheck {
	d := DefaultParameters()
	f := func(v float32) float64 { return float64(v) }
	return []paramCheck{
		{"ideal_distance", errors.ValidatePositive("ideal_distance", f(p.IdealDistance)), func(q *Parameters) {
			if finite(q.IdealDistance) {
				q.IdealDistance = MinIdealDistance
			} else {
				q.IdealDistance = d.IdealDistance
			}
		}},
		{"force_charge", nonNegative("force_charge", p.ForceCharge), func(q *Parameters) { q.ForceCharge = d.ForceCharge }},
		{"force_spring", nonNegative("force_spring", p.ForceSpring), func(q *Parameters) { q.ForceSpring = d.ForceSpring }},
		{"force_max", errors.ValidatePositive("force_max", f(p.ForceMax)), func(q *Parameters) { q.ForceMax = d.ForceMax }},
		{"node_speed", errors.ValidatePositive("node_speed", f(p.NodeSpeed)), func(q *Parameters) { q.NodeSpeed = d.NodeSpeed }},
		{"damping_factor", damping(p.DampingFactor), func(q *Parameters) { q.DampingFactor = d.DampingFactor }},
		{"near_factor", bands(p.NearFactor, p.FarFactor), func(q *Parameters) {
			q.NearFactor, q.FarFactor = d.NearFactor, d.FarFactor
		}},
		{"distance_factor", exponent(p.DistanceFactor), func(q *Parameters) { q.DistanceFactor = d.DistanceFactor }},
		{"min_distance", errors.ValidatePositive("min_distance", f(p.MinDistance)), func(q *Parameters) { q.MinDistance = d.MinDistance }},
		{"escape_intensity", nonNegative("escape_intensity", p.EscapeIntensity), func(q *Parameters) { q.EscapeIntensity = d.EscapeIntensity }},
		{"stable_velocity", nonNegative("stable_velocity", p.StableVelocity), func(q *Parameters) { q.StableVelocity = d.StableVelocity }},
		{"default_mass", errors.ValidatePositive("default_mass", f(p.DefaultMass)), func(q *Parameters) { q.DefaultMass = d.DefaultMass }},
	}
}

func nonNegative(name string, v float32) error {
	return errors.ValidateRange(name, float64(v), 0, math.MaxFloat32)
}

func damping(v float32) error {
	if err := errors.ValidateRange("damping_factor", float64(v), 0, 1); err != nil {
		return err
	}
	if v == 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "damping_factor must be greater than 0")
	}
	return nil
}

func bands(near, far float32) error {
	if err := errors.ValidatePositive("near_factor", float64(near)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("far_factor", float64(far)); err != nil {
		return err
	}
	if near >= far {
		return errors.New(errors.ErrCodeInvalidParameters, "near_factor (%v) must be below far_factor (%v)", near, far)
	}
	return nil
}

func exponent(v float32) error {
	if err := errors.ValidateFinite("distance_factor", float64(v)); err != nil {
		return err
	}
	if v >= 0 {
		return errors.New(errors.ErrCodeInvalidParameters, "distance_factor must be negative, got %v", v)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
