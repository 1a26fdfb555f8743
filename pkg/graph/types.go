package graph

import (
	"math"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Graph - Node-Link Document
// =============================================================================

// Graph is the canonical serialization format for input graphs.
// Edges are undirected; From and To only record how the edge was written.
type Graph struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is one vertex of a [Graph]. X and Y are optional: a node missing
// either is placed automatically. A zero Mass means the engine default.
type Node struct {
	ID     string         `json:"id" yaml:"id"`
	Label  string         `json:"label,omitempty" yaml:"label,omitempty"` // Display label (defaults to ID)
	X      *float64       `json:"x,omitempty" yaml:"x,omitempty"`
	Y      *float64       `json:"y,omitempty" yaml:"y,omitempty"`
	Mass   float64        `json:"mass,omitempty" yaml:"mass,omitempty"`
	Anchor bool           `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Meta   map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Positioned reports whether both coordinates are present.
func (n *Node) Positioned() bool { return n.X != nil && n.Y != nil }

// At sets both coordinates.
func (n *Node) At(x, y float64) {
	n.X, n.Y = &x, &y
}

// =============================================================================
// Edge
// =============================================================================

// Edge joins two nodes by id.
type Edge struct {
	From string         `json:"from" yaml:"from"`
	To   string         `json:"to" yaml:"to"`
	Meta map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks structural integrity and returns the first problem found.
func (g Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}

		for _, c := range []*float64{n.X, n.Y} {
			if c != nil && !isFinite(*c) {
				return errors.New(errors.ErrCodeInvalidInput, "node %q has a non-finite coordinate", n.ID)
			}
			if c != nil && math.Abs(*c) > math.MaxFloat32 {
				return errors.New(errors.ErrCodeInvalidInput, "node %q coordinate %g is out of range", n.ID, *c)
			}
		}
		if !isFinite(n.Mass) || n.Mass < 0 || n.Mass > math.MaxFloat32 {
			return errors.New(errors.ErrCodeInvalidInput, "node %q mass must be a non-negative number, got %v", n.ID, n.Mass)
		}
	}

	for _, e := range g.Edges {
		for _, end := range []string{e.From, e.To} {
			if _, ok := seen[end]; !ok {
				return errors.New(errors.ErrCodeInvalidInput, "edge %s-%s references unknown node %q", e.From, e.To, end)
			}
		}
		if e.From == e.To {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s-%s is a self loop", e.From, e.To)
		}
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
