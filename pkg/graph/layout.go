package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
)

// =============================================================================
// Layout - Simulation Result
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Nodes carry final positions in the order of the source graph; Edges are
// copied from it. Crossings lists the edge pairs that still cross in the
// final positions.
type Layout struct {
	RunID      string           `json:"run_id,omitempty"`
	Name       string           `json:"name,omitempty"`
	Steps      int              `json:"steps"`
	Converged  bool             `json:"converged"`
	MaxSpeed   float64          `json:"max_speed"`
	Parameters force.Parameters `json:"parameters"`
	Nodes      []Position       `json:"nodes"`
	Edges      []Edge           `json:"edges"`
	Crossings  []Crossing       `json:"crossings,omitempty"`
}

// Position is a node with its final coordinates.
type Position struct {
	ID     string         `json:"id"`
	Label  string         `json:"label,omitempty"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Anchor bool           `json:"anchor,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (p *Position) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// Crossing is one point where two edges cross. A and B hold the endpoint
// ids of the two edges.
type Crossing struct {
	X float64   `json:"x"`
	Y float64   `json:"y"`
	A [2]string `json:"a"`
	B [2]string `json:"b"`
}

// Bounds returns the bounding box of the node positions. An empty layout has
// an empty box at the origin.
func (l *Layout) Bounds() (minX, minY, maxX, maxY float64) {
	for i, p := range l.Nodes {
		if i == 0 {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

// Graph converts the layout back into a fully positioned graph document.
func (l *Layout) Graph() Graph {
	g := Graph{
		Name:  l.Name,
		Nodes: make([]Node, len(l.Nodes)),
		Edges: append([]Edge(nil), l.Edges...),
	}
	for i, p := range l.Nodes {
		g.Nodes[i] = Node{ID: p.ID, Label: p.Label, Anchor: p.Anchor, Meta: p.Meta}
		g.Nodes[i].At(p.X, p.Y)
	}
	return g
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that its
// edges only reference listed nodes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Graph().Validate(); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid layout")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := openFile(path)
	if err != nil {
		return Layout{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
