package graph

import (
	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/placement"
	"github.com/matzehuels/forcegraph/pkg/vec"
)

// Engine is the engine a graph document loads into: each node carries its
// document id as payload and edges carry nothing.
type Engine = force.Engine[string, struct{}]

// NewEngine returns an empty [Engine].
func NewEngine(params force.Parameters, opts force.Options) *Engine {
	return force.NewWithOptions[string, struct{}](params, opts)
}

// IDMap maps document node ids to engine node ids.
type IDMap map[string]arena.NodeID

// LoadOptions controls how unpositioned nodes are placed by [Load].
type LoadOptions struct {
	// Seed selects the placement noise.
	Seed int64

	// Spacing between placed nodes. Zero uses the engine's ideal distance.
	Spacing float32
}

// Load validates g and adds its nodes and edges to e.
//
// Nodes without coordinates are scattered around the centroid of the
// positioned ones (or the origin when none are positioned).
func Load(e *Engine, g Graph, opts LoadOptions) (IDMap, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var (
		missing  int
		centroid vec.Vector2
		placed   int
	)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.Positioned() {
			missing++
			continue
		}
		centroid = centroid.Add(vec.New(float32(*n.X), float32(*n.Y)))
		placed++
	}
	if placed > 0 {
		centroid = centroid.Scale(1 / float32(placed))
	}

	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = e.Parameters().IdealDistance
	}
	scatter := placement.Scatter(missing, placement.Options{
		Seed:    opts.Seed,
		Spacing: spacing,
		Center:  centroid,
	})

	ids := make(IDMap, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		var pos vec.Vector2
		if n.Positioned() {
			pos = vec.New(float32(*n.X), float32(*n.Y))
		} else {
			pos, scatter = scatter[0], scatter[1:]
		}
		ids[n.ID] = e.AddNode(force.NodeData[string]{
			X:        pos.X,
			Y:        pos.Y,
			Mass:     float32(n.Mass),
			IsAnchor: n.Anchor,
			UserData: n.ID,
		})
	}

	for _, ed := range g.Edges {
		if _, err := e.AddEdge(ids[ed.From], ids[ed.To], struct{}{}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "add edge %s-%s", ed.From, ed.To)
		}
	}
	return ids, nil
}

// Snapshot captures the current state of e as a [Layout]. Nodes and edges
// keep the order of g; node labels and metadata come from g. Run fields
// (RunID, Steps, Converged) are left for the caller.
func Snapshot(e *Engine, g Graph, ids IDMap) Layout {
	l := Layout{
		Name:       g.Name,
		MaxSpeed:   float64(e.MaxSpeed()),
		Parameters: e.Parameters(),
		Nodes:      make([]Position, 0, len(g.Nodes)),
		Edges:      append([]Edge(nil), g.Edges...),
		Crossings:  Crossings(e),
	}
	for _, n := range g.Nodes {
		sn, ok := e.Node(ids[n.ID])
		if !ok {
			continue
		}
		l.Nodes = append(l.Nodes, Position{
			ID:     n.ID,
			Label:  n.Label,
			X:      float64(sn.X),
			Y:      float64(sn.Y),
			Anchor: n.Anchor,
			Meta:   n.Meta,
		})
	}
	return l
}

// Crossings lists every edge crossing in e, naming edges by document ids.
func Crossings(e *Engine) []Crossing {
	name := func(id arena.NodeID) string {
		n, _ := e.Node(id)
		return n.UserData
	}
	var out []Crossing
	e.VisitIntersections(func(x force.Intersection) {
		out = append(out, Crossing{
			X: float64(x.X),
			Y: float64(x.Y),
			A: [2]string{name(x.A.From), name(x.A.To)},
			B: [2]string{name(x.B.From), name(x.B.To)},
		})
	})
	return out
}

// Intersections loads g into a fresh engine with default parameters and
// returns the crossings of its edges without simulating.
func Intersections(g Graph, opts LoadOptions) ([]Crossing, error) {
	e := NewEngine(force.DefaultParameters(), force.Options{})
	if _, err := Load(e, g, opts); err != nil {
		return nil, err
	}
	return Crossings(e), nil
}
