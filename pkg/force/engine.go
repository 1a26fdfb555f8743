package force

import (
	"io"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/vec"
)

// Rand is the random source the engine draws bounce offsets from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float32() float32
}

// Options configures an [Engine] beyond its [Parameters].
type Options struct {
	// Logger receives debug events for bounces and escapes and a warning
	// when invalid parameters are replaced. Nil discards everything.
	Logger *log.Logger

	// Rand drives the bounce offsets. Nil uses a PCG source seeded with Seed.
	Rand Rand

	// Seed seeds the default random source.
	Seed uint64
}

// Engine simulates a graph of nodes of payload N joined by edges of
// payload E. See the package documentation for the step algorithm.
//
// An Engine is not safe for concurrent use. Calls to [Engine.Update] and the
// mutating methods must be serialized by the caller; read-only visitors may
// run concurrently with each other but not with an update.
type Engine[N, E any] struct {
	graph  *arena.Graph[Node[N], E]
	params Parameters
	active []arena.NodeID
	rng    Rand
	logger *log.Logger
	ws     segmentWorkspace
	last   StepStats
}

// New returns an empty engine using params.
func New[N, E any](params Parameters) *Engine[N, E] {
	return NewWithOptions[N, E](params, Options{})
}

// NewWithOptions returns an empty engine using params and opts.
//
// Invalid parameters are not rejected: each offending field is replaced by a
// safe value (see [Parameters.Sanitized]) and a warning is logged. Callers
// that prefer to fail should call [Parameters.Validate] first.
func NewWithOptions[N, E any](params Parameters, opts Options) *Engine[N, E] {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	}
	e := &Engine[N, E]{
		graph:  arena.New[Node[N], E](),
		rng:    rng,
		logger: logger,
	}
	e.SetParameters(params)
	return e
}

// Parameters returns the parameters in effect.
func (e *Engine[N, E]) Parameters() Parameters { return e.params }

// SetParameters replaces the parameters, sanitizing invalid fields the same
// way [NewWithOptions] does. It must not be called during an update.
func (e *Engine[N, E]) SetParameters(p Parameters) {
	p, fixed := p.Sanitized()
	if len(fixed) > 0 {
		e.logger.Warn("replaced invalid simulation parameters", "fields", fixed)
	}
	e.params = p
}

// AddNode registers a node and returns its identifier. A node without a
// usable Mass gets [Parameters.DefaultMass].
func (e *Engine[N, E]) AddNode(data NodeData[N]) arena.NodeID {
	if !(data.Mass > 0) || math.IsInf(float64(data.Mass), 1) {
		data.Mass = e.params.DefaultMass
	}
	id := e.graph.AddNode(Node[N]{NodeData: data})
	n, _ := e.graph.Node(id)
	n.id = id

	i, _ := slices.BinarySearchFunc(e.active, id, arena.NodeID.Compare)
	e.active = slices.Insert(e.active, i, id)
	return id
}

// RemoveNode removes the node and every edge touching it.
// Returns [arena.ErrUnknownNode] for a stale or unknown id.
func (e *Engine[N, E]) RemoveNode(id arena.NodeID) error {
	if err := e.graph.RemoveNode(id); err != nil {
		return err
	}
	if i, ok := slices.BinarySearchFunc(e.active, id, arena.NodeID.Compare); ok {
		e.active = slices.Delete(e.active, i, i+1)
	}
	return nil
}

// AddEdge joins a and b. Adding an edge between already joined nodes
// replaces its payload and returns the existing identifier. Errors from the
// graph (unknown node, self loop) are returned unchanged.
func (e *Engine[N, E]) AddEdge(a, b arena.NodeID, data E) (arena.EdgeID, error) {
	return e.graph.AddEdge(a, b, data)
}

// RemoveEdge removes an edge and leaves its endpoints in place.
func (e *Engine[N, E]) RemoveEdge(id arena.EdgeID) error {
	return e.graph.RemoveEdge(id)
}

// Node returns a copy of the node with the given id.
func (e *Engine[N, E]) Node(id arena.NodeID) (Node[N], bool) {
	n, ok := e.graph.Node(id)
	if !ok {
		return Node[N]{}, false
	}
	return *n, true
}

// Neighbors returns the nodes joined to id by an edge.
func (e *Engine[N, E]) Neighbors(id arena.NodeID) []arena.NodeID {
	return e.graph.Neighbors(id)
}

// NodeCount returns the number of nodes.
func (e *Engine[N, E]) NodeCount() int { return e.graph.NodeCount() }

// EdgeCount returns the number of edges.
func (e *Engine[N, E]) EdgeCount() int { return e.graph.EdgeCount() }

// NodeIDs returns the active node set in iteration order. It always equals
// the live node ids of [Engine.Graph].
func (e *Engine[N, E]) NodeIDs() []arena.NodeID { return slices.Clone(e.active) }

// Graph exposes the underlying arena for read access. Adding or removing
// nodes through it bypasses the active set and is not supported.
func (e *Engine[N, E]) Graph() *arena.Graph[Node[N], E] { return e.graph }

// LastStep returns what happened during the most recent update.
func (e *Engine[N, E]) LastStep() StepStats { return e.last }

// MaxSpeed returns the largest speed of any non-anchored node.
func (e *Engine[N, E]) MaxSpeed() float32 {
	var top float32
	e.graph.VisitNodes(func(_ arena.NodeID, n *Node[N]) {
		if !n.IsAnchor {
			top = max(top, n.Speed())
		}
	})
	return top
}

// KineticEnergy returns the sum of ½·m·v² over non-anchored nodes.
func (e *Engine[N, E]) KineticEnergy() float64 {
	var sum float64
	e.graph.VisitNodes(func(_ arena.NodeID, n *Node[N]) {
		if !n.IsAnchor {
			sum += 0.5 * float64(n.Mass) * float64(n.Velocity().LenSq())
		}
	})
	return sum
}

// =============================================================================
// Visitors
// =============================================================================

// VisitNodes calls fn with a copy of every node in iteration order.
func (e *Engine[N, E]) VisitNodes(fn func(n Node[N])) {
	e.graph.VisitNodes(func(_ arena.NodeID, n *Node[N]) { fn(*n) })
}

// VisitNodesMut calls fn with each node for in-place modification, typically
// to drag a node. fn must not add or remove nodes or edges.
func (e *Engine[N, E]) VisitNodesMut(fn func(n *Node[N])) {
	e.graph.VisitNodes(func(_ arena.NodeID, n *Node[N]) { fn(n) })
}

// VisitEdges calls fn for every edge with copies of both endpoints and the
// edge payload.
func (e *Engine[N, E]) VisitEdges(fn func(a, b Node[N], data E)) {
	e.graph.VisitEdges(func(_ arena.EdgeID, _, _ arena.NodeID, na, nb *Node[N], data *E) {
		fn(*na, *nb, *data)
	})
}

// VisitIntersections calls fn for every crossing between two edges that do
// not share an endpoint.
func (e *Engine[N, E]) VisitIntersections(fn func(Intersection)) {
	globalIntersections(e.segments(), func(x Intersection) bool {
		fn(x)
		return true
	})
}

// VisitNeighborIntersections calls fn for every crossing between an edge
// incident to id and an edge not touching id.
// Returns [arena.ErrUnknownNode] if id is not live.
func (e *Engine[N, E]) VisitNeighborIntersections(id arena.NodeID, fn func(Intersection)) error {
	if !e.graph.Contains(id) {
		return arena.ErrUnknownNode
	}
	e.segments()
	localIntersections(&e.ws, id, func(x Intersection) bool {
		fn(x)
		return true
	})
	return nil
}

// segments refreshes the workspace with the current edge positions.
func (e *Engine[N, E]) segments() []segment {
	e.ws.all = e.ws.all[:0]
	e.graph.VisitEdges(func(_ arena.EdgeID, a, b arena.NodeID, na, nb *Node[N], _ *E) {
		e.ws.all = append(e.ws.all, segment{
			key: EdgeKey{From: a, To: b},
			p:   na.Position(),
			q:   nb.Position(),
		})
	})
	return e.ws.all
}

// node resolves an id from the active set.
func (e *Engine[N, E]) node(id arena.NodeID) *Node[N] {
	n, _ := e.graph.Node(id)
	return n
}

// apply clamps f per component, scales it by dt and accumulates it on n.
func (e *Engine[N, E]) apply(n *Node[N], f vec.Vector2, dt float32) {
	f = f.Clamp(e.params.ForceMax).Scale(dt)
	n.ax += f.X
	n.ay += f.Y
}
