package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned when a [NodeID] does not resolve to a live
	// node, either because it was never issued by this graph or because the
	// node has since been removed.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned when an [EdgeID] does not resolve to a live edge.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. Edges are undirected segments between two distinct nodes.
	ErrSelfLoop = errors.New("edge endpoints must differ")
)

// NodeID identifies a node slot and the generation it was issued in.
// A NodeID held after its node was removed never resolves again, even when
// the slot is reused. The zero value is never issued.
type NodeID struct {
	index uint32
	gen   uint32
}

// Index returns the slot index. Live nodes have distinct indices.
func (id NodeID) Index() int { return int(id.index) }

// IsZero reports whether id is the zero value.
func (id NodeID) IsZero() bool { return id.gen == 0 }

// String formats the id as "n<index>v<generation>".
func (id NodeID) String() string { return fmt.Sprintf("n%dv%d", id.index, id.gen) }

// Compare orders ids by slot index, then generation.
func (id NodeID) Compare(o NodeID) int {
	switch {
	case id.index < o.index:
		return -1
	case id.index > o.index:
		return 1
	case id.gen < o.gen:
		return -1
	case id.gen > o.gen:
		return 1
	}
	return 0
}

// EdgeID identifies an edge slot and the generation it was issued in.
type EdgeID struct {
	index uint32
	gen   uint32
}

// Index returns the slot index. Live edges have distinct indices.
func (id EdgeID) Index() int { return int(id.index) }

// IsZero reports whether id is the zero value.
func (id EdgeID) IsZero() bool { return id.gen == 0 }

// String formats the id as "e<index>v<generation>".
func (id EdgeID) String() string { return fmt.Sprintf("e%dv%d", id.index, id.gen) }

type nodeSlot[N any] struct {
	gen   uint32
	live  bool
	data  N
	edges []EdgeID          // incident edges in insertion order
	nbrs  map[NodeID]EdgeID // neighbor -> connecting edge
}

type edgeSlot[E any] struct {
	gen  uint32
	live bool
	a, b NodeID
	data E
}

// Graph is an undirected graph that stores node payloads of type N and edge
// payloads of type E in slot arenas. Slots freed by removal are reused, and
// every reuse bumps the slot generation so stale identifiers are rejected.
//
// At most one edge connects any pair of nodes: adding an edge between two
// already connected nodes replaces the payload of the existing edge.
//
// The zero value is an empty graph ready to use. Graph is not safe for
// concurrent use without external synchronization.
type Graph[N, E any] struct {
	nodes     []nodeSlot[N]
	edges     []edgeSlot[E]
	freeNodes []uint32
	freeEdges []uint32
	nodeCount int
	edgeCount int
}

// New returns an empty graph.
func New[N, E any]() *Graph[N, E] { return &Graph[N, E]{} }

// AddNode stores data in a new node and returns its identifier.
func (g *Graph[N, E]) AddNode(data N) NodeID {
	var idx uint32
	if n := len(g.freeNodes); n > 0 {
		idx = g.freeNodes[n-1]
		g.freeNodes = g.freeNodes[:n-1]
	} else {
		idx = uint32(len(g.nodes))
		g.nodes = append(g.nodes, nodeSlot[N]{})
	}
	s := &g.nodes[idx]
	s.gen++
	s.live = true
	s.data = data
	s.edges = nil
	s.nbrs = make(map[NodeID]EdgeID)
	g.nodeCount++
	return NodeID{index: idx, gen: s.gen}
}

// RemoveNode removes the node and every edge incident to it.
// Returns ErrUnknownNode if id does not resolve to a live node.
func (g *Graph[N, E]) RemoveNode(id NodeID) error {
	s, ok := g.nodeSlot(id)
	if !ok {
		return ErrUnknownNode
	}
	for _, eid := range append([]EdgeID(nil), s.edges...) {
		_ = g.RemoveEdge(eid)
	}
	var zero N
	s.data = zero
	s.live = false
	s.edges = nil
	s.nbrs = nil
	g.freeNodes = append(g.freeNodes, id.index)
	g.nodeCount--
	return nil
}

// AddEdge connects a and b and returns the edge identifier.
// If a and b are already connected, the existing edge keeps its identifier
// and its payload is replaced by data.
//
// Returns ErrUnknownNode if either endpoint is not live, or ErrSelfLoop if
// a == b.
func (g *Graph[N, E]) AddEdge(a, b NodeID, data E) (EdgeID, error) {
	sa, ok := g.nodeSlot(a)
	if !ok {
		return EdgeID{}, fmt.Errorf("edge source %s: %w", a, ErrUnknownNode)
	}
	sb, ok := g.nodeSlot(b)
	if !ok {
		return EdgeID{}, fmt.Errorf("edge target %s: %w", b, ErrUnknownNode)
	}
	if a == b {
		return EdgeID{}, ErrSelfLoop
	}
	if eid, exists := sa.nbrs[b]; exists {
		g.edges[eid.index].data = data
		return eid, nil
	}

	var idx uint32
	if n := len(g.freeEdges); n > 0 {
		idx = g.freeEdges[n-1]
		g.freeEdges = g.freeEdges[:n-1]
	} else {
		idx = uint32(len(g.edges))
		g.edges = append(g.edges, edgeSlot[E]{})
	}
	es := &g.edges[idx]
	es.gen++
	es.live = true
	es.a, es.b = a, b
	es.data = data
	eid := EdgeID{index: idx, gen: es.gen}

	sa.edges = append(sa.edges, eid)
	sb.edges = append(sb.edges, eid)
	sa.nbrs[b] = eid
	sb.nbrs[a] = eid
	g.edgeCount++
	return eid, nil
}

// RemoveEdge removes the edge. Both endpoint nodes are left intact.
// Returns ErrUnknownEdge if id does not resolve to a live edge.
func (g *Graph[N, E]) RemoveEdge(id EdgeID) error {
	es, ok := g.edgeSlot(id)
	if !ok {
		return ErrUnknownEdge
	}
	for _, end := range [2]NodeID{es.a, es.b} {
		s := &g.nodes[end.index]
		s.edges = deleteEdge(s.edges, id)
	}
	delete(g.nodes[es.a.index].nbrs, es.b)
	delete(g.nodes[es.b.index].nbrs, es.a)

	var zero E
	es.data = zero
	es.live = false
	g.freeEdges = append(g.freeEdges, id.index)
	g.edgeCount--
	return nil
}

// Node returns a pointer to the payload of a live node.
// The pointer is valid until the next AddNode call, which may grow the arena.
func (g *Graph[N, E]) Node(id NodeID) (*N, bool) {
	s, ok := g.nodeSlot(id)
	if !ok {
		return nil, false
	}
	return &s.data, true
}

// Edge returns the endpoints and a pointer to the payload of a live edge.
// Endpoints are reported in the order they were passed to AddEdge.
func (g *Graph[N, E]) Edge(id EdgeID) (a, b NodeID, data *E, ok bool) {
	es, ok := g.edgeSlot(id)
	if !ok {
		return NodeID{}, NodeID{}, nil, false
	}
	return es.a, es.b, &es.data, true
}

// Contains reports whether id resolves to a live node.
func (g *Graph[N, E]) Contains(id NodeID) bool {
	_, ok := g.nodeSlot(id)
	return ok
}

// Adjacent reports whether an edge connects a and b.
func (g *Graph[N, E]) Adjacent(a, b NodeID) bool {
	s, ok := g.nodeSlot(a)
	if !ok {
		return false
	}
	_, ok = s.nbrs[b]
	return ok
}

// EdgeBetween returns the edge connecting a and b, if any.
func (g *Graph[N, E]) EdgeBetween(a, b NodeID) (EdgeID, bool) {
	s, ok := g.nodeSlot(a)
	if !ok {
		return EdgeID{}, false
	}
	eid, ok := s.nbrs[b]
	return eid, ok
}

// Neighbors returns the nodes connected to id, in edge insertion order.
// Returns nil for an unknown node.
func (g *Graph[N, E]) Neighbors(id NodeID) []NodeID {
	s, ok := g.nodeSlot(id)
	if !ok {
		return nil
	}
	out := make([]NodeID, 0, len(s.edges))
	for _, eid := range s.edges {
		es := &g.edges[eid.index]
		if es.a == id {
			out = append(out, es.b)
		} else {
			out = append(out, es.a)
		}
	}
	return out
}

// IncidentEdges returns the edges touching id, in insertion order.
// The returned slice is a copy.
func (g *Graph[N, E]) IncidentEdges(id NodeID) []EdgeID {
	s, ok := g.nodeSlot(id)
	if !ok {
		return nil
	}
	return append([]EdgeID(nil), s.edges...)
}

// Degree returns the number of edges touching id, or 0 for an unknown node.
func (g *Graph[N, E]) Degree(id NodeID) int {
	s, ok := g.nodeSlot(id)
	if !ok {
		return 0
	}
	return len(s.edges)
}

// NodeIDs returns the identifiers of all live nodes in ascending slot order.
func (g *Graph[N, E]) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, g.nodeCount)
	for i := range g.nodes {
		if s := &g.nodes[i]; s.live {
			ids = append(ids, NodeID{index: uint32(i), gen: s.gen})
		}
	}
	return ids
}

// EdgeIDs returns the identifiers of all live edges in ascending slot order.
func (g *Graph[N, E]) EdgeIDs() []EdgeID {
	ids := make([]EdgeID, 0, g.edgeCount)
	for i := range g.edges {
		if es := &g.edges[i]; es.live {
			ids = append(ids, EdgeID{index: uint32(i), gen: es.gen})
		}
	}
	return ids
}

// VisitNodes calls fn for every live node in ascending slot order.
// fn may modify the payload through the pointer but must not add or remove
// nodes or edges.
func (g *Graph[N, E]) VisitNodes(fn func(id NodeID, data *N)) {
	for i := range g.nodes {
		if s := &g.nodes[i]; s.live {
			fn(NodeID{index: uint32(i), gen: s.gen}, &s.data)
		}
	}
}

// VisitEdges calls fn for every live edge in ascending slot order with the
// endpoint identifiers and payloads.
func (g *Graph[N, E]) VisitEdges(fn func(id EdgeID, a, b NodeID, na, nb *N, data *E)) {
	for i := range g.edges {
		es := &g.edges[i]
		if !es.live {
			continue
		}
		fn(EdgeID{index: uint32(i), gen: es.gen}, es.a, es.b,
			&g.nodes[es.a.index].data, &g.nodes[es.b.index].data, &es.data)
	}
}

// NodeCount returns the number of live nodes.
func (g *Graph[N, E]) NodeCount() int { return g.nodeCount }

// EdgeCount returns the number of live edges.
func (g *Graph[N, E]) EdgeCount() int { return g.edgeCount }

func (g *Graph[N, E]) nodeSlot(id NodeID) (*nodeSlot[N], bool) {
	if id.gen == 0 || int(id.index) >= len(g.nodes) {
		return nil, false
	}
	s := &g.nodes[id.index]
	if !s.live || s.gen != id.gen {
		return nil, false
	}
	return s, true
}

func (g *Graph[N, E]) edgeSlot(id EdgeID) (*edgeSlot[E], bool) {
	if id.gen == 0 || int(id.index) >= len(g.edges) {
		return nil, false
	}
	es := &g.edges[id.index]
	if !es.live || es.gen != id.gen {
		return nil, false
	}
	return es, true
}

func deleteEdge(edges []EdgeID, id EdgeID) []EdgeID {
	for i, e := range edges {
		if e == id {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}
