// Package arena provides the generic node/edge store that backs the force
// simulation.
//
// # Overview
//
// A [Graph] keeps node and edge payloads in slot arenas addressed by
// generation-checked identifiers ([NodeID], [EdgeID]). Removing a node or
// edge frees its slot for reuse and bumps the slot generation, so an
// identifier held after removal never resolves to a different node. The
// engine in package force relies on this to keep its active node set free
// of stale entries.
//
// # Basic Usage
//
//	g := arena.New[string, float64]()
//	a := g.AddNode("a")
//	b := g.AddNode("b")
//	e, err := g.AddEdge(a, b, 1.0)
//
// Edges are undirected. At most one edge connects a pair of nodes; calling
// [Graph.AddEdge] again for the same pair updates the existing edge's payload.
//
// # Traversal
//
// [Graph.NodeIDs], [Graph.EdgeIDs], [Graph.VisitNodes] and [Graph.VisitEdges]
// enumerate in ascending slot order, which is stable between mutations.
// [Graph.Neighbors] and [Graph.IncidentEdges] report edges in insertion order.
//
// # Errors
//
// Operations that reference a node or edge return [ErrUnknownNode] or
// [ErrUnknownEdge] when the identifier is stale or foreign. [Graph.AddEdge]
// returns [ErrSelfLoop] for a == b.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Concurrent read-only traversal
// is safe as long as no goroutine mutates the graph at the same time.
package arena
