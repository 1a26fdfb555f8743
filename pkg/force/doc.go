// Package force implements a force-directed 2D layout simulation.
//
// # Overview
//
// An [Engine] holds a graph of point masses joined by undirected edges and
// advances their positions one time step per [Engine.Update] call. Edges act
// as springs, every pair of nodes interacts through a banded pair force, and
// stable nodes that sit on an edge crossing are nudged off it. The engine
// never measures time itself: the caller passes the elapsed time of each
// frame, typically once per rendered frame.
//
// # Basic Usage
//
//	e := force.New[string, struct{}](force.DefaultParameters())
//	a := e.AddNode(force.NodeData[string]{X: 0, Y: 0, UserData: "a"})
//	b := e.AddNode(force.NodeData[string]{X: 100, Y: 0, UserData: "b"})
//	e.AddEdge(a, b, struct{}{})
//
//	for range 1000 {
//	    e.Update(0.016)
//	}
//	e.VisitNodes(func(n force.Node[string]) {
//	    fmt.Println(n.UserData, n.X, n.Y)
//	})
//
// # Forces
//
// [Attraction] pulls a node toward each neighbor with a strength proportional
// to their distance. [PairForce] acts between every pair of nodes in three
// bands around [Parameters.IdealDistance]:
//
//   - closer than NearFactor·IdealDistance: the pair pushes apart
//   - farther than FarFactor·IdealDistance: neighbors pull together
//   - in between: no force
//
// Clearing NeighborAware replaces the bands with plain inverse-square
// [Repulsion]. Each force component is clamped to ±ForceMax and multiplied
// by dt as it is accumulated.
//
// # Step Algorithm
//
// Update walks the active nodes in [Engine.NodeIDs] order. For each node it
// first checks escape: a stable, unanchored node with a local edge crossing
// farther than MinDistance away receives an [EscapeForce], is integrated,
// and the step ends there. Otherwise the node gathers attraction from its
// neighbors and pair forces against every later node, the partner receiving
// the opposite force, and is integrated:
//
//	v = (v + a·dt·NodeSpeed)·DampingFactor
//	x = x + v·dt
//
// When a pair is closer than MinDistance the pair pass stops, the node is
// integrated, the step ends, and after all accumulators are cleared that node
// is displaced by MinDistance in a random direction (a bounce). Only one
// escape or bounce happens per step, so a tangled graph is resolved one
// problem per frame.
//
// Anchored nodes exert forces but never receive them. They move only when
// the caller repositions them through [Engine.VisitNodesMut].
//
// # Intersections
//
// [SegmentIntersection] solves the crossing of two segments.
// [Engine.VisitIntersections] reports crossings between all edges that share
// no endpoint; [Engine.VisitNeighborIntersections] reports the crossings of
// one node's edges against the rest of the graph.
//
// # Errors
//
// Structural errors from the arena ([arena.ErrUnknownNode],
// [arena.ErrUnknownEdge], [arena.ErrSelfLoop]) are returned as is.
// Geometric degeneracies are never errors: parallel segments do not cross
// and coincident nodes bounce. A force or position that becomes NaN or
// infinite is a fault in the numbers fed to the engine; Update panics with an
// [errors.Error] carrying [errors.ErrCodeNumericalFault] rather than storing
// it.
//
// # Concurrency
//
// Engine is single threaded and synchronous. Serialize Update and
// VisitNodesMut calls; read-only visitors may interleave with each other.
package force
