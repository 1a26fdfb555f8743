package force

import (
	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/vec"
)

// NodeData is the caller-owned part of a node: where it is, how heavy it is,
// whether forces may move it, and an opaque payload the engine never reads.
type NodeData[N any] struct {
	X, Y float32
	// Mass scales how strongly forces move the node. Zero, and any other
	// value that is not a positive finite number, means
	// [Parameters.DefaultMass]: AddNode stores the default in its place.
	Mass     float32
	IsAnchor bool
	UserData N
}

// Node is a simulated node: [NodeData] plus velocity, accumulated
// acceleration and the identifier assigned at insertion.
//
// The embedded NodeData fields may be written through [Engine.VisitNodesMut]
// between updates, which is how a renderer drags a node.
type Node[N any] struct {
	NodeData[N]

	id     arena.NodeID
	vx, vy float32
	ax, ay float32
}

// ID returns the identifier the node was registered under.
func (n *Node[N]) ID() arena.NodeID { return n.id }

// Position returns the node position.
func (n *Node[N]) Position() vec.Vector2 { return vec.New(n.X, n.Y) }

// Velocity returns the node velocity.
func (n *Node[N]) Velocity() vec.Vector2 { return vec.New(n.vx, n.vy) }

// Acceleration returns the force accumulated so far in the current step.
// Outside [Engine.Update] it is always zero.
func (n *Node[N]) Acceleration() vec.Vector2 { return vec.New(n.ax, n.ay) }

// Speed returns the velocity magnitude.
func (n *Node[N]) Speed() float32 { return n.Velocity().Len() }

// Stable reports whether both velocity components are within threshold of zero.
func (n *Node[N]) Stable(threshold float32) bool {
	return abs(n.vx) <= threshold && abs(n.vy) <= threshold
}

// MoveTo places the node at (x, y) and stops it. Renderers call this while
// dragging so the node does not keep its pre-drag momentum.
func (n *Node[N]) MoveTo(x, y float32) {
	n.X, n.Y = x, y
	n.Halt()
}

// Halt zeroes the velocity.
func (n *Node[N]) Halt() {
	n.vx, n.vy = 0, 0
}

func (n *Node[N]) body() Body {
	return Body{Pos: n.Position(), Mass: n.Mass}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
