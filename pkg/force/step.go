package force

import (
	"math"

	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/vec"
)

// StepStats describes the most recent [Engine.Update].
type StepStats struct {
	// Integrated is the number of nodes whose position was advanced.
	Integrated int

	// Bounced is set when two nodes came within MinDistance; BounceNode is
	// the node that was displaced.
	Bounced    bool
	BounceNode arena.NodeID

	// Escaped is set when a stable node was pushed off an edge crossing;
	// EscapeNode is that node.
	Escaped    bool
	EscapeNode arena.NodeID
}

// Update advances the simulation by dt seconds.
//
// A dt of zero or less, or an empty engine, leaves every node untouched.
// A non-finite dt, or any force or position that turns non-finite, panics
// with a NUMERICAL_FAULT [errors.Error].
func (e *Engine[N, E]) Update(dt float32) {
	if !finite(dt) {
		panic(errors.Fault("update", dt))
	}
	e.last = StepStats{}
	if dt <= 0 || len(e.active) == 0 {
		return
	}

	p := e.params
	var bounce *Node[N]

	for i, id := range e.active {
		n1 := e.node(id)

		if p.EscapeEnabled && !n1.IsAnchor && n1.Stable(p.StableVelocity) && e.escape(n1, dt) {
			break
		}

		if !n1.IsAnchor {
			for _, nb := range e.graph.Neighbors(id) {
				e.apply(n1, Attraction(n1.body(), e.node(nb).body(), p), dt)
			}
		}

		for _, id2 := range e.active[i+1:] {
			n2 := e.node(id2)
			if n1.IsAnchor && n2.IsAnchor {
				continue
			}
			if n1.Position().Dist(n2.Position()) < p.MinDistance {
				bounce = n1
				if n1.IsAnchor {
					bounce = n2
				}
				break
			}
			f := PairForce(n1.body(), n2.body(), e.graph.Adjacent(id, id2), p)
			if !n1.IsAnchor {
				e.apply(n1, f, dt)
			}
			if !n2.IsAnchor {
				e.apply(n2, f.Neg(), dt)
			}
		}

		if !n1.IsAnchor {
			e.integrate(n1, dt)
		}
		if bounce != nil {
			break
		}
	}

	e.graph.VisitNodes(func(_ arena.NodeID, n *Node[N]) {
		n.ax, n.ay = 0, 0
	})

	if bounce != nil {
		e.bounce(bounce)
	}
	observability.Simulation().OnStep(len(e.active), e.last.Integrated)
}

// escape looks for the first crossing near n that n is not already sitting
// on, and pushes n away from it. It reports whether a push happened, in which
// case the step ends.
func (e *Engine[N, E]) escape(n *Node[N], dt float32) bool {
	if e.graph.Degree(n.id) == 0 {
		return false
	}
	p := e.params
	pos := n.Position()

	var hit *Intersection
	e.segments()
	localIntersections(&e.ws, n.id, func(x Intersection) bool {
		if pos.Dist(x.Point()) > p.MinDistance {
			hit = &x
			return false
		}
		return true
	})
	if hit == nil {
		return false
	}

	// The push replaces whatever earlier nodes accumulated on n this step.
	n.ax, n.ay = 0, 0
	e.apply(n, EscapeForce(n.body(), hit.Point(), p), dt)
	e.integrate(n, dt)

	e.last.Escaped = true
	e.last.EscapeNode = n.id
	e.logger.Debug("escape", "node", n.id, "x", hit.X, "y", hit.Y)
	observability.Simulation().OnEscape(n.id.String(), hit.X, hit.Y)
	return true
}

// integrate advances n by one step and clears its accumulator:
//
//	v = (v + a·dt·NodeSpeed)·DampingFactor
//	x = x + v·dt
func (e *Engine[N, E]) integrate(n *Node[N], dt float32) {
	p := e.params
	v := n.Velocity().Add(n.Acceleration().Scale(dt * p.NodeSpeed)).Scale(p.DampingFactor)
	pos := n.Position().Add(v.Scale(dt))
	if !v.IsFinite() || !pos.IsFinite() {
		panic(errors.Fault("integrate", n.id, n.Position(), n.Velocity(), n.Acceleration()))
	}
	n.vx, n.vy = v.X, v.Y
	n.X, n.Y = pos.X, pos.Y
	n.ax, n.ay = 0, 0
	e.last.Integrated++
}

// bounce moves n by MinDistance along a random direction in the first
// quadrant: x by r·d and y by sqrt(1-r²)·d for one draw r in [0, 1).
func (e *Engine[N, E]) bounce(n *Node[N]) {
	d := e.params.MinDistance
	r := e.rng.Float32()
	off := vec.New(r*d, float32(math.Sqrt(float64(1-r*r)))*d)
	n.X += off.X
	n.Y += off.Y

	e.last.Bounced = true
	e.last.BounceNode = n.id
	e.logger.Debug("bounce", "node", n.id, "dx", off.X, "dy", off.Y)
	observability.Simulation().OnBounce(n.id.String())
}
