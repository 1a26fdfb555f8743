package force

import (
	"math"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/vec"
)

// Body is the part of a node the force functions read.
type Body struct {
	Pos  vec.Vector2
	Mass float32
}

// Attraction returns the spring force a neighbor b exerts on a.
//
// The force points from a toward b with strength ForceSpring·d·0.5, where d
// is the raw distance. It never vanishes at the ideal distance; the banded
// pair force and damping bring a connected pair to rest. Coincident bodies
// have no direction and receive a zero force.
func Attraction(a, b Body, p Parameters) vec.Vector2 {
	dir, dist := direction(a, b)
	return checked("attraction", dir.Scale(p.ForceSpring*dist*0.5), a, b)
}

// Repulsion returns the inverse-square force b exerts on a, pointing away
// from b with strength ForceCharge·ma·mb/d².
func Repulsion(a, b Body, p Parameters) vec.Vector2 {
	dir, dist := direction(a, b)
	s := -p.ForceCharge * a.Mass * b.Mass / (dist * dist)
	return checked("repulsion", dir.Scale(s), a, b)
}

// PairForce returns the force b exerts on a during the pairwise pass.
// adjacent reports whether an edge joins the two nodes.
//
// With NeighborAware set, the force has three bands around IdealDistance.
// Closer than NearDistance the pair pushes apart, more strongly the closer it
// is. Farther than FarDistance, adjacent pairs pull together; non-adjacent
// pairs feel nothing. Between the two bands the force is zero, and each band
// is zero at its own boundary so the transition is continuous.
//
// Without NeighborAware this is [Repulsion].
func PairForce(a, b Body, adjacent bool, p Parameters) vec.Vector2 {
	if !p.NeighborAware {
		return Repulsion(a, b, p)
	}

	dir, dist := direction(a, b)
	c := p.ForceCharge * a.Mass * b.Mass
	r := max(dist, p.MinDistance)
	k := p.DistanceFactor

	var s float32
	switch near, far := p.NearDistance(), p.FarDistance(); {
	case dist < near:
		s = -c * (pow(r, k) - pow(near, k))
	case adjacent && dist > far:
		s = c * (pow(far, k) - pow(r, k))
	default:
		return vec.Zero
	}
	return checked("pair force", dir.Scale(s), a, b)
}

// EscapeForce returns the impulse pushing a away from an edge crossing at
// point: repulsion from a phantom body of equal mass sitting on the crossing,
// scaled by EscapeIntensity.
func EscapeForce(a Body, point vec.Vector2, p Parameters) vec.Vector2 {
	f := Repulsion(a, Body{Pos: point, Mass: a.Mass}, p)
	return checked("escape", f.Scale(p.EscapeIntensity), a, point)
}

// direction returns the unit vector from a to b and their distance, with a
// zero distance replaced by 1.
func direction(a, b Body) (vec.Vector2, float32) {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	if dist == 0 {
		return vec.Zero, 1
	}
	return d.Scale(1 / dist), dist
}

func pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// checked panics with a NUMERICAL_FAULT error when v is not finite.
func checked(op string, v vec.Vector2, operands ...any) vec.Vector2 {
	if !v.IsFinite() {
		panic(errors.Fault(op, operands...))
	}
	return v
}
