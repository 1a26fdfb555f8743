// Package vec provides the small 2D vector value type used by the force
// simulation.
//
// Components are float32 to match the precision renderers typically draw
// with. All operations return new values; a [Vector2] has no identity.
package vec

import (
	"fmt"
	"math"
)

// Vector2 is a 2D vector or point.
type Vector2 struct {
	X float32
	Y float32
}

// Zero is the zero vector.
var Zero = Vector2{}

// New returns the vector (x, y).
func New(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 { return Vector2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vector2) Scale(s float32) Vector2 { return Vector2{X: v.X * s, Y: v.Y * s} }

// Neg returns -v.
func (v Vector2) Neg() Vector2 { return Vector2{X: -v.X, Y: -v.Y} }

// Dot returns the dot product of v and o.
func (v Vector2) Dot(o Vector2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector2) Cross(o Vector2) float32 { return v.X*o.Y - v.Y*o.X }

// LenSq returns the squared magnitude of v.
func (v Vector2) LenSq() float32 { return v.X*v.X + v.Y*v.Y }

// Len returns the magnitude of v.
func (v Vector2) Len() float32 {
	return float32(math.Sqrt(float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y)))
}

// Dist returns the distance between the points v and o.
func (v Vector2) Dist(o Vector2) float32 { return o.Sub(v).Len() }

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vector2) Normalize() Vector2 {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Clamp limits each component to [-limit, +limit].
func (v Vector2) Clamp(limit float32) Vector2 {
	return Vector2{X: clamp(v.X, limit), Y: clamp(v.Y, limit)}
}

// String formats v as "(x, y)".
func (v Vector2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2) IsFinite() bool { return finite(v.X) && finite(v.Y) }

func clamp(x, limit float32) float32 {
	return max(-limit, min(limit, x))
}

func finite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}
