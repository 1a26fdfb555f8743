// Package placement computes initial positions for nodes that arrive without
// coordinates.
//
// Points follow a sunflower (Vogel) spiral, which spreads any number of
// points evenly over a disc, and are then jittered with OpenSimplex noise so
// that the starting layout has no exact symmetries for the simulation to get
// stuck on. The result depends only on the count and the [Options]; the same
// seed always yields the same points.
package placement

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/forcegraph/pkg/vec"
)

// goldenAngle is π·(3-√5), the angular step of the sunflower spiral.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

const (
	// DefaultSpacing matches the default ideal distance of the force model.
	DefaultSpacing = 45

	noiseScale = 0.37
	jitter     = 0.2
)

// Options controls [Scatter].
type Options struct {
	// Seed selects the noise field. Zero is a valid seed.
	Seed int64

	// Spacing is roughly the distance between neighboring points.
	// Zero or negative means DefaultSpacing.
	Spacing float32

	// Center is the middle of the spiral.
	Center vec.Vector2
}

// Scatter returns n distinct points around opts.Center.
func Scatter(n int, opts Options) []vec.Vector2 {
	if n <= 0 {
		return nil
	}
	spacing := float64(opts.Spacing)
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	noise := opensimplex.New(opts.Seed)

	points := make([]vec.Vector2, n)
	for i := range points {
		r := spacing * math.Sqrt(float64(i)+0.5)
		theta := float64(i) * goldenAngle
		fi := float64(i) * noiseScale

		x := r*math.Cos(theta) + noise.Eval2(fi, 0)*spacing*jitter
		y := r*math.Sin(theta) + noise.Eval2(0, fi+100)*spacing*jitter
		points[i] = opts.Center.Add(vec.New(float32(x), float32(y)))
	}
	return points
}
