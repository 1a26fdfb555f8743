package force

import (
	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/vec"
)

// EdgeKey names an edge by its endpoints.
type EdgeKey struct {
	From, To arena.NodeID
}

// Touches reports whether id is one of the endpoints.
func (k EdgeKey) Touches(id arena.NodeID) bool { return k.From == id || k.To == id }

// SharesEndpoint reports whether the two edges have a node in common.
func (k EdgeKey) SharesEndpoint(o EdgeKey) bool { return k.Touches(o.From) || k.Touches(o.To) }

// Intersection is one crossing between the edges A and B at (X, Y).
// Intersections are computed on demand and never stored by the engine.
type Intersection struct {
	X, Y float32
	A, B EdgeKey
}

// Point returns the crossing point.
func (i Intersection) Point() vec.Vector2 { return vec.New(i.X, i.Y) }

// SegmentIntersection returns the point where segments p0-p1 and p2-p3
// cross. Parallel and collinear segments report no intersection; touching
// at an endpoint counts as crossing. A crossing is always a finite point.
//
// The segments are parameterized as p0 + t·(p1-p0) and p2 + s·(p3-p2); they
// cross iff the 2×2 system has a solution with both s and t in [0, 1].
func SegmentIntersection(p0, p1, p2, p3 vec.Vector2) (vec.Vector2, bool) {
	s1 := p1.Sub(p0)
	s2 := p3.Sub(p2)

	denom := -s2.X*s1.Y + s1.X*s2.Y
	if denom == 0 {
		return vec.Zero, false
	}

	s := (-s1.Y*(p0.X-p2.X) + s1.X*(p0.Y-p2.Y)) / denom
	t := (s2.X*(p0.Y-p2.Y) - s2.Y*(p0.X-p2.X)) / denom
	// Written so that NaN parameters (from infinite endpoints) fail.
	if !(s >= 0 && s <= 1 && t >= 0 && t <= 1) {
		return vec.Zero, false
	}
	point := p0.Add(s1.Scale(t))
	if !point.IsFinite() {
		return vec.Zero, false
	}
	return point, true
}

// segment is an edge resolved to its endpoint positions.
type segment struct {
	key  EdgeKey
	p, q vec.Vector2
}

func (a segment) cross(b segment) (Intersection, bool) {
	if a.key.SharesEndpoint(b.key) {
		return Intersection{}, false
	}
	pt, ok := SegmentIntersection(a.p, a.q, b.p, b.q)
	if !ok {
		return Intersection{}, false
	}
	return Intersection{X: pt.X, Y: pt.Y, A: a.key, B: b.key}, true
}

// segmentWorkspace holds the segment buffers reused across scans so that the
// per-step escape check does not allocate once warmed up.
type segmentWorkspace struct {
	all   []segment
	local []segment
	other []segment
}

// globalIntersections calls fn for every crossing between two edges that
// share no endpoint, each unordered pair once. Scanning stops when fn
// returns false.
func globalIntersections(segs []segment, fn func(Intersection) bool) {
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if x, ok := segs[i].cross(segs[j]); ok && !fn(x) {
				return
			}
		}
	}
}

// localIntersections calls fn for every crossing between an edge incident to
// id and an edge not touching id.
func localIntersections(ws *segmentWorkspace, id arena.NodeID, fn func(Intersection) bool) {
	ws.local, ws.other = ws.local[:0], ws.other[:0]
	for _, s := range ws.all {
		if s.key.Touches(id) {
			ws.local = append(ws.local, s)
		} else {
			ws.other = append(ws.other, s)
		}
	}
	for _, a := range ws.local {
		for _, b := range ws.other {
			if x, ok := a.cross(b); ok && !fn(x) {
				return
			}
		}
	}
}
