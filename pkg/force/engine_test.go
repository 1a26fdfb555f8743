package force

import (
	"bytes"
	stderrors "errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/arena"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

type fixedRand float32

func (r fixedRand) Float32() float32 { return float32(r) }

func mustEdge[N, E any](t *testing.T, e *Engine[N, E], a, b arena.NodeID) arena.EdgeID {
	t.Helper()
	var zero E
	id, err := e.AddEdge(a, b, zero)
	if err != nil {
		t.Fatalf("AddEdge(%v, %v) error = %v", a, b, err)
	}
	return id
}

func positions[N, E any](e *Engine[N, E]) map[arena.NodeID][4]float32 {
	out := map[arena.NodeID][4]float32{}
	e.VisitNodes(func(n Node[N]) {
		v := n.Velocity()
		out[n.ID()] = [4]float32{n.X, n.Y, v.X, v.Y}
	})
	return out
}

func TestAddNodeDefaults(t *testing.T) {
	e := New[string, struct{}](DefaultParameters())
	id := e.AddNode(NodeData[string]{X: 1, Y: 2, UserData: "a"})

	n, ok := e.Node(id)
	if !ok {
		t.Fatal("Node() ok = false, want true")
	}
	if n.ID() != id {
		t.Errorf("ID() = %v, want %v", n.ID(), id)
	}
	if n.Mass != 10 {
		t.Errorf("Mass = %v, want default 10", n.Mass)
	}
	if n.X != 1 || n.Y != 2 || n.UserData != "a" {
		t.Errorf("node = %+v, want position (1, 2) and payload a", n.NodeData)
	}
	if !n.Stable(Epsilon) {
		t.Error("new node should be stable")
	}

	heavy := e.AddNode(NodeData[string]{Mass: 3})
	if n, _ := e.Node(heavy); n.Mass != 3 {
		t.Errorf("Mass = %v, want 3", n.Mass)
	}

	for _, m := range []float32{-2, float32(math.NaN()), float32(math.Inf(1))} {
		id := e.AddNode(NodeData[string]{Mass: m})
		if n, _ := e.Node(id); n.Mass != e.Parameters().DefaultMass {
			t.Errorf("AddNode(Mass: %v) stored %v, want DefaultMass %v", m, n.Mass, e.Parameters().DefaultMass)
		}
	}
}

func TestActiveSetMatchesGraph(t *testing.T) {
	e := New[int, struct{}](DefaultParameters())
	var ids []arena.NodeID
	for i := range 6 {
		ids = append(ids, e.AddNode(NodeData[int]{X: float32(i * 50), UserData: i}))
	}

	check := func(stage string) {
		t.Helper()
		if got, want := e.NodeIDs(), e.Graph().NodeIDs(); !slices.Equal(got, want) {
			t.Errorf("%s: NodeIDs() = %v, want %v", stage, got, want)
		}
		if len(e.NodeIDs()) != e.NodeCount() {
			t.Errorf("%s: len(NodeIDs()) = %d, want %d", stage, len(e.NodeIDs()), e.NodeCount())
		}
	}
	check("after adds")

	for _, i := range []int{1, 4} {
		if err := e.RemoveNode(ids[i]); err != nil {
			t.Fatalf("RemoveNode() error = %v", err)
		}
	}
	check("after removes")

	reused := e.AddNode(NodeData[int]{UserData: 99})
	check("after slot reuse")

	if slices.Contains(e.NodeIDs(), ids[1]) || slices.Contains(e.NodeIDs(), ids[4]) {
		t.Error("NodeIDs() still contains a removed id")
	}
	if !slices.Contains(e.NodeIDs(), reused) {
		t.Error("NodeIDs() is missing the re-added node")
	}

	var seen []int
	e.VisitNodes(func(n Node[int]) { seen = append(seen, n.UserData) })
	slices.Sort(seen)
	if want := []int{0, 2, 3, 5, 99}; !slices.Equal(seen, want) {
		t.Errorf("VisitNodes payloads = %v, want %v", seen, want)
	}
}

func TestRemoveNodeErrors(t *testing.T) {
	e := New[int, int](DefaultParameters())
	a := e.AddNode(NodeData[int]{})
	b := e.AddNode(NodeData[int]{X: 10})
	if err := e.RemoveNode(a); err != nil {
		t.Fatal(err)
	}

	if err := e.RemoveNode(a); !stderrors.Is(err, arena.ErrUnknownNode) {
		t.Errorf("RemoveNode(stale) = %v, want ErrUnknownNode", err)
	}
	if _, err := e.AddEdge(a, b, 1); !stderrors.Is(err, arena.ErrUnknownNode) {
		t.Errorf("AddEdge(stale, b) = %v, want ErrUnknownNode", err)
	}
	if _, err := e.AddEdge(b, b, 1); !stderrors.Is(err, arena.ErrSelfLoop) {
		t.Errorf("AddEdge(b, b) = %v, want ErrSelfLoop", err)
	}
}

func TestRemoveEdgeKeepsNodes(t *testing.T) {
	e := New[string, string](DefaultParameters())
	a := e.AddNode(NodeData[string]{UserData: "a"})
	b := e.AddNode(NodeData[string]{X: 50, UserData: "b"})
	c := e.AddNode(NodeData[string]{Y: 50, UserData: "c"})
	ab, _ := e.AddEdge(a, b, "ab")
	_, _ = e.AddEdge(b, c, "bc")

	if err := e.RemoveEdge(ab); err != nil {
		t.Fatalf("RemoveEdge() error = %v", err)
	}
	if err := e.RemoveEdge(ab); !stderrors.Is(err, arena.ErrUnknownEdge) {
		t.Errorf("RemoveEdge(twice) = %v, want ErrUnknownEdge", err)
	}

	var edges []string
	e.VisitEdges(func(n1, n2 Node[string], data string) {
		edges = append(edges, n1.UserData+"-"+n2.UserData+":"+data)
	})
	if want := []string{"b-c:bc"}; !slices.Equal(edges, want) {
		t.Errorf("VisitEdges() = %v, want %v", edges, want)
	}
	if e.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", e.NodeCount())
	}
	if got := e.Neighbors(a); len(got) != 0 {
		t.Errorf("Neighbors(a) = %v, want none", got)
	}
}

func TestRemoveNodeRemovesEdges(t *testing.T) {
	e := New[int, int](DefaultParameters())
	a := e.AddNode(NodeData[int]{})
	b := e.AddNode(NodeData[int]{X: 50})
	mustEdge(t, e, a, b)

	if err := e.RemoveNode(b); err != nil {
		t.Fatal(err)
	}
	if e.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", e.EdgeCount())
	}
	e.VisitNodes(func(n Node[int]) {
		if n.ID() == b {
			t.Error("VisitNodes() visited a removed node")
		}
	})
}

func TestUpdateEmptyEngine(t *testing.T) {
	e := New[int, int](DefaultParameters())
	e.Update(0.016)
	if got := e.LastStep(); got != (StepStats{}) {
		t.Errorf("LastStep() = %+v, want zero", got)
	}
}

func TestUpdateZeroDtIsNoop(t *testing.T) {
	e, _ := crossGraph(t)
	for range 20 {
		e.Update(0.016)
	}
	before := positions(e)

	e.Update(0)
	e.Update(-1)

	after := positions(e)
	for id, want := range before {
		if got := after[id]; got != want {
			t.Errorf("node %v = %v after zero step, want %v", id, got, want)
		}
	}
}

func TestUpdateNonFiniteDtPanics(t *testing.T) {
	e := New[int, int](DefaultParameters())
	e.AddNode(NodeData[int]{})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.ErrCodeNumericalFault) {
			t.Errorf("recover() = %v, want NUMERICAL_FAULT", r)
		}
	}()
	e.Update(float32(math.NaN()))
}

func TestUpdateNonFinitePositionPanics(t *testing.T) {
	e := New[int, int](DefaultParameters())
	e.AddNode(NodeData[int]{X: float32(math.Inf(1))})
	e.AddNode(NodeData[int]{X: 10})

	defer func() {
		if r := recover(); !errors.Is(errors.FromPanic(r), errors.ErrCodeNumericalFault) {
			t.Errorf("recover() = %v, want NUMERICAL_FAULT", r)
		}
	}()
	e.Update(0.016)
	t.Error("Update() did not panic")
}

func TestTwoNodesConverge(t *testing.T) {
	p := DefaultParameters()
	e := New[string, struct{}](p)
	a := e.AddNode(NodeData[string]{X: 0, Y: 0})
	b := e.AddNode(NodeData[string]{X: 100, Y: 0})
	mustEdge(t, e, a, b)

	for range 1000 {
		e.Update(0.016)
	}

	na, _ := e.Node(a)
	nb, _ := e.Node(b)
	d := na.Position().Dist(nb.Position())
	if diff := math.Abs(float64(d - p.IdealDistance)); diff > 0.15*float64(p.IdealDistance) {
		t.Errorf("separation = %v, want within 15%% of %v", d, p.IdealDistance)
	}
	if s := e.MaxSpeed(); s > 1e-3 {
		t.Errorf("MaxSpeed() = %v, want < 1e-3", s)
	}
	if ke := e.KineticEnergy(); ke > 1e-4 {
		t.Errorf("KineticEnergy() = %v, want ~0", ke)
	}
}

func TestCoincidentNodesBounce(t *testing.T) {
	e := NewWithOptions[int, int](DefaultParameters(), Options{Rand: fixedRand(0.6)})
	a := e.AddNode(NodeData[int]{X: 5, Y: 5})
	b := e.AddNode(NodeData[int]{X: 5, Y: 5})

	e.Update(0.016)
	st := e.LastStep()
	if !st.Bounced || st.BounceNode != a {
		t.Fatalf("LastStep() = %+v, want bounce of first node", st)
	}
	if st.Integrated != 1 {
		t.Errorf("Integrated = %d, want 1 (the step ends at the bounce)", st.Integrated)
	}
	na, _ := e.Node(a)
	if math.Abs(float64(na.X-5.6)) > 1e-5 || math.Abs(float64(na.Y-5.8)) > 1e-5 {
		t.Errorf("bounced node at (%v, %v), want (5.6, 5.8)", na.X, na.Y)
	}

	bounces := 1
	for step := range 10000 {
		e.Update(0.016)
		if e.LastStep().Bounced {
			bounces++
		}
		e.VisitNodes(func(n Node[int]) {
			if !n.Position().IsFinite() || !n.Velocity().IsFinite() {
				t.Fatalf("step %d: node %v not finite: %v %v", step, n.ID(), n.Position(), n.Velocity())
			}
		})
	}
	if bounces > 10 {
		t.Errorf("bounced %d times, want the pair to separate quickly", bounces)
	}

	na, _ = e.Node(a)
	nb, _ := e.Node(b)
	if d := na.Position().Dist(nb.Position()); d < DefaultParameters().MinDistance {
		t.Errorf("final separation = %v, want >= MinDistance", d)
	}
}

func TestAnchoredNodeDoesNotMove(t *testing.T) {
	e := New[int, int](DefaultParameters())
	a := e.AddNode(NodeData[int]{X: 0, Y: 0, IsAnchor: true})
	b := e.AddNode(NodeData[int]{X: 100, Y: 0})
	c := e.AddNode(NodeData[int]{X: 10, Y: 10})
	mustEdge(t, e, a, b)

	for range 500 {
		e.Update(0.016)
	}

	na, _ := e.Node(a)
	if na.X != 0 || na.Y != 0 || na.Speed() != 0 {
		t.Errorf("anchor moved to (%v, %v) speed %v", na.X, na.Y, na.Speed())
	}
	nb, _ := e.Node(b)
	if nb.X == 100 {
		t.Error("free neighbor did not move")
	}
	nc, _ := e.Node(c)
	if nc.Position().Dist(na.Position()) < 20 {
		t.Errorf("c at %v, want pushed away from the anchor", nc.Position())
	}
	if e.MaxSpeed() > 1 {
		t.Errorf("MaxSpeed() = %v, want settled", e.MaxSpeed())
	}
}

func TestDragOverride(t *testing.T) {
	e := New[string, int](DefaultParameters())
	a := e.AddNode(NodeData[string]{UserData: "a"})
	b := e.AddNode(NodeData[string]{X: 30, UserData: "b"})
	mustEdge(t, e, a, b)

	for range 10 {
		e.Update(0.016)
	}
	e.VisitNodesMut(func(n *Node[string]) {
		if n.UserData == "a" {
			n.MoveTo(200, 200)
		}
	})

	na, _ := e.Node(a)
	if na.X != 200 || na.Y != 200 || na.Speed() != 0 {
		t.Errorf("dragged node = (%v, %v) speed %v, want (200, 200) at rest", na.X, na.Y, na.Speed())
	}
}

func TestEscapeFromCrossing(t *testing.T) {
	e := New[string, int](DefaultParameters())
	a := e.AddNode(NodeData[string]{X: 0, Y: 0})
	b := e.AddNode(NodeData[string]{X: 100, Y: 100})
	c := e.AddNode(NodeData[string]{X: 0, Y: 100})
	d := e.AddNode(NodeData[string]{X: 100, Y: 0})
	mustEdge(t, e, a, b)
	mustEdge(t, e, c, d)
	before := positions(e)

	e.Update(0.016)

	st := e.LastStep()
	if !st.Escaped || st.EscapeNode != a {
		t.Fatalf("LastStep() = %+v, want escape of a", st)
	}
	if st.Integrated != 1 {
		t.Errorf("Integrated = %d, want 1", st.Integrated)
	}
	na, _ := e.Node(a)
	if na.X >= 0 || na.Y >= 0 {
		t.Errorf("a at (%v, %v), want pushed away from (50, 50)", na.X, na.Y)
	}
	after := positions(e)
	for _, id := range []arena.NodeID{b, c, d} {
		if after[id] != before[id] {
			t.Errorf("node %v changed during an escape step", id)
		}
	}
}

func TestEscapeReplacesPairForces(t *testing.T) {
	crossing := func(e *Engine[string, int]) arena.NodeID {
		a := e.AddNode(NodeData[string]{X: 0, Y: 0})
		b := e.AddNode(NodeData[string]{X: 100, Y: 100})
		c := e.AddNode(NodeData[string]{X: 0, Y: 100})
		d := e.AddNode(NodeData[string]{X: 100, Y: 0})
		mustEdge(t, e, a, b)
		mustEdge(t, e, c, d)
		return a
	}

	alone := New[string, int](DefaultParameters())
	a1 := crossing(alone)
	alone.Update(0.016)

	// An edgeless node in the near band, in an earlier slot, pushes on a
	// before a gets its turn.
	crowded := New[string, int](DefaultParameters())
	crowded.AddNode(NodeData[string]{X: -10, Y: -10})
	a2 := crossing(crowded)
	crowded.Update(0.016)

	if st := crowded.LastStep(); !st.Escaped || st.EscapeNode != a2 {
		t.Fatalf("LastStep() = %+v, want escape of a", st)
	}
	n1, _ := alone.Node(a1)
	n2, _ := crowded.Node(a2)
	if n2.Velocity() != n1.Velocity() {
		t.Errorf("escape velocity = %v, want %v (escape force only)", n2.Velocity(), n1.Velocity())
	}
	if v := n2.Velocity(); v.X >= 0 || v.Y >= 0 {
		t.Errorf("escape velocity = %v, want pointing away from the crossing", v)
	}
}

func TestEscapeDisabled(t *testing.T) {
	p := DefaultParameters()
	p.EscapeEnabled = false
	e := New[string, int](p)
	a := e.AddNode(NodeData[string]{X: 0, Y: 0})
	b := e.AddNode(NodeData[string]{X: 100, Y: 100})
	c := e.AddNode(NodeData[string]{X: 0, Y: 100})
	d := e.AddNode(NodeData[string]{X: 100, Y: 0})
	mustEdge(t, e, a, b)
	mustEdge(t, e, c, d)

	e.Update(0.016)
	if st := e.LastStep(); st.Escaped || st.Integrated != 4 {
		t.Errorf("LastStep() = %+v, want plain step over all 4 nodes", st)
	}
}

func TestInvalidParametersSanitized(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	p := DefaultParameters()
	p.IdealDistance = -5
	p.DampingFactor = 3
	e := NewWithOptions[int, int](p, Options{Logger: logger})

	got := e.Parameters()
	if got.IdealDistance != MinIdealDistance {
		t.Errorf("IdealDistance = %v, want %v", got.IdealDistance, MinIdealDistance)
	}
	if got.DampingFactor != DefaultParameters().DampingFactor {
		t.Errorf("DampingFactor = %v, want default", got.DampingFactor)
	}
	if !strings.Contains(buf.String(), "replaced invalid simulation parameters") {
		t.Errorf("log output = %q, want a warning", buf.String())
	}
}

func TestSimulationHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	h := &countingHooks{}
	observability.SetSimulationHooks(h)

	e := NewWithOptions[int, int](DefaultParameters(), Options{Seed: 7})
	e.AddNode(NodeData[int]{X: 1, Y: 1})
	e.AddNode(NodeData[int]{X: 1, Y: 1})
	e.Update(0.016)
	e.Update(0.016)

	if h.steps != 2 {
		t.Errorf("OnStep calls = %d, want 2", h.steps)
	}
	if h.bounces < 1 {
		t.Errorf("OnBounce calls = %d, want >= 1", h.bounces)
	}
}

type countingHooks struct {
	observability.NoopSimulationHooks
	steps, bounces int
}

func (h *countingHooks) OnStep(int, int) { h.steps++ }
func (h *countingHooks) OnBounce(string) { h.bounces++ }
