package arena

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("a")
	b := g.AddNode("b")

	if a == b {
		t.Fatal("AddNode returned duplicate ids")
	}
	if a.IsZero() || b.IsZero() {
		t.Error("AddNode returned zero id")
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if got, ok := g.Node(a); !ok || *got != "a" {
		t.Errorf("Node(a) = %v, %v, want a, true", got, ok)
	}
}

func TestZeroValueGraph(t *testing.T) {
	var g Graph[int, int]
	id := g.AddNode(7)
	if !g.Contains(id) {
		t.Error("zero-value graph should accept nodes")
	}
	if g.Contains(NodeID{}) {
		t.Error("zero NodeID should never resolve")
	}
}

func TestRemoveNodeInvalidatesID(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("a")
	if err := g.RemoveNode(a); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.Contains(a) {
		t.Error("removed id still resolves")
	}

	// Slot is reused with a new generation.
	c := g.AddNode("c")
	if c.Index() != a.Index() {
		t.Errorf("slot not reused: got index %d, want %d", c.Index(), a.Index())
	}
	if c == a {
		t.Error("reused slot returned the stale id")
	}
	if _, ok := g.Node(a); ok {
		t.Error("stale id resolves after slot reuse")
	}
	if err := g.RemoveNode(a); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("RemoveNode(stale) = %v, want ErrUnknownNode", err)
	}
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := New[string, string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	ab, _ := g.AddEdge(a, b, "ab")
	bc, _ := g.AddEdge(b, c, "bc")
	ac, _ := g.AddEdge(a, c, "ac")

	if err := g.RemoveNode(b); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	for _, id := range []EdgeID{ab, bc} {
		if _, _, _, ok := g.Edge(id); ok {
			t.Errorf("edge %v survived endpoint removal", id)
		}
	}
	if _, _, _, ok := g.Edge(ac); !ok {
		t.Error("unrelated edge was removed")
	}
	if got := g.Neighbors(a); !slices.Equal(got, []NodeID{c}) {
		t.Errorf("Neighbors(a) = %v, want [%v]", got, c)
	}
}

func TestAddEdge(t *testing.T) {
	g := New[string, string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	removed := g.AddNode("gone")
	_ = g.RemoveNode(removed)

	tests := []struct {
		name    string
		from    NodeID
		to      NodeID
		wantErr error
	}{
		{"valid", a, b, nil},
		{"self loop", a, a, ErrSelfLoop},
		{"unknown source", removed, b, ErrUnknownNode},
		{"unknown target", a, removed, ErrUnknownNode},
		{"zero id", NodeID{}, b, ErrUnknownNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.AddEdge(tt.from, tt.to, "x")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdgeUpdatesExisting(t *testing.T) {
	g := New[string, string]()
	a := g.AddNode("a")
	b := g.AddNode("b")

	first, _ := g.AddEdge(a, b, "first")
	second, err := g.AddEdge(b, a, "second")
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if first != second {
		t.Errorf("reverse AddEdge returned %v, want existing %v", second, first)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	_, _, data, _ := g.Edge(first)
	if *data != "second" {
		t.Errorf("edge data = %q, want second", *data)
	}
}

func TestRemoveEdgeKeepsEndpoints(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	e, _ := g.AddEdge(a, b, 1)

	if err := g.RemoveEdge(e); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	if !g.Contains(a) || !g.Contains(b) {
		t.Error("RemoveEdge removed an endpoint")
	}
	if g.Adjacent(a, b) || g.Adjacent(b, a) {
		t.Error("nodes still adjacent after RemoveEdge")
	}
	if g.Degree(a) != 0 {
		t.Errorf("Degree(a) = %d, want 0", g.Degree(a))
	}
	if err := g.RemoveEdge(e); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("second RemoveEdge = %v, want ErrUnknownEdge", err)
	}
}

func TestNeighborsOrder(t *testing.T) {
	g := New[string, int]()
	hub := g.AddNode("hub")
	var want []NodeID
	for _, name := range []string{"x", "y", "z"} {
		id := g.AddNode(name)
		_, _ = g.AddEdge(hub, id, 0)
		want = append(want, id)
	}

	if got := g.Neighbors(hub); !slices.Equal(got, want) {
		t.Errorf("Neighbors(hub) = %v, want %v", got, want)
	}
	if got := g.Neighbors(want[1]); !slices.Equal(got, []NodeID{hub}) {
		t.Errorf("Neighbors(y) = %v, want [hub]", got)
	}
	if got := g.Neighbors(NodeID{}); got != nil {
		t.Errorf("Neighbors(unknown) = %v, want nil", got)
	}
}

func TestTraversalOrder(t *testing.T) {
	g := New[int, int]()
	ids := []NodeID{g.AddNode(0), g.AddNode(1), g.AddNode(2), g.AddNode(3)}
	_ = g.RemoveNode(ids[1])
	reused := g.AddNode(4)

	got := g.NodeIDs()
	want := []NodeID{ids[0], reused, ids[2], ids[3]}
	if !slices.Equal(got, want) {
		t.Errorf("NodeIDs() = %v, want %v", got, want)
	}

	var visited []int
	g.VisitNodes(func(_ NodeID, n *int) { visited = append(visited, *n) })
	if !slices.Equal(visited, []int{0, 4, 2, 3}) {
		t.Errorf("VisitNodes order = %v, want [0 4 2 3]", visited)
	}
}

func TestVisitEdges(t *testing.T) {
	g := New[string, string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	_, _ = g.AddEdge(a, b, "ab")
	_, _ = g.AddEdge(c, a, "ca")

	var got []string
	g.VisitEdges(func(_ EdgeID, _, _ NodeID, na, nb *string, e *string) {
		got = append(got, *na+*nb+":"+*e)
	})
	want := []string{"ab:ab", "ca:ca"}
	if !slices.Equal(got, want) {
		t.Errorf("VisitEdges = %v, want %v", got, want)
	}
	if ids := g.EdgeIDs(); len(ids) != 2 {
		t.Errorf("EdgeIDs() len = %d, want 2", len(ids))
	}
}

func TestVisitNodesMutation(t *testing.T) {
	g := New[int, int]()
	id := g.AddNode(1)
	g.VisitNodes(func(_ NodeID, n *int) { *n = 42 })
	if got, _ := g.Node(id); *got != 42 {
		t.Errorf("mutated payload = %d, want 42", *got)
	}
}

func TestNodeIDCompare(t *testing.T) {
	a := NodeID{index: 1, gen: 1}
	b := NodeID{index: 2, gen: 1}
	c := NodeID{index: 1, gen: 2}

	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Error("Compare should order by index")
	}
	if a.Compare(c) >= 0 {
		t.Error("Compare should order by generation within an index")
	}
	if a.Compare(a) != 0 {
		t.Error("Compare(self) != 0")
	}
	if a.String() != "n1v1" {
		t.Errorf("String() = %q, want n1v1", a.String())
	}
}
