package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func newTestDemo(t *testing.T) demoModel {
	t.Helper()
	m, err := newDemoModel(demoGraph(), force.DefaultParameters(), 1)
	if err != nil {
		t.Fatalf("newDemoModel() error = %v", err)
	}
	return m
}

func update(m demoModel, msg tea.Msg) demoModel {
	next, _ := m.Update(msg)
	return next.(demoModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDemoGraph(t *testing.T) {
	g := demoGraph()
	if len(g.Nodes) != 5 || len(g.Edges) != 4 {
		t.Errorf("demo graph has %d nodes, %d edges; want 5, 4", len(g.Nodes), len(g.Edges))
	}
	if err := g.Validate(); err != nil {
		t.Errorf("demo graph invalid: %v", err)
	}
}

func TestNewDemoModelInvalidGraph(t *testing.T) {
	g := graph.Graph{Edges: []graph.Edge{{From: "a", To: "b"}}}
	if _, err := newDemoModel(g, force.DefaultParameters(), 1); err == nil {
		t.Error("newDemoModel() should reject an invalid graph")
	}
}

func TestDemoFrames(t *testing.T) {
	m := newTestDemo(t)
	start := time.Now()

	m = update(m, frameMsg(start))
	if m.steps != 0 {
		t.Errorf("first frame stepped %d times, want 0", m.steps)
	}
	for i := 1; i <= 3; i++ {
		m = update(m, frameMsg(start.Add(time.Duration(i)*frameInterval)))
	}
	if m.steps != 3 {
		t.Errorf("steps = %d, want 3", m.steps)
	}

	m = update(m, key("p"))
	if !m.paused {
		t.Fatal("p should pause")
	}
	m = update(m, frameMsg(start.Add(10*frameInterval)))
	if m.steps != 3 {
		t.Errorf("paused demo stepped to %d", m.steps)
	}
}

func TestDemoSelectAndDrag(t *testing.T) {
	m := newTestDemo(t)

	m = update(m, key("tab"))
	if m.selected != 0 {
		t.Fatalf("selected = %d after tab, want 0", m.selected)
	}
	m = update(m, key("shift+tab"))
	if m.selected != len(m.order)-1 {
		t.Errorf("selected = %d after shift+tab, want %d", m.selected, len(m.order)-1)
	}
	m = update(m, key("tab"))

	before, _ := m.engine.Node(m.order[0])
	m = update(m, key("right"))
	m = update(m, key("j"))
	after, _ := m.engine.Node(m.order[0])
	if after.X != before.X+dragStep || after.Y != before.Y+dragStep {
		t.Errorf("dragged node to (%v, %v), want (%v, %v)", after.X, after.Y, before.X+dragStep, before.Y+dragStep)
	}

	m = update(m, key("esc"))
	if m.selected != -1 {
		t.Errorf("selected = %d after esc, want -1", m.selected)
	}
	moved, _ := m.engine.Node(m.order[0])
	m = update(m, key("right"))
	if n, _ := m.engine.Node(m.order[0]); n.X != moved.X {
		t.Error("arrow keys should not move anything without a selection")
	}
}

func TestDemoMouse(t *testing.T) {
	m := newTestDemo(t)
	n, _ := m.engine.Node(m.order[4])
	col, row := m.view.cell(n.X, n.Y)

	m = update(m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.selected != 4 || !m.dragging {
		t.Fatalf("press on hub: selected=%d dragging=%v", m.selected, m.dragging)
	}
	m = update(m, tea.MouseMsg{X: col + 3, Y: row, Action: tea.MouseActionMotion})
	if moved, _ := m.engine.Node(m.order[4]); moved.X <= n.X {
		t.Errorf("motion should drag the hub right, x %v -> %v", n.X, moved.X)
	}
	m = update(m, tea.MouseMsg{X: col + 3, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.dragging {
		t.Error("release should stop dragging")
	}
}

func TestDemoView(t *testing.T) {
	m := newTestDemo(t)
	m = update(m, tea.WindowSizeMsg{Width: 60, Height: 20})

	view := m.View()
	for _, want := range []string{"hub", "step 0", "5 nodes", "4 edges", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = update(m, key("p"))
	if !strings.Contains(m.View(), "paused") {
		t.Error("paused View() should say paused")
	}
	if next, cmd := m.Update(key("q")); cmd == nil || next == nil {
		t.Error("q should return a quit command")
	}
}

func TestCanvasLine(t *testing.T) {
	cv := newCanvas(5, 3)
	cv.line(0, 0, 4, 2)
	cv.set(0, 0, '●', cellNode)
	cv.set(0, 0, '·', cellEdge)

	if cv.runes[0][0] != '●' {
		t.Errorf("edge overwrote node: %q", cv.runes[0][0])
	}
	if cv.kinds[2][4] != cellEdge {
		t.Error("line should reach its end cell")
	}
	if got := strings.Count(cv.String(), "\n"); got != 3 {
		t.Errorf("String() has %d lines, want 3", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hub", 10, "hub"},
		{"a-very-long-name", 6, "a-ver…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
