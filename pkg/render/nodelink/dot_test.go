package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func triangle() graph.Layout {
	return graph.Layout{
		Nodes: []graph.Position{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", Label: "Bee", X: 45, Y: 0, Meta: map[string]any{"tier": 2}},
			{ID: "c", X: 22.5, Y: 39, Anchor: true},
		},
		Edges: []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
		Crossings: []graph.Crossing{
			{X: 10, Y: 10, A: [2]string{"a", "b"}, B: [2]string{"b", "c"}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(triangle(), Options{})

	for _, want := range []string{
		"graph G {",
		`"a" [pos="0.00,0.00!"]`,
		`"b" [pos="45.00,0.00!"]`,
		`"c" [pos="22.50,-39.00!", peripheries=2, fillcolor=lightgrey]`,
		`"a" -- "b";`,
		`"c" -- "a";`,
		"width=0.1667",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("DOT should be undirected")
	}
	if strings.Contains(dot, "__crossing_") {
		t.Error("crossings drawn without ShowCrossings")
	}
	if strings.Contains(dot, "xlabel") {
		t.Error("labels drawn without ShowLabels")
	}
}

func TestToDOTOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"labels", Options{ShowLabels: true}, []string{`xlabel="a"`, `xlabel="Bee"`}},
		{"detailed", Options{Detailed: true}, []string{`xlabel="Bee\ntier: 2"`}},
		{"crossings", Options{ShowCrossings: true}, []string{`"__crossing_0" [shape=point`, `pos="10.00,-10.00!"`}},
		{"radius", Options{NodeRadius: 36}, []string{"width=1.0000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(triangle(), tt.opts)
			for _, want := range tt.want {
				if !strings.Contains(dot, want) {
					t.Errorf("DOT missing %q:\n%s", want, dot)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="120pt" height="80pt" viewBox="0.00 0.00 120.00 80.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.00 80.00" width="120" height="80"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(triangle(), Options{ShowCrossings: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "viewBox") {
		t.Errorf("RenderSVG() output is not an SVG document: %.200s", s)
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("RenderSVG() with malformed DOT should fail")
	}
}
