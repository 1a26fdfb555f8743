package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleReadGraph() {
	doc := `
nodes:
  - {id: a, x: 0, y: 0}
  - {id: b, x: 100, y: 100}
  - {id: c, x: 0, y: 100}
  - {id: d, x: 100, y: 0}
edges:
  - {from: a, to: b}
  - {from: c, to: d}
`
	g, err := graph.ReadGraph(strings.NewReader(doc), graph.FormatYAML)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Nodes:", len(g.Nodes))
	fmt.Println("Edges:", len(g.Edges))
	// Output:
	// Nodes: 4
	// Edges: 2
}

func ExampleIntersections() {
	g, _ := graph.ReadGraph(strings.NewReader(`{
		"nodes": [
			{"id": "a", "x": 0, "y": 0}, {"id": "b", "x": 100, "y": 100},
			{"id": "c", "x": 0, "y": 100}, {"id": "d", "x": 100, "y": 0}
		],
		"edges": [{"from": "a", "to": "b"}, {"from": "c", "to": "d"}]
	}`), graph.FormatJSON)

	crossings, err := graph.Intersections(g, graph.LoadOptions{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, c := range crossings {
		fmt.Printf("%s-%s crosses %s-%s at (%.0f, %.0f)\n", c.A[0], c.A[1], c.B[0], c.B[1], c.X, c.Y)
	}
	// Output:
	// a-b crosses c-d at (50, 50)
}

func ExampleWriteGraph() {
	n := graph.Node{ID: "hub", Anchor: true}
	n.At(0, 0)
	g := graph.Graph{
		Nodes: []graph.Node{n, {ID: "leaf"}},
		Edges: []graph.Edge{{From: "hub", To: "leaf"}},
	}
	if err := graph.WriteGraph(g, os.Stdout, graph.FormatJSON); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "hub",
	//       "x": 0,
	//       "y": 0,
	//       "anchor": true
	//     },
	//     {
	//       "id": "leaf"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "hub",
	//       "to": "leaf"
	//     }
	//   ]
	// }
}
