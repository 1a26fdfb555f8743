// Package pkg holds the forcegraph libraries.
//
// # Overview
//
// Forcegraph lays out arbitrary graphs in the plane by simulating springs
// along edges, charge between nodes and a push away from edge crossings.
// The packages stack from leaves up:
//
//  1. [vec] - 2D float32 vectors
//  2. [arena] - generation-checked node and edge store
//  3. [force] - simulation parameters, forces, crossing detection and the engine
//  4. [graph] - JSON/YAML graphs and layouts, loading a graph into an engine
//  5. [placement] - initial positions for nodes without coordinates
//  6. [pipeline] - run to rest, then render (JSON, DOT, SVG, PNG, PDF)
//  7. [render] - DOT/graphviz output and SVG conversion
//
// Supporting packages: [config] (TOML file), [errors] (coded errors),
// [observability] (hooks) and [buildinfo] (version stamped at link time).
//
// # Quick Start
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	layout, _, err := pipeline.Simulate(ctx, g, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	artifacts, _ := pipeline.Render(ctx, layout, pipeline.Options{Formats: []string{"svg"}})
//
// Driving an engine frame by frame instead:
//
//	e := force.New[string, struct{}](force.DefaultParameters())
//	a := e.AddNode(force.NodeData[string]{X: 0, Y: 0, UserData: "a"})
//	b := e.AddNode(force.NodeData[string]{X: 100, Y: 0, UserData: "b"})
//	e.AddEdge(a, b, struct{}{})
//	for range 300 {
//	    e.Update(0.016)
//	}
package pkg
