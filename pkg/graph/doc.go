// Package graph provides serialization types for graphs and computed layouts.
//
// This package defines the wire format forcegraph reads and writes: graph
// documents in JSON or YAML, and layout documents in JSON. It also bridges
// those documents and a running [force.Engine].
//
// # Core Types
//
//   - [Graph]: node-link document, optionally with starting positions
//   - [Layout]: result of a simulation run (positions, edges, crossings)
//   - [Node], [Edge]: shared structural types
//   - [Position], [Crossing]: layout elements
//
// # Graph Documents
//
// Graphs use a simple node-link format. Coordinates are optional; nodes
// without them are placed on a sunflower spiral when loaded:
//
//	{
//	  "nodes": [{"id": "a", "x": 0, "y": 0, "anchor": true}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// The same document in YAML:
//
//	nodes:
//	  - {id: a, x: 0, y: 0, anchor: true}
//	  - {id: b}
//	edges:
//	  - {from: a, to: b}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("net.yaml")       // File → Graph (format by extension)
//	graph.WriteGraphFile(g, "net.json")          // Graph → File
//	e := force.New[string, struct{}](params)
//	ids, _ := graph.Load(e, g, graph.LoadOptions{}) // Graph → Engine
//	layout := graph.Snapshot(e, g, ids)          // Engine → Layout
//
// # Validation
//
// [Graph.Validate] rejects empty or duplicate node ids, edges that name
// unknown nodes, self loops and non-finite numbers with INVALID_INPUT errors
// from pkg/errors. Decoding failures are INVALID_FORMAT; missing files are
// FILE_NOT_FOUND.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
