// Package nodelink renders computed layouts as node-link diagrams.
//
// # Overview
//
// Unlike a hierarchical Graphviz drawing, a force-directed layout already
// knows where every node goes. [ToDOT] therefore emits an undirected graph in
// which each node is pinned (pos="x,y!") at its simulated coordinates, and
// [RenderSVG] lays it out with the neato engine, which honours pinned
// positions and only routes the straight edges.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{ShowLabels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Coordinates
//
// Layout coordinates are screen coordinates (y grows downwards). Graphviz
// uses y-up, so ToDOT negates y. One layout unit maps to one point.
//
// # Crossings
//
// With ShowCrossings set, every entry in Layout.Crossings becomes a small
// red point node, which makes remaining edge tangles easy to spot.
package nodelink
