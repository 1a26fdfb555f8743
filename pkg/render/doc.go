// Package render turns computed layouts into files a person can look at.
//
// # Overview
//
// Layouts are rendered in two steps. The [nodelink] subpackage converts a
// layout into Graphviz DOT with every node pinned at its simulated
// coordinates and renders that to SVG. This package then converts SVG to the
// raster and print formats:
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{ShowCrossings: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// # External Tools
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg). When the tool
// is missing they return an error with code UNSUPPORTED so callers can skip
// the format and keep the others.
//
// [nodelink]: github.com/matzehuels/forcegraph/pkg/render/nodelink
package render
