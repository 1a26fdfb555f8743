package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// DefaultNodeRadius is the node radius in points when Options.NodeRadius is unset.
const DefaultNodeRadius = 6.0

// Options configures node-link diagram rendering.
type Options struct {
	// NodeRadius is the drawn radius of a node, in layout units.
	NodeRadius float64
	// ShowLabels draws node labels next to the nodes.
	ShowLabels bool
	// ShowCrossings marks each remaining edge crossing with a red dot.
	ShowCrossings bool
	// Detailed appends node metadata to labels. Implies ShowLabels.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT with every node pinned in place.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Anchored nodes are drawn with a double outline.
func ToDOT(l graph.Layout, opts Options) string {
	radius := opts.NodeRadius
	if radius <= 0 {
		radius = DefaultNodeRadius
	}
	width := strconv.FormatFloat(2*radius/72, 'f', 4, 64)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  pad=0.3;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, width=%s, label=\"\", fontsize=10];\n", width)
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, p := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(fmtAttrs(p, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	if opts.ShowCrossings && len(l.Crossings) > 0 {
		buf.WriteString("\n")
		for i, c := range l.Crossings {
			fmt.Fprintf(&buf, "  \"__crossing_%d\" [shape=point, width=0.08, color=red, fillcolor=red, pos=%q];\n",
				i, fmtPos(c.X, c.Y))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtPos(x, y float64) string {
	y = -y
	if y == 0 {
		y = 0 // no "-0.00"
	}
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64) + "!"
}

func fmtLabel(p graph.Position, detailed bool) string {
	if !detailed || len(p.Meta) == 0 {
		return p.DisplayLabel()
	}
	parts := make([]string, 0, len(p.Meta))
	for _, k := range slices.Sorted(maps.Keys(p.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, p.Meta[k]))
	}
	return p.DisplayLabel() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(p graph.Position, opts Options) []string {
	attrs := []string{fmt.Sprintf("pos=%q", fmtPos(p.X, p.Y))}
	if opts.ShowLabels || opts.Detailed {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", fmtLabel(p, opts.Detailed)))
	}
	if p.Anchor {
		attrs = append(attrs, "peripheries=2", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox drops Graphviz's pt-based width/height so the SVG scales
// with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
