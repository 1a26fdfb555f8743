package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
)

// Render generates output artifacts for l in the requested formats.
//
// The DOT source and the SVG are built once; the remaining formats are
// produced concurrently. The first failing format cancels the others.
func Render(ctx context.Context, l graph.Layout, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	dot := nodelink.ToDOT(l, NodelinkOptions(opts))

	var svg []byte
	if slices.ContainsFunc(opts.Formats, needsSVG) {
		svg, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
	}

	var mu sync.Mutex
	artifacts = make(map[string][]byte, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, format, l, dot, svg, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// NodelinkOptions extracts the diagram options from opts.
func NodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		NodeRadius:    opts.NodeRadius,
		ShowLabels:    opts.ShowLabels,
		ShowCrossings: opts.ShowCrossings,
		Detailed:      opts.Detailed,
	}
}

func needsSVG(format string) bool {
	return format == FormatSVG || format == FormatPNG || format == FormatPDF
}

func renderFormat(ctx context.Context, format string, l graph.Layout, dot string, svg []byte, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalLayout(l)
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return nil, ValidateFormat(format)
	}
}
