package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/render/sink"
	"github.com/matzehuels/bubblechart/pkg/render/tree"
)

// RenderFromLayout generates output artifacts in the requested formats.
// Bubble charts are drawn from the layout; the tree view is drawn from the
// dataset with the layout's active parent highlighted. JSON is always the
// layout document.
func RenderFromLayout(ctx context.Context, l chart.Layout, ds chart.Dataset, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsTree() {
		return renderTree(ctx, l, ds, opts)
	}
	return renderBubbles(l, opts)
}

// renderBubbles generates bubble chart outputs.
func renderBubbles(l chart.Layout, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = chart.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported bubbles format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderTree generates category tree outputs via Graphviz.
func renderTree(ctx context.Context, l chart.Layout, ds chart.Dataset, opts Options) (map[string][]byte, error) {
	if opts.Title != "" {
		ds.Title = opts.Title
	}
	dot := tree.ToDOT(ds, tree.Options{Weights: opts.ShowLabels, Active: l.Active})
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = tree.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = tree.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = tree.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = chart.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.ShowLabels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached or
// written by `bubblechart layout`).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, ds chart.Dataset, opts Options) (map[string][]byte, error) {
	l, err := chart.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, l, ds, opts)
}
