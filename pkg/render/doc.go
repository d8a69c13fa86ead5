// Package render provides output rendering for bubble charts.
//
// # Overview
//
// This package contains the shared format conversion used by both
// visualizations:
//
//   - Bubble charts (in [sink] subpackage): positioned circles from a
//     [chart.Layout]
//   - Category trees (in [tree] subpackage): the dataset hierarchy drawn by
//     Graphviz
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). When it is missing they
// return an UNSUPPORTED error; [Available] checks ahead of time.
//
//	svg := sink.RenderSVG(layout, sink.WithLabels())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/bubblechart/pkg/render/sink
// [tree]: github.com/matzehuels/bubblechart/pkg/render/tree
// [chart.Layout]: github.com/matzehuels/bubblechart/pkg/chart.Layout
package render
