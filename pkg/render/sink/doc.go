// Package sink provides output format renderers for bubble chart layouts.
//
// # Overview
//
// A "sink" transforms a computed [chart.Layout] into a final output format:
//
//   - SVG: one filled circle per bubble, with optional labels
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithLabels(),
//	    sink.WithTitle("Portfolio"),
//	)
//
// Each bubble is a <g class="bubble" data-index="N"> group where N is the
// source category index, so an embedding page can forward clicks to a
// drill-down selector. Bubbles placed by the grid fallback carry the extra
// "fallback" class and a dashed outline.
//
// # SVG Options
//
//   - [WithLabels]: weight percentage and name inside each bubble
//   - [WithTitle]: heading above the canvas
//   - [WithBackground]: solid background fill
//
// # PDF and PNG Output
//
//	pdf, err := sink.RenderPDF(layout, sink.WithPDFSVGOptions(sink.WithLabels()))
//	png, err := sink.RenderPNG(layout, sink.WithScale(2))
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [chart.Layout]: github.com/matzehuels/bubblechart/pkg/chart.Layout
package sink
