package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/render"
)

// RootID is the DOT node ID of the dataset root.
const RootID = "__root__"

// Options configures category tree rendering.
type Options struct {
	// Weights appends the weight percentage to each node label.
	Weights bool
	// Active highlights the parent at this source index when set.
	Active *int
}

// ToDOT converts a dataset into a Graphviz DOT hierarchy: the title as the
// root, parent categories on the first rank and their subcategories below.
// Nodes are filled with the category color; node IDs are index paths
// ("c0", "c0_2") so duplicate names stay distinct.
func ToDOT(ds chart.Dataset, opts Options) string {
	cats := ds.Normalized()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	title := ds.Title
	if title == "" {
		title = "categories"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=\"#f2f2f2\"];\n", RootID, title)

	for i, c := range cats {
		id := "c" + strconv.Itoa(i)
		attrs := fmtAttrs(c, opts.Weights)
		if opts.Active != nil && i == *opts.Active {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", RootID, id)

		for j, child := range c.Children {
			cid := id + "_" + strconv.Itoa(j)
			fmt.Fprintf(&buf, "  %q [%s];\n", cid, strings.Join(fmtAttrs(child, opts.Weights), ", "))
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, cid)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c bubble.Category, weights bool) string {
	if !weights {
		return c.Name
	}
	return c.Name + "\n" + bubble.FormatWeight(c.Weight)
}

func fmtAttrs(c bubble.Category, weights bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, weights))}
	if c.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c.Color))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one so the tree scales like the bubble SVG.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
