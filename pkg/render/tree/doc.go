// Package tree draws a dataset's category hierarchy as a Graphviz diagram.
//
// Where the bubble chart shows one drill-down level at a time, the tree
// shows the whole dataset at once: the title as the root, each parent
// category below it and each subcategory below its parent, filled with the
// category colors.
//
//	dot := tree.ToDOT(ds, tree.Options{Weights: true})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// The DOT string is the intermediate representation and can be cached or
// fed to other Graphviz tools. [RenderPDF] and [RenderPNG] convert through
// SVG with rsvg-convert.
package tree
