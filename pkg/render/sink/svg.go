package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/bubblechart/pkg/chart"
)

const bubbleInteractionCSS = `
    .bubble circle { transition: stroke-width 0.2s ease; stroke: #ffffff; stroke-width: 2; }
    .bubble:hover circle { stroke-width: 4; }
    .bubble text { pointer-events: none; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; }
    .bubble-weight { font-weight: 700; }
    .bubble.fallback circle { stroke-dasharray: 4 3; }`

// titleMargin is the space reserved above the canvas when a title is set.
const titleMargin = 36.0

// DefaultFill is used for bubbles without a color.
const DefaultFill = "#cccccc"

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	title      string
	background string
}

// WithLabels draws the weight percentage and name inside each bubble.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithTitle draws a heading above the canvas. An empty title draws nothing.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithBackground fills the whole image with a color.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// RenderSVG draws a layout as SVG. Bubbles are drawn in layout order, so
// larger bubbles sit underneath smaller ones when the fallback overlaps them.
func RenderSVG(l chart.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	top := 0.0
	if r.title != "" {
		top = titleMargin
	}
	width, height := l.Width, l.Height+top

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", bubbleInteractionCSS)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}
	if r.title != "" {
		renderTitle(&buf, width, r.title)
	}

	fmt.Fprintf(&buf, `  <g transform="translate(0, %.1f)">`+"\n", top)
	for _, b := range l.Bubbles {
		renderBubble(&buf, b, r.labels)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderTitle(buf *bytes.Buffer, width float64, title string) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="18" font-weight="600" fill="#1a1a1a">%s</text>`+"\n",
		width/2, titleMargin*0.65, html.EscapeString(title))
}

func renderBubble(buf *bytes.Buffer, b chart.Bubble, labels bool) {
	class := "bubble"
	if b.Fallback {
		class += " fallback"
	}
	fill := b.Color
	if fill == "" {
		fill = DefaultFill
	}

	fmt.Fprintf(buf, `    <g class="%s" id="bubble-%d" data-index="%d">`+"\n", class, b.Index, b.Index)
	fmt.Fprintf(buf, `      <title>%s %s</title>`+"\n", html.EscapeString(b.Name), html.EscapeString(b.Label))
	fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		b.CenterX(), b.CenterY(), b.Diameter/2, html.EscapeString(fill))

	if labels {
		size := fontSize(b.Diameter)
		fmt.Fprintf(buf, `      <text class="bubble-weight" x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			b.CenterX(), b.CenterY()-size*0.2, size*1.3, textColor(fill), html.EscapeString(b.Label))
		fmt.Fprintf(buf, `      <text class="bubble-name" x="%.2f" y="%.2f" text-anchor="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			b.CenterX(), b.CenterY()+size*1.1, size, textColor(fill), html.EscapeString(b.Name))
	}

	buf.WriteString("    </g>\n")
}

// fontSize scales the name label with the bubble, within readable bounds.
func fontSize(diameter float64) float64 {
	return math.Max(8, math.Min(16, diameter/9))
}

// textColor picks dark or light text for a "#rrggbb" fill by relative
// luminance. Anything else gets dark text.
func textColor(fill string) string {
	var r, g, b uint8
	if len(fill) != 7 || fill[0] != '#' {
		return "#1a1a1a"
	}
	if _, err := fmt.Sscanf(fill, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "#1a1a1a"
	}
	lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if lum < 110 {
		return "#ffffff"
	}
	return "#1a1a1a"
}
