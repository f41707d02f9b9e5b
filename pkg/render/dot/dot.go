package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/placement"
	"github.com/ysiraichi/enfield/pkg/stats"
)

// Options configures [ToDOT].
type Options struct {
	// Title is drawn above the graph when set.
	Title string
	// Logical names logical qubit l. Defaults to "l<l>".
	Logical func(l int) string
	// Highlight marks couplings, e.g. the ones a routing used for swaps.
	// Order within an edge does not matter.
	Highlight []graph.Edge
}

// ToDOT converts a device and an optional placement to Graphviz DOT.
func ToDOT(a *graph.Arch, p *placement.Placement, opts Options) string {
	logical := opts.Logical
	if logical == nil {
		logical = func(l int) string { return fmt.Sprintf("l%d", l) }
	}
	hot := make(map[graph.Edge]bool, len(opts.Highlight))
	for _, e := range opts.Highlight {
		hot[graph.Edge{U: min(e.U, e.V), V: max(e.U, e.V)}] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for v := 0; v < a.Size(); v++ {
		label := a.VertexName(v)
		fill := "white"
		if p != nil && v < p.Vertices() {
			if l := p.Logical(v); l != placement.Unassigned {
				label += "\n" + logical(l)
				fill = "lightblue"
			}
		}
		fmt.Fprintf(&buf, "  v%d [label=%q, fillcolor=%s];\n", v, label, fill)
	}

	buf.WriteString("\n")
	weighted := a.IsWeighted()
	for _, e := range a.Edges() {
		attrs := []string{"dir=" + direction(a, e)}
		if weighted {
			w, _ := a.Weight(e.U, e.V)
			attrs = append(attrs, fmt.Sprintf("label=%q", stats.Format(w)))
		}
		if hot[e] {
			attrs = append(attrs, "color=red", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  v%d -- v%d [%s];\n", e.U, e.V, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func direction(a *graph.Arch, e graph.Edge) string {
	fwd, back := a.HasCoupling(e.U, e.V), a.HasCoupling(e.V, e.U)
	switch {
	case fwd && back:
		return "both"
	case back:
		return "back"
	}
	return "forward"
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
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

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
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
