package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
)

// Options configures DOT generation and artifact rendering.
type Options struct {
	// Detailed appends the icon caption (e.g. "Function App") to node labels.
	Detailed bool

	// Catalog styles nodes. Defaults to the built-in catalog.
	Catalog catalog.Catalog

	// Cache stores Graphviz output. Nil disables caching.
	Cache cache.Cache
}

func (o Options) catalog() catalog.Catalog {
	if o.Catalog == nil {
		return catalog.Default()
	}
	return o.Catalog
}

// clusterFills alternates cluster backgrounds by nesting depth.
var clusterFills = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

const (
	fontName  = "Sans-Serif"
	fontColor = "#2D3436"
	edgeColor = "#7B8894"
)

// ToDOT converts a diagram to Graphviz DOT source. Nodes are emitted inside
// their cluster blocks in declaration order, followed by all edges in
// declaration order, so identical diagrams produce identical DOT.
func ToDOT(d *diagram.Diagram, opts Options) string {
	w := dotWriter{cat: opts.catalog(), detailed: opts.Detailed, ids: make(map[diagram.NodeRef]string)}
	for i, n := range d.Nodes() {
		w.ids[n.Ref()] = fmt.Sprintf("n%d", i+1)
	}

	buf := &w.buf
	fmt.Fprintf(buf, "digraph %s {\n", dotQuote(d.Title()))
	fmt.Fprintf(buf, "  graph [rankdir=%s, label=%s, labelloc=t, fontname=%q, fontsize=24, fontcolor=%q, pad=2.0, splines=ortho, nodesep=0.60, ranksep=0.75, bgcolor=white];\n",
		d.Direction(), dotQuote(d.Title()), fontName, fontColor)
	fmt.Fprintf(buf, "  node [shape=box, style=\"rounded,filled\", fontname=%q, fontsize=13, fontcolor=%q, margin=\"0.2,0.1\"];\n", fontName, fontColor)
	fmt.Fprintf(buf, "  edge [color=%q, fontname=%q, fontsize=13, fontcolor=%q];\n", edgeColor, fontName, fontColor)
	buf.WriteString("\n")

	w.writeScope(d.Root(), "  ")

	if len(d.Edges()) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range d.Edges() {
		w.writeEdge(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf      bytes.Buffer
	cat      catalog.Catalog
	detailed bool
	ids      map[diagram.NodeRef]string
}

func (w *dotWriter) writeScope(c *diagram.Cluster, indent string) {
	for _, n := range c.Nodes() {
		fmt.Fprintf(&w.buf, "%s%s [%s];\n", indent, w.ids[n.Ref()], strings.Join(w.nodeAttrs(n), ", "))
	}
	for _, child := range c.Clusters() {
		fill := clusterFills[(child.Depth()-1)%len(clusterFills)]
		fmt.Fprintf(&w.buf, "%ssubgraph cluster_%d {\n", indent, child.ID())
		fmt.Fprintf(&w.buf, "%s  label=%s;\n", indent, dotQuote(child.Name()))
		fmt.Fprintf(&w.buf, "%s  style=\"rounded,filled\"; fillcolor=%q; color=\"#AEB6BE\"; labeljust=l; fontsize=12;\n", indent, fill)
		w.writeScope(child, indent+"  ")
		fmt.Fprintf(&w.buf, "%s}\n", indent)
	}
}

func (w *dotWriter) nodeAttrs(n *diagram.Node) []string {
	label := n.DisplayLabel()
	icon, ok := w.cat.Lookup(n.Category)
	if w.detailed && ok && icon.Caption != "" {
		label += "\n" + icon.Caption
	}

	attrs := []string{"label=" + dotQuote(label)}
	if !ok {
		return attrs
	}
	if icon.Shape != "" && icon.Shape != "box" {
		attrs = append(attrs, fmt.Sprintf("shape=%s", icon.Shape))
	}
	if icon.Fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", icon.Fill))
	}
	if icon.Border != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", icon.Border))
	}
	return attrs
}

func (w *dotWriter) writeEdge(e diagram.Edge) {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, "label="+dotQuote(e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, "color="+dotQuote(e.Color))
	}
	if e.Style != "" && e.Style != diagram.EdgeSolid {
		attrs = append(attrs, fmt.Sprintf("style=%s", e.Style))
	}

	from, to := w.ids[e.From], w.ids[e.To]
	if len(attrs) == 0 {
		fmt.Fprintf(&w.buf, "  %s -> %s;\n", from, to)
		return
	}
	fmt.Fprintf(&w.buf, "  %s -> %s [%s];\n", from, to, strings.Join(attrs, ", "))
}

// dotQuote returns s as a DOT double-quoted string. Only quotes, backslashes
// and newlines are escaped; every other rune, tabs included, is written as is.
func dotQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
