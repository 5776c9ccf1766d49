// Package render turns a lowered block tree into Graphviz diagrams.
//
// Blocks become nested clusters, pins become nodes on their block's
// boundary, and links become edges between the pins they address. The
// renderer consumes only the output tree; it never looks at the source
// graph, so everything it draws reflects decisions already made by the
// lowering pass.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/hdlview/hdlview/pkg/view"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes block types and instance_of paths in labels.
	Detailed bool
}

// ToDOT converts a lowered block tree to Graphviz DOT. Each block is a
// cluster named by its path from the root; pins are nodes inside their
// cluster, and links connect pin nodes within the scope block that owns
// them.
func ToDOT(root *view.Block, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph design {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=11];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	writeBlock(&buf, root, root.Name, 1, opts)

	buf.WriteString("\n")
	writeLinks(&buf, root, root.Name)

	buf.WriteString("}\n")
	return buf.String()
}

// writeBlock emits one cluster with its pins, then recurses into children.
func writeBlock(buf *bytes.Buffer, b *view.Block, path string, depth int, opts Options) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, path)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, blockLabel(b, opts))

	for _, p := range b.Pins {
		fmt.Fprintf(buf, "%s  %q [label=%q];\n", indent, path+"."+p.Name, p.Name)
	}
	// A pinless leaf still needs a node, or the cluster collapses.
	if len(b.Pins) == 0 && len(b.Blocks) == 0 {
		fmt.Fprintf(buf, "%s  %q [label=\"\", shape=point, style=invis];\n", indent, path+".")
	}

	for _, child := range b.Blocks {
		writeBlock(buf, child, path+"."+child.Name, depth+1, opts)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

// writeLinks emits one edge per link, anchored at the pin nodes the link's
// relative endpoints address.
func writeLinks(buf *bytes.Buffer, b *view.Block, path string) {
	for _, l := range b.Links {
		fmt.Fprintf(buf, "  %q -> %q [label=%q, fontsize=9];\n",
			path+"."+l.Source, path+"."+l.Target, l.Name)
	}
	for _, child := range b.Blocks {
		writeLinks(buf, child, path+"."+child.Name)
	}
}

func blockLabel(b *view.Block, opts Options) string {
	if !opts.Detailed {
		return b.Name
	}
	label := fmt.Sprintf("%s (%s)", b.Name, b.Type)
	if b.InstanceOf != "" {
		label += "\ninstance of " + b.InstanceOf
	}
	return label
}

// ToSVG renders a DOT document to SVG using Graphviz.
func ToSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return buf.Bytes(), nil
}
