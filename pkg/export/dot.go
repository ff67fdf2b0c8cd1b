package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// ToDOT converts a resolution map to Graphviz DOT. Each key is a node
// labelled with name, extras and version; each dependency that resolved
// to a key is an edge, labelled with its extra gate when it has one.
// The root node is highlighted.
func ToDOT(res *resolve.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	keys := res.Map.Keys()
	for i, k := range keys {
		label := k.Name
		if k.Extras != "" {
			label += "[" + k.Extras + "]"
		}
		label += "\n" + k.Version
		if i == 0 {
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", k.String(), label)
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", k.String(), label)
	}

	buf.WriteString("\n")
	for _, k := range keys {
		entry, _ := res.Map.Get(k)
		for _, d := range entry {
			target, ok := res.Map.Resolved(d)
			if !ok {
				continue
			}
			if d.ExtraGate != "" {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed];\n", k.String(), target.String(), d.ExtraGate)
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", k.String(), target.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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
	return buf.Bytes(), nil
}
