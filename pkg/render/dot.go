package render

import (
	"bytes"
	"fmt"

	"github.com/platinummonkey/coral/pkg/graph"
)

// ToDOT converts the model to Graphviz DOT. Fill color encodes the node
// kind so the rendered graph separates services, messages, enums, and
// external types at a glance.
func ToDOT(m *graph.Model) string {
	var buf bytes.Buffer
	buf.WriteString("digraph coral {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range m.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", n.ID, n.Label, kindColor(n.Kind))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func kindColor(kind graph.NodeKind) string {
	switch kind {
	case graph.KindService:
		return "lightblue"
	case graph.KindMessage:
		return "palegreen"
	case graph.KindEnum:
		return "khaki"
	case graph.KindExternal:
		return "lightgrey"
	default:
		return "white"
	}
}
