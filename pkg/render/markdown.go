package render

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/coral/pkg/graph"
)

// Markdown renders the full dependency report. The output is GitHub-flavored
// markdown with collapsible per-kind sections, sized for posting as a PR
// comment.
func Markdown(m *graph.Model) string {
	var out strings.Builder
	out.WriteString("## 🪸 Coral Proto Dependency Analysis\n\n")
	writeOverview(&out, m)
	writeServices(&out, m)
	writeMessages(&out, m)
	writeEnums(&out, m)
	out.WriteString("---\n*Generated by [Coral](https://github.com/platinummonkey/coral)*\n")
	return out.String()
}

type modelCounts struct {
	files    int
	services int
	messages int
	enums    int
	external int
}

func countNodes(m *graph.Model) modelCounts {
	var c modelCounts
	files := make(map[string]struct{})
	for _, n := range m.Nodes {
		files[n.File] = struct{}{}
		switch n.Kind {
		case graph.KindService:
			c.services++
		case graph.KindMessage:
			c.messages++
		case graph.KindEnum:
			c.enums++
		case graph.KindExternal:
			c.external++
		}
	}
	c.files = len(files)
	return c
}

func writeOverview(out *strings.Builder, m *graph.Model) {
	c := countNodes(m)
	out.WriteString("### Overview\n")
	out.WriteString("| Metric | Count |\n")
	out.WriteString("|--------|-------|\n")
	fmt.Fprintf(out, "| Files | %d |\n", c.files)
	fmt.Fprintf(out, "| Services | %d |\n", c.services)
	fmt.Fprintf(out, "| Messages | %d |\n", c.messages)
	fmt.Fprintf(out, "| Enums | %d |\n", c.enums)
	fmt.Fprintf(out, "| External | %d |\n", c.external)
	fmt.Fprintf(out, "| Dependencies | %d |\n\n", m.EdgeCount())
}

func nodesOfKind(m *graph.Model, kind graph.NodeKind) []graph.Node {
	var nodes []graph.Node
	for _, n := range m.Nodes {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func writeNodeHeader(out *strings.Builder, n graph.Node) {
	fmt.Fprintf(out, "#### %s\n**Package**: `%s` | **File**: `%s`\n\n", n.Label, n.Package, n.File)
}

func writeServices(out *strings.Builder, m *graph.Model) {
	services := nodesOfKind(m, graph.KindService)
	if len(services) == 0 {
		return
	}
	fmt.Fprintf(out, "<details>\n<summary>📡 Services (%d)</summary>\n\n", len(services))
	for _, n := range services {
		writeNodeHeader(out, n)
		details, ok := n.Details.(graph.ServiceDetails)
		if !ok || len(details.Methods) == 0 {
			continue
		}
		out.WriteString("| Method | Input | Output |\n")
		out.WriteString("|--------|-------|--------|\n")
		for _, method := range details.Methods {
			fmt.Fprintf(out, "| %s | %s | %s |\n", method.Name, method.InputType, method.OutputType)
		}
		out.WriteString("\n")
	}
	out.WriteString("</details>\n\n")
}

func writeMessages(out *strings.Builder, m *graph.Model) {
	messages := nodesOfKind(m, graph.KindMessage)
	if len(messages) == 0 {
		return
	}
	fmt.Fprintf(out, "<details>\n<summary>📦 Messages (%d)</summary>\n\n", len(messages))
	for _, n := range messages {
		writeNodeHeader(out, n)
		details, ok := n.Details.(graph.MessageDetails)
		if !ok || len(details.Fields) == 0 {
			continue
		}
		out.WriteString("| # | Field | Type | Label |\n")
		out.WriteString("|---|-------|------|-------|\n")
		for _, field := range details.Fields {
			fmt.Fprintf(out, "| %d | %s | %s | %s |\n", field.Number, field.Name, field.TypeName, field.Label)
		}
		out.WriteString("\n")
	}
	out.WriteString("</details>\n\n")
}

func writeEnums(out *strings.Builder, m *graph.Model) {
	enums := nodesOfKind(m, graph.KindEnum)
	if len(enums) == 0 {
		return
	}
	fmt.Fprintf(out, "<details>\n<summary>🏷️ Enums (%d)</summary>\n\n", len(enums))
	for _, n := range enums {
		writeNodeHeader(out, n)
		details, ok := n.Details.(graph.EnumDetails)
		if !ok || len(details.Values) == 0 {
			continue
		}
		out.WriteString("| Value | Number |\n")
		out.WriteString("|-------|--------|\n")
		for _, value := range details.Values {
			fmt.Fprintf(out, "| %s | %d |\n", value.Name, value.Number)
		}
		out.WriteString("\n")
	}
	out.WriteString("</details>\n\n")
}
