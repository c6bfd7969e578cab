package diff

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/coral/pkg/graph"
)

// Markdown renders the report as a human-readable summary with a table per
// non-empty category.
func (r *Report) Markdown() string {
	if !r.HasChanges() {
		return "### No Changes Detected\n\n"
	}

	var out strings.Builder
	out.WriteString("### Changes from Base\n\n")

	if !r.Added.IsEmpty() {
		fmt.Fprintf(&out, "#### ✅ Added (+%d)\n", r.Added.TotalCount())
		writeItemsTable(&out, r.Added)
	}

	if len(r.Modified) > 0 {
		fmt.Fprintf(&out, "#### ⚠️ Modified (%d)\n", len(r.Modified))
		out.WriteString("| Type | Name | Changes |\n")
		out.WriteString("|------|------|--------|\n")
		for _, item := range r.Modified {
			fmt.Fprintf(&out, "| %s | %s | %s |\n", kindLabel(item.NodeType), item.Label, summarizeChanges(item.Changes))
		}
		out.WriteString("\n")
	}

	if !r.Removed.IsEmpty() {
		fmt.Fprintf(&out, "#### ❌ Removed (-%d)\n", r.Removed.TotalCount())
		writeItemsTable(&out, r.Removed)
	}

	return out.String()
}

func writeItemsTable(out *strings.Builder, items Items) {
	out.WriteString("| Type | Name | Package |\n")
	out.WriteString("|------|------|--------|\n")
	for _, svc := range items.Services {
		fmt.Fprintf(out, "| Service | %s | %s |\n", svc.Label, svc.Package)
	}
	for _, msg := range items.Messages {
		fmt.Fprintf(out, "| Message | %s | %s |\n", msg.Label, msg.Package)
	}
	for _, enm := range items.Enums {
		fmt.Fprintf(out, "| Enum | %s | %s |\n", enm.Label, enm.Package)
	}
	out.WriteString("\n")
}

func kindLabel(kind graph.NodeKind) string {
	switch kind {
	case graph.KindService:
		return "Service"
	case graph.KindMessage:
		return "Message"
	case graph.KindEnum:
		return "Enum"
	case graph.KindExternal:
		return "External"
	default:
		return string(kind)
	}
}

// summarizeChanges condenses a change list into counts like
// "+1 field(s), -2 method(s)".
func summarizeChanges(changes []Change) string {
	var addedFields, removedFields, addedMethods, removedMethods, addedValues, removedValues int
	for _, change := range changes {
		switch change.(type) {
		case FieldAdded:
			addedFields++
		case FieldRemoved:
			removedFields++
		case MethodAdded:
			addedMethods++
		case MethodRemoved:
			removedMethods++
		case EnumValueAdded:
			addedValues++
		case EnumValueRemoved:
			removedValues++
		}
	}

	parts := make([]string, 0, 6)
	if addedFields > 0 {
		parts = append(parts, fmt.Sprintf("+%d field(s)", addedFields))
	}
	if removedFields > 0 {
		parts = append(parts, fmt.Sprintf("-%d field(s)", removedFields))
	}
	if addedMethods > 0 {
		parts = append(parts, fmt.Sprintf("+%d method(s)", addedMethods))
	}
	if removedMethods > 0 {
		parts = append(parts, fmt.Sprintf("-%d method(s)", removedMethods))
	}
	if addedValues > 0 {
		parts = append(parts, fmt.Sprintf("+%d value(s)", addedValues))
	}
	if removedValues > 0 {
		parts = append(parts, fmt.Sprintf("-%d value(s)", removedValues))
	}
	return strings.Join(parts, ", ")
}
