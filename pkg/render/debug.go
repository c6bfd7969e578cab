package render

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// DebugDump lists every file in the descriptor set with its package and
// top-level definition counts. Files missing a name or package print
// "<unknown>" so a malformed set is still inspectable.
func DebugDump(fds *descriptorpb.FileDescriptorSet) string {
	var out strings.Builder
	out.WriteString("=== FileDescriptorSet Debug ===\n")
	fmt.Fprintf(&out, "Total files: %d\n", len(fds.GetFile()))
	out.WriteString("\n")
	for _, file := range fds.GetFile() {
		name := "<unknown>"
		if file.Name != nil {
			name = file.GetName()
		}
		pkg := "<unknown>"
		if file.Package != nil {
			pkg = file.GetPackage()
		}
		fmt.Fprintf(&out, "📄 File: %s\n", name)
		fmt.Fprintf(&out, "   Package: %s\n", pkg)
		fmt.Fprintf(&out, "   Messages: %d\n", len(file.GetMessageType()))
		fmt.Fprintf(&out, "   Services: %d\n", len(file.GetService()))
		out.WriteString("\n")
	}
	return out.String()
}
