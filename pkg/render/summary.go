package render

import (
	"fmt"

	"github.com/platinummonkey/coral/pkg/graph"
)

// Summary returns a single line of counts with no trailing newline.
func Summary(m *graph.Model) string {
	c := countNodes(m)
	return fmt.Sprintf("%d nodes, %d edges, %d packages (%d services, %d messages, %d enums, %d external)",
		m.NodeCount(), m.EdgeCount(), len(m.Packages), c.services, c.messages, c.enums, c.external)
}
