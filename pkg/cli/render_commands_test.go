package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCommand(t *testing.T) {
	path := writeDescriptorFile(t)

	out, err := runCommand(newSummaryCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "4 nodes, 3 edges, 1 packages")
	assert.Contains(t, out, "1 services, 2 messages, 1 enums")
}

func TestReportCommand(t *testing.T) {
	path := writeDescriptorFile(t)

	out, err := runCommand(newReportCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "## 🪸 Coral Proto Dependency Analysis")
	assert.Contains(t, out, "OrderService")
	assert.Contains(t, out, "ORDER_STATUS_PAID")
}

func TestDotCommand(t *testing.T) {
	path := writeDescriptorFile(t)

	out, err := runCommand(newDotCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph coral {")
	assert.Contains(t, out, `"shop.v1.OrderService" -> "shop.v1.GetOrderRequest";`)
	assert.Contains(t, out, `"shop.v1.Order" -> "shop.v1.OrderStatus";`)
}

func TestDebugCommand(t *testing.T) {
	path := writeDescriptorFile(t)

	out, err := runCommand(newDebugCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "shop/v1/orders.proto")
	assert.Contains(t, out, "Messages: 2")
	assert.Contains(t, out, "Services: 1")
}

func TestRenderCommandsRequireInput(t *testing.T) {
	commands := map[string]*cobra.Command{
		"summary": newSummaryCommand(),
		"report":  newReportCommand(),
		"dot":     newDotCommand(),
		"debug":   newDebugCommand(),
	}
	for name, cmd := range commands {
		t.Run(name, func(t *testing.T) {
			_, err := runCommand(cmd)
			assert.ErrorIs(t, err, errMissingInput)
		})
	}
}
