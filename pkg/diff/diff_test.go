package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/coral/pkg/graph"
)

func baseModel() *graph.Model {
	return &graph.Model{
		Nodes: []graph.Node{
			{
				ID:      "user.v1.UserService",
				Kind:    graph.KindService,
				Package: "user.v1",
				Label:   "UserService",
				File:    "user/v1/user.proto",
				Details: graph.ServiceDetails{
					Methods: []graph.Method{
						{Name: "GetUser", InputType: "GetUserRequest", OutputType: "User"},
					},
					Messages: []graph.MessageDef{},
				},
			},
			{
				ID:      "user.v1.User",
				Kind:    graph.KindMessage,
				Package: "user.v1",
				Label:   "User",
				File:    "user/v1/user.proto",
				Details: graph.MessageDetails{Fields: []graph.Field{
					{Name: "id", Number: 1, TypeName: "string", Label: "optional"},
				}},
			},
			{
				ID:      "user.v1.OldMessage",
				Kind:    graph.KindMessage,
				Package: "user.v1",
				Label:   "OldMessage",
				File:    "user/v1/user.proto",
				Details: graph.MessageDetails{Fields: []graph.Field{}},
			},
		},
	}
}

func headModel() *graph.Model {
	return &graph.Model{
		Nodes: []graph.Node{
			{
				ID:      "user.v1.UserService",
				Kind:    graph.KindService,
				Package: "user.v1",
				Label:   "UserService",
				File:    "user/v1/user.proto",
				Details: graph.ServiceDetails{
					Methods: []graph.Method{
						{Name: "GetUser", InputType: "GetUserRequest", OutputType: "User"},
						{Name: "CreateUser", InputType: "CreateUserRequest", OutputType: "User"},
					},
					Messages: []graph.MessageDef{},
				},
			},
			{
				ID:      "user.v1.User",
				Kind:    graph.KindMessage,
				Package: "user.v1",
				Label:   "User",
				File:    "user/v1/user.proto",
				Details: graph.MessageDetails{Fields: []graph.Field{
					{Name: "id", Number: 1, TypeName: "string", Label: "optional"},
					{Name: "email", Number: 2, TypeName: "string", Label: "optional"},
				}},
			},
			{
				ID:      "user.v1.NewMessage",
				Kind:    graph.KindMessage,
				Package: "user.v1",
				Label:   "NewMessage",
				File:    "user/v1/user.proto",
				Details: graph.MessageDetails{Fields: []graph.Field{}},
			},
		},
	}
}

func TestNoChanges(t *testing.T) {
	model := baseModel()
	report := Compute(model, model)

	assert.False(t, report.HasChanges())
	assert.True(t, report.Added.IsEmpty())
	assert.True(t, report.Removed.IsEmpty())
	assert.Empty(t, report.Modified)
}

func TestEmptyModels(t *testing.T) {
	report := Compute(graph.NewModel(), graph.NewModel())
	assert.False(t, report.HasChanges())
}

func TestAddedAndRemovedDetection(t *testing.T) {
	report := Compute(baseModel(), headModel())

	require.Len(t, report.Added.Messages, 1)
	assert.Equal(t, Node{ID: "user.v1.NewMessage", Label: "NewMessage", Package: "user.v1"}, report.Added.Messages[0])
	assert.Empty(t, report.Added.Services)
	assert.Empty(t, report.Added.Enums)

	require.Len(t, report.Removed.Messages, 1)
	assert.Equal(t, "OldMessage", report.Removed.Messages[0].Label)
}

func TestModifiedDetection(t *testing.T) {
	report := Compute(baseModel(), headModel())

	require.Len(t, report.Modified, 2)
	assert.Equal(t, "user.v1.User", report.Modified[0].NodeID)
	assert.Equal(t, "user.v1.UserService", report.Modified[1].NodeID)

	svc := report.Modified[1]
	assert.Equal(t, graph.KindService, svc.NodeType)
	require.Len(t, svc.Changes, 1)
	added, ok := svc.Changes[0].(MethodAdded)
	require.True(t, ok)
	assert.Equal(t, "CreateUser", added.Method.Name)

	user := report.Modified[0]
	require.Len(t, user.Changes, 1)
	fieldAdded, ok := user.Changes[0].(FieldAdded)
	require.True(t, ok)
	assert.Equal(t, "email", fieldAdded.Field.Name)
}

func TestPartitionProperty(t *testing.T) {
	report := Compute(baseModel(), headModel())

	seen := make(map[string]int)
	for _, items := range []Items{report.Added, report.Removed} {
		for _, list := range [][]Node{items.Services, items.Messages, items.Enums} {
			for _, n := range list {
				seen[n.ID]++
			}
		}
	}
	for _, item := range report.Modified {
		seen[item.NodeID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "node %s classified %d times", id, count)
	}
}

func TestKindMismatchYieldsNoRecord(t *testing.T) {
	base := &graph.Model{Nodes: []graph.Node{
		{
			ID: "shape.v1.Status", Kind: graph.KindMessage, Package: "shape.v1", Label: "Status",
			Details: graph.MessageDetails{Fields: []graph.Field{{Name: "code", Number: 1, TypeName: "int32", Label: "optional"}}},
		},
	}}
	head := &graph.Model{Nodes: []graph.Node{
		{
			ID: "shape.v1.Status", Kind: graph.KindEnum, Package: "shape.v1", Label: "Status",
			Details: graph.EnumDetails{Values: []graph.EnumValue{{Name: "OK", Number: 0}}},
		},
	}}

	report := Compute(base, head)
	assert.False(t, report.HasChanges())
}

func TestSameNamedDriftIgnored(t *testing.T) {
	base := &graph.Model{Nodes: []graph.Node{
		{
			ID: "a.B", Kind: graph.KindMessage, Package: "a", Label: "B",
			Details: graph.MessageDetails{Fields: []graph.Field{{Name: "x", Number: 1, TypeName: "int32", Label: "optional"}}},
		},
	}}
	head := &graph.Model{Nodes: []graph.Node{
		{
			ID: "a.B", Kind: graph.KindMessage, Package: "a", Label: "B",
			Details: graph.MessageDetails{Fields: []graph.Field{{Name: "x", Number: 9, TypeName: "string", Label: "repeated"}}},
		},
	}}

	report := Compute(base, head)
	assert.False(t, report.HasChanges())
}

func TestExternalNodesExcluded(t *testing.T) {
	head := &graph.Model{Nodes: []graph.Node{
		{
			ID: "google.protobuf.Timestamp", Kind: graph.KindExternal, Package: "google.protobuf",
			Label: "Timestamp", Details: graph.ExternalDetails{},
		},
	}}

	report := Compute(graph.NewModel(), head)
	assert.False(t, report.HasChanges())
	assert.True(t, report.Added.IsEmpty())
}

func TestAdditionsPrecedeRemovals(t *testing.T) {
	base := &graph.Model{Nodes: []graph.Node{
		{
			ID: "a.B", Kind: graph.KindMessage, Package: "a", Label: "B",
			Details: graph.MessageDetails{Fields: []graph.Field{{Name: "old", Number: 1, TypeName: "string", Label: "optional"}}},
		},
	}}
	head := &graph.Model{Nodes: []graph.Node{
		{
			ID: "a.B", Kind: graph.KindMessage, Package: "a", Label: "B",
			Details: graph.MessageDetails{Fields: []graph.Field{{Name: "new", Number: 2, TypeName: "string", Label: "optional"}}},
		},
	}}

	report := Compute(base, head)
	require.Len(t, report.Modified, 1)
	changes := report.Modified[0].Changes
	require.Len(t, changes, 2)
	_, ok := changes[0].(FieldAdded)
	assert.True(t, ok)
	_, ok = changes[1].(FieldRemoved)
	assert.True(t, ok)
}

func TestEnumValueChanges(t *testing.T) {
	base := &graph.Model{Nodes: []graph.Node{
		{
			ID: "a.Status", Kind: graph.KindEnum, Package: "a", Label: "Status",
			Details: graph.EnumDetails{Values: []graph.EnumValue{{Name: "UNKNOWN", Number: 0}}},
		},
	}}
	head := &graph.Model{Nodes: []graph.Node{
		{
			ID: "a.Status", Kind: graph.KindEnum, Package: "a", Label: "Status",
			Details: graph.EnumDetails{Values: []graph.EnumValue{{Name: "UNKNOWN", Number: 0}, {Name: "ACTIVE", Number: 1}}},
		},
	}}

	report := Compute(base, head)
	require.Len(t, report.Modified, 1)
	require.Len(t, report.Modified[0].Changes, 1)
	added, ok := report.Modified[0].Changes[0].(EnumValueAdded)
	require.True(t, ok)
	assert.Equal(t, graph.EnumValue{Name: "ACTIVE", Number: 1}, added.Value)
}

func TestReportJSON(t *testing.T) {
	data, err := json.Marshal(Compute(baseModel(), headModel()))
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"nodeId":"user.v1.UserService"`)
	assert.Contains(t, body, `"nodeType":"service"`)
	assert.Contains(t, body, `"type":"MethodAdded"`)
	assert.Contains(t, body, `"type":"FieldAdded"`)
	assert.Contains(t, body, `"inputType":"CreateUserRequest"`)
	assert.Contains(t, body, `"services":[]`)
	assert.NotContains(t, body, `"node_id"`)
}

func TestMarkdownNoChanges(t *testing.T) {
	model := baseModel()
	report := Compute(model, model)
	assert.Equal(t, "### No Changes Detected\n\n", report.Markdown())
}

func TestMarkdownWithChanges(t *testing.T) {
	markdown := Compute(baseModel(), headModel()).Markdown()

	assert.Contains(t, markdown, "### Changes from Base")
	assert.Contains(t, markdown, "#### ✅ Added (+1)")
	assert.Contains(t, markdown, "#### ⚠️ Modified (2)")
	assert.Contains(t, markdown, "#### ❌ Removed (-1)")
	assert.Contains(t, markdown, "| Message | NewMessage | user.v1 |")
	assert.Contains(t, markdown, "| Message | OldMessage | user.v1 |")
	assert.Contains(t, markdown, "| Service | UserService | +1 method(s) |")
	assert.Contains(t, markdown, "| Message | User | +1 field(s) |")
}

func TestSummarizeChangesJoinsCounts(t *testing.T) {
	summary := summarizeChanges([]Change{
		FieldAdded{Field: graph.Field{Name: "a"}},
		FieldRemoved{Field: graph.Field{Name: "b"}},
		FieldRemoved{Field: graph.Field{Name: "c"}},
	})
	assert.Equal(t, "+1 field(s), -2 field(s)", summary)
}
