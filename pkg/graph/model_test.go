package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() *Model {
	return &Model{
		Nodes: []Node{
			{
				ID:      "user.v1.UserService",
				Kind:    KindService,
				Package: "user.v1",
				Label:   "UserService",
				File:    "user/v1/user.proto",
				Details: ServiceDetails{
					Methods: []Method{
						{Name: "GetUser", InputType: "GetUserRequest", OutputType: "User"},
					},
					Messages: []MessageDef{
						{Name: "GetUserRequest", Fields: []Field{
							{Name: "user_id", Number: 1, TypeName: "string", Label: "optional"},
						}},
					},
				},
			},
			{
				ID:      "user.v1.User",
				Kind:    KindMessage,
				Package: "user.v1",
				Label:   "User",
				File:    "user/v1/user.proto",
				Details: MessageDetails{Fields: []Field{
					{Name: "id", Number: 1, TypeName: "string", Label: "optional"},
					{Name: "status", Number: 2, TypeName: "UserStatus", Label: "optional"},
				}},
			},
			{
				ID:      "user.v1.UserStatus",
				Kind:    KindEnum,
				Package: "user.v1",
				Label:   "UserStatus",
				File:    "user/v1/user.proto",
				Details: EnumDetails{Values: []EnumValue{
					{Name: "UNKNOWN", Number: 0},
					{Name: "ACTIVE", Number: 1},
				}},
			},
			{
				ID:      "google.protobuf.Timestamp",
				Kind:    KindExternal,
				Package: "google.protobuf",
				Label:   "Timestamp",
				File:    "google/protobuf/timestamp.proto",
				Details: ExternalDetails{},
			},
		},
		Edges: []Edge{
			{Source: "user.v1.UserService", Target: "user.v1.User"},
			{Source: "user.v1.User", Target: "user.v1.UserStatus"},
		},
		Packages: []Package{
			{ID: "user.v1", NodeIDs: []string{"user.v1.UserService", "user.v1.User", "user.v1.UserStatus"}},
			{ID: "google.protobuf", NodeIDs: []string{"google.protobuf.Timestamp"}},
		},
	}
}

func TestEmptyModelSerialization(t *testing.T) {
	data, err := json.Marshal(NewModel())
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":[],"edges":[],"packages":[]}`, string(data))
}

func TestZeroModelSerializesCollectionsAsArrays(t *testing.T) {
	data, err := json.Marshal(&Model{})
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":[],"edges":[],"packages":[]}`, string(data))
}

func TestNodeKindSerializesLowercase(t *testing.T) {
	data, err := json.Marshal(sampleModel())
	require.NoError(t, err)

	assert.Contains(t, string(data), `"type":"service"`)
	assert.Contains(t, string(data), `"type":"message"`)
	assert.Contains(t, string(data), `"type":"enum"`)
	assert.Contains(t, string(data), `"type":"external"`)
}

func TestDetailsKindTags(t *testing.T) {
	data, err := json.Marshal(sampleModel())
	require.NoError(t, err)

	assert.Contains(t, string(data), `"kind":"Service"`)
	assert.Contains(t, string(data), `"kind":"Message"`)
	assert.Contains(t, string(data), `"kind":"Enum"`)
	assert.Contains(t, string(data), `"kind":"External"`)
}

func TestJSONUsesCamelCaseFields(t *testing.T) {
	data, err := json.Marshal(sampleModel())
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"inputType"`)
	assert.Contains(t, body, `"outputType"`)
	assert.Contains(t, body, `"typeName"`)
	assert.Contains(t, body, `"nodeIds"`)
	assert.NotContains(t, body, `"input_type"`)
	assert.NotContains(t, body, `"node_ids"`)
}

func TestNodeRoundTrip(t *testing.T) {
	original := sampleModel()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Model
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Nodes, 4)
	svc := decoded.FindNode("user.v1.UserService")
	require.NotNil(t, svc)
	details, ok := svc.Details.(ServiceDetails)
	require.True(t, ok)
	require.Len(t, details.Methods, 1)
	assert.Equal(t, "GetUser", details.Methods[0].Name)
	assert.Equal(t, "GetUserRequest", details.Methods[0].InputType)
	require.Len(t, details.Messages, 1)
	assert.Equal(t, "user_id", details.Messages[0].Fields[0].Name)

	ext := decoded.FindNode("google.protobuf.Timestamp")
	require.NotNil(t, ext)
	assert.Equal(t, KindExternal, ext.Kind)
	_, ok = ext.Details.(ExternalDetails)
	assert.True(t, ok)

	assert.Equal(t, original.Edges, decoded.Edges)
	assert.Equal(t, original.Packages, decoded.Packages)
}

func TestNodeUnmarshalUnknownDetailsKind(t *testing.T) {
	var node Node
	err := json.Unmarshal([]byte(`{"id":"a","type":"message","package":"","label":"a","file":"a.proto","details":{"kind":"Mystery"}}`), &node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node details kind")
}

func TestNodeUnmarshalNullDetails(t *testing.T) {
	var node Node
	err := json.Unmarshal([]byte(`{"id":"a","type":"external","package":"","label":"a","file":"a.proto","details":null}`), &node)
	require.NoError(t, err)
	assert.Nil(t, node.Details)
}

func TestModelCounts(t *testing.T) {
	m := sampleModel()
	assert.Equal(t, 4, m.NodeCount())
	assert.Equal(t, 2, m.EdgeCount())
}

func TestFindNode(t *testing.T) {
	m := sampleModel()

	node := m.FindNode("user.v1.User")
	require.NotNil(t, node)
	assert.Equal(t, "User", node.Label)

	assert.Nil(t, m.FindNode("does.not.Exist"))
}
