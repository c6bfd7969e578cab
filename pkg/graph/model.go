package graph

import (
	"encoding/json"
	"fmt"
)

// NodeKind identifies what a node represents.
type NodeKind string

const (
	KindService  NodeKind = "service"
	KindMessage  NodeKind = "message"
	KindEnum     NodeKind = "enum"
	KindExternal NodeKind = "external"
)

// Method is a service method signature. Input and output types are short
// names (the last segment of the fully qualified name).
type Method struct {
	Name       string `json:"name"`
	InputType  string `json:"inputType"`
	OutputType string `json:"outputType"`
}

// Field is a message field.
type Field struct {
	Name     string `json:"name"`
	Number   int32  `json:"number"`
	TypeName string `json:"typeName"`
	Label    string `json:"label"`
}

// MessageDef is a message definition embedded in service details so the
// frontend can render request/response shapes without a second lookup.
type MessageDef struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// EnumValue is a single enum value.
type EnumValue struct {
	Name   string `json:"name"`
	Number int32  `json:"number"`
}

// Details is the kind-specific payload of a node. Exactly one of
// ServiceDetails, MessageDetails, EnumDetails, or ExternalDetails.
type Details interface {
	detailsKind() string
}

// ServiceDetails carries method signatures plus the resolvable
// request/response message definitions, deduplicated in first-seen order.
type ServiceDetails struct {
	Methods  []Method     `json:"methods"`
	Messages []MessageDef `json:"messages"`
}

// MessageDetails carries the declared fields in declaration order.
type MessageDetails struct {
	Fields []Field `json:"fields"`
}

// EnumDetails carries the declared values in declaration order.
type EnumDetails struct {
	Values []EnumValue `json:"values"`
}

// ExternalDetails has no payload. External nodes exist only as edge targets.
type ExternalDetails struct{}

func (ServiceDetails) detailsKind() string  { return "Service" }
func (MessageDetails) detailsKind() string  { return "Message" }
func (EnumDetails) detailsKind() string     { return "Enum" }
func (ExternalDetails) detailsKind() string { return "External" }

func (d ServiceDetails) MarshalJSON() ([]byte, error) {
	type raw ServiceDetails
	return json.Marshal(struct {
		Kind string `json:"kind"`
		raw
	}{Kind: d.detailsKind(), raw: raw(d)})
}

func (d MessageDetails) MarshalJSON() ([]byte, error) {
	type raw MessageDetails
	return json.Marshal(struct {
		Kind string `json:"kind"`
		raw
	}{Kind: d.detailsKind(), raw: raw(d)})
}

func (d EnumDetails) MarshalJSON() ([]byte, error) {
	type raw EnumDetails
	return json.Marshal(struct {
		Kind string `json:"kind"`
		raw
	}{Kind: d.detailsKind(), raw: raw(d)})
}

func (d ExternalDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{Kind: d.detailsKind()})
}

// Node is one vertex of the dependency graph. ID is unique across the model
// and formed by dot-joining the proto package and the definition name.
type Node struct {
	ID      string
	Kind    NodeKind
	Package string
	Label   string
	File    string
	Details Details
}

// rawNode mirrors Node for JSON with details held as raw bytes until the
// kind tag is known.
type rawNode struct {
	ID      string          `json:"id"`
	Kind    NodeKind        `json:"type"`
	Package string          `json:"package"`
	Label   string          `json:"label"`
	File    string          `json:"file"`
	Details json.RawMessage `json:"details"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	var details json.RawMessage
	if n.Details != nil {
		d, err := json.Marshal(n.Details)
		if err != nil {
			return nil, err
		}
		details = d
	}
	return json.Marshal(rawNode{
		ID:      n.ID,
		Kind:    n.Kind,
		Package: n.Package,
		Label:   n.Label,
		File:    n.File,
		Details: details,
	})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.ID = raw.ID
	n.Kind = raw.Kind
	n.Package = raw.Package
	n.Label = raw.Label
	n.File = raw.File
	n.Details = nil

	if len(raw.Details) == 0 || string(raw.Details) == "null" {
		return nil
	}
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw.Details, &tag); err != nil {
		return err
	}
	switch tag.Kind {
	case "Service":
		var d ServiceDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		n.Details = d
	case "Message":
		var d MessageDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		n.Details = d
	case "Enum":
		var d EnumDetails
		if err := json.Unmarshal(raw.Details, &d); err != nil {
			return err
		}
		n.Details = d
	case "External":
		n.Details = ExternalDetails{}
	default:
		return fmt.Errorf("unknown node details kind %q", tag.Kind)
	}
	return nil
}

// Edge is a directed type reference between two nodes, identified by node IDs.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Package groups node IDs by proto package. The empty package name is a
// valid group. Together the groups partition the model's node IDs.
type Package struct {
	ID      string   `json:"id"`
	NodeIDs []string `json:"nodeIds"`
}

// Model is a complete dependency graph. Every edge endpoint refers to a node
// present in Nodes. Models are never mutated after the builder returns them.
type Model struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Packages []Package `json:"packages"`
}

// NewModel returns an empty model whose collections serialize as [] rather
// than null.
func NewModel() *Model {
	return &Model{
		Nodes:    []Node{},
		Edges:    []Edge{},
		Packages: []Package{},
	}
}

func (m Model) MarshalJSON() ([]byte, error) {
	type raw Model
	r := raw(m)
	if r.Nodes == nil {
		r.Nodes = []Node{}
	}
	if r.Edges == nil {
		r.Edges = []Edge{}
	}
	if r.Packages == nil {
		r.Packages = []Package{}
	}
	return json.Marshal(r)
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int {
	return len(m.Nodes)
}

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int {
	return len(m.Edges)
}

// FindNode returns the node with the given ID, or nil.
func (m *Model) FindNode(id string) *Node {
	for i := range m.Nodes {
		if m.Nodes[i].ID == id {
			return &m.Nodes[i]
		}
	}
	return nil
}
