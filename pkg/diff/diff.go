package diff

import (
	"encoding/json"
	"sort"

	"github.com/platinummonkey/coral/pkg/graph"
)

// Node is a lightweight projection of a graph node for diff output.
type Node struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Package string `json:"package"`
}

// Items collects projected nodes by kind. Each list is sorted by id.
type Items struct {
	Services []Node `json:"services"`
	Messages []Node `json:"messages"`
	Enums    []Node `json:"enums"`
}

// IsEmpty reports whether no items were collected.
func (i Items) IsEmpty() bool {
	return len(i.Services) == 0 && len(i.Messages) == 0 && len(i.Enums) == 0
}

// TotalCount returns the number of items across all kinds.
func (i Items) TotalCount() int {
	return len(i.Services) + len(i.Messages) + len(i.Enums)
}

// ModifiedItem records the changes found on one node present in both
// snapshots. Label, kind, and package come from the head node.
type ModifiedItem struct {
	NodeID   string         `json:"nodeId"`
	Label    string         `json:"label"`
	NodeType graph.NodeKind `json:"nodeType"`
	Package  string         `json:"package"`
	Changes  []Change       `json:"changes"`
}

// Change is one atomic difference inside a modified node. The concrete type
// carries the full added or removed item.
type Change interface {
	changeType() string
}

type FieldAdded struct{ Field graph.Field }
type FieldRemoved struct{ Field graph.Field }
type MethodAdded struct{ Method graph.Method }
type MethodRemoved struct{ Method graph.Method }
type EnumValueAdded struct{ Value graph.EnumValue }
type EnumValueRemoved struct{ Value graph.EnumValue }

func (FieldAdded) changeType() string       { return "FieldAdded" }
func (FieldRemoved) changeType() string     { return "FieldRemoved" }
func (MethodAdded) changeType() string      { return "MethodAdded" }
func (MethodRemoved) changeType() string    { return "MethodRemoved" }
func (EnumValueAdded) changeType() string   { return "EnumValueAdded" }
func (EnumValueRemoved) changeType() string { return "EnumValueRemoved" }

func (c FieldAdded) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Field graph.Field `json:"field"`
	}{Type: c.changeType(), Field: c.Field})
}

func (c FieldRemoved) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Field graph.Field `json:"field"`
	}{Type: c.changeType(), Field: c.Field})
}

func (c MethodAdded) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string       `json:"type"`
		Method graph.Method `json:"method"`
	}{Type: c.changeType(), Method: c.Method})
}

func (c MethodRemoved) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string       `json:"type"`
		Method graph.Method `json:"method"`
	}{Type: c.changeType(), Method: c.Method})
}

func (c EnumValueAdded) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string          `json:"type"`
		Value graph.EnumValue `json:"value"`
	}{Type: c.changeType(), Value: c.Value})
}

func (c EnumValueRemoved) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string          `json:"type"`
		Value graph.EnumValue `json:"value"`
	}{Type: c.changeType(), Value: c.Value})
}

// Report holds the full comparison between a base and a head snapshot. A
// node id appears in at most one of Added, Removed, or Modified.
type Report struct {
	Added    Items          `json:"added"`
	Removed  Items          `json:"removed"`
	Modified []ModifiedItem `json:"modified"`
}

// HasChanges reports whether any difference was found.
func (r *Report) HasChanges() bool {
	return !r.Added.IsEmpty() || !r.Removed.IsEmpty() || len(r.Modified) > 0
}

// Compute compares two graph models. It never fails: any pair of valid
// models, including empty ones, produces a valid report.
func Compute(base, head *graph.Model) *Report {
	baseNodes := indexNodes(base)
	headNodes := indexNodes(head)

	modified := make([]ModifiedItem, 0)
	for id, headNode := range headNodes {
		baseNode, ok := baseNodes[id]
		if !ok {
			continue
		}
		if item, changed := nodeChanges(baseNode, headNode); changed {
			modified = append(modified, item)
		}
	}
	sort.Slice(modified, func(i, j int) bool { return modified[i].NodeID < modified[j].NodeID })

	return &Report{
		Added:    collectItems(missingFrom(headNodes, baseNodes), headNodes),
		Removed:  collectItems(missingFrom(baseNodes, headNodes), baseNodes),
		Modified: modified,
	}
}

func indexNodes(m *graph.Model) map[string]*graph.Node {
	nodes := make(map[string]*graph.Node, len(m.Nodes))
	for i := range m.Nodes {
		nodes[m.Nodes[i].ID] = &m.Nodes[i]
	}
	return nodes
}

// missingFrom returns the ids present in from but absent from other.
func missingFrom(from, other map[string]*graph.Node) []string {
	ids := make([]string, 0)
	for id := range from {
		if _, ok := other[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// collectItems partitions the given ids by node kind, dropping External
// nodes, and sorts each partition by id.
func collectItems(ids []string, nodes map[string]*graph.Node) Items {
	items := Items{
		Services: make([]Node, 0),
		Messages: make([]Node, 0),
		Enums:    make([]Node, 0),
	}
	for _, id := range ids {
		node, ok := nodes[id]
		if !ok {
			continue
		}
		projected := Node{ID: node.ID, Label: node.Label, Package: node.Package}
		switch node.Kind {
		case graph.KindService:
			items.Services = append(items.Services, projected)
		case graph.KindMessage:
			items.Messages = append(items.Messages, projected)
		case graph.KindEnum:
			items.Enums = append(items.Enums, projected)
		}
	}
	sortNodes(items.Services)
	sortNodes(items.Messages)
	sortNodes(items.Enums)
	return items
}

func sortNodes(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}

// nodeChanges compares two same-id nodes. Details of mismatched kinds are
// not compared and yield no record.
func nodeChanges(base, head *graph.Node) (ModifiedItem, bool) {
	var changes []Change
	switch baseDetails := base.Details.(type) {
	case graph.ServiceDetails:
		if headDetails, ok := head.Details.(graph.ServiceDetails); ok {
			changes = diffByName(baseDetails.Methods, headDetails.Methods,
				func(m graph.Method) string { return m.Name },
				func(m graph.Method) Change { return MethodAdded{Method: m} },
				func(m graph.Method) Change { return MethodRemoved{Method: m} })
		}
	case graph.MessageDetails:
		if headDetails, ok := head.Details.(graph.MessageDetails); ok {
			changes = diffByName(baseDetails.Fields, headDetails.Fields,
				func(f graph.Field) string { return f.Name },
				func(f graph.Field) Change { return FieldAdded{Field: f} },
				func(f graph.Field) Change { return FieldRemoved{Field: f} })
		}
	case graph.EnumDetails:
		if headDetails, ok := head.Details.(graph.EnumDetails); ok {
			changes = diffByName(baseDetails.Values, headDetails.Values,
				func(v graph.EnumValue) string { return v.Name },
				func(v graph.EnumValue) Change { return EnumValueAdded{Value: v} },
				func(v graph.EnumValue) Change { return EnumValueRemoved{Value: v} })
		}
	}
	if len(changes) == 0 {
		return ModifiedItem{}, false
	}
	return ModifiedItem{
		NodeID:   head.ID,
		Label:    head.Label,
		NodeType: head.Kind,
		Package:  head.Package,
		Changes:  changes,
	}, true
}

// diffByName reports items whose names appear in only one of the two lists:
// additions in head order, then removals in base order. Items sharing a
// name are never compared further.
func diffByName[T any](base, head []T, name func(T) string, added, removed func(T) Change) []Change {
	baseNames := nameSet(base, name)
	headNames := nameSet(head, name)

	var changes []Change
	emitted := make(map[string]struct{})
	for _, item := range head {
		n := name(item)
		if _, dup := emitted[n]; dup {
			continue
		}
		emitted[n] = struct{}{}
		if _, ok := baseNames[n]; !ok {
			changes = append(changes, added(item))
		}
	}
	emitted = make(map[string]struct{})
	for _, item := range base {
		n := name(item)
		if _, dup := emitted[n]; dup {
			continue
		}
		emitted[n] = struct{}{}
		if _, ok := headNames[n]; !ok {
			changes = append(changes, removed(item))
		}
	}
	return changes
}

func nameSet[T any](items []T, name func(T) string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[name(item)] = struct{}{}
	}
	return set
}
