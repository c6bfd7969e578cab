// Package graph defines the proto dependency graph model and its JSON contract.
//
// # Overview
//
// This package holds the typed graph produced by the builder: nodes for
// services, messages, enums, and external types, edges for type references,
// and package groupings. Graphs are immutable after construction and safe to
// share across goroutines.
//
// # Model
//
// Inspect a graph:
//
//	fmt.Printf("%d nodes, %d edges\n", model.NodeCount(), model.EdgeCount())
//	if node := model.FindNode("user.v1.UserService"); node != nil {
//		fmt.Println(node.Label, node.Kind)
//	}
//
// # Serialization
//
// The JSON encoding is the wire contract consumed by the frontend and the
// diff subcommand. Node kinds serialize lowercase under "type", details
// serialize as a kind-tagged object under "details", and all multi-word
// fields are camelCase (inputType, typeName, nodeIds).
//
// Save and load:
//
//	data, err := graph.MarshalModel(model)
//	err = graph.WriteModelFile(model, "graph.json")
//	model, err = graph.ReadModelFile("graph.json")
//
// # Related Packages
//
//   - pkg/builder: Constructs models from FileDescriptorSets
//   - pkg/diff: Compares two models
package graph
