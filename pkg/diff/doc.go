// Package diff compares two dependency graph models and reports structural
// changes.
//
// # Overview
//
// Compute classifies every node id as added (head only), removed (base
// only), or modified (present in both with a different method, field, or
// enum value name set). External nodes are never diffed. Items sharing a
// name are not compared further, so type, number, or cardinality drift on a
// same-named item goes unreported, as does a node whose kind changed
// between snapshots.
//
// # Usage
//
//	report := diff.Compute(base, head)
//	if report.HasChanges() {
//		fmt.Print(report.Markdown())
//	}
//
// Diffing any two valid models always succeeds; two identical models
// produce a report with no changes.
//
// # Related Packages
//
//   - pkg/graph: The models being compared
package diff
