// Package render formats graph models and descriptor sets as text.
//
// # Overview
//
// Four renderers, all pure string formatting over already-built data:
//
//	render.Markdown(model)  // full report with overview + per-kind sections
//	render.Summary(model)   // one line of counts
//	render.ToDOT(model)     // Graphviz DOT
//	render.DebugDump(fds)   // raw descriptor set contents
//
// The Markdown report is written for PR comments: collapsible sections per
// node kind, tables for methods, fields, and enum values. Diff rendering
// lives with the diff engine in pkg/diff.
//
// # Related Packages
//
//   - pkg/graph: Model input
//   - pkg/diff: Markdown for change reports
package render
