// Package cli implements the coral command line interface.
//
// The command tree is built with cobra:
//
//	coral analyze [input]     build a graph and emit JSON
//	coral diff <base> <head>  compare two saved graphs
//	coral serve [input]       run the HTTP snapshot service
//	coral summary [input]     one-line graph summary
//	coral report [input]      Markdown report
//	coral dot [input]         Graphviz DOT export
//	coral debug [input]       raw descriptor dump
//
// Input convention: commands that analyze descriptors take the path of an
// encoded FileDescriptorSet as their positional argument, with "-" reading
// from stdin. The --proto flag switches the same commands to compiling
// .proto sources from a directory instead.
//
// Command results are written to stdout so they can be piped; diagnostics
// go through a logrus logger on stderr, raised to debug level by the
// persistent --verbose flag. Configuration is resolved by layering the
// project .coral.yaml over CORAL_* environment variables.
package cli
