// Package decoder validates and decodes FileDescriptorSet input.
//
// # Overview
//
// This package is the input boundary: everything downstream (builder, diff,
// rendering) works on descriptor trees that already passed validation here.
// Input arrives either as compiled descriptor bytes (a file, or stdin via
// "-") or as .proto sources compiled on the fly with protocompile.
//
// # Decoding
//
//	data, err := decoder.ReadInput(path)
//	fds, err := decoder.Decode(data)
//
// Decode distinguishes three failures: decoder.ErrEmptyInput for zero
// bytes, a wrapped decoder.ErrInvalidFormat for bytes that do not unmarshal
// as a FileDescriptorSet, and decoder.ErrNoProtoFiles for a set with no
// files. All three match with errors.Is.
//
// # Compiling sources
//
//	fds, err := decoder.CompileDir(ctx, "protos/")
//
// Compiled output includes transitive imports, so references to well-known
// types resolve during graph construction.
//
// # Related Packages
//
//   - pkg/builder: Consumes the decoded FileDescriptorSet
package decoder
