package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

var (
	// ErrEmptyInput is returned when no descriptor bytes were provided.
	ErrEmptyInput = errors.New("empty input: FileDescriptorSet binary is required")

	// ErrInvalidFormat is returned when the bytes do not unmarshal as a
	// FileDescriptorSet.
	ErrInvalidFormat = errors.New("invalid protobuf binary format")

	// ErrNoProtoFiles is returned when the descriptor set decodes but
	// contains no files.
	ErrNoProtoFiles = errors.New("no proto files found in FileDescriptorSet")
)

// Decode validates and unmarshals descriptor bytes. Callers downstream can
// assume a non-nil set with at least one file.
func Decode(data []byte) (*descriptorpb.FileDescriptorSet, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(fds.GetFile()) == 0 {
		return nil, ErrNoProtoFiles
	}
	return &fds, nil
}

// stdinBufferSize is the initial allocation when streaming a descriptor set
// through stdin.
const stdinBufferSize = 64 * 1024

// ReadInput reads descriptor bytes from path, or from stdin when path is "-".
func ReadInput(path string) ([]byte, error) {
	if path == "-" {
		return readFrom(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func readFrom(r io.Reader) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, stdinBufferSize))
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return buf.Bytes(), nil
}
