package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalModel converts a model to indented JSON bytes.
func MarshalModel(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeModelTo(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteModelFile writes a model to a JSON file.
// The file is created with 0644 permissions.
func WriteModelFile(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeModelTo(m, f)
}

// WriteModel writes a model as JSON to an io.Writer.
// Use MarshalModel for in-memory serialization or WriteModelFile for files.
func WriteModel(m *Model, w io.Writer) error {
	return writeModelTo(m, w)
}

// ReadModelFile reads a JSON file and returns the decoded model.
func ReadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readModelFrom(f)
}

// ReadModel decodes a JSON model from an io.Reader.
// Use ReadModelFile for files or pass bytes.NewReader for in-memory data.
func ReadModel(r io.Reader) (*Model, error) {
	return readModelFrom(r)
}

func writeModelTo(m *Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readModelFrom(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &m, nil
}
