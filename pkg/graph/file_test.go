package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadModelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	original := sampleModel()

	require.NoError(t, WriteModelFile(original, path))

	decoded, err := ReadModelFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.NodeCount(), decoded.NodeCount())
	assert.Equal(t, original.EdgeCount(), decoded.EdgeCount())
	require.NotNil(t, decoded.FindNode("user.v1.UserStatus"))
}

func TestMarshalModelIndents(t *testing.T) {
	data, err := MarshalModel(sampleModel())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"nodes\""))
}

func TestWriteModelToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteModel(sampleModel(), &buf))

	decoded, err := ReadModel(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.NodeCount())
}

func TestReadModelFileMissing(t *testing.T) {
	_, err := ReadModelFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestReadModelMalformed(t *testing.T) {
	_, err := ReadModel(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
