package api

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/platinummonkey/coral/pkg/graph"
	"github.com/platinummonkey/coral/pkg/observability"
)

// pingFileDescriptorSet returns a descriptor set with a single message,
// enough to exercise a full build.
func pingFileDescriptorSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			{
				Name:    proto.String("demo/v1/ping.proto"),
				Package: proto.String("demo.v1"),
				MessageType: []*descriptorpb.DescriptorProto{
					{
						Name: proto.String("Ping"),
						Field: []*descriptorpb.FieldDescriptorProto{
							{
								Name:   proto.String("id"),
								Number: proto.Int32(1),
								Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
							},
						},
					},
				},
			},
		},
	}
}

func writeDescriptorSet(t *testing.T, path string) {
	t.Helper()
	raw, err := proto.Marshal(pingFileDescriptorSet())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))
}

func testWatcher(t *testing.T, source Source, onUpdate func(*graph.Model)) (*Watcher, *observability.Metrics) {
	t.Helper()
	cfg := testConfig(t)
	cfg.Analysis.WatchDebounce = 50 * time.Millisecond

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	w, err := NewWatcher(cfg, logger, metrics, nil, source, onUpdate)
	require.NoError(t, err)
	return w, metrics
}

func TestNewWatcherValidation(t *testing.T) {
	cfg := testConfig(t)
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	_, err := NewWatcher(cfg, logger, nil, nil, Source{}, func(*graph.Model) {})
	require.Error(t, err, "empty source is rejected")

	_, err = NewWatcher(cfg, logger, nil, nil, Source{DescriptorPath: "api.binpb"}, nil)
	require.Error(t, err, "nil callback is rejected")
}

func TestWatcherRebuildDeliversModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	writeDescriptorSet(t, path)

	var got *graph.Model
	w, metrics := testWatcher(t, Source{DescriptorPath: path}, func(m *graph.Model) { got = m })

	require.NoError(t, w.Rebuild(context.Background()))

	require.NotNil(t, got)
	assert.Equal(t, 1, got.NodeCount())
	require.NotNil(t, got.FindNode("demo.v1.Ping"))
	assert.NoError(t, w.LastError())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.GraphBuildsTotal.WithLabelValues("initial", "success")))
}

func TestWatcherRebuildFailureKeepsLastError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	require.NoError(t, os.WriteFile(path, []byte("not a descriptor set"), 0644))

	w, metrics := testWatcher(t, Source{DescriptorPath: path}, func(*graph.Model) {
		t.Error("onUpdate must not run for a failed rebuild")
	})

	require.Error(t, w.Rebuild(context.Background()))
	require.Error(t, w.LastError())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.GraphBuildsTotal.WithLabelValues("initial", "error")))
}

func TestWatcherRecoversAfterFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	require.NoError(t, os.WriteFile(path, []byte{0x10}, 0644))

	var got *graph.Model
	w, _ := testWatcher(t, Source{DescriptorPath: path}, func(m *graph.Model) { got = m })

	require.Error(t, w.Rebuild(context.Background()))
	require.Error(t, w.LastError())

	writeDescriptorSet(t, path)
	require.NoError(t, w.Rebuild(context.Background()))

	assert.NoError(t, w.LastError(), "a clean rebuild clears the error")
	require.NotNil(t, got)
}

func TestWatcherCacheReuse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	writeDescriptorSet(t, path)

	updates := 0
	w, metrics := testWatcher(t, Source{DescriptorPath: path}, func(*graph.Model) { updates++ })

	require.NoError(t, w.Rebuild(context.Background()))
	require.NoError(t, w.Rebuild(context.Background()))

	assert.Equal(t, 2, updates, "every rebuild delivers a snapshot, cached or not")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheMissesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheHitsTotal))
}

func TestWatcherDetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	writeDescriptorSet(t, path)

	updates := make(chan *graph.Model, 4)
	w, _ := testWatcher(t, Source{DescriptorPath: path}, func(m *graph.Model) { updates <- m })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop(ctx)

	// Grow the descriptor set so the rebuild produces a different model.
	fds := pingFileDescriptorSet()
	fds.File[0].MessageType = append(fds.File[0].MessageType, &descriptorpb.DescriptorProto{
		Name: proto.String("Pong"),
	})
	raw, err := proto.Marshal(fds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	select {
	case m := <-updates:
		assert.Equal(t, 2, m.NodeCount())
		require.NotNil(t, m.FindNode("demo.v1.Pong"))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch rebuild")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	writeDescriptorSet(t, path)

	updates := make(chan *graph.Model, 4)
	w, _ := testWatcher(t, Source{DescriptorPath: path}, func(m *graph.Model) { updates <- m })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0644))

	select {
	case <-updates:
		t.Fatal("rebuild triggered by an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherProtoDirRebuild(t *testing.T) {
	dir := t.TempDir()
	protoSrc := `syntax = "proto3";

package demo.v1;

message Ping {
  string id = 1;
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ping.proto"), []byte(protoSrc), 0644))

	var got *graph.Model
	w, metrics := testWatcher(t, Source{ProtoDir: dir}, func(m *graph.Model) { got = m })

	require.NoError(t, w.Rebuild(context.Background()))

	require.NotNil(t, got)
	require.NotNil(t, got.FindNode("demo.v1.Ping"))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CompilationsTotal.WithLabelValues("success")))
}

func TestWatcherStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.binpb")
	writeDescriptorSet(t, path)

	w, _ := testWatcher(t, Source{DescriptorPath: path}, func(*graph.Model) {})
	ctx := context.Background()
	require.NoError(t, w.Start(ctx))

	assert.NoError(t, w.Stop(ctx))
	assert.NoError(t, w.Stop(ctx))
}
