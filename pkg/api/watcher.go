package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/platinummonkey/coral/pkg/async"
	"github.com/platinummonkey/coral/pkg/builder"
	"github.com/platinummonkey/coral/pkg/config"
	"github.com/platinummonkey/coral/pkg/decoder"
	"github.com/platinummonkey/coral/pkg/graph"
	"github.com/platinummonkey/coral/pkg/observability"
)

// rebuildTimeout bounds a single watch-triggered rebuild, including proto
// compilation for directory sources.
const rebuildTimeout = 2 * time.Minute

// Source describes where graph input comes from.
type Source struct {
	// DescriptorPath points at a serialized FileDescriptorSet file.
	DescriptorPath string
	// ProtoDir points at a directory tree of .proto sources compiled on
	// every rebuild. Takes precedence over DescriptorPath.
	ProtoDir string
}

// Watcher rebuilds the graph snapshot when the watched input changes on
// disk. Rebuilds are debounced, memoized by input digest, and a failed
// rebuild never replaces the previous snapshot.
type Watcher struct {
	cfg      *config.Config
	logger   *observability.Logger
	metrics  *observability.Metrics
	otel     *observability.OTelMetrics
	source   Source
	onUpdate func(*graph.Model)
	builder  *builder.Builder
	cache    *buildCache
	debounce time.Duration

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once

	// buildMu serializes rebuilds so overlapping debounce fires cannot
	// deliver snapshots out of order.
	buildMu sync.Mutex

	mu      sync.Mutex
	lastErr error
}

// NewWatcher creates a watcher that delivers each successfully rebuilt
// model through onUpdate. Either metrics argument may be nil.
func NewWatcher(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics, otelMetrics *observability.OTelMetrics, source Source, onUpdate func(*graph.Model)) (*Watcher, error) {
	if source.DescriptorPath == "" && source.ProtoDir == "" {
		return nil, fmt.Errorf("watch source requires a descriptor file or proto directory")
	}
	if onUpdate == nil {
		return nil, fmt.Errorf("watch requires an onUpdate callback")
	}

	return &Watcher{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		otel:     otelMetrics,
		source:   source,
		onUpdate: onUpdate,
		builder:  builder.NewWithPrefixes(cfg.Analysis.ExternalPrefixes),
		cache:    newBuildCache(cfg.Analysis.CacheSize, cfg.Analysis.CacheTTL, metrics, otelMetrics),
		debounce: cfg.Analysis.WatchDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Rebuild runs one synchronous build from the source. Used to seed the
// first snapshot before the watch loop starts.
func (w *Watcher) Rebuild(ctx context.Context) error {
	return w.rebuild(ctx, "initial")
}

// Start begins watching. The watch loop runs until Stop is called or the
// context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addWatchPaths(); err != nil {
		fsw.Close()
		return err
	}

	go func() {
		defer observability.RecoverPanicWithCallback(w.logger, "watch loop", func() {
			w.setLastError(errors.New("watch loop stopped by panic"))
		})
		w.loop(ctx)
	}()
	return nil
}

// Stop closes the filesystem watcher. Safe to call more than once.
func (w *Watcher) Stop(_ context.Context) error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}

// LastError reports the most recent rebuild failure, or nil after a clean
// rebuild. Feeds the readiness probe.
func (w *Watcher) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Watcher) setLastError(err error) {
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
}

func (w *Watcher) addWatchPaths() error {
	if w.source.ProtoDir != "" {
		return filepath.WalkDir(w.source.ProtoDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if err := w.fsw.Add(path); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
			}
			return nil
		})
	}

	// Watch the directory rather than the file itself so editors that
	// replace the file on save keep triggering events.
	dir := filepath.Dir(w.source.DescriptorPath)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	debounce := time.NewTimer(w.debounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.handleEvent(event) {
				continue
			}
			if w.metrics != nil {
				w.metrics.WatchEventsTotal.WithLabelValues(event.Op.String()).Inc()
			}
			if w.otel != nil {
				w.otel.RecordWatchEvent(ctx, event.Op.String())
			}
			w.logger.WithFields(map[string]interface{}{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("input changed, scheduling rebuild")
			debounce.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("filesystem watcher error")
		case <-debounce.C:
			w.dispatchRebuild(ctx)
		}
	}
}

// handleEvent reports whether the event should trigger a rebuild. New
// directories under a proto source are added to the watch as they appear.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return false
	}

	if w.source.ProtoDir != "" {
		if event.Op.Has(fsnotify.Create) {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := w.fsw.Add(event.Name); err != nil {
					w.logger.WithError(err).Warnf("cannot watch new directory %s", event.Name)
				}
				return false
			}
		}
		return strings.HasSuffix(event.Name, ".proto")
	}

	return filepath.Clean(event.Name) == filepath.Clean(w.source.DescriptorPath)
}

func (w *Watcher) dispatchRebuild(ctx context.Context) {
	async.SafeGo(ctx, rebuildTimeout, w.logger, "graph rebuild", func(ctx context.Context) error {
		return w.rebuild(ctx, "watch")
	})
}

func (w *Watcher) rebuild(ctx context.Context, trigger string) error {
	w.buildMu.Lock()
	defer w.buildMu.Unlock()

	start := time.Now()
	model, err := w.load(ctx)
	duration := time.Since(start)

	if w.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		w.metrics.GraphBuildsTotal.WithLabelValues(trigger, status).Inc()
		w.metrics.GraphBuildDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	}
	if w.otel != nil {
		w.otel.RecordGraphBuild(ctx, trigger, duration, err)
	}

	if err != nil {
		w.setLastError(err)
		w.logger.WithError(err).Error("graph rebuild failed, keeping previous snapshot")
		return err
	}

	w.setLastError(nil)
	w.onUpdate(model)
	w.logger.WithFields(map[string]interface{}{
		"trigger": trigger,
		"nodes":   model.NodeCount(),
		"edges":   model.EdgeCount(),
	}).Infof("graph snapshot updated in %v", duration)
	return nil
}

// load produces a model from the source, consulting the build cache by
// input digest first.
func (w *Watcher) load(ctx context.Context) (*graph.Model, error) {
	if w.source.ProtoDir != "" {
		fds, err := w.compile(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := proto.Marshal(fds)
		if err != nil {
			return nil, fmt.Errorf("marshal descriptor set: %w", err)
		}
		return w.buildCached(ctx, raw, fds)
	}

	raw, err := os.ReadFile(w.source.DescriptorPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", w.source.DescriptorPath, err)
	}

	key := cacheKey(raw)
	if model, ok := w.cache.Get(ctx, key); ok {
		return model, nil
	}
	fds, err := decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	model := w.builder.Build(fds)
	w.cache.Add(key, model)
	return model, nil
}

func (w *Watcher) buildCached(ctx context.Context, raw []byte, fds *descriptorpb.FileDescriptorSet) (*graph.Model, error) {
	key := cacheKey(raw)
	if model, ok := w.cache.Get(ctx, key); ok {
		return model, nil
	}
	model := w.builder.Build(fds)
	w.cache.Add(key, model)
	return model, nil
}

func (w *Watcher) compile(ctx context.Context) (*descriptorpb.FileDescriptorSet, error) {
	start := time.Now()
	fds, err := decoder.CompileDir(ctx, w.source.ProtoDir)
	if w.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		w.metrics.CompilationsTotal.WithLabelValues(status).Inc()
		w.metrics.CompilationDuration.Observe(time.Since(start).Seconds())
	}
	return fds, err
}
