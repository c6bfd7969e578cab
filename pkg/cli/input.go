package cli

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/platinummonkey/coral/pkg/builder"
	"github.com/platinummonkey/coral/pkg/config"
	"github.com/platinummonkey/coral/pkg/decoder"
	"github.com/platinummonkey/coral/pkg/graph"
)

var errMissingInput = errors.New("descriptor set path is required (or use --proto)")

// loadToolConfig assembles the effective configuration for a command run:
// environment variables first, then the project .coral.yaml overlay from
// the working directory.
func loadToolConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	fc, err := config.LoadFileConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}
	cfg.ApplyFileConfig(fc)

	return cfg, nil
}

// loadDescriptorSet obtains a FileDescriptorSet either by compiling proto
// sources under protoDir or by decoding the encoded descriptor set named
// by the first positional argument ("-" reads stdin).
func loadDescriptorSet(ctx context.Context, protoDir string, args []string) (*descriptorpb.FileDescriptorSet, error) {
	if protoDir != "" {
		log.Debugf("compiling proto sources in %s", protoDir)
		return decoder.CompileDir(ctx, protoDir)
	}

	if len(args) == 0 {
		return nil, errMissingInput
	}

	data, err := decoder.ReadInput(args[0])
	if err != nil {
		return nil, err
	}
	return decoder.Decode(data)
}

// loadModel builds a dependency graph from the command input using the
// configured external namespace prefixes.
func loadModel(ctx context.Context, protoDir string, args []string, prefixes []string) (*graph.Model, error) {
	fds, err := loadDescriptorSet(ctx, protoDir, args)
	if err != nil {
		return nil, err
	}

	model := builder.NewWithPrefixes(prefixes).Build(fds)
	log.Debugf("graph built: %d nodes, %d edges", model.NodeCount(), model.EdgeCount())
	return model, nil
}
