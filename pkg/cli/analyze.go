package cli

import (
	"github.com/spf13/cobra"

	"github.com/platinummonkey/coral/pkg/graph"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		output   string
		protoDir string
	)

	cmd := &cobra.Command{
		Use:   "analyze [descriptor-set]",
		Short: "Build a dependency graph from protobuf descriptors",
		Long: `Analyze decodes an encoded FileDescriptorSet (produced by
"protoc --descriptor_set_out" or "buf build") and emits the dependency
graph as JSON. Pass "-" to read the descriptor set from stdin, or
--proto to compile .proto sources from a directory instead.`,
		Example: `  protoc --descriptor_set_out=/dev/stdout api.proto | coral analyze -
  coral analyze build/image.binpb -o graph.json
  coral analyze --proto ./protos`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadToolConfig()
			if err != nil {
				return err
			}

			model, err := loadModel(cmd.Context(), protoDir, args, cfg.Analysis.ExternalPrefixes)
			if err != nil {
				return err
			}

			if output != "" {
				if err := graph.WriteModelFile(model, output); err != nil {
					return err
				}
				log.Infof("wrote %d nodes and %d edges to %s", model.NodeCount(), model.EdgeCount(), output)
				return nil
			}
			return graph.WriteModel(model, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write graph JSON to this file instead of stdout")
	cmd.Flags().StringVar(&protoDir, "proto", "", "compile .proto sources from this directory")

	return cmd
}
