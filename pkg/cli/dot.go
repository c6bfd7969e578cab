package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/coral/pkg/render"
)

func newDotCommand() *cobra.Command {
	var protoDir string

	cmd := &cobra.Command{
		Use:     "dot [descriptor-set]",
		Short:   "Export the dependency graph in Graphviz DOT format",
		Example: `  coral dot build/image.binpb | dot -Tsvg -o graph.svg`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadToolConfig()
			if err != nil {
				return err
			}

			model, err := loadModel(cmd.Context(), protoDir, args, cfg.Analysis.ExternalPrefixes)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), render.ToDOT(model))
			return nil
		},
	}

	cmd.Flags().StringVar(&protoDir, "proto", "", "compile .proto sources from this directory")

	return cmd
}
