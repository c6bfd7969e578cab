package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/coral/pkg/render"
)

func newSummaryCommand() *cobra.Command {
	var protoDir string

	cmd := &cobra.Command{
		Use:   "summary [descriptor-set]",
		Short: "Print a one-line summary of the dependency graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadToolConfig()
			if err != nil {
				return err
			}

			model, err := loadModel(cmd.Context(), protoDir, args, cfg.Analysis.ExternalPrefixes)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Summary(model))
			return nil
		},
	}

	cmd.Flags().StringVar(&protoDir, "proto", "", "compile .proto sources from this directory")

	return cmd
}
