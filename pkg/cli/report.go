package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/coral/pkg/render"
)

func newReportCommand() *cobra.Command {
	var protoDir string

	cmd := &cobra.Command{
		Use:   "report [descriptor-set]",
		Short: "Generate a Markdown report of the dependency graph",
		Long: `Report renders the dependency graph as Markdown, with a section per
package listing services, messages, and enums along with their
definitions. The output is suitable for commit comments and docs.`,
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

			fmt.Fprint(cmd.OutOrStdout(), render.Markdown(model))
			return nil
		},
	}

	cmd.Flags().StringVar(&protoDir, "proto", "", "compile .proto sources from this directory")

	return cmd
}
