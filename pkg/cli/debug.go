package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/coral/pkg/render"
)

func newDebugCommand() *cobra.Command {
	var protoDir string

	cmd := &cobra.Command{
		Use:   "debug [descriptor-set]",
		Short: "Dump raw descriptor contents for troubleshooting",
		Long: `Debug prints every file in the descriptor set with its dependencies,
message counts, and service counts. Useful for checking what a compiler
invocation actually produced before analyzing it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fds, err := loadDescriptorSet(cmd.Context(), protoDir, args)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), render.DebugDump(fds))
			return nil
		},
	}

	cmd.Flags().StringVar(&protoDir, "proto", "", "compile .proto sources from this directory")

	return cmd
}
