package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/coral/pkg/diff"
	"github.com/platinummonkey/coral/pkg/graph"
)

func newDiffCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <base-graph> <head-graph>",
		Short: "Compare two dependency graph snapshots",
		Long: `Diff loads two graph JSON files produced by analyze and reports the
services, messages, and enums that were added, removed, or modified
between them.`,
		Example: `  coral analyze main.binpb -o base.json
  coral analyze branch.binpb -o head.json
  coral diff base.json head.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				base *graph.Model
				head *graph.Model
				g    errgroup.Group
			)
			g.Go(func() error {
				var err error
				base, err = graph.ReadModelFile(args[0])
				if err != nil {
					return fmt.Errorf("load base %s: %w", args[0], err)
				}
				return nil
			})
			g.Go(func() error {
				var err error
				head, err = graph.ReadModelFile(args[1])
				if err != nil {
					return fmt.Errorf("load head %s: %w", args[1], err)
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			report := diff.Compute(base, head)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Markdown())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the diff report as JSON")

	return cmd
}
