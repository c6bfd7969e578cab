package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/coral/pkg/api"
	"github.com/platinummonkey/coral/pkg/observability"
)

func newServeCommand() *cobra.Command {
	var (
		port      string
		staticDir string
		protoDir  string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve [descriptor-set]",
		Short: "Serve the dependency graph over HTTP",
		Long: `Serve builds the dependency graph and exposes it through the snapshot
API (GET /api/graph, POST /api/diff) together with health probes and
Prometheus metrics. With --watch the input is monitored and the graph
is rebuilt whenever it changes; without it the graph is built once at
startup.

Server settings beyond the flags below come from CORAL_* environment
variables and the project .coral.yaml file.`,
		Example: `  coral serve build/image.binpb
  coral serve --proto ./protos --watch
  coral serve build/image.binpb -p 9000 --static-dir ./frontend/dist`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadToolConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("static-dir") {
				cfg.Server.StaticDir = staticDir
			}

			logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

			var providers *observability.OTelProviders
			if cfg.Observability.OTelEnabled {
				providers, err = observability.InitOTel(cmd.Context(), observability.OTelConfig{
					Enabled:        true,
					Endpoint:       cfg.Observability.OTelEndpoint,
					ServiceName:    cfg.Observability.OTelServiceName,
					ServiceVersion: cfg.Observability.OTelServiceVersion,
					Insecure:       cfg.Observability.OTelInsecure,
				}, logger)
				if err != nil {
					return fmt.Errorf("init telemetry: %w", err)
				}
			}

			server := api.NewServer(cfg, logger, version)
			if providers != nil {
				server.RegisterShutdownFunc(func(ctx context.Context) error {
					return observability.ShutdownOTel(ctx, providers, logger)
				})
			}

			if watch {
				source, err := resolveWatchSource(protoDir, args)
				if err != nil {
					return err
				}
				if err := server.Watch(cmd.Context(), source); err != nil {
					return err
				}
			} else {
				model, err := loadModel(cmd.Context(), protoDir, args, cfg.Analysis.ExternalPrefixes)
				if err != nil {
					return err
				}
				server.SetSnapshot(model)
			}

			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides CORAL_PORT)")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "serve frontend assets from this directory at /")
	cmd.Flags().StringVar(&protoDir, "proto", "", "compile .proto sources from this directory")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild the graph when the input changes")

	return cmd
}

// resolveWatchSource maps the command input onto a watchable source. Stdin
// has no path to watch, so "-" is rejected in watch mode.
func resolveWatchSource(protoDir string, args []string) (api.Source, error) {
	if protoDir != "" {
		return api.Source{ProtoDir: protoDir}, nil
	}
	if len(args) == 0 {
		return api.Source{}, errMissingInput
	}
	if args[0] == "-" {
		return api.Source{}, errors.New("watch mode cannot follow stdin input")
	}
	return api.Source{DescriptorPath: args[0]}, nil
}
