package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// log carries CLI diagnostics on stderr. Command results go to stdout so
// they can be piped into files and other tools.
var log = newToolLogger()

func newToolLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// SetVersion sets the version information displayed by --version. The main
// package calls this with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the coral CLI and returns an error if any command fails.
// SIGINT and SIGTERM cancel the command context so long-running work such
// as proto compilation stops promptly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var verbose bool

	root := &cobra.Command{
		Use:   "coral",
		Short: "Coral analyzes protobuf dependency graphs",
		Long: `Coral builds dependency graphs from compiled protobuf descriptor sets,
compares graph snapshots, and serves the current graph over HTTP.

Most commands accept either the path of an encoded FileDescriptorSet
("-" reads stdin) or --proto <dir> to compile .proto sources directly.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("coral %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newDiffCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newSummaryCommand())
	root.AddCommand(newReportCommand())
	root.AddCommand(newDotCommand())
	root.AddCommand(newDebugCommand())

	return root.ExecuteContext(ctx)
}
