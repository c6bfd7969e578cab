package main

import (
	"os"

	"github.com/platinummonkey/coral/pkg/cli"
)

// Build-time values injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
