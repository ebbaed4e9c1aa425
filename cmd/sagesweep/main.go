// Package main is the entry point for the sagesweep CLI.
//
// sagesweep tears down SageMaker Studio domains together with the apps,
// spaces and user profiles inside them and the Lambda functions, network
// interfaces and EFS volumes correlated with them.
//
// Exit codes: 0 success or nothing to do, 1 usage or setup error,
// 2 partial success, 3 at least one domain failed.
//
// For detailed usage information, run:
//
//	sagesweep --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/sagesweep/cmd/sagesweep/commands"
	"github.com/imamik/sagesweep/cmd/sagesweep/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(handlers.ExitCode(err))
	}
}
