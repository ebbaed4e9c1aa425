package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// buildInfo is stamped by main from linker flags.
var buildInfo = struct {
	version, commit, date string
}{"dev", "none", "unknown"}

// SetVersionInfo records the build metadata reported by the version
// command and the --version flag.
func SetVersionInfo(version, commit, date string) {
	buildInfo.version = version
	buildInfo.commit = commit
	buildInfo.date = date
}

func versionText() string {
	return fmt.Sprintf("sagesweep %s\n  commit: %s\n  built:  %s\n  go:     %s %s/%s\n",
		buildInfo.version, buildInfo.commit, buildInfo.date,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Version returns the version command.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}
