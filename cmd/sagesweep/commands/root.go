// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sagesweep/cmd/sagesweep/handlers"
)

// Root returns the root command. Running it without a subcommand tears
// down the selected domains.
func Root() *cobra.Command {
	var opts handlers.TeardownOptions

	cmd := &cobra.Command{
		Use:   "sagesweep",
		Short: "Tear down SageMaker Studio domains and their leftovers",
		Long: `sagesweep deletes SageMaker Studio domains in dependency order.

For every selected domain it deletes apps, then spaces, then user profiles,
waiting until each is gone. It then removes the Lambda functions, network
interfaces and EFS volumes correlated with the domain, and finally deletes
the domain together with its home EFS volume.

Select domains either by project (domain names ending with the project ID)
or by an explicit comma-separated list of domain IDs.

Examples:
  sagesweep --project-id team7 --dry-run
  sagesweep --domain-ids d-abc123,d-def456 --yes

Exit codes: 0 success, 1 usage error, 2 partial success, 3 failure.`,
		Version:       buildInfo.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Teardown(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ProjectID, "project-id", "", "Select domains whose name ends with this project ID")
	f.StringVar(&opts.DomainIDs, "domain-ids", "", "Comma-separated list of domain IDs to tear down")
	f.BoolVar(&opts.DryRun, "dry-run", false, "List what would be deleted without deleting anything")
	f.BoolVarP(&opts.Yes, "yes", "y", false, "Skip the interactive confirmation")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	f.StringVar(&opts.ReportBucket, "report-bucket", "", "Upload the run report as YAML to this S3 bucket")
	f.StringVar(&opts.ReportPrefix, "report-prefix", "", "Key prefix for the uploaded report")
	cmd.MarkFlagsMutuallyExclusive("project-id", "domain-ids")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML configuration file")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log listing and matching details to stderr")
	pf.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	cmd.SetVersionTemplate(versionText())

	cmd.AddCommand(List(&opts))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
