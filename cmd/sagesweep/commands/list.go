package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sagesweep/cmd/sagesweep/handlers"
)

// List returns the list command. It shares the persistent flags of root.
func List(root *handlers.TeardownOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List SageMaker domains in the region",
		Long: `List prints the ID, name and status of every SageMaker domain in the
configured region. With --project-id only domains whose name ends with the
project ID are shown.

Example:
  sagesweep list --project-id team7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), handlers.ListOptions{
				ProjectID:  projectID,
				ConfigPath: root.ConfigPath,
				Verbose:    root.Verbose,
				NoColor:    root.NoColor,
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project-id", "", "Only show domains whose name ends with this project ID")
	return cmd
}
