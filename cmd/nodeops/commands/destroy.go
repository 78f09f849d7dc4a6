package commands

import (
	"github.com/spf13/cobra"

	"github.com/quorumlabs/nodeops/cmd/nodeops/handlers"
)

// Destroy returns the command that deletes the cluster's infrastructure
// stacks in reverse dependency order. Deletion is idempotent; a failed
// destroy can be re-run.
func Destroy() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the cluster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), specPath)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec-file-path", "s", "nodeops.yaml", "Path to the specification file")

	return cmd
}
