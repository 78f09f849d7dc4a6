package commands

import (
	"github.com/spf13/cobra"

	"github.com/quorumlabs/nodeops/cmd/nodeops/handlers"
)

// Check returns the command that loads and validates a specification
// without touching any cloud resources.
func Check() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a cluster specification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Check(specPath)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec-file-path", "s", "nodeops.yaml", "Path to the specification file")

	return cmd
}
