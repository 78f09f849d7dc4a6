package commands

import (
	"github.com/spf13/cobra"

	"github.com/quorumlabs/nodeops/cmd/nodeops/handlers"
)

// Apply returns the command that provisions the cluster described by a
// specification: shared storage, infrastructure stacks, artifact upload,
// discovery waits and health corroboration.
func Apply() *cobra.Command {
	var (
		specPath     string
		templatesDir string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the cluster",
		Example: `  # Provision using nodeops.yaml in the current directory
  nodeops apply --templates-dir ./templates

  # Provision a specific spec
  nodeops apply -s dev-cluster.yaml --templates-dir ./templates`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), specPath, templatesDir)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec-file-path", "s", "nodeops.yaml", "Path to the specification file")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "templates", "Directory holding the infrastructure stack templates")

	return cmd
}
