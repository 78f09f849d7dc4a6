package commands

import (
	"github.com/spf13/cobra"

	"github.com/quorumlabs/nodeops/cmd/nodeops/handlers"
)

// Health returns the command that probes a node's health endpoint and
// prints the decoded report.
func Health() *cobra.Command {
	var liveness bool

	cmd := &cobra.Command{
		Use:   "health <endpoint>",
		Short: "Probe a node's health endpoint",
		Args:  cobra.ExactArgs(1),
		Example: `  nodeops health http://1.2.3.4:9650
  nodeops health --liveness https://node.example.com:9650`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Health(cmd.Context(), args[0], liveness)
		},
	}

	cmd.Flags().BoolVar(&liveness, "liveness", false, "Probe the liveness endpoint instead of full health")

	return cmd
}
