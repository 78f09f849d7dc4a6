package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
)

// SetVersionInfo records build-time version metadata for the version command.
func SetVersionInfo(version, commit string) {
	buildVersion = version
	buildCommit = commit
}

// Version returns the command that prints build information.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nodeops %s (%s)\n", buildVersion, buildCommit)
		},
	}
}
