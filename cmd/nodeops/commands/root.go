// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the nodeops CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodeops",
		Short: "Provision blockchain node clusters on AWS",
	}

	cmd.AddCommand(DefaultSpec())
	cmd.AddCommand(Check())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Health())
	cmd.AddCommand(Version())

	return cmd
}
