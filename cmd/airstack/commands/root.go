// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the airstack CLI.
//
// The root command serves as the entry point and parent for all
// subcommands. It provides basic CLI metadata and organizes the command
// hierarchy.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "airstack",
		Short: "Run a single-node Airflow dev environment on AWS EC2",
	}

	// Lifecycle commands
	cmd.AddCommand(Up())
	cmd.AddCommand(Setup())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Redeploy())
	cmd.AddCommand(Down())

	// Inspection and access
	cmd.AddCommand(SSH())
	cmd.AddCommand(Status())
	cmd.AddCommand(Doctor())

	// Pipeline metadata
	cmd.AddCommand(Pipelines())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
