package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Up returns the command for provisioning the dev environment.
//
// This command creates the SSH key pair, security group, and EC2 instance,
// waits for the instance to become reachable, and writes the local state
// record that all other commands read.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
//
// AWS credentials are taken from the environment or the shared credentials
// file, as with any AWS SDK tool.
func Up() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision the EC2 instance and supporting resources",
		Long: `Provision the dev environment on AWS EC2.

This command generates an SSH key pair, creates a security group with
ingress on the SSH and web UI ports, launches the instance, and waits
until it accepts SSH connections. Resource identifiers are written to
~/.airstack/<env>/state.yaml.

Up refuses to run when the environment already has a state record; run
'airstack down' first.

Examples:
  # Provision using airstack.yaml in the current directory
  airstack up

  # Provision using a specific config file
  airstack up -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
