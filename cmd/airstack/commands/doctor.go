package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Doctor returns the command for running preflight checks.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials, and local tools",
		Long: `Run preflight checks before provisioning.

Validates the configuration file, checks that a local ssh binary exists,
verifies that the AWS credentials can reach the EC2 API in the
configured region, and reports whether a state record exists.

Examples:
  airstack doctor`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
