package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Setup returns the command for installing the container runtime on the
// instance.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
func Setup() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install docker and the compose plugin on the instance",
		Long: `Install the container runtime on the provisioned instance.

Runs a setup script over SSH that upgrades the system packages, installs
docker engine with the compose plugin, and adds the login user to the
docker group. Safe to run more than once.

Examples:
  airstack setup
  airstack setup -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Setup(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
