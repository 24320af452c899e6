package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Deploy returns the command for deploying and starting the Airflow stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
func Deploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the Airflow stack and start it",
		Long: `Deploy the Airflow compose stack to the instance.

Clones the configured repository on first deploy and pulls on subsequent
ones, rewrites the compose file so the webserver advertises the
instance's public address, builds the image only when the remote engine
does not already have it, and starts the stack detached.

Examples:
  airstack deploy
  airstack deploy -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
