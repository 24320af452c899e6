package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Redeploy returns the command for updating a running stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
func Redeploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "redeploy",
		Short: "Pull the latest code and restart the stack",
		Long: `Update a running Airflow stack.

Fast-forwards the checkout on the instance to the latest commit of the
configured branch and restarts the compose stack.

Examples:
  airstack redeploy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Redeploy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
