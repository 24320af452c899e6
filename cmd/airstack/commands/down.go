package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Down returns the command for tearing the environment down.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
func Down() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Terminate the instance and delete its resources",
		Long: `Tear the dev environment down.

Terminates the instance, waits for termination, then deletes the
security group and key pair. Resources that are already gone are
skipped, so a second down after a partial failure finishes the job.
The local key file and state record are removed only after
confirmation.

Examples:
  airstack down`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Down(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
