package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// SSH returns the command for opening an interactive shell on the instance.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: airstack.yaml)
func SSH() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Open an interactive shell on the instance",
		Long: `Open an interactive shell on the instance.

Resolves the instance address from the state record and hands the
terminal to the local ssh binary with the stored key.

Examples:
  airstack ssh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.SSH(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
