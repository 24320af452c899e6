package commands

import (
	"github.com/spf13/cobra"

	"github.com/airstackdev/airstack/cmd/airstack/handlers"
)

// Pipelines returns the parent command for pipeline metadata management.
//
// Pipeline records live in the configured Postgres metadata database and
// describe the orchestrated pipelines the Airflow stack runs: name, type,
// schedule, owner, and an arbitrary JSON config blob.
func Pipelines() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipelines",
		Short: "Manage pipeline metadata records",
		Long: `Manage the pipeline metadata records kept in the configured
Postgres database.

Requires the metadata section of the configuration file and the
workspace API token in AIRSTACK_METADATA_API_TOKEN.

Examples:
  airstack pipelines init --seed pipelines.yaml
  airstack pipelines list
  airstack pipelines create sales-ingest --type databricks --schedule "0 6 * * *"
  airstack pipelines disable sales-ingest`,
	}

	cmd.AddCommand(pipelinesInit())
	cmd.AddCommand(pipelinesReset())
	cmd.AddCommand(pipelinesSeed())
	cmd.AddCommand(pipelinesList())
	cmd.AddCommand(pipelinesShow())
	cmd.AddCommand(pipelinesCreate())
	cmd.AddCommand(pipelinesUpdate())
	cmd.AddCommand(pipelinesSetEnabled("enable", true))
	cmd.AddCommand(pipelinesSetEnabled("disable", false))
	cmd.AddCommand(pipelinesDelete())
	cmd.AddCommand(pipelinesExport())
	cmd.AddCommand(pipelinesTest())

	return cmd
}

func pipelinesInit() *cobra.Command {
	var configPath string
	var seedFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the metadata schema",
		Long: `Create the metadata schema and its tables. When the schema
already exists, asks before dropping and recreating it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PipelinesInit(cmd.Context(), configPath, seedFile)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")
	cmd.Flags().StringVar(&seedFile, "seed", "", "Seed YAML file to load after initialization")

	return cmd
}

func pipelinesReset() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the metadata schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PipelinesReset(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesSeed() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Load pipeline records from a YAML file",
		Long: `Load pipeline records from a YAML seed file, overwriting
existing records with the same name. Defaults to pipelines.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seedFile := "pipelines.yaml"
			if len(args) == 1 {
				seedFile = args[0]
			}
			return handlers.PipelinesSeed(cmd.Context(), configPath, seedFile)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesList() *cobra.Command {
	var configPath string
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipeline records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PipelinesList(cmd.Context(), configPath, enabledOnly)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "Only list enabled pipelines")

	return cmd
}

func pipelinesShow() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show every field of one pipeline record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.PipelinesShow(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesCreate() *cobra.Command {
	var configPath string
	opts := handlers.PipelineCreateOpts{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a pipeline record",
		Long: `Create a pipeline record. New pipelines start enabled.

Examples:
  airstack pipelines create sales-ingest --type databricks --schedule "0 6 * * *" --owner data-eng
  airstack pipelines create dbt-models --type dbt --config '{"target": "prod"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			return handlers.PipelinesCreate(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Pipeline type: databricks, dbt, or mixed")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "Cron schedule, empty means manual")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Owning team or person")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&opts.ConfigJSON, "config-json", "", "Pipeline config as a JSON object")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func pipelinesUpdate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "update <name> <field> <value>",
		Short: "Update one field of a pipeline record",
		Long: `Update one field of a pipeline record. Updatable fields are
schedule, enabled, config, owner, description, and type.

Examples:
  airstack pipelines update sales-ingest schedule "0 8 * * *"
  airstack pipelines update sales-ingest config '{"notebook": "/jobs/sales"}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.PipelinesUpdate(cmd.Context(), configPath, args[0], args[1], args[2])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesSetEnabled(use string, enabled bool) *cobra.Command {
	var configPath string

	short := "Disable a pipeline"
	if enabled {
		short = "Enable a pipeline"
	}

	cmd := &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.PipelinesSetEnabled(cmd.Context(), configPath, args[0], enabled)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesDelete() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a pipeline record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.PipelinesDelete(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesExport() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all pipeline records to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFile := "pipelines-export.yaml"
			if len(args) == 1 {
				outFile = args[0]
			}
			return handlers.PipelinesExport(cmd.Context(), configPath, outFile)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}

func pipelinesTest() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the metadata database connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PipelinesTest(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: airstack.yaml)")

	return cmd
}
