package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/config"
	"github.com/airstackdev/airstack/internal/metadata"
	"github.com/airstackdev/airstack/internal/ui"
)

// newMetadataStore opens the pipeline metadata database (for testing injection).
var newMetadataStore = func(cfg config.MetadataConfig) (metadata.Manager, error) {
	return metadata.NewStore(cfg)
}

// metadataManager loads the configuration and opens the metadata database.
func metadataManager(configPath string) (*config.Config, metadata.Manager, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Metadata.Enabled() {
		return nil, nil, fmt.Errorf("no metadata database configured, set metadata.host in %s", defaultConfigFile)
	}
	mgr, err := newMetadataStore(cfg.Metadata)
	if err != nil {
		return nil, nil, err
	}
	return cfg, mgr, nil
}

// PipelinesInit creates the metadata schema, asking before recreating one
// that already exists. A seed file, when given, is loaded afterwards.
func PipelinesInit(ctx context.Context, configPath, seedFile string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	exists, err := mgr.SchemaExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		ok, err := confirm("Metadata schema already exists. Recreate it?",
			"All pipeline records will be lost.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Keeping existing schema.")
			return nil
		}
		if err := mgr.DropSchema(ctx); err != nil {
			return err
		}
	}

	if err := mgr.InitSchema(ctx); err != nil {
		return err
	}
	clog.FromContext(ctx).Info("metadata schema ready")

	if seedFile != "" {
		return PipelinesSeed(ctx, configPath, seedFile)
	}
	return nil
}

// PipelinesReset drops and recreates the metadata schema.
func PipelinesReset(ctx context.Context, configPath string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	ok, err := confirm("Reset the metadata schema?",
		"All pipeline records will be lost.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Reset cancelled.")
		return nil
	}

	if err := mgr.DropSchema(ctx); err != nil {
		return err
	}
	if err := mgr.InitSchema(ctx); err != nil {
		return err
	}
	clog.FromContext(ctx).Info("metadata schema reset")
	return nil
}

// PipelinesSeed loads pipeline records from a YAML file, overwriting
// existing records by name.
func PipelinesSeed(ctx context.Context, configPath, seedFile string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	// #nosec G304
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	pipelines, err := metadata.ParseSeed(data)
	if err != nil {
		return err
	}
	if len(pipelines) == 0 {
		return fmt.Errorf("seed file %s contains no pipelines", seedFile)
	}

	if err := mgr.UpsertPipelines(ctx, pipelines); err != nil {
		return err
	}
	clog.FromContext(ctx).Infof("Loaded %d pipelines from %s", len(pipelines), seedFile)
	return nil
}

// PipelinesList prints a table of pipeline records.
func PipelinesList(ctx context.Context, configPath string, enabledOnly bool) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	pipelines, err := mgr.ListPipelines(ctx, enabledOnly)
	if err != nil {
		return err
	}
	fmt.Println(ui.RenderPipelines(pipelines))
	return nil
}

// PipelinesShow prints every field of one pipeline record.
func PipelinesShow(ctx context.Context, configPath, name string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	p, err := mgr.GetPipeline(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("pipeline %s not found", name)
	}
	fmt.Println(ui.RenderPipeline(p))
	return nil
}

// PipelineCreateOpts carries the flag values for pipeline creation.
type PipelineCreateOpts struct {
	Name        string
	Type        string
	Schedule    string
	Owner       string
	Description string
	ConfigJSON  string
}

// PipelinesCreate inserts a new pipeline record.
func PipelinesCreate(ctx context.Context, configPath string, opts PipelineCreateOpts) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	cfgMap := map[string]any{}
	if opts.ConfigJSON != "" {
		if err := json.Unmarshal([]byte(opts.ConfigJSON), &cfgMap); err != nil {
			return fmt.Errorf("invalid config JSON: %w", err)
		}
	}

	id, err := mgr.CreatePipeline(ctx, &metadata.Pipeline{
		Name:        opts.Name,
		Type:        opts.Type,
		Schedule:    opts.Schedule,
		Enabled:     true,
		Config:      cfgMap,
		Owner:       opts.Owner,
		Description: opts.Description,
	})
	if err != nil {
		return err
	}
	clog.FromContext(ctx).Infof("Pipeline %s created with ID %d", opts.Name, id)
	return nil
}

// PipelinesUpdate sets one field of a pipeline record. The enabled field
// takes a boolean and config takes a JSON object; everything else is a
// plain string.
func PipelinesUpdate(ctx context.Context, configPath, name, field, value string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	var parsed any = value
	switch field {
	case "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("enabled takes true or false, got %q", value)
		}
		parsed = b
	case "config":
		cfgMap := map[string]any{}
		if err := json.Unmarshal([]byte(value), &cfgMap); err != nil {
			return fmt.Errorf("invalid config JSON: %w", err)
		}
		parsed = cfgMap
	}

	updated, err := mgr.UpdatePipelineField(ctx, name, field, parsed)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("pipeline %s not found", name)
	}
	clog.FromContext(ctx).Infof("Pipeline %s updated: %s = %s", name, field, value)
	return nil
}

// PipelinesSetEnabled flips the enabled flag on a pipeline record.
func PipelinesSetEnabled(ctx context.Context, configPath, name string, enabled bool) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	updated, err := mgr.UpdatePipelineField(ctx, name, "enabled", enabled)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("pipeline %s not found", name)
	}
	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	clog.FromContext(ctx).Infof("Pipeline %s %s", name, verb)
	return nil
}

// PipelinesDelete removes a pipeline record after confirmation.
func PipelinesDelete(ctx context.Context, configPath, name string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	ok, err := confirm(fmt.Sprintf("Delete pipeline %s?", name),
		"The record cannot be recovered.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Deletion cancelled.")
		return nil
	}

	deleted, err := mgr.DeletePipeline(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("pipeline %s not found", name)
	}
	clog.FromContext(ctx).Infof("Pipeline %s deleted", name)
	return nil
}

// PipelinesExport writes all pipeline records to a YAML file in the seed
// format.
func PipelinesExport(ctx context.Context, configPath, outFile string) error {
	_, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	pipelines, err := mgr.ListPipelines(ctx, false)
	if err != nil {
		return err
	}
	out, err := metadata.ExportYAML(pipelines)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, out, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	clog.FromContext(ctx).Infof("Exported %d pipelines to %s", len(pipelines), outFile)
	return nil
}

// PipelinesTest verifies the metadata database is reachable and reports
// how many pipeline records it holds.
func PipelinesTest(ctx context.Context, configPath string) error {
	cfg, mgr, err := metadataManager(configPath)
	if err != nil {
		return err
	}

	if err := mgr.Ping(ctx); err != nil {
		return fmt.Errorf("connection to %s failed: %w", cfg.Metadata.Host, err)
	}
	count, err := mgr.CountPipelines(ctx)
	if err != nil {
		return err
	}
	clog.FromContext(ctx).Infof("Connected to %s, %d pipelines", cfg.Metadata.Host, count)
	return nil
}
