// Package metadata manages the pipeline metadata records airstack keeps
// in a Postgres database alongside the dev environment.
package metadata

import (
	"context"
	"time"
)

// Pipeline is one orchestrated pipeline's metadata record.
type Pipeline struct {
	ID          int64
	Name        string
	Type        string
	Schedule    string
	Enabled     bool
	Config      map[string]any
	Owner       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PipelineRepository defines the interface for pipeline record CRUD.
type PipelineRepository interface {
	// CreatePipeline inserts a new record and returns its ID.
	CreatePipeline(ctx context.Context, p *Pipeline) (int64, error)

	// GetPipeline returns the named record, or nil if absent.
	GetPipeline(ctx context.Context, name string) (*Pipeline, error)

	// ListPipelines returns all records ordered by name. With enabledOnly
	// set, disabled pipelines are skipped.
	ListPipelines(ctx context.Context, enabledOnly bool) ([]Pipeline, error)

	// UpdatePipelineField sets one whitelisted field on the named record.
	// It reports false when no record matches.
	UpdatePipelineField(ctx context.Context, name, field string, value any) (bool, error)

	// DeletePipeline removes the named record. It reports false when no
	// record matches.
	DeletePipeline(ctx context.Context, name string) (bool, error)

	// UpsertPipelines inserts the given records, overwriting existing
	// ones by name.
	UpsertPipelines(ctx context.Context, pipelines []Pipeline) error
}

// SchemaManager defines the interface for schema lifecycle operations.
type SchemaManager interface {
	// InitSchema creates the metadata schema and its tables.
	InitSchema(ctx context.Context) error

	// DropSchema removes the metadata schema and everything in it.
	DropSchema(ctx context.Context) error

	// SchemaExists reports whether the metadata schema is present.
	SchemaExists(ctx context.Context) (bool, error)

	// CountPipelines returns the number of pipeline records.
	CountPipelines(ctx context.Context) (int, error)
}

// Pinger defines the interface for connectivity checks.
type Pinger interface {
	// Ping verifies the database is reachable and accepting queries.
	Ping(ctx context.Context) error
}

// Manager combines all metadata database interfaces.
type Manager interface {
	PipelineRepository
	SchemaManager
	Pinger
}
