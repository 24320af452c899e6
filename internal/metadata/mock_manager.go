package metadata

import (
	"context"
)

// MockManager is a mock implementation of Manager.
type MockManager struct {
	CreatePipelineFunc      func(ctx context.Context, p *Pipeline) (int64, error)
	GetPipelineFunc         func(ctx context.Context, name string) (*Pipeline, error)
	ListPipelinesFunc       func(ctx context.Context, enabledOnly bool) ([]Pipeline, error)
	UpdatePipelineFieldFunc func(ctx context.Context, name, field string, value any) (bool, error)
	DeletePipelineFunc      func(ctx context.Context, name string) (bool, error)
	UpsertPipelinesFunc     func(ctx context.Context, pipelines []Pipeline) error

	InitSchemaFunc     func(ctx context.Context) error
	DropSchemaFunc     func(ctx context.Context) error
	SchemaExistsFunc   func(ctx context.Context) (bool, error)
	CountPipelinesFunc func(ctx context.Context) (int, error)

	PingFunc func(ctx context.Context) error
}

// Ensure interface compliance.
var _ Manager = (*MockManager)(nil)

// CreatePipeline mocks record creation.
func (m *MockManager) CreatePipeline(ctx context.Context, p *Pipeline) (int64, error) {
	if m.CreatePipelineFunc != nil {
		return m.CreatePipelineFunc(ctx, p)
	}
	return 1, nil
}

// GetPipeline mocks the name lookup.
func (m *MockManager) GetPipeline(ctx context.Context, name string) (*Pipeline, error) {
	if m.GetPipelineFunc != nil {
		return m.GetPipelineFunc(ctx, name)
	}
	return nil, nil
}

// ListPipelines mocks the listing.
func (m *MockManager) ListPipelines(ctx context.Context, enabledOnly bool) ([]Pipeline, error) {
	if m.ListPipelinesFunc != nil {
		return m.ListPipelinesFunc(ctx, enabledOnly)
	}
	return nil, nil
}

// UpdatePipelineField mocks the field update.
func (m *MockManager) UpdatePipelineField(ctx context.Context, name, field string, value any) (bool, error) {
	if m.UpdatePipelineFieldFunc != nil {
		return m.UpdatePipelineFieldFunc(ctx, name, field, value)
	}
	return true, nil
}

// DeletePipeline mocks record deletion.
func (m *MockManager) DeletePipeline(ctx context.Context, name string) (bool, error) {
	if m.DeletePipelineFunc != nil {
		return m.DeletePipelineFunc(ctx, name)
	}
	return true, nil
}

// UpsertPipelines mocks the bulk upsert.
func (m *MockManager) UpsertPipelines(ctx context.Context, pipelines []Pipeline) error {
	if m.UpsertPipelinesFunc != nil {
		return m.UpsertPipelinesFunc(ctx, pipelines)
	}
	return nil
}

// InitSchema mocks schema creation.
func (m *MockManager) InitSchema(ctx context.Context) error {
	if m.InitSchemaFunc != nil {
		return m.InitSchemaFunc(ctx)
	}
	return nil
}

// DropSchema mocks schema removal.
func (m *MockManager) DropSchema(ctx context.Context) error {
	if m.DropSchemaFunc != nil {
		return m.DropSchemaFunc(ctx)
	}
	return nil
}

// SchemaExists mocks the schema check.
func (m *MockManager) SchemaExists(ctx context.Context) (bool, error) {
	if m.SchemaExistsFunc != nil {
		return m.SchemaExistsFunc(ctx)
	}
	return true, nil
}

// CountPipelines mocks the record count.
func (m *MockManager) CountPipelines(ctx context.Context) (int, error) {
	if m.CountPipelinesFunc != nil {
		return m.CountPipelinesFunc(ctx)
	}
	return 0, nil
}

// Ping mocks the connectivity check.
func (m *MockManager) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
