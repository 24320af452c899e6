package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/jackc/pgx/v5"

	"github.com/airstackdev/airstack/internal/config"
)

// schemaName is the Postgres schema holding the pipeline tables.
const schemaName = "metadata"

// schemaDDL creates the metadata schema and its tables. It is idempotent.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS metadata;

CREATE TABLE IF NOT EXISTS metadata.pipelines (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    type        TEXT NOT NULL,
    schedule    TEXT,
    enabled     BOOLEAN NOT NULL DEFAULT TRUE,
    config      JSONB NOT NULL DEFAULT '{}'::jsonb,
    owner       TEXT,
    description TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS pipelines_enabled_idx ON metadata.pipelines (enabled);
`

// updatableFields are the pipeline columns UpdatePipelineField may touch.
var updatableFields = []string{"schedule", "enabled", "config", "owner", "description", "type"}

// Store implements Manager against a Postgres database, authenticating
// each connection with a short-lived token from the workspace token API.
type Store struct {
	cfg    config.MetadataConfig
	tokens *TokenSource
}

// NewStore builds a store for the configured metadata database.
func NewStore(cfg config.MetadataConfig) (*Store, error) {
	tokens, err := NewTokenSource(cfg.AuthEndpoint, cfg.TokenLifetimeSeconds)
	if err != nil {
		return nil, err
	}
	return &Store{cfg: cfg, tokens: tokens}, nil
}

// Ensure interface compliance.
var _ Manager = (*Store)(nil)

// buildDSN assembles the keyword/value connection string.
func buildDSN(cfg config.MetadataConfig, password string) string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s connect_timeout=10",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, quoteDSNValue(password), cfg.SSLMode)
}

// quoteDSNValue single-quotes a value for the keyword/value DSN format.
func quoteDSNValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// connect opens a connection with a fresh or cached token and scopes the
// search path to the metadata schema. The caller closes the connection.
func (s *Store) connect(ctx context.Context) (*pgx.Conn, error) {
	password, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := pgx.Connect(ctx, buildDSN(s.cfg, password))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", s.cfg.Host, err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schemaName)); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to set search path: %w", err)
	}
	return conn, nil
}

// CreatePipeline inserts a new record and returns its ID.
func (s *Store) CreatePipeline(ctx context.Context, p *Pipeline) (int64, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close(ctx)

	var id int64
	err = conn.QueryRow(ctx,
		`INSERT INTO pipelines (name, type, schedule, enabled, config, owner, description)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		 RETURNING id`,
		p.Name, p.Type, p.Schedule, p.Enabled, p.Config, p.Owner, p.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create pipeline %s: %w", p.Name, err)
	}
	clog.FromContext(ctx).Info("created pipeline", "name", p.Name, "id", id)
	return id, nil
}

// GetPipeline returns the named record, or nil if absent.
func (s *Store) GetPipeline(ctx context.Context, name string) (*Pipeline, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	var p Pipeline
	err = conn.QueryRow(ctx,
		`SELECT id, name, type, COALESCE(schedule, ''), enabled, config,
		        COALESCE(owner, ''), COALESCE(description, ''), created_at, updated_at
		 FROM pipelines WHERE name = $1`, name).
		Scan(&p.ID, &p.Name, &p.Type, &p.Schedule, &p.Enabled, &p.Config,
			&p.Owner, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pipeline %s: %w", name, err)
	}
	return &p, nil
}

// ListPipelines returns all records ordered by name.
func (s *Store) ListPipelines(ctx context.Context, enabledOnly bool) ([]Pipeline, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	query := `SELECT id, name, type, COALESCE(schedule, ''), enabled, config,
	                 COALESCE(owner, ''), COALESCE(description, ''), created_at, updated_at
	          FROM pipelines`
	if enabledOnly {
		query += " WHERE enabled"
	}
	query += " ORDER BY name"

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}
	defer rows.Close()

	var pipelines []Pipeline
	for rows.Next() {
		var p Pipeline
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Schedule, &p.Enabled, &p.Config,
			&p.Owner, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)
	}
	return pipelines, rows.Err()
}

// UpdatePipelineField sets one whitelisted field on the named record.
func (s *Store) UpdatePipelineField(ctx context.Context, name, field string, value any) (bool, error) {
	if err := validateUpdateField(field); err != nil {
		return false, err
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close(ctx)

	// field is whitelisted above, values stay parameterized.
	query := fmt.Sprintf("UPDATE pipelines SET %s = $1, updated_at = now() WHERE name = $2", field)
	tag, err := conn.Exec(ctx, query, value, name)
	if err != nil {
		return false, fmt.Errorf("failed to update pipeline %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	clog.FromContext(ctx).Info("updated pipeline", "name", name, "field", field)
	return true, nil
}

// DeletePipeline removes the named record.
func (s *Store) DeletePipeline(ctx context.Context, name string) (bool, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close(ctx)

	tag, err := conn.Exec(ctx, "DELETE FROM pipelines WHERE name = $1", name)
	if err != nil {
		return false, fmt.Errorf("failed to delete pipeline %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	clog.FromContext(ctx).Info("deleted pipeline", "name", name)
	return true, nil
}

// UpsertPipelines inserts the given records, overwriting existing ones by
// name. Used by seeding.
func (s *Store) UpsertPipelines(ctx context.Context, pipelines []Pipeline) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	for _, p := range pipelines {
		_, err := conn.Exec(ctx,
			`INSERT INTO pipelines (name, type, schedule, enabled, config, owner, description)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
			 ON CONFLICT (name) DO UPDATE SET
			     type = EXCLUDED.type,
			     schedule = EXCLUDED.schedule,
			     enabled = EXCLUDED.enabled,
			     config = EXCLUDED.config,
			     owner = EXCLUDED.owner,
			     description = EXCLUDED.description,
			     updated_at = now()`,
			p.Name, p.Type, p.Schedule, p.Enabled, p.Config, p.Owner, p.Description)
		if err != nil {
			return fmt.Errorf("failed to upsert pipeline %s: %w", p.Name, err)
		}
	}
	clog.FromContext(ctx).Info("upserted pipelines", "count", len(pipelines))
	return nil
}

// InitSchema creates the metadata schema and its tables.
func (s *Store) InitSchema(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	clog.FromContext(ctx).Info("initialized metadata schema")
	return nil
}

// DropSchema removes the metadata schema and everything in it.
func (s *Store) DropSchema(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName)); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	clog.FromContext(ctx).Warn("dropped metadata schema")
	return nil
}

// SchemaExists reports whether the metadata schema is present.
func (s *Store) SchemaExists(ctx context.Context) (bool, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)",
		schemaName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check schema: %w", err)
	}
	return exists, nil
}

// CountPipelines returns the number of pipeline records.
func (s *Store) CountPipelines(ctx context.Context) (int, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close(ctx)

	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM pipelines").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pipelines: %w", err)
	}
	return count, nil
}

// Ping verifies the database is reachable and accepting queries.
func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("connection test query failed: %w", err)
	}
	return nil
}

// validateUpdateField rejects column names outside the update whitelist.
func validateUpdateField(field string) error {
	for _, f := range updatableFields {
		if f == field {
			return nil
		}
	}
	return fmt.Errorf("invalid field %q, allowed: %s", field, strings.Join(updatableFields, ", "))
}
