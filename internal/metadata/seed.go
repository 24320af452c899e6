package metadata

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// seedDoc is the YAML shape shared by seed files and exports.
type seedDoc struct {
	Pipelines []seedPipeline `yaml:"pipelines"`
}

type seedPipeline struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Schedule    string         `yaml:"schedule,omitempty"`
	Enabled     *bool          `yaml:"enabled"`
	Config      map[string]any `yaml:"config,omitempty"`
	Owner       string         `yaml:"owner,omitempty"`
	Description string         `yaml:"description,omitempty"`
}

// ParseSeed parses a seed YAML document into pipeline records. Pipelines
// without an explicit enabled value default to enabled.
func ParseSeed(data []byte) ([]Pipeline, error) {
	var doc seedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	pipelines := make([]Pipeline, 0, len(doc.Pipelines))
	for i, sp := range doc.Pipelines {
		if sp.Name == "" {
			return nil, fmt.Errorf("seed pipeline %d has no name", i)
		}
		if sp.Type == "" {
			return nil, fmt.Errorf("seed pipeline %q has no type", sp.Name)
		}
		p := Pipeline{
			Name:        sp.Name,
			Type:        sp.Type,
			Schedule:    sp.Schedule,
			Enabled:     true,
			Config:      sp.Config,
			Owner:       sp.Owner,
			Description: sp.Description,
		}
		if sp.Enabled != nil {
			p.Enabled = *sp.Enabled
		}
		if p.Config == nil {
			p.Config = map[string]any{}
		}
		pipelines = append(pipelines, p)
	}
	return pipelines, nil
}

// ExportYAML marshals pipeline records into the seed file format.
func ExportYAML(pipelines []Pipeline) ([]byte, error) {
	doc := seedDoc{Pipelines: make([]seedPipeline, 0, len(pipelines))}
	for _, p := range pipelines {
		enabled := p.Enabled
		doc.Pipelines = append(doc.Pipelines, seedPipeline{
			Name:        p.Name,
			Type:        p.Type,
			Schedule:    p.Schedule,
			Enabled:     &enabled,
			Config:      p.Config,
			Owner:       p.Owner,
			Description: p.Description,
		})
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pipelines: %w", err)
	}
	return out, nil
}
