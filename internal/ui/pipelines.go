package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airstackdev/airstack/internal/metadata"
)

// RenderPipelines produces a styled table of pipeline records.
func RenderPipelines(pipelines []metadata.Pipeline) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  pipelines: %d", len(pipelines))))
	b.WriteString("\n\n")

	if len(pipelines) == 0 {
		b.WriteString(dimStyle.Render("  no pipelines, seed some with 'airstack pipelines seed'\n"))
		return b.String()
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  %-4s %-24s %-12s %-16s %-10s %s", "ID", "NAME", "TYPE", "SCHEDULE", "STATUS", "OWNER")))
	b.WriteString("\n")
	for _, p := range pipelines {
		schedule := p.Schedule
		if schedule == "" {
			schedule = "manual"
		}
		status := stoppedStyle.Render("disabled")
		if p.Enabled {
			status = runningStyle.Render("enabled")
		}
		b.WriteString(fmt.Sprintf("  %-4d %-24s %-12s %-16s %-10s %s\n",
			p.ID, p.Name, p.Type, schedule, status, dimStyle.Render(p.Owner)))
	}

	return b.String()
}

// RenderPipeline produces a styled detail view of one pipeline record.
func RenderPipeline(p *metadata.Pipeline) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  pipeline: " + p.Name))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("=", 30)))
	b.WriteString("\n\n")

	schedule := p.Schedule
	if schedule == "" {
		schedule = "manual"
	}
	status := stoppedStyle.Render("disabled")
	if p.Enabled {
		status = runningStyle.Render("enabled")
	}

	b.WriteString(fmt.Sprintf("  %s %d\n", dimStyle.Render("ID:         "), p.ID))
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Type:       "), p.Type))
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Schedule:   "), schedule))
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Status:     "), status))
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Owner:      "), p.Owner))
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Description:"), p.Description))
	if !p.CreatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Created:    "), p.CreatedAt.Format("2006-01-02 15:04:05")))
	}

	if len(p.Config) > 0 {
		cfg, err := json.MarshalIndent(p.Config, "  ", "  ")
		if err == nil {
			b.WriteString("\n")
			b.WriteString(sectionStyle.Render("  Config"))
			b.WriteString("\n  " + string(cfg) + "\n")
		}
	}

	return b.String()
}
