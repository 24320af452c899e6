// Package ui renders terminal output and interactive prompts for the
// airstack CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/airstackdev/airstack/internal/deploy"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	runningStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	stoppedStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// Confirm asks a yes/no question and returns the answer.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

// RenderEnvironment produces a styled summary of a provisioned environment.
func RenderEnvironment(env, instanceID, publicIP string, webUIPort int32) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  airstack environment: %s", env)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("=", 30)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Instance:"), instanceID))
	b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render("Address: "), publicIP))
	b.WriteString(fmt.Sprintf("  %s http://%s:%d\n", dimStyle.Render("Web UI:  "), publicIP, webUIPort))

	return b.String()
}

// RenderStatus produces a styled table of the stack's containers.
func RenderStatus(env string, statuses []deploy.ContainerStatus) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  airstack status: %s", env)))
	b.WriteString("\n\n")

	if len(statuses) == 0 {
		b.WriteString(dimStyle.Render("  no containers\n"))
		return b.String()
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  %-28s %-24s %-10s %s", "NAME", "IMAGE", "STATE", "STATUS")))
	b.WriteString("\n")
	for _, s := range statuses {
		state := stoppedStyle.Render(s.State)
		if s.State == "running" {
			state = runningStyle.Render(s.State)
		}
		b.WriteString(fmt.Sprintf("  %-28s %-24s %-10s %s\n", s.Name, s.Image, state, dimStyle.Render(s.Status)))
	}

	return b.String()
}
