package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelines_HasSubcommands(t *testing.T) {
	cmd := Pipelines()
	require.NotNil(t, cmd)

	expected := []string{
		"init", "reset", "seed", "list", "show", "create",
		"update", "enable", "disable", "delete", "export", "test",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, subcommands[name], "Expected subcommand %s not found", name)
	}
	assert.Len(t, cmd.Commands(), len(expected))
}

func TestPipelines_SubcommandsHaveConfigFlag(t *testing.T) {
	for _, sub := range Pipelines().Commands() {
		assert.NotNil(t, sub.Flags().Lookup("config"), "Subcommand %s should have --config", sub.Name())
	}
}

func TestPipelinesCreate_RequiresType(t *testing.T) {
	cmd := pipelinesCreate()
	cmd.SetArgs([]string{"sales-ingest"})
	require.ErrorContains(t, cmd.Execute(), "type")
}
