// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsletter-engine/internal/agent"
)

func noopTool() agent.Tool {
	return agent.Tool{Name: "search_and_contents", Execute: func(context.Context, string) string { return "" }}
}

func TestDefaultRolesToolWiring(t *testing.T) {
	roles := DefaultRoles(noopTool())

	// Research and insights stages may search; writing and editing only
	// transform text.
	require.Len(t, roles.Researcher.Tools, 1)
	require.Len(t, roles.Insights.Tools, 1)
	assert.Empty(t, roles.Writer.Tools)
	assert.Empty(t, roles.Editor.Tools)

	assert.Equal(t, searchToolAttempts, roles.Researcher.MaxToolAttempts)
	assert.Equal(t, searchToolAttempts, roles.Insights.MaxToolAttempts)
}

func TestDefaultRolesNames(t *testing.T) {
	roles := DefaultRoles(noopTool())

	assert.Equal(t, "researcher", roles.Researcher.Name)
	assert.Equal(t, "insights", roles.Insights.Name)
	assert.Equal(t, "writer", roles.Writer.Name)
	assert.Equal(t, "editor", roles.Editor.Name)
}

func TestLoadRolesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
researcher:
  persona: "You are a biotech researcher."
  max_tool_attempts: 2
writer:
  output_instructions: "Keep it under 500 words."
`), 0o600))

	roles, err := LoadRoles(path, noopTool())
	require.NoError(t, err)

	assert.Equal(t, "You are a biotech researcher.", roles.Researcher.Persona)
	assert.Equal(t, 2, roles.Researcher.MaxToolAttempts)
	assert.Equal(t, "Keep it under 500 words.", roles.Writer.OutputInstructions)

	// Untouched fields keep their defaults.
	defaults := DefaultRoles(noopTool())
	assert.Equal(t, defaults.Researcher.Instructions, roles.Researcher.Instructions)
	assert.Equal(t, defaults.Editor.Persona, roles.Editor.Persona)
	// Tool wiring survives overrides.
	require.Len(t, roles.Researcher.Tools, 1)
}

func TestLoadRolesMissingFile(t *testing.T) {
	_, err := LoadRoles(filepath.Join(t.TempDir(), "missing.yaml"), noopTool())
	assert.Error(t, err)
}

func TestLoadRolesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("researcher: [not a mapping"), 0o600))

	_, err := LoadRoles(path, noopTool())
	assert.Error(t, err)
}
