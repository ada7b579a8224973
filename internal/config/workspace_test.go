package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadWorkspace verifies parsing of a config.yaml with both keys set.
func TestLoadWorkspace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
path_to_viruses: viral_usher_trees/trees
viruses:
  - rsv-a
  - rsv-b
`)

	ws, err := LoadWorkspace(path)
	require.NoError(t, err)
	assert.Equal(t, "viral_usher_trees/trees", ws.TreesDir())
	assert.True(t, ws.Selects("rsv-a"))
	assert.False(t, ws.Selects("mpox"))
}

// TestLoadWorkspace_Missing verifies that a missing config.yaml yields
// defaults instead of an error: the tool must work in a bare checkout.
func TestLoadWorkspace_Missing(t *testing.T) {
	ws, err := LoadWorkspace(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTreesDir, ws.TreesDir())
	assert.True(t, ws.Selects("anything"), "empty allowlist selects every tree")
}

// TestLoadWorkspace_BadYAML verifies malformed YAML is reported.
func TestLoadWorkspace_BadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "viruses: [unclosed")

	_, err := LoadWorkspace(path)
	assert.Error(t, err)
}
