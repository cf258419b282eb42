package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteOverridesRoundTrip(t *testing.T) {
	root := t.TempDir()
	g := NewGenerator(root)

	fragment := map[string]any{
		"version": "0.1",
		"services": map[string]any{
			"default": map[string]any{"enabled": true},
		},
	}

	path, err := g.WriteOverrides("nginx", "apt", fragment)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "nginx", "providers", "apt.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, fragment, parsed)
}

func TestWriteDefaults(t *testing.T) {
	root := t.TempDir()
	g := NewGenerator(root)

	path, err := g.WriteDefaults("nginx", map[string]any{"version": "0.1"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "nginx", "defaults.yaml"), path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteOverwritesExisting(t *testing.T) {
	root := t.TempDir()
	g := NewGenerator(root)

	_, err := g.WriteDefaults("nginx", map[string]any{"version": "0.1"})
	require.NoError(t, err)
	path, err := g.WriteDefaults("nginx", map[string]any{"version": "0.2"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "0.2", parsed["version"])
}
