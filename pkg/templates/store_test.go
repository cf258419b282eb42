package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaultFromDisk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "defaults.yaml"), `
version: "0.1"
services:
  default:
    enabled: false
`)

	s := NewStore(root)
	tpl := s.LoadDefault()

	assert.Equal(t, "0.1", tpl["version"])
	services := tpl["services"].(map[string]any)
	assert.Equal(t, false, services["default"].(map[string]any)["enabled"])
}

func TestLoadDefaultSynthesizedWhenMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	tpl := s.LoadDefault()

	assert.Equal(t, "0.1", tpl["version"])
	assert.Contains(t, tpl, "packages")
	assert.Contains(t, tpl, "urls")
}

func TestLoadDefaultReturnsIndependentCopies(t *testing.T) {
	s := NewStore(t.TempDir())

	first := s.LoadDefault()
	first["version"] = "9.9"
	firstPackages := first["packages"].(map[string]any)
	firstPackages["default"].(map[string]any)["name"] = "mutated"

	second := s.LoadDefault()
	assert.Equal(t, "0.1", second["version"])
	assert.Equal(t, "$software_name", second["packages"].(map[string]any)["default"].(map[string]any)["name"])
}

func TestLoadProviderFlat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "providers", "apt.yaml"), `
services:
  default:
    enabled: true
`)

	s := NewStore(root)
	tpl := s.LoadProvider("apt")

	services := tpl["services"].(map[string]any)
	assert.Equal(t, true, services["default"].(map[string]any)["enabled"])
}

func TestLoadProviderMissingReturnsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Equal(t, map[string]any{}, s.LoadProvider("winget"))
}

func TestLoadProviderMalformedTreatedAsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "providers", "brew.yaml"), "{{ not yaml ][")

	s := NewStore(root)
	assert.Equal(t, map[string]any{}, s.LoadProvider("brew"))
}

func TestLoadProviderHierarchicalPrecedesFlat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "providers", "apt.yaml"), `{flavor: flat}`)
	writeFile(t, filepath.Join(root, "providers", "apt", "default.yaml"), `{flavor: hierarchical}`)

	s := NewStore(root)
	tpl := s.LoadProvider("apt")

	assert.Equal(t, "hierarchical", tpl["flavor"])
}

func TestLoadProviderVersionOverlaysComposeInOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "providers", "apt", "default.yaml"), `
packages:
  default:
    name: nginx
    flags: base
`)
	writeFile(t, filepath.Join(root, "providers", "apt", "2.0.yaml"), `
packages:
  default:
    flags: newer
`)
	writeFile(t, filepath.Join(root, "providers", "apt", "1.0.yaml"), `
packages:
  default:
    flags: older
    legacy: true
`)

	s := NewStore(root)
	tpl := s.LoadProvider("apt")

	pkg := tpl["packages"].(map[string]any)["default"].(map[string]any)
	assert.Equal(t, "nginx", pkg["name"])
	assert.Equal(t, "newer", pkg["flags"])
	assert.Equal(t, true, pkg["legacy"])
}

func TestLoadProviderVersionOverlayTombstones(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "providers", "apt", "default.yaml"), `
urls:
  website: https://example.com
  documentation: https://docs.example.com
`)
	writeFile(t, filepath.Join(root, "providers", "apt", "2.0.yaml"), `
urls:
  website: null
`)

	s := NewStore(root)
	urls := s.LoadProvider("apt")["urls"].(map[string]any)

	_, hasWebsite := urls["website"]
	assert.False(t, hasWebsite)
	assert.Equal(t, "https://docs.example.com", urls["documentation"])
}

func TestLoadProviderCached(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "providers", "apt.yaml")
	writeFile(t, path, `{channel: stable}`)

	s := NewStore(root)
	assert.Equal(t, "stable", s.LoadProvider("apt")["channel"])

	// The first load is cached for the store's lifetime; a disk change must
	// not leak into subsequent loads.
	writeFile(t, path, `{channel: edge}`)
	assert.Equal(t, "stable", s.LoadProvider("apt")["channel"])
}
