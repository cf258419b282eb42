package templates

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	log "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/packmeta/packmeta/pkg/merge"
	"github.com/packmeta/packmeta/pkg/perf"
)

const (
	defaultTemplateFile = "defaults.yaml"
	providersDir        = "providers"
	providerDefaultFile = "default.yaml"
	yamlExt             = ".yaml"
)

// Store loads and holds the default template and per-provider template
// fragments from a template root. The default template is loaded once at
// construction; provider templates are loaded lazily on first access and
// cached for the Store's lifetime. Loaded templates are never mutated in
// place; every caller-facing operation returns a fresh copy.
type Store struct {
	basePath string

	defaultOnce     sync.Once
	defaultTemplate map[string]any

	mu        sync.RWMutex
	providers map[string]map[string]any
}

// NewStore creates a template store rooted at basePath. The root does not
// need to exist; a missing root behaves as if every template file is absent.
func NewStore(basePath string) *Store {
	return &Store{
		basePath:  basePath,
		providers: map[string]map[string]any{},
	}
}

// LoadDefault returns the default template, reading `defaults.yaml` under the
// template root on first use. If the file is absent or malformed, a minimal
// built-in default is synthesized so that reconciliation always has a
// baseline to diff against.
func (s *Store) LoadDefault() map[string]any {
	defer perf.Track(nil, "templates.LoadDefault")()

	s.defaultOnce.Do(func() {
		path := filepath.Join(s.basePath, defaultTemplateFile)
		tpl := readTemplateFile(path)
		if len(tpl) == 0 {
			log.Debug("default template not found, synthesizing minimal default", "path", path)
			tpl = minimalDefaultTemplate()
		}
		s.defaultTemplate = tpl
	})

	return copyTemplate(s.defaultTemplate)
}

// LoadProvider returns the template fragment for the named provider, or an
// empty template if none exists. Layouts, in precedence order:
//
//   - hierarchical: providers/<name>/default.yaml plus optional
//     version-specific overlays providers/<name>/<version>.yaml, composed
//     over the provider default via enhanced merge in ascending version
//     order (later versions win);
//   - flat: providers/<name>.yaml.
//
// A hierarchical directory takes precedence over a flat file of the same
// name. Results are cached per provider for the Store's lifetime.
func (s *Store) LoadProvider(name string) map[string]any {
	defer perf.Track(nil, "templates.LoadProvider")()

	s.mu.RLock()
	cached, ok := s.providers[name]
	s.mu.RUnlock()
	if ok {
		return copyTemplate(cached)
	}

	tpl := s.loadProviderFromDisk(name)

	s.mu.Lock()
	// Another goroutine may have loaded the same provider concurrently; the
	// load is deterministic, so either result is fine.
	if existing, ok := s.providers[name]; ok {
		tpl = existing
	} else {
		s.providers[name] = tpl
	}
	s.mu.Unlock()

	return copyTemplate(tpl)
}

func (s *Store) loadProviderFromDisk(name string) map[string]any {
	dirPath := filepath.Join(s.basePath, providersDir, name)
	if info, err := os.Stat(dirPath); err == nil && info.IsDir() {
		return s.loadHierarchicalProvider(name, dirPath)
	}

	flatPath := filepath.Join(s.basePath, providersDir, name+yamlExt)
	return readTemplateFile(flatPath)
}

func (s *Store) loadHierarchicalProvider(name string, dirPath string) map[string]any {
	tpl := readTemplateFile(filepath.Join(dirPath, providerDefaultFile))

	for _, overlayPath := range versionOverlayPaths(dirPath) {
		overlay := readTemplateFile(overlayPath)
		if len(overlay) == 0 {
			continue
		}
		tpl = merge.Enhanced(tpl, overlay)
	}

	if len(tpl) == 0 {
		log.Debug("hierarchical provider directory has no usable templates", "provider", name, "dir", dirPath)
	}
	return tpl
}

// versionOverlayPaths lists version-specific overlay files in a hierarchical
// provider directory, sorted by ascending semantic version so that later
// versions win during composition. Files whose base name is not a valid
// version are skipped with a warning.
func versionOverlayPaths(dirPath string) []string {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		log.Warn("failed to read provider template directory", "dir", dirPath, "error", err)
		return nil
	}

	type overlay struct {
		version *semver.Version
		path    string
	}

	var overlays []overlay
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != yamlExt || entry.Name() == providerDefaultFile {
			continue
		}
		base := entry.Name()[:len(entry.Name())-len(yamlExt)]
		v, err := semver.NewVersion(base)
		if err != nil {
			log.Warn("skipping provider overlay with non-version name", "file", entry.Name(), "dir", dirPath)
			continue
		}
		overlays = append(overlays, overlay{version: v, path: filepath.Join(dirPath, entry.Name())})
	}

	sort.Slice(overlays, func(i, j int) bool {
		return overlays[i].version.LessThan(overlays[j].version)
	})

	paths := make([]string, len(overlays))
	for i, o := range overlays {
		paths[i] = o.path
	}
	return paths
}

// readTemplateFile reads and parses a YAML template. Missing files return an
// empty template silently; malformed files are logged and also treated as
// empty, so that one bad provider file never blocks generation for the rest.
func readTemplateFile(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to read template file", "path", path, "error", err)
		}
		return map[string]any{}
	}

	var tpl map[string]any
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		log.Warn("malformed template file, treating as empty", "path", path, "error", err)
		return map[string]any{}
	}
	if tpl == nil {
		return map[string]any{}
	}
	return tpl
}

// minimalDefaultTemplate is the synthesized baseline used when no
// defaults.yaml exists under the template root.
func minimalDefaultTemplate() map[string]any {
	return map[string]any{
		"version": "0.1",
		"packages": map[string]any{
			"default": map[string]any{
				"name":    "$software_name",
				"version": "latest",
			},
		},
		"services": map[string]any{
			"default": map[string]any{
				"name":    "$software_name",
				"enabled": false,
			},
		},
		"directories": map[string]any{
			"config": map[string]any{
				"path": "/etc/$software_name",
			},
		},
		"urls": map[string]any{
			"website":       nil,
			"documentation": nil,
		},
		"platforms": []any{"linux", "macos", "windows"},
	}
}

func copyTemplate(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyNode(v)
	}
	return out
}

func copyNode(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return copyTemplate(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyNode(item)
		}
		return out
	default:
		return v
	}
}
