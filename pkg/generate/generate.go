// Package generate serializes reconciled metadata to YAML artifacts on disk:
// one defaults file plus one override fragment per provider, laid out under
// an output root as <software>/defaults.yaml and
// <software>/providers/<provider>.yaml.
package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	errUtils "github.com/packmeta/packmeta/errors"
	"github.com/packmeta/packmeta/pkg/perf"
)

const (
	yamlIndent   = 2
	dirPerm      = 0o755
	filePerm     = 0o644
	defaultsFile = "defaults.yaml"
	providersDir = "providers"
)

// Generator writes metadata artifacts under an output root.
type Generator struct {
	basePath string
}

// NewGenerator creates a Generator rooted at basePath.
func NewGenerator(basePath string) *Generator {
	return &Generator{basePath: basePath}
}

// WriteDefaults writes the software's baseline configuration and returns the
// written path.
func (g *Generator) WriteDefaults(softwareName string, config map[string]any) (string, error) {
	defer perf.Track(nil, "generate.WriteDefaults")()

	path := filepath.Join(g.basePath, softwareName, defaultsFile)
	return path, g.writeYAML(path, config)
}

// WriteOverrides writes a provider's override fragment and returns the
// written path.
func (g *Generator) WriteOverrides(softwareName string, provider string, fragment map[string]any) (string, error) {
	defer perf.Track(nil, "generate.WriteOverrides")()

	path := filepath.Join(g.basePath, softwareName, providersDir, provider+".yaml")
	return path, g.writeYAML(path, fragment)
}

func (g *Generator) writeYAML(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}

	// Write to a temp file in the same directory and rename, so a crashed
	// run never leaves a truncated artifact.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".packmeta-*")
	if err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", errUtils.ErrGenerateOutput, err)
	}

	log.Debug("wrote metadata artifact", "path", path)
	return nil
}
