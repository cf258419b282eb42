// Package validate checks the shape of merged metadata configurations. The
// fast-path Config check catches obviously malformed merge results; full
// schema validation is available separately for callers that carry a JSON
// schema.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	log "github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	errUtils "github.com/packmeta/packmeta/errors"
	"github.com/packmeta/packmeta/pkg/perf"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Config performs a structural sanity check of a merged configuration,
// failing fast on the first violation. It never returns an error: a false
// result leaves interpretation (log, reject, repair) to the caller. Sections
// are only checked when present; this is a shape check, not schema-complete
// validation.
func Config(config map[string]any) bool {
	defer perf.Track(nil, "validate.Config")()

	version, ok := config["version"].(string)
	if !ok || !versionPattern.MatchString(version) {
		log.Debug("invalid configuration: bad version", "version", config["version"])
		return false
	}

	if packages, present := config["packages"]; present {
		if !validPackages(packages) {
			return false
		}
	}

	if services, present := config["services"]; present {
		if _, ok := services.(map[string]any); !ok {
			log.Debug("invalid configuration: services is not a mapping")
			return false
		}
	}

	if directories, present := config["directories"]; present {
		if !validDirectories(directories) {
			return false
		}
	}

	if urls, present := config["urls"]; present {
		if !validURLs(urls) {
			return false
		}
	}

	if platforms, present := config["platforms"]; present {
		if !validPlatforms(platforms) {
			return false
		}
	}

	return true
}

func validPackages(packages any) bool {
	packagesMap, ok := packages.(map[string]any)
	if !ok {
		log.Debug("invalid configuration: packages is not a mapping")
		return false
	}
	for key, value := range packagesMap {
		entry, ok := value.(map[string]any)
		if !ok {
			log.Debug("invalid configuration: package entry is not a mapping", "package", key)
			return false
		}
		name, ok := entry["name"].(string)
		if !ok || name == "" {
			log.Debug("invalid configuration: package entry has no name", "package", key)
			return false
		}
	}
	return true
}

func validDirectories(directories any) bool {
	directoriesMap, ok := directories.(map[string]any)
	if !ok {
		log.Debug("invalid configuration: directories is not a mapping")
		return false
	}
	for key, value := range directoriesMap {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if path, present := entry["path"]; present {
			if _, ok := path.(string); !ok {
				log.Debug("invalid configuration: directory path is not a string", "directory", key)
				return false
			}
		}
	}
	return true
}

func validURLs(urls any) bool {
	urlsMap, ok := urls.(map[string]any)
	if !ok {
		log.Debug("invalid configuration: urls is not a mapping")
		return false
	}
	for key, value := range urlsMap {
		if value == nil {
			continue
		}
		if _, ok := value.(string); !ok {
			log.Debug("invalid configuration: url is neither string nor null", "url", key)
			return false
		}
	}
	return true
}

func validPlatforms(platforms any) bool {
	platformsSlice, ok := platforms.([]any)
	if !ok {
		log.Debug("invalid configuration: platforms is not a sequence")
		return false
	}
	for _, item := range platformsSlice {
		if _, ok := item.(string); !ok {
			log.Debug("invalid configuration: platform is not a string", "platform", item)
			return false
		}
	}
	return true
}

// ConfigSchema validates a configuration against a JSON schema document.
// This is the schema-complete companion to the Config shape check.
func ConfigSchema(config map[string]any, schemaJSON string) error {
	defer perf.Track(nil, "validate.ConfigSchema")()

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", bytes.NewReader([]byte(schemaJSON))); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrSchemaCompile, err)
	}
	compiled, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrSchemaCompile, err)
	}

	// The schema library expects JSON-decoded values; round-trip the config
	// so YAML-native types (ints, nested maps) normalize to JSON types.
	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrSchemaValidate, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrSchemaValidate, err)
	}

	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", errUtils.ErrSchemaValidate, err)
	}
	return nil
}
