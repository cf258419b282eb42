package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/viper"

	errUtils "github.com/packmeta/packmeta/errors"
	"github.com/packmeta/packmeta/pkg/schema"
)

const (
	// CliConfigFileName is the base name of the CLI config file (packmeta.yaml).
	CliConfigFileName = "packmeta"

	envPrefix = "PACKMETA"
)

// LoadConfig loads the packmeta configuration from the following locations,
// lower to higher priority: built-in defaults, ~/.packmeta, the current
// directory, ENV vars (PACKMETA_*), and an explicit config file path. A
// missing config file is not an error; the defaults stand.
func LoadConfig(explicitPath string) (schema.Configuration, error) {
	var cfg schema.Configuration

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetTypeByDefaultValue(true)
	setDefaultConfiguration(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		mergeConfigFile(v, filepath.Join(home, ".packmeta", CliConfigFileName+".yaml"))
	}

	workDir, err := os.Getwd()
	if err == nil {
		mergeConfigFile(v, filepath.Join(workDir, CliConfigFileName+".yaml"))
	}

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.MergeInConfig(); err != nil {
			return cfg, fmt.Errorf("%w: %v", errUtils.ErrConfigLoad, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", errUtils.ErrConfigLoad, err)
	}

	cfg.CliConfigPath = v.ConfigFileUsed()
	return cfg, nil
}

func setDefaultConfiguration(v *viper.Viper) {
	v.SetDefault("templates.base_path", "templates")
	v.SetDefault("output.base_path", "output")
	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.file", "/dev/stderr")
}

func mergeConfigFile(v *viper.Viper, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		log.Debug("skipping unreadable config file", "path", path, "error", err)
	}
}
