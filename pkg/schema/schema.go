package schema

// MetadataMapType is the universal value type for templates, override
// fragments and merged configurations.
type MetadataMapType = map[string]any

// Configuration structure represents schema for the `packmeta.yaml` CLI config.
type Configuration struct {
	BasePath      string       `yaml:"base_path" json:"base_path" mapstructure:"base_path"`
	Templates     Templates    `yaml:"templates" json:"templates" mapstructure:"templates"`
	Output        Output       `yaml:"output,omitempty" json:"output,omitempty" mapstructure:"output"`
	Stores        StoresConfig `yaml:"stores,omitempty" json:"stores,omitempty" mapstructure:"stores"`
	Heuristics    Heuristics   `yaml:"heuristics,omitempty" json:"heuristics,omitempty" mapstructure:"heuristics"`
	Logs          Logs         `yaml:"logs,omitempty" json:"logs,omitempty" mapstructure:"logs"`
	CliConfigPath string       `yaml:"cli_config_path,omitempty" json:"cli_config_path,omitempty" mapstructure:"cli_config_path"`
}

// Templates configures where the default template and provider fragments live.
type Templates struct {
	BasePath string `yaml:"base_path" json:"base_path" mapstructure:"base_path"`
}

// Output configures where generated metadata artifacts are written.
type Output struct {
	BasePath string `yaml:"base_path" json:"base_path" mapstructure:"base_path"`
}

// Logs configures the logger.
type Logs struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty" mapstructure:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty" mapstructure:"file"`
}

// StoresConfig configures the support-cache store registry.
type StoresConfig struct {
	Stores []StoreConfig `yaml:"stores,omitempty" json:"stores,omitempty" mapstructure:"stores"`
}

// StoreConfig configures a single store backend.
type StoreConfig struct {
	Name    string         `yaml:"name" json:"name" mapstructure:"name"`
	Type    string         `yaml:"type" json:"type" mapstructure:"type"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty" mapstructure:"options"`
}

// Heuristics configures the provider-category fallback used when no template
// and no repository evidence exists for a provider. Membership of these lists
// is configuration data, not code.
type Heuristics struct {
	SystemProviders      []string `yaml:"system_providers,omitempty" json:"system_providers,omitempty" mapstructure:"system_providers"`
	LanguageProviders    []string `yaml:"language_providers,omitempty" json:"language_providers,omitempty" mapstructure:"language_providers"`
	SpecializedProviders []string `yaml:"specialized_providers,omitempty" json:"specialized_providers,omitempty" mapstructure:"specialized_providers"`
}
