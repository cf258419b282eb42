package cmd

import (
	"os"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packmeta/packmeta/pkg/config"
	"github.com/packmeta/packmeta/pkg/schema"
	"github.com/packmeta/packmeta/pkg/store"
	"github.com/packmeta/packmeta/pkg/support"
	"github.com/packmeta/packmeta/pkg/templates"
)

var (
	cliConfigPath string
	logLevel      string

	packmetaConfig schema.Configuration
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "packmeta",
	Short: "Generate software-package metadata across package managers",
	Long: `packmeta reconciles a default metadata template with per-provider
override fragments (apt, brew, winget, npm, ...) and generates the final
package metadata. Provider fragments carry only the settings that differ
from the defaults.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cliConfigPath)
		if err != nil {
			return err
		}
		packmetaConfig = cfg
		configureLogger()
		return nil
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cliConfigPath, "config", "", "path to packmeta.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logs-level", "", "log level: debug, info, warn, error")
}

func configureLogger() {
	level := logLevel
	if level == "" {
		level = packmetaConfig.Logs.Level
	}
	if level == "" {
		return
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn("invalid log level, keeping default", "level", level)
		return
	}
	log.SetLevel(parsed)
}

// newEngine wires the template store, support cache and resolver from the
// loaded configuration. The first configured store backs the support cache;
// with no stores configured an in-memory cache is used.
func newEngine() (*templates.Store, *support.Resolver, error) {
	tpls := templates.NewStore(packmetaConfig.Templates.BasePath)

	var cache store.Store = store.NewInMemoryStore()
	if len(packmetaConfig.Stores.Stores) > 0 {
		registry, err := store.NewRegistry(&packmetaConfig.Stores)
		if err != nil {
			return nil, nil, err
		}
		cache = registry[packmetaConfig.Stores.Stores[0].Name]
	}

	resolver := support.NewResolver(tpls, cache, packmetaConfig.Heuristics)
	return tpls, resolver, nil
}
