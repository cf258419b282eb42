package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/packmeta/packmeta/pkg/validate"
)

var validateSchemaPath string

// validateCmd checks the shape of a merged configuration file.
var validateCmd = &cobra.Command{
	Use:   "validate <config.yaml>",
	Short: "Validate a merged metadata configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var config map[string]any
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("not a YAML mapping: %w", err)
		}

		if !validate.Config(config) {
			return fmt.Errorf("configuration %s is structurally invalid", args[0])
		}

		if validateSchemaPath != "" {
			schemaJSON, err := os.ReadFile(validateSchemaPath)
			if err != nil {
				return err
			}
			if err := validate.ConfigSchema(config, string(schemaJSON)); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "path to a JSON schema for full validation")
	rootCmd.AddCommand(validateCmd)
}
