package cmd

import (
	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packmeta/packmeta/pkg/generate"
	"github.com/packmeta/packmeta/pkg/reconcile"
	"github.com/packmeta/packmeta/pkg/templates"
)

var generateProviders []string

// generateCmd writes metadata artifacts for a piece of software: the
// substituted defaults plus one override fragment per provider.
var generateCmd = &cobra.Command{
	Use:   "generate <software>",
	Short: "Generate metadata artifacts for a piece of software",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		softwareName := args[0]

		tpls, resolver, err := newEngine()
		if err != nil {
			return err
		}
		reconciler := reconcile.NewReconciler(tpls, resolver)
		generator := generate.NewGenerator(packmetaConfig.Output.BasePath)

		vars := map[string]string{reconcile.SoftwareNameVariable: softwareName}
		defaults := templates.SubstituteTemplate(tpls.LoadDefault(), vars)
		path, err := generator.WriteDefaults(softwareName, defaults)
		if err != nil {
			return err
		}
		log.Info("wrote defaults", "software", softwareName, "path", path)

		for _, provider := range generateProviders {
			fragment := reconciler.ComputeOverrides(softwareName, provider, nil, nil)
			path, err := generator.WriteOverrides(softwareName, provider, fragment)
			if err != nil {
				return err
			}
			log.Info("wrote overrides", "software", softwareName, "provider", provider, "path", path)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateProviders, "providers", []string{"apt", "brew", "winget"}, "providers to generate override fragments for")
	rootCmd.AddCommand(generateCmd)
}
