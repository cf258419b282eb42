package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/packmeta/packmeta/pkg/reconcile"
)

var overridesMerged bool

// overridesCmd prints a provider's override fragment (or the fully merged
// configuration) to stdout as YAML.
var overridesCmd = &cobra.Command{
	Use:   "overrides <software> <provider>",
	Short: "Compute a provider's override-only fragment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		softwareName, provider := args[0], args[1]

		tpls, resolver, err := newEngine()
		if err != nil {
			return err
		}
		reconciler := reconcile.NewReconciler(tpls, resolver)

		var result map[string]any
		if overridesMerged {
			result = reconciler.MergedConfiguration(softwareName, provider, nil, nil)
		} else {
			result = reconciler.ComputeOverrides(softwareName, provider, nil, nil)
		}

		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return err
		}
		if err := encoder.Close(); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), buf.String())
		return nil
	},
}

func init() {
	overridesCmd.Flags().BoolVar(&overridesMerged, "merged", false, "print the fully merged configuration instead of the fragment")
	rootCmd.AddCommand(overridesCmd)
}
