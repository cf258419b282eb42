package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var providersList []string

// providersCmd reports which providers are believed to carry a piece of
// software.
var providersCmd = &cobra.Command{
	Use:   "providers <software>",
	Short: "Show provider support for a piece of software",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		softwareName := args[0]

		_, resolver, err := newEngine()
		if err != nil {
			return err
		}

		for _, provider := range providersList {
			status := "unsupported"
			if resolver.IsSupported(softwareName, provider, nil) {
				status = "supported"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", provider, status)
		}
		return nil
	},
}

func init() {
	providersCmd.Flags().StringSliceVar(&providersList, "providers", []string{"apt", "brew", "winget", "npm", "pypi", "cargo"}, "providers to check")
	rootCmd.AddCommand(providersCmd)
}
