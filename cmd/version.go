package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packmeta/packmeta/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the packmeta version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
