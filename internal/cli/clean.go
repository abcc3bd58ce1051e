package cli

import (
	"github.com/spf13/cobra"

	"github.com/asext-labs/asext/internal/bundle"
	"github.com/asext-labs/asext/internal/manifest"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <extension-path>",
	Short: "Remove previously built archives from an extension directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}
		bundle.CleanPrevious(m.RootPath, cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
