package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asext-labs/asext/internal/branding"
	"github.com/asext-labs/asext/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` packages Aseprite extensions into .aseprite-extension
archives, installs them into the Aseprite extensions directory, and watches a
source tree to reinstall on every change during development.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		return err
	}
	return nil
}
