package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asext-labs/asext/internal/config"
	"github.com/asext-labs/asext/internal/installer"
	"github.com/asext-labs/asext/internal/manifest"
)

var installExtensionsDir string

var installCmd = &cobra.Command{
	Use:   "install <extension-path>",
	Short: "Install an extension into the Aseprite extensions directory",
	Long: `Install copies the extension at <extension-path> into the Aseprite
extensions directory, replacing any previously installed version of the same
extension. The target defaults to the platform's Aseprite location and can be
overridden with --extensions-dir, the ` + "`extensions_dir`" + ` config key, or
ASEXT_EXTENSIONS_DIR.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installExtensionsDir, "extensions-dir", "", "Custom Aseprite extensions directory")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	printWarnings(cmd, m)

	extensionsDir, err := resolveExtensionsDir(installExtensionsDir)
	if err != nil {
		return err
	}

	inst := installer.New(m, extensionsDir, cmd.OutOrStdout())
	if !inst.Install() {
		return fmt.Errorf("installation failed")
	}
	return nil
}

// resolveExtensionsDir applies the flag > env/config > platform default order.
func resolveExtensionsDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	settings, err := config.Resolve()
	if err != nil {
		return "", err
	}
	return settings.ExtensionsDir, nil
}
