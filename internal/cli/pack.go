package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asext-labs/asext/internal/bundle"
	"github.com/asext-labs/asext/internal/config"
	"github.com/asext-labs/asext/internal/installer"
	"github.com/asext-labs/asext/internal/manifest"
)

var (
	packClean     bool
	packInstall   bool
	packOutput    string
	packOutputDir string
)

var packCmd = &cobra.Command{
	Use:   "pack <extension-path>",
	Short: "Pack an extension into a .aseprite-extension archive",
	Long: `Pack bundles the extension at <extension-path> — its scripts, package.json,
optional keybindings file, and a generated extension.json — into a
{name}-{version}.aseprite-extension archive.`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

func init() {
	packCmd.Flags().BoolVarP(&packClean, "clean", "c", false, "Remove previous .aseprite-extension builds first")
	packCmd.Flags().BoolVarP(&packInstall, "install", "i", false, "Install to Aseprite after packing")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "Custom output name (without extension)")
	packCmd.Flags().StringVar(&packOutputDir, "output-dir", "", "Output directory (default: extension directory)")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	printWarnings(cmd, m)

	out := cmd.OutOrStdout()

	if packClean {
		bundle.CleanPrevious(m.RootPath, out)
	}

	settings, err := config.Resolve()
	if err != nil {
		return err
	}

	outputDir := packOutputDir
	if outputDir == "" {
		outputDir = settings.OutputDir
	}

	fmt.Fprintf(out, "Creating %s v%s\n", m.Name, m.Version)
	fmt.Fprintf(out, "Source: %s\n", m.RootPath)

	archivePath, err := bundle.BuildArchive(m, bundle.ArchiveOptions{
		OutputDir:  outputDir,
		CustomName: packOutput,
	}, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ extension created: %s\n", archivePath)
	if info, statErr := os.Stat(archivePath); statErr == nil {
		fmt.Fprintf(out, "Archive size: %s\n", formatSize(info.Size()))
	}

	if packInstall {
		inst := installer.New(m, settings.ExtensionsDir, out)
		if !inst.Install() {
			return fmt.Errorf("installation failed")
		}
	}

	return nil
}

// printWarnings reports non-fatal manifest diagnostics.
func printWarnings(cmd *cobra.Command, m *manifest.Manifest) {
	for _, w := range m.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", w)
	}
}

// formatSize renders a byte count in human-readable form.
func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
