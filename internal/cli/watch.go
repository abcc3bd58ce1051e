package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asext-labs/asext/internal/config"
	"github.com/asext-labs/asext/internal/installer"
	"github.com/asext-labs/asext/internal/manifest"
	"github.com/asext-labs/asext/internal/watcher"
)

var (
	watchDebounce      time.Duration
	watchExtensionsDir string
)

var watchCmd = &cobra.Command{
	Use:   "watch <extension-path>",
	Short: "Watch an extension and reinstall on every change",
	Long: `Watch installs the extension, then monitors its source tree and reinstalls
whenever a script or manifest file changes. Changes arriving within the
debounce interval of the previous reinstall are dropped. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchDebounce, "debounce", "d", 0, "Minimum time between reinstalls (default 1s)")
	watchCmd.Flags().StringVar(&watchExtensionsDir, "extensions-dir", "", "Custom Aseprite extensions directory")
	rootCmd.AddCommand(watchCmd)
}

// resolveDebounce prefers an explicit --debounce flag over the configured
// interval.
func resolveDebounce(flagValue time.Duration, settings *config.Settings) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	return settings.Debounce
}

func runWatch(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	printWarnings(cmd, m)

	extensionsDir, err := resolveExtensionsDir(watchExtensionsDir)
	if err != nil {
		return err
	}

	settings, err := config.Resolve()
	if err != nil {
		return err
	}
	debounce := resolveDebounce(watchDebounce, settings)

	out := cmd.OutOrStdout()
	inst := installer.New(m, extensionsDir, out)

	fmt.Fprintf(out, "Live reload started for %s\n", m.Name)
	fmt.Fprintf(out, "  source:    %s\n", m.RootPath)
	fmt.Fprintf(out, "  target:    %s\n", extensionsDir)
	fmt.Fprintf(out, "  debounce:  %s\n", debounce)
	fmt.Fprintf(out, "  watching:  *%s, %s, %s\n", manifest.ScriptExtension, manifest.PackageFileName, manifest.RuntimeFileName)
	fmt.Fprintln(out, "Press Ctrl+C to exit")

	if !inst.Install() {
		fmt.Fprintln(out, "✗ initial installation failed, continuing to watch")
	}

	w, err := watcher.New(watcher.Config{
		Root:     m.RootPath,
		Install:  inst.Install,
		Debounce: debounce,
		Out:      out,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nLive reload stopped")
	return nil
}
