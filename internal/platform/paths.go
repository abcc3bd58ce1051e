package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/asext-labs/asext/internal/branding"
)

// DefaultExtensionsDir returns the directory Aseprite loads extensions from
// on the current platform. It checks the ASEXT_EXTENSIONS_DIR environment
// variable first, then falls back to the platform convention:
//
//	linux:   ~/.config/Aseprite/extensions
//	darwin:  ~/Library/Application Support/Aseprite/extensions
//	windows: %USERPROFILE%\AppData\Roaming\Aseprite\extensions
func DefaultExtensionsDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS_DIR")); v != "" {
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".config", "Aseprite", "extensions"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Aseprite", "extensions"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Aseprite", "extensions"), nil
	default:
		return "", fmt.Errorf("unsupported platform %q: no known Aseprite extensions directory", runtime.GOOS)
	}
}
