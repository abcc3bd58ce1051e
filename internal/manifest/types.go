package manifest

import (
	"errors"
	"path/filepath"
)

// Well-known file names and constants of the Aseprite extension format.
const (
	// PackageFileName is the manifest file at the extension root.
	PackageFileName = "package.json"

	// RuntimeFileName is the generated manifest Aseprite reads at load time.
	RuntimeFileName = "extension.json"

	// KeybindingsFileName is the optional keybindings file bundled when present.
	KeybindingsFileName = "extension-keys.aseprite-keys"

	// ScriptExtension is the file extension of bundled scripts.
	ScriptExtension = ".lua"

	// APIVersion is the Aseprite extension API version this toolkit targets.
	APIVersion = "1.3"

	defaultMainScript = "extension.lua"
	defaultVersion    = "1.0.0"
)

// reservedNameChars are characters rejected in extension names because the
// name becomes an install directory and archive filename stem.
const reservedNameChars = `<>:"/\|?*`

// ErrValidation marks manifest or configuration validation failures. These
// are fatal to the running command.
var ErrValidation = errors.New("validation error")

// Manifest is the loaded, validated extension configuration. It is never
// mutated after Load returns it.
type Manifest struct {
	Name        string
	Version     string
	MainScript  string // relative to RootPath
	DisplayName string
	Description string
	Author      string
	Website     string
	Source      string
	License     string
	Categories  []string
	APIVersion  string
	RootPath    string // absolute path to the extension source tree
}

// PackagePath returns the absolute path of the package.json manifest.
func (m *Manifest) PackagePath() string {
	return filepath.Join(m.RootPath, PackageFileName)
}

// KeybindingsPath returns the absolute path of the optional keybindings file.
func (m *Manifest) KeybindingsPath() string {
	return filepath.Join(m.RootPath, KeybindingsFileName)
}

// MainScriptPath returns the absolute path of the entry script.
func (m *Manifest) MainScriptPath() string {
	return filepath.Join(m.RootPath, filepath.FromSlash(m.MainScript))
}

// RuntimePath returns where the generated extension.json lives inside the
// source tree while an archive is being built.
func (m *Manifest) RuntimePath() string {
	return filepath.Join(m.RootPath, RuntimeFileName)
}
