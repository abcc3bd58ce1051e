package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asext-labs/asext/internal/bundle"
	"github.com/asext-labs/asext/internal/manifest"
)

// InfoFileName is the bookkeeping record Aseprite keeps next to an installed
// extension, listing every file the installation owns.
const InfoFileName = "__info.json"

// InfoRecord is the __info.json payload.
type InfoRecord struct {
	InstalledFiles []string `json:"installedFiles"`
}

// writeInfoRecord writes __info.json into the installed folder. The listed
// paths are relative to the extension folder and include the generated
// runtime manifest alongside the copied files.
func (i *Installer) writeInfoRecord(files []string, extensionFolder string) error {
	installed := make([]string, 0, len(files)+1)
	for _, path := range files {
		installed = append(installed, bundle.EntryName(path, i.manifest.RootPath))
	}
	installed = append(installed, manifest.RuntimeFileName)

	data, err := json.MarshalIndent(InfoRecord{InstalledFiles: installed}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", InfoFileName, err)
	}

	infoPath := filepath.Join(extensionFolder, InfoFileName)
	if err := os.WriteFile(infoPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", infoPath, err)
	}
	return nil
}
