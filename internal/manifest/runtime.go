package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// RuntimeManifest is the extension.json record Aseprite reads when loading
// an installed extension. It is derived from the Manifest at package or
// install time and never persisted in the extension's own source tree.
type RuntimeManifest struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Website     string   `json:"website"`
	Source      string   `json:"source"`
	License     string   `json:"license"`
	Categories  []string `json:"categories"`
	APIVersion  string   `json:"apiVersion"`
	Main        string   `json:"main"`
}

// Runtime derives the extension.json record from the manifest. The same
// manifest always produces the same record.
func (m *Manifest) Runtime() *RuntimeManifest {
	return &RuntimeManifest{
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Version:     m.Version,
		Description: m.Description,
		Author:      m.Author,
		Website:     m.Website,
		Source:      m.Source,
		License:     m.License,
		Categories:  m.Categories,
		APIVersion:  m.APIVersion,
		Main:        "./" + m.MainScript,
	}
}

// WriteRuntimeFile writes the derived runtime manifest to path as indented JSON.
func (m *Manifest) WriteRuntimeFile(path string) error {
	data, err := json.MarshalIndent(m.Runtime(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", RuntimeFileName, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
