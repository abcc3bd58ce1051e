package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// rawPackage mirrors the recognized keys of package.json. Unrecognized keys
// are ignored. Author and contributes keep their raw bytes because both
// accept more than one shape.
type rawPackage struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Author      json.RawMessage `json:"author"`
	License     string          `json:"license"`
	Categories  []string        `json:"categories"`
	Contributes json.RawMessage `json:"contributes"`
}

// Load reads and validates the package.json inside dir and returns the
// extension configuration. All failure modes wrap ErrValidation: dir missing
// or not a directory, package.json absent or not a JSON object, schema
// violations, and a missing, blank, or reserved-character name. Load has no
// side effects beyond reading the manifest file.
func Load(dir string) (*Manifest, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving extension path %s: %v", ErrValidation, dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: extension path does not exist: %s", ErrValidation, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: extension path is not a directory: %s", ErrValidation, root)
	}

	pkgPath := filepath.Join(root, PackageFileName)
	data, err := os.ReadFile(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found at %s", ErrValidation, PackageFileName, pkgPath)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrValidation, pkgPath, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s: %s", ErrValidation, pkgPath, result.Summary())
	}

	var raw rawPackage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrValidation, pkgPath, err)
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: extension name is required in %s", ErrValidation, PackageFileName)
	}
	if strings.ContainsAny(name, reservedNameChars) {
		return nil, fmt.Errorf("%w: extension name contains invalid characters: %s", ErrValidation, reservedNameChars)
	}

	author, website := parseAuthor(raw.Author)

	version := strings.TrimSpace(raw.Version)
	if version == "" {
		version = defaultVersion
	}

	displayName := strings.TrimSpace(raw.DisplayName)
	if displayName == "" {
		displayName = name
	}

	categories := raw.Categories
	if len(categories) == 0 {
		categories = []string{"Scripts"}
	}

	return &Manifest{
		Name:        name,
		Version:     version,
		MainScript:  deriveMainScript(raw.Contributes),
		DisplayName: displayName,
		Description: strings.TrimSpace(raw.Description),
		Author:      strings.TrimSpace(author),
		Website:     strings.TrimSpace(website),
		Source:      strings.TrimSpace(website),
		License:     strings.TrimSpace(raw.License),
		Categories:  categories,
		APIVersion:  APIVersion,
		RootPath:    root,
	}, nil
}

// parseAuthor accepts either a bare string (author name only) or an object
// with name/url fields. Any other shape yields empty strings.
func parseAuthor(raw json.RawMessage) (author, website string) {
	if len(raw) == 0 {
		return "", ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, ""
	}

	var obj struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name, obj.URL
	}

	return "", ""
}

// deriveMainScript returns the entry script declared as the first entry of
// the contributes.scripts list, with any leading "./" stripped. A missing or
// malformed contribution block falls back to the default script name.
func deriveMainScript(raw json.RawMessage) string {
	if len(raw) == 0 {
		return defaultMainScript
	}

	var c struct {
		Scripts []struct {
			Path string `json:"path"`
		} `json:"scripts"`
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return defaultMainScript
	}
	if len(c.Scripts) == 0 {
		return defaultMainScript
	}

	script := strings.TrimLeft(strings.TrimSpace(c.Scripts[0].Path), "./")
	if script == "" {
		return defaultMainScript
	}
	return script
}

// Warnings reports non-fatal issues with the loaded manifest: a version that
// is not valid semver, and a declared main script that does not exist on
// disk. These are advisory only; packaging proceeds regardless.
func (m *Manifest) Warnings() []string {
	var warnings []string

	if _, err := semver.NewVersion(m.Version); err != nil {
		warnings = append(warnings, fmt.Sprintf("version %q is not semantic versioning", m.Version))
	}

	if _, err := os.Stat(m.MainScriptPath()); err != nil {
		warnings = append(warnings, fmt.Sprintf("main script not found: %s", m.MainScriptPath()))
	}

	return warnings
}
