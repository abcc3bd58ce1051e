package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asext-labs/asext/internal/manifest"
)

// CollectScripts recursively finds all script files under root. An unreadable
// directory or an empty result yields a diagnostic on out, never an error.
func CollectScripts(root string, out io.Writer) []string {
	if _, err := os.Stat(root); err != nil {
		fmt.Fprintf(out, "⚠ extension directory not found: %s\n", root)
		return nil
	}

	var scripts []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Best-effort: skip unreadable subtrees rather than aborting.
			fmt.Fprintf(out, "⚠ skipping inaccessible path %s: %v\n", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), manifest.ScriptExtension) {
			scripts = append(scripts, path)
		}
		return nil
	})
	if walkErr != nil {
		fmt.Fprintf(out, "⚠ error reading extension directory: %v\n", walkErr)
		return nil
	}

	if len(scripts) == 0 {
		fmt.Fprintf(out, "⚠ no %s scripts found in extension directory\n", manifest.ScriptExtension)
	}
	return scripts
}

// Resolve unions the main script, the package.json manifest, all discovered
// scripts, and the keybindings file if it exists, then drops any path that
// does not exist on disk at check time (with a diagnostic). The result is a
// sorted, deduplicated snapshot of absolute paths.
func Resolve(m *manifest.Manifest, scripts []string, out io.Writer) []string {
	candidates := make([]string, 0, len(scripts)+3)
	candidates = append(candidates, m.MainScriptPath(), m.PackagePath())
	candidates = append(candidates, scripts...)
	if _, err := os.Stat(m.KeybindingsPath()); err == nil {
		candidates = append(candidates, m.KeybindingsPath())
	}

	seen := make(map[string]bool, len(candidates))
	var files []string
	for _, path := range candidates {
		clean := filepath.Clean(path)
		if seen[clean] {
			continue
		}
		seen[clean] = true

		if _, err := os.Stat(clean); err != nil {
			fmt.Fprintf(out, "⚠ file not found: %s\n", clean)
			continue
		}
		files = append(files, clean)
	}

	sort.Strings(files)
	return files
}

// EntryName returns the path a file gets inside an archive or installed
// folder: relative to root (forward slashes) when the file lives under root,
// otherwise the bare filename. The installer mirrors this rule on disk.
func EntryName(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
