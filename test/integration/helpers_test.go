//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	SourceDir     string // extension source tree
	ExtensionsDir string // ASEXT_EXTENSIONS_DIR — install target
	OutputDir     string // archive output directory
}

// setupTestEnv creates isolated temp directories and points the extensions
// directory override at the sandbox so no real Aseprite install is touched.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		SourceDir:     t.TempDir(),
		ExtensionsDir: t.TempDir(),
		OutputDir:     t.TempDir(),
	}
	t.Setenv("ASEXT_EXTENSIONS_DIR", env.ExtensionsDir)
	return env
}

// writeSampleExtension populates the source dir with a small but complete
// extension: manifest, entry script, a nested script, and keybindings.
func writeSampleExtension(t *testing.T, dir, name, version string) {
	t.Helper()

	files := map[string]string{
		"package.json": `{
			"name": "` + name + `",
			"version": "` + version + `",
			"displayName": "Sample",
			"author": {"name": "Tester", "url": "https://example.test"},
			"contributes": {"scripts": [{"path": "./extension.lua"}]}
		}`,
		"extension.lua":                "-- entry\n",
		"lib/palette.lua":              "-- helper\n",
		"extension-keys.aseprite-keys": "<keyboard version=\"1\"/>\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent", path)
	}
}
