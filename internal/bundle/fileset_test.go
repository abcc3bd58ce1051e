package bundle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asext-labs/asext/internal/manifest"
)

// setupExtension writes an extension source tree and loads its manifest.
func setupExtension(t *testing.T, files map[string]string) *manifest.Manifest {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return m
}

func entryNames(files []string, root string) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, EntryName(f, root))
	}
	return names
}

func TestCollectScripts_Recursive(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":       `{"name": "s"}`,
		"extension.lua":      "--",
		"tools/brush.lua":    "--",
		"tools/deep/sel.lua": "--",
		"README.md":          "not a script",
	})

	var out bytes.Buffer
	scripts := CollectScripts(m.RootPath, &out)
	if len(scripts) != 3 {
		t.Fatalf("CollectScripts found %d scripts, want 3: %v", len(scripts), scripts)
	}
	for _, s := range scripts {
		if filepath.Ext(s) != ".lua" {
			t.Errorf("non-script collected: %s", s)
		}
	}
}

func TestCollectScripts_MissingDir(t *testing.T) {
	var out bytes.Buffer
	scripts := CollectScripts(filepath.Join(t.TempDir(), "gone"), &out)
	if scripts != nil {
		t.Errorf("expected nil for missing directory, got %v", scripts)
	}
	if out.Len() == 0 {
		t.Error("expected a diagnostic for missing directory")
	}
}

func TestCollectScripts_Empty(t *testing.T) {
	m := setupExtension(t, map[string]string{"package.json": `{"name": "e"}`})

	var out bytes.Buffer
	scripts := CollectScripts(m.RootPath, &out)
	if len(scripts) != 0 {
		t.Errorf("expected no scripts, got %v", scripts)
	}
	if !strings.Contains(out.String(), "no .lua scripts") {
		t.Errorf("expected diagnostic, got %q", out.String())
	}
}

func TestResolve_OnlyExistingFiles(t *testing.T) {
	// Manifest declares a main script that does not exist on disk.
	m := setupExtension(t, map[string]string{
		"package.json": `{"name": "r", "contributes": {"scripts": [{"path": "./ghost.lua"}]}}`,
		"real.lua":     "--",
	})

	var out bytes.Buffer
	files := Resolve(m, CollectScripts(m.RootPath, &out), &out)

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("resolved file does not exist: %s", f)
		}
	}

	names := entryNames(files, m.RootPath)
	want := []string{"package.json", "real.lua"}
	if len(names) != len(want) {
		t.Fatalf("resolved %v, want %v", names, want)
	}
	if !strings.Contains(out.String(), "ghost.lua") {
		t.Errorf("expected diagnostic for missing main script, got %q", out.String())
	}
}

func TestResolve_IncludesKeybindings(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":                 `{"name": "k"}`,
		"extension.lua":                "--",
		"extension-keys.aseprite-keys": "<keyboard/>",
	})

	var out bytes.Buffer
	files := Resolve(m, CollectScripts(m.RootPath, &out), &out)

	found := false
	for _, name := range entryNames(files, m.RootPath) {
		if name == manifest.KeybindingsFileName {
			found = true
		}
	}
	if !found {
		t.Errorf("keybindings file missing from resolved set: %v", files)
	}
}

func TestResolve_Deduplicates(t *testing.T) {
	// The main script is also discovered by the recursive scan; it must
	// appear once.
	m := setupExtension(t, map[string]string{
		"package.json":  `{"name": "d"}`,
		"extension.lua": "--",
	})

	var out bytes.Buffer
	scripts := CollectScripts(m.RootPath, &out)
	files := Resolve(m, scripts, &out)

	seen := map[string]int{}
	for _, f := range files {
		seen[f]++
	}
	for f, n := range seen {
		if n > 1 {
			t.Errorf("path %s resolved %d times", f, n)
		}
	}
}

func TestEntryName(t *testing.T) {
	root := filepath.Join("/", "ext", "src")
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(root, "extension.lua"), "extension.lua"},
		{filepath.Join(root, "tools", "brush.lua"), "tools/brush.lua"},
		{filepath.Join("/", "elsewhere", "loose.lua"), "loose.lua"},
	}

	for _, tt := range tests {
		if got := EntryName(tt.path, root); got != tt.want {
			t.Errorf("EntryName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
