package installer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
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

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var names []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)
	return names
}

func TestInstall_EmptyTarget(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":  `{"name": "foo", "version": "2.0.0"}`,
		"extension.lua": "-- entry",
	})
	target := t.TempDir()

	var out bytes.Buffer
	inst := New(m, target, &out)
	if !inst.Install() {
		t.Fatalf("Install failed: %s", out.String())
	}

	got := listFiles(t, filepath.Join(target, "foo"))
	want := []string{"__info.json", "extension.json", "extension.lua", "package.json"}
	if len(got) != len(want) {
		t.Fatalf("installed files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("installed files = %v, want %v", got, want)
		}
	}
}

func TestInstall_InfoRecord(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":                 `{"name": "info"}`,
		"extension.lua":                "--",
		"tools/sel.lua":                "--",
		"extension-keys.aseprite-keys": "<keyboard/>",
	})
	target := t.TempDir()

	var out bytes.Buffer
	if !New(m, target, &out).Install() {
		t.Fatalf("Install failed: %s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(target, "info", InfoFileName))
	if err != nil {
		t.Fatalf("reading %s: %v", InfoFileName, err)
	}

	var record InfoRecord
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("%s is not valid JSON: %v", InfoFileName, err)
	}

	sort.Strings(record.InstalledFiles)
	want := []string{"extension-keys.aseprite-keys", "extension.json", "extension.lua", "package.json", "tools/sel.lua"}
	if len(record.InstalledFiles) != len(want) {
		t.Fatalf("installedFiles = %v, want %v", record.InstalledFiles, want)
	}
	for i := range want {
		if record.InstalledFiles[i] != want[i] {
			t.Fatalf("installedFiles = %v, want %v", record.InstalledFiles, want)
		}
	}
}

func TestInstall_ReplacesPrevious(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":  `{"name": "idem"}`,
		"extension.lua": "--",
	})
	target := t.TempDir()

	// A prior differently-shaped install left a stray file behind.
	prior := filepath.Join(target, "idem")
	if err := os.MkdirAll(prior, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(prior, "stale.lua"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if !New(m, target, &out).Install() {
		t.Fatalf("Install failed: %s", out.String())
	}

	first := listFiles(t, prior)
	for _, f := range first {
		if f == "stale.lua" {
			t.Fatal("stale file from previous install survived")
		}
	}

	// Installing again must leave exactly the same file set.
	if !New(m, target, &out).Install() {
		t.Fatalf("second Install failed: %s", out.String())
	}
	second := listFiles(t, prior)
	if len(first) != len(second) {
		t.Errorf("second install produced %v, first produced %v", second, first)
	}
}

func TestInstall_PreservesRelativeLayout(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":       `{"name": "deep", "contributes": {"scripts": [{"path": "./src/main.lua"}]}}`,
		"src/main.lua":       "--",
		"src/util/color.lua": "--",
	})
	target := t.TempDir()

	var out bytes.Buffer
	if !New(m, target, &out).Install() {
		t.Fatalf("Install failed: %s", out.String())
	}

	for _, rel := range []string{"src/main.lua", "src/util/color.lua"} {
		if _, err := os.Stat(filepath.Join(target, "deep", filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s in installed tree: %v", rel, err)
		}
	}
}

func TestInstall_TargetNotCreatable(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":  `{"name": "fail"}`,
		"extension.lua": "--",
	})

	// Target path has an existing file where a directory is needed.
	blocked := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(blocked, "extensions")

	var out bytes.Buffer
	if New(m, target, &out).Install() {
		t.Fatal("Install reported success against an uncreatable target")
	}
	if out.Len() == 0 {
		t.Error("expected a diagnostic")
	}
}

func TestInstall_RuntimeManifestContent(t *testing.T) {
	m := setupExtension(t, map[string]string{
		"package.json":  `{"name": "rt", "version": "1.5.0", "author": "A"}`,
		"extension.lua": "--",
	})
	target := t.TempDir()

	var out bytes.Buffer
	if !New(m, target, &out).Install() {
		t.Fatalf("Install failed: %s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(target, "rt", manifest.RuntimeFileName))
	if err != nil {
		t.Fatal(err)
	}
	var rt manifest.RuntimeManifest
	if err := json.Unmarshal(data, &rt); err != nil {
		t.Fatal(err)
	}
	if rt.Name != "rt" || rt.Version != "1.5.0" || rt.Main != "./extension.lua" {
		t.Errorf("runtime manifest = %+v", rt)
	}
}
