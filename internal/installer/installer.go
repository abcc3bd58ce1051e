package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/asext-labs/asext/internal/bundle"
	"github.com/asext-labs/asext/internal/manifest"
	"github.com/asext-labs/asext/internal/platform"
)

// Installer installs one extension into an extensions directory.
type Installer struct {
	manifest      *manifest.Manifest
	extensionsDir string
	out           io.Writer
}

// New returns an Installer targeting extensionsDir. Diagnostics and progress
// go to out; a nil out defaults to os.Stderr.
func New(m *manifest.Manifest, extensionsDir string, out io.Writer) *Installer {
	if out == nil {
		out = os.Stderr
	}
	return &Installer{manifest: m, extensionsDir: extensionsDir, out: out}
}

// Install copies the extension into the extensions directory and reports
// success. It never returns an error or panics to its caller: every failure
// is written to the diagnostic writer and folded into the boolean result, so
// the watch loop can keep running after a failed reinstall.
//
// The previous installation of the same extension is removed entirely before
// copying begins. Replacement is therefore all-or-nothing with respect to the
// previous version, but not crash-atomic: a crash mid-copy leaves a partial
// new install and no old one.
func (i *Installer) Install() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(i.out, "✗ unexpected error during installation: %v\n", r)
			ok = false
		}
	}()

	if err := os.MkdirAll(i.extensionsDir, 0755); err != nil {
		fmt.Fprintf(i.out, "✗ cannot create extensions folder: %v\n", err)
		return false
	}

	if err := platform.CheckWritable(i.extensionsDir); err != nil {
		fmt.Fprintf(i.out, "✗ %v\n", err)
		return false
	}

	m := i.manifest
	scripts := bundle.CollectScripts(m.RootPath, i.out)

	extensionFolder := filepath.Join(i.extensionsDir, m.Name)
	if _, err := os.Stat(extensionFolder); err == nil {
		if err := os.RemoveAll(extensionFolder); err != nil {
			fmt.Fprintf(i.out, "✗ cannot remove existing extension: %v\n", err)
			return false
		}
	}
	if err := os.MkdirAll(extensionFolder, 0755); err != nil {
		fmt.Fprintf(i.out, "✗ cannot create extension folder: %v\n", err)
		return false
	}

	files := bundle.Resolve(m, scripts, i.out)
	if !i.copyFiles(files, extensionFolder) {
		return false
	}

	runtimePath := filepath.Join(extensionFolder, manifest.RuntimeFileName)
	if err := m.WriteRuntimeFile(runtimePath); err != nil {
		fmt.Fprintf(i.out, "⚠ failed to create %s: %v\n", manifest.RuntimeFileName, err)
	}

	if err := i.writeInfoRecord(files, extensionFolder); err != nil {
		fmt.Fprintf(i.out, "⚠ failed to create %s: %v\n", InfoFileName, err)
	}

	fmt.Fprintf(i.out, "✓ extension %s installed to %s\n", m.Name, extensionFolder)
	return true
}

// copyFiles copies each resolved file into target, preserving the path
// relative to the source root. A single file's failure is logged and flips
// the result but does not abort the remaining copies.
func (i *Installer) copyFiles(files []string, target string) bool {
	success := true

	for _, path := range files {
		dst := filepath.Join(target, filepath.FromSlash(bundle.EntryName(path, i.manifest.RootPath)))
		if err := copyFile(path, dst); err != nil {
			fmt.Fprintf(i.out, "⚠ failed to copy %s: %v\n", filepath.Base(path), err)
			success = false
			continue
		}
	}

	return success
}

// copyFile copies src to dst, creating parent directories and preserving the
// source file's permissions and modification time.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return err
	}
	if err := platform.Chmod(dst, srcInfo.Mode()); err != nil {
		return err
	}

	// Preserve mtime so Aseprite's reload detection sees the original stamp.
	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}
