package bundle

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/asext-labs/asext/internal/manifest"
	"github.com/asext-labs/asext/internal/platform"
)

// ArchiveExtension is the suffix of produced extension archives.
const ArchiveExtension = ".aseprite-extension"

// ErrFileOperation marks archive and filesystem failures that are fatal to
// the running command.
var ErrFileOperation = errors.New("file operation error")

// ArchiveOptions controls archive naming and placement.
type ArchiveOptions struct {
	// OutputDir receives the archive. Empty means the extension root.
	// A non-empty directory is created if missing.
	OutputDir string

	// CustomName overrides the manifest name as the filename stem.
	CustomName string
}

// BuildArchive resolves the extension's file set and writes it, together
// with a freshly generated extension.json, into a deflate-compressed
// {name}-{version}.aseprite-extension archive. The generated extension.json
// is written into the source root only for the duration of the build and is
// removed on every exit path. Returns the absolute path of the archive.
func BuildArchive(m *manifest.Manifest, opts ArchiveOptions, out io.Writer) (string, error) {
	scripts := CollectScripts(m.RootPath, out)
	files := Resolve(m, scripts, out)
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no files to package, check your extension structure", ErrFileOperation)
	}

	stem := opts.CustomName
	if stem == "" {
		stem = m.Name
	}
	outputName := fmt.Sprintf("%s-%s%s", stem, m.Version, ArchiveExtension)

	outputDir := m.RootPath
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("%w: cannot create output directory: %v", ErrFileOperation, err)
		}
		outputDir = opts.OutputDir
	}

	if err := platform.CheckWritable(outputDir); err != nil {
		return "", fmt.Errorf("%w: cannot write to output location: %v", ErrFileOperation, err)
	}

	outputPath, err := filepath.Abs(filepath.Join(outputDir, outputName))
	if err != nil {
		return "", fmt.Errorf("%w: resolving output path: %v", ErrFileOperation, err)
	}

	// The runtime manifest lives in the source root only while the archive
	// is written; it must not persist there afterwards.
	tempRuntime := m.RuntimePath()
	if err := m.WriteRuntimeFile(tempRuntime); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	defer os.Remove(tempRuntime)

	files = append(files, tempRuntime)

	fmt.Fprintf(out, "Packaging %d files into %s\n", len(files), outputName)

	if err := writeZip(files, outputPath, m.RootPath, out); err != nil {
		return "", err
	}

	return outputPath, nil
}

// writeZip writes files into a max-compression zip at outputPath. A failure
// to add one entry is logged and skipped; a failure of the archive itself
// removes the partial output file and returns ErrFileOperation.
func writeZip(files []string, outputPath, root string, out io.Writer) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: creating archive %s: %v", ErrFileOperation, outputPath, err)
	}

	defer func() {
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, path := range files {
		if addErr := addEntry(zw, path, root); addErr != nil {
			fmt.Fprintf(out, "  ⚠ skipping %s: %v\n", filepath.Base(path), addErr)
			continue
		}
		fmt.Fprintf(out, "  %s -> %s\n", filepath.Base(path), EntryName(path, root))
	}

	if cerr := zw.Close(); cerr != nil {
		f.Close()
		return fmt.Errorf("%w: finalizing archive: %v", ErrFileOperation, cerr)
	}
	if cerr := f.Close(); cerr != nil {
		return fmt.Errorf("%w: closing archive: %v", ErrFileOperation, cerr)
	}
	return nil
}

// addEntry writes one file into the archive under its entry name.
func addEntry(zw *zip.Writer, path, root string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = EntryName(path, root)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)
	return err
}

// CleanPrevious removes stale *.aseprite-extension archives from the
// extension root. Failures are reported on out and never fatal.
func CleanPrevious(root string, out io.Writer) {
	matches, err := filepath.Glob(filepath.Join(root, "*"+ArchiveExtension))
	if err != nil || len(matches) == 0 {
		return
	}

	fmt.Fprintln(out, "Cleaning previous builds...")
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(out, "  ⚠ failed to remove %s: %v\n", filepath.Base(path), err)
			continue
		}
		fmt.Fprintf(out, "  removed %s\n", filepath.Base(path))
	}
}
