package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// probeFileName is the marker file created and immediately deleted by
// CheckWritable. The leading dot keeps it out of casual directory listings
// if a crash ever leaves one behind.
const probeFileName = ".write_test"

// CheckWritable verifies write access to dir by creating and deleting a
// probe file. It surfaces permission problems before any destructive
// operation begins.
func CheckWritable(dir string) error {
	probe := filepath.Join(dir, probeFileName)

	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("no write access to %s: %w", dir, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing probe file in %s: %w", dir, err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("removing probe file in %s: %w", dir, err)
	}
	return nil
}
