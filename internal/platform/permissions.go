package platform

import (
	"os"
	"runtime"
)

// Chmod applies mode to path so installed extension scripts keep the
// permission bits of their sources. Windows has no Unix permission bits,
// so it is a no-op there.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
