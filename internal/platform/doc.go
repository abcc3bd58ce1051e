// Package platform isolates OS-specific behavior: the per-platform Aseprite
// extensions directory, write-access probing, and permission handling that
// differs between Unix and Windows.
package platform
