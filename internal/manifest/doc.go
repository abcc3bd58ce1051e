// Package manifest handles loading and validation of Aseprite extension
// package.json manifests, and derives the extension.json runtime manifest
// that Aseprite itself reads. Loaded manifests are immutable snapshots of
// the on-disk file.
package manifest
