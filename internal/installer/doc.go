// Package installer copies a resolved extension file set into the Aseprite
// extensions directory, replacing any prior installation of the same
// extension, and writes the generated extension.json and __info.json records
// Aseprite expects alongside the installed files.
package installer
