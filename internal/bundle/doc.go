// Package bundle resolves the set of files belonging to an extension and
// builds .aseprite-extension archives from it. The file set is recomputed
// from disk on every call so packaging always reflects the current source
// tree.
package bundle
