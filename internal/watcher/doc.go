// Package watcher subscribes to filesystem change notifications under an
// extension's source tree and triggers reinstallation when relevant files
// change. Triggers are gated by a debounce timestamp that is recorded before
// the install runs, so a slow install drops events instead of queueing them.
package watcher
