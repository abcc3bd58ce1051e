package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/asext-labs/asext/internal/manifest"
)

// DefaultDebounce is the minimum interval between accepted reinstall
// triggers when none is configured.
const DefaultDebounce = time.Second

// defaultIgnores lists path patterns that never trigger a reinstall: VCS
// metadata, editor swap files, OS metadata, and archives produced by the
// pack command into the watched tree.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/*.aseprite-extension",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Root is the extension source tree to watch, recursively.
	Root string

	// Install is invoked synchronously for each accepted trigger and
	// reports whether the reinstall succeeded. A failed install is only
	// reported; it is not retried until the next qualifying change.
	Install func() bool

	// Debounce is the minimum time between accepted triggers. Zero or
	// negative values fall back to DefaultDebounce.
	Debounce time.Duration

	// Now is the clock used by the debounce gate. nil defaults to time.Now.
	Now func() time.Time

	// Ignore are additional doublestar glob patterns for paths that should
	// never trigger a reinstall, merged with the built-in defaults.
	Ignore []string

	// Out receives progress and diagnostics. nil defaults to os.Stderr.
	Out io.Writer
}

// Watcher drives debounced reinstalls from filesystem events. Run must be
// called exactly once.
type Watcher struct {
	cfg         Config
	fsw         *fsnotify.Watcher
	ignores     []string
	root        string
	debounce    time.Duration
	now         func() time.Time
	out         io.Writer
	lastTrigger time.Time
	started     atomic.Bool
}

// New creates a Watcher from cfg. It resolves Root to an absolute path,
// initialises the underlying fsnotify watcher, and registers every directory
// under Root for monitoring.
func New(cfg Config) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("watch: root is not a directory: %s", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		root:     root,
		debounce: debounce,
		now:      now,
		out:      out,
	}

	if err := w.addDirectories(); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounce-gated reinstalls. It returns nil on clean context
// cancellation. An install in flight when ctx is cancelled runs to
// completion; only the wait between events is interrupted.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	defer func() {
		if err := w.fsw.Close(); err != nil {
			fmt.Fprintf(w.out, "watch: close fsnotify: %v\n", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			w.handleEvent(evt)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			fmt.Fprintf(w.out, "watch: fsnotify error: %v\n", err)
		}
	}
}

// handleEvent applies ignore filters, extends the watch to new directories,
// and runs the debounce gate for qualifying file changes.
func (w *Watcher) handleEvent(evt fsnotify.Event) {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return
	}

	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		rel = evt.Name
	}
	if w.isIgnored(rel) {
		return
	}

	// Extend the recursive watch to directories created after startup.
	if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
		if evt.Has(fsnotify.Create) {
			if addErr := w.fsw.Add(evt.Name); addErr != nil {
				fmt.Fprintf(w.out, "watch: add new directory %q: %v\n", evt.Name, addErr)
			}
		}
		return
	}

	if !qualifies(evt.Name) {
		return
	}

	now := w.now()
	if now.Sub(w.lastTrigger) < w.debounce {
		return
	}
	// Record the trigger time before installing so events arriving during a
	// slow install are dropped rather than queued.
	w.lastTrigger = now

	fmt.Fprintf(w.out, "\nDetected change: %s\n", filepath.Base(evt.Name))
	if w.cfg.Install != nil && !w.cfg.Install() {
		fmt.Fprintln(w.out, "✗ reinstall failed, watching continues")
	}
}

// qualifies reports whether a change to path should trigger a reinstall:
// script files, the package manifest, and the generated runtime manifest.
func qualifies(path string) bool {
	if strings.EqualFold(filepath.Ext(path), manifest.ScriptExtension) {
		return true
	}
	base := filepath.Base(path)
	return base == manifest.PackageFileName || base == manifest.RuntimeFileName
}

// addDirectories walks the root and adds every non-ignored directory to the
// fsnotify watcher.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(w.out, "watch: skipping inaccessible path %q: %v\n", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// isIgnored reports whether rel (relative to the root) matches any ignore
// pattern.
func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}
